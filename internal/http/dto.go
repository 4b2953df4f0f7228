package http

import (
	"time"

	"tally/internal/core"
	"tally/internal/notify"
	"tally/internal/services"
)

// Amounts travel as decimal strings on the way in (parsed with the same
// rules as the entry form) and as cents plus a formatted string on the
// way out.

type transactionRequest struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle"`
	Amount       string `json:"amount"`
	IsIncome     bool   `json:"is_income"`
	Category     string `json:"category"`
	Date         string `json:"date"`
	LinkedGoalID string `json:"linked_goal_id"`
}

type transactionResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	AmountCents  int64     `json:"amount_cents"`
	Amount       string    `json:"amount"`
	IsIncome     bool      `json:"is_income"`
	Category     string    `json:"category"`
	Date         time.Time `json:"date"`
	LinkedGoalID string    `json:"linked_goal_id,omitempty"`
}

type budgetRequest struct {
	Category  string `json:"category"`
	Allocated string `json:"allocated"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Period    string `json:"period"`
}

type budgetResponse struct {
	ID             string    `json:"id"`
	Category       string    `json:"category"`
	AllocatedCents int64     `json:"allocated_cents"`
	SpentCents     int64     `json:"spent_cents"`
	RemainingCents int64     `json:"remaining_cents"`
	Remaining      string    `json:"remaining"`
	Progress       float64   `json:"progress"`
	Status         string    `json:"status"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Period         string    `json:"period"`
}

type goalRequest struct {
	Name       string `json:"name"`
	Target     string `json:"target"`
	TargetDate string `json:"target_date"`
	Notes      string `json:"notes"`
	Icon       string `json:"icon"`
}

type goalResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	TargetCents int64     `json:"target_cents"`
	SavedCents  int64     `json:"saved_cents"`
	Target      string    `json:"target"`
	Saved       string    `json:"saved"`
	Progress    float64   `json:"progress_percent"`
	TargetDate  time.Time `json:"target_date"`
	Notes       string    `json:"notes,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Completed   bool      `json:"completed"`
}

type goalProgressRequest struct {
	Amount string `json:"amount"`
}

type loanRequest struct {
	Name           string  `json:"name"`
	Lender         string  `json:"lender"`
	Original       string  `json:"original"`
	CurrentBalance string  `json:"current_balance"`
	InterestRate   float64 `json:"interest_rate"`
	MonthlyPayment string  `json:"monthly_payment"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Type           string  `json:"type"`
	Status         string  `json:"status"`
}

type loanResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Lender              string    `json:"lender,omitempty"`
	OriginalCents       int64     `json:"original_cents"`
	CurrentBalanceCents int64     `json:"current_balance_cents"`
	CurrentBalance      string    `json:"current_balance"`
	InterestRate        float64   `json:"interest_rate"`
	MonthlyPaymentCents int64     `json:"monthly_payment_cents"`
	ProgressPercent     float64   `json:"progress_percent"`
	NextPaymentDate     time.Time `json:"next_payment_date"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	Type                string    `json:"type"`
	Status              string    `json:"status"`
}

type loanPaymentRequest struct {
	Amount string `json:"amount"`
}

type loanSummaryResponse struct {
	ActiveLoans              int        `json:"active_loans"`
	PaidOffLoans             int        `json:"paid_off_loans"`
	TotalDebtCents           int64      `json:"total_debt_cents"`
	TotalDebt                string     `json:"total_debt"`
	TotalMonthlyPayments     string     `json:"total_monthly_payments"`
	AverageInterestRate      float64    `json:"average_interest_rate"`
	TotalPaidOffCents        int64      `json:"total_paid_off_cents"`
	NextPaymentDate          *time.Time `json:"next_payment_date,omitempty"`
	TotalMonthlyPaymentCents int64      `json:"total_monthly_payment_cents"`
}

type notificationResponse struct {
	ID                   string    `json:"id"`
	Type                 string    `json:"type"`
	Title                string    `json:"title"`
	Message              string    `json:"message"`
	Date                 time.Time `json:"date"`
	IsRead               bool      `json:"is_read"`
	RelatedTransactionID string    `json:"related_transaction_id,omitempty"`
	RelatedGoalID        string    `json:"related_goal_id,omitempty"`
}

func (s *Server) toTransactionResponse(t core.Transaction) transactionResponse {
	return transactionResponse{
		ID:           t.ID,
		Title:        t.Title,
		Subtitle:     t.Subtitle,
		AmountCents:  t.Amount.Cents,
		Amount:       s.formatMoney(t.Amount),
		IsIncome:     t.IsIncome,
		Category:     string(t.Category),
		Date:         t.Date,
		LinkedGoalID: t.LinkedGoalID,
	}
}

func (s *Server) toBudgetResponse(p services.BudgetProgress) budgetResponse {
	b := p.Budget
	return budgetResponse{
		ID:             b.ID,
		Category:       string(b.Category),
		AllocatedCents: b.Allocated.Cents,
		SpentCents:     b.Spent.Cents,
		RemainingCents: p.Remaining.Cents,
		Remaining:      s.formatMoney(p.Remaining),
		Progress:       p.Progress,
		Status:         string(p.Status),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		Period:         string(b.Period),
	}
}

func (s *Server) toGoalResponse(g core.Goal) goalResponse {
	return goalResponse{
		ID:          g.ID,
		Name:        g.Name,
		TargetCents: g.Target.Cents,
		SavedCents:  g.Saved.Cents,
		Target:      s.formatMoney(g.Target),
		Saved:       s.formatMoney(g.Saved),
		Progress:    g.ProgressPercentage(),
		TargetDate:  g.TargetDate,
		Notes:       g.Notes,
		Icon:        g.Icon,
		Completed:   g.Completed,
	}
}

func (s *Server) toLoanResponse(l core.Loan, now time.Time) loanResponse {
	return loanResponse{
		ID:                  l.ID,
		Name:                l.Name,
		Lender:              l.Lender,
		OriginalCents:       l.Original.Cents,
		CurrentBalanceCents: l.CurrentBalance.Cents,
		CurrentBalance:      s.formatMoney(l.CurrentBalance),
		InterestRate:        l.InterestRate,
		MonthlyPaymentCents: l.MonthlyPayment.Cents,
		ProgressPercent:     l.ProgressPercentage(),
		NextPaymentDate:     l.NextPaymentDate(now),
		StartDate:           l.StartDate,
		EndDate:             l.EndDate,
		Type:                string(l.Type),
		Status:              string(l.Status),
	}
}

func (s *Server) toLoanSummaryResponse(sum core.LoanSummary) loanSummaryResponse {
	return loanSummaryResponse{
		ActiveLoans:              sum.ActiveLoans,
		PaidOffLoans:             sum.PaidOffLoans,
		TotalDebtCents:           sum.TotalDebt.Cents,
		TotalDebt:                s.formatMoney(sum.TotalDebt),
		TotalMonthlyPayments:     s.formatMoney(sum.TotalMonthlyPayments),
		TotalMonthlyPaymentCents: sum.TotalMonthlyPayments.Cents,
		AverageInterestRate:      sum.AverageInterestRate,
		TotalPaidOffCents:        sum.TotalPaidOff.Cents,
		NextPaymentDate:          sum.NextPaymentDate,
	}
}

func toNotificationResponse(it notify.Item) notificationResponse {
	return notificationResponse{
		ID:                   it.ID,
		Type:                 string(it.Type),
		Title:                it.Title,
		Message:              it.Message,
		Date:                 it.Date,
		IsRead:               it.IsRead,
		RelatedTransactionID: it.RelatedTransactionID,
		RelatedGoalID:        it.RelatedGoalID,
	}
}
