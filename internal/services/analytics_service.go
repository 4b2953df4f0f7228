package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"tally/internal/core"
	"tally/internal/notify"
	"tally/internal/storage"
)

// AnalyticsService derives the read-only aggregates: balance history,
// recurring-expense normalization, income projections, and upcoming bills.
type AnalyticsService struct {
	transactions storage.TransactionRepository
	loans        storage.LoanRepository
	notifier     *notify.Center
}

func NewAnalyticsService(
	transactions storage.TransactionRepository,
	loans storage.LoanRepository,
	notifier *notify.Center,
) *AnalyticsService {
	return &AnalyticsService{
		transactions: transactions,
		loans:        loans,
		notifier:     notifier,
	}
}

// BalanceSeries builds the balance-over-time samples for a window.
// startingBalance is the account balance at the window start.
func (s *AnalyticsService) BalanceSeries(ctx context.Context, startingBalance core.Money, from, to time.Time) ([]core.BalanceSample, error) {
	txs, err := s.transactions.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load transactions for series: %w", err)
	}
	return core.BalanceSeries(startingBalance, txs, from, to), nil
}

// MonthlyExpenses returns the recurring-normalized monthly expense total
// and its per-category breakdown, in currency units.
func (s *AnalyticsService) MonthlyExpenses(ctx context.Context, now time.Time) (float64, map[core.Category]float64, error) {
	txs, err := s.transactions.ListTransactions(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("load transactions: %w", err)
	}
	return core.MonthlyExpenseTotal(txs, now), core.MonthlyExpensesByCategory(txs, now), nil
}

// ProjectIncome computes income projections for every time scale from a
// work schedule, using live expense and loan figures.
func (s *AnalyticsService) ProjectIncome(ctx context.Context, schedule, projected core.WorkSchedule, now time.Time) ([]core.IncomeProjection, error) {
	expenses, _, err := s.MonthlyExpenses(ctx, now)
	if err != nil {
		return nil, err
	}

	loans, err := s.loans.ListLoansByStatus(ctx, core.LoanActive)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}
	var monthlyLoans float64
	for _, l := range loans {
		monthlyLoans += l.MonthlyPayment.Units()
	}

	in := core.ProjectionInput{
		Schedule:          schedule,
		ProjectedSchedule: projected,
		MonthlyExpenses:   expenses,
		MonthlyLoans:      monthlyLoans,
	}
	return core.ProjectAllScales(in), nil
}

// UpcomingBills finds recurring expenses due within the window and raises
// one upcoming-bill notification per transaction. It returns the bills it
// found, soonest first.
func (s *AnalyticsService) UpcomingBills(ctx context.Context, now time.Time, window time.Duration) ([]UpcomingBill, error) {
	txs, err := s.transactions.ListByType(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}

	cutoff := now.Add(window)
	var bills []UpcomingBill
	for _, t := range txs {
		due, ok := core.NextOccurrence(t, now)
		if !ok || due.After(cutoff) {
			continue
		}
		bills = append(bills, UpcomingBill{Transaction: t, DueDate: due})
	}

	sort.Slice(bills, func(i, j int) bool { return bills[i].DueDate.Before(bills[j].DueDate) })

	if s.notifier != nil {
		for _, b := range bills {
			s.notifier.Add(notify.Item{
				Type:                 notify.TypeUpcomingBill,
				Title:                "Upcoming bill",
				Message:              fmt.Sprintf("%s (%.2f) due %s", b.Transaction.Title, b.Transaction.Amount.Units(), b.DueDate.Format("Jan 2")),
				RelatedTransactionID: b.Transaction.ID,
			})
		}
	}

	return bills, nil
}

type UpcomingBill struct {
	Transaction core.Transaction
	DueDate     time.Time
}

// UpcomingLoanPayments finds active loans with a payment due within the
// window, soonest first, raising one notification per loan.
func (s *AnalyticsService) UpcomingLoanPayments(ctx context.Context, now time.Time, window time.Duration) ([]UpcomingLoanPayment, error) {
	loans, err := s.loans.ListLoansByStatus(ctx, core.LoanActive)
	if err != nil {
		return nil, fmt.Errorf("load active loans: %w", err)
	}

	cutoff := now.Add(window)
	var payments []UpcomingLoanPayment
	for _, l := range loans {
		due := l.NextPaymentDate(now)
		if due.IsZero() || due.After(cutoff) {
			continue
		}
		payments = append(payments, UpcomingLoanPayment{Loan: l, DueDate: due})
	}

	sort.Slice(payments, func(i, j int) bool { return payments[i].DueDate.Before(payments[j].DueDate) })

	if s.notifier != nil {
		for _, p := range payments {
			s.notifier.Add(notify.Item{
				Type:    notify.TypeUpcomingBill,
				Title:   "Loan payment due",
				Message: fmt.Sprintf("%s payment (%.2f) due %s", p.Loan.Name, p.Loan.MonthlyPayment.Units(), p.DueDate.Format("Jan 2")),
			})
		}
	}

	return payments, nil
}

type UpcomingLoanPayment struct {
	Loan    core.Loan
	DueDate time.Time
}
