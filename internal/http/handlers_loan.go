package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"tally/internal/core"
)

func (s *Server) handleCreateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := loanFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.loans.CreateLoan(r.Context(), l)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toLoanResponse(created, time.Now()))
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	l, err := s.loans.GetLoan(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toLoanResponse(l, time.Now()))
}

func (s *Server) handleUpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	l, err := loanFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l.ID = r.PathValue("id")
	if err := s.loans.UpdateLoan(r.Context(), l); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toLoanResponse(l, time.Now()))
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	if err := s.loans.DeleteLoan(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	var (
		loans []core.Loan
		err   error
	)
	if status := r.URL.Query().Get("status"); status != "" {
		loans, err = s.loans.ListLoansByStatus(r.Context(), core.LoanStatus(status))
	} else {
		loans, err = s.loans.ListLoans(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	now := time.Now()
	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, s.toLoanResponse(l, now))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLoanPayment(w http.ResponseWriter, r *http.Request) {
	var req loanPaymentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrValidationFailed, err))
		return
	}
	l, err := s.loans.RecordPayment(r.Context(), r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toLoanResponse(l, time.Now()))
}

// handleUpcomingLoanPayments lists active loans due within the window.
// Query param: days (default 30).
func (s *Server) handleUpcomingLoanPayments(w http.ResponseWriter, r *http.Request) {
	days := 30
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, r, fmt.Errorf("%w: days must be a positive integer", core.ErrValidationFailed))
			return
		}
		days = v
	}
	now := time.Now()
	payments, err := s.analytics.UpcomingLoanPayments(r.Context(), now, time.Duration(days)*24*time.Hour)
	if err != nil {
		writeError(w, r, err)
		return
	}
	type upcomingPayment struct {
		Loan    loanResponse `json:"loan"`
		DueDate time.Time    `json:"due_date"`
	}
	out := make([]upcomingPayment, 0, len(payments))
	for _, p := range payments {
		out = append(out, upcomingPayment{Loan: s.toLoanResponse(p.Loan, now), DueDate: p.DueDate})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLoanSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.loans.Summary(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toLoanSummaryResponse(sum))
}

// parseBalance accepts zero, unlike regular amounts. A paid off loan has
// nothing left on it.
func parseBalance(s string) (int64, error) {
	if strings.Trim(strings.TrimSpace(s), "0.,") == "" {
		return 0, nil
	}
	return core.ParseDecimalToCents(s)
}

func loanFromRequest(req loanRequest) (core.Loan, error) {
	original, err := core.ParseDecimalToCents(req.Original)
	if err != nil {
		return core.Loan{}, fmt.Errorf("%w: original amount: %v", core.ErrValidationFailed, err)
	}
	balance, err := parseBalance(req.CurrentBalance)
	if err != nil {
		return core.Loan{}, fmt.Errorf("%w: current balance: %v", core.ErrValidationFailed, err)
	}
	payment, err := core.ParseDecimalToCents(req.MonthlyPayment)
	if err != nil {
		return core.Loan{}, fmt.Errorf("%w: monthly payment: %v", core.ErrValidationFailed, err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.Loan{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return core.Loan{}, err
	}
	return core.Loan{
		Name:           sanitizeInput(req.Name),
		Lender:         sanitizeInput(req.Lender),
		Original:       core.Money{Cents: original},
		CurrentBalance: core.Money{Cents: balance},
		InterestRate:   req.InterestRate,
		MonthlyPayment: core.Money{Cents: payment},
		StartDate:      start,
		EndDate:        end,
		Type:           core.LoanType(req.Type),
		Status:         core.LoanStatus(req.Status),
	}, nil
}
