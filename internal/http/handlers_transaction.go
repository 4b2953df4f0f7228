package http

import (
	"fmt"
	"net/http"
	"time"

	"tally/internal/core"
)

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.transactionFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.transactions.CreateTransaction(r.Context(), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAnalytics()
	writeJSON(w, http.StatusCreated, s.toTransactionResponse(created))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.transactions.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toTransactionResponse(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := s.transactionFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	t.ID = r.PathValue("id")
	if err := s.transactions.UpdateTransaction(r.Context(), t); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAnalytics()
	writeJSON(w, http.StatusOK, s.toTransactionResponse(t))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.invalidateAnalytics()
	w.WriteHeader(http.StatusNoContent)
}

// handleListTransactions supports filtering by category, type, and date
// range. Filters are mutually exclusive; category wins, then type, then
// range.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		txs []core.Transaction
		err error
	)
	switch {
	case q.Get("category") != "":
		txs, err = s.transactions.ListByCategory(r.Context(), core.Category(q.Get("category")))
	case q.Get("type") != "":
		switch q.Get("type") {
		case "income":
			txs, err = s.transactions.ListByType(r.Context(), true)
		case "expense":
			txs, err = s.transactions.ListByType(r.Context(), false)
		default:
			writeError(w, r, fmt.Errorf("%w: type must be 'income' or 'expense'", core.ErrValidationFailed))
			return
		}
	case q.Get("from") != "" || q.Get("to") != "":
		var from, to time.Time
		if from, err = parseDate(q.Get("from")); err != nil {
			writeError(w, r, err)
			return
		}
		if to, err = parseDate(q.Get("to")); err != nil {
			writeError(w, r, err)
			return
		}
		txs, err = s.transactions.ListByDateRange(r.Context(), from, to)
	default:
		txs, err = s.transactions.ListTransactions(r.Context())
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, t := range txs {
		out = append(out, s.toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) transactionFromRequest(req transactionRequest) (core.Transaction, error) {
	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrValidationFailed, err)
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		Title:        sanitizeInput(req.Title),
		Subtitle:     sanitizeInput(req.Subtitle),
		Amount:       core.Money{Cents: cents},
		IsIncome:     req.IsIncome,
		Category:     core.Category(sanitizeInput(req.Category)),
		Date:         date,
		LinkedGoalID: req.LinkedGoalID,
	}, nil
}
