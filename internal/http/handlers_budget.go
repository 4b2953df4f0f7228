package http

import (
	"fmt"
	"net/http"

	"tally/internal/core"
	"tally/internal/services"
)

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := budgetFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.budgets.CreateBudget(r.Context(), b)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.progressCache.Delete(budgetProgressKey)
	writeJSON(w, http.StatusCreated, s.toBudgetResponse(services.NewBudgetProgress(created)))
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	b, err := s.budgets.GetBudget(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toBudgetResponse(services.NewBudgetProgress(b)))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := budgetFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	b.ID = r.PathValue("id")
	if err := s.budgets.UpdateBudget(r.Context(), b); err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.budgets.RecomputeSpent(r.Context(), b.Category); err != nil {
		writeError(w, r, err)
		return
	}
	s.progressCache.Delete(budgetProgressKey)
	updated, err := s.budgets.GetBudget(r.Context(), b.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toBudgetResponse(services.NewBudgetProgress(updated)))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.DeleteBudget(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.progressCache.Delete(budgetProgressKey)
	w.WriteHeader(http.StatusNoContent)
}

// handleListBudgets returns every budget with its derived progress. The
// result is cached briefly; any budget or transaction write invalidates it.
func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	if cached, ok := s.progressCache.Get(budgetProgressKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}
	progress, err := s.budgets.ListProgress(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]budgetResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, s.toBudgetResponse(p))
	}
	s.progressCache.Set(budgetProgressKey, out)
	writeJSON(w, http.StatusOK, out)
}

func budgetFromRequest(req budgetRequest) (core.Budget, error) {
	cents, err := core.ParseDecimalToCents(req.Allocated)
	if err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", core.ErrValidationFailed, err)
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		Category:  core.Category(sanitizeInput(req.Category)),
		Allocated: core.Money{Cents: cents},
		StartDate: start,
		EndDate:   end,
		Period:    core.PeriodType(req.Period),
	}, nil
}
