package http

import (
	"fmt"
	"net/http"
	"strings"

	"tally/internal/core"
)

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := goalFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := s.goals.CreateGoal(r.Context(), g)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toGoalResponse(created))
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.GetGoal(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toGoalResponse(g))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	g, err := goalFromRequest(req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g.ID = r.PathValue("id")
	// Preserve saved progress and completion across metadata edits.
	existing, err := s.goals.GetGoal(r.Context(), g.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	g.Saved = existing.Saved
	g.Completed = existing.Completed
	if err := s.goals.UpdateGoal(r.Context(), g); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toGoalResponse(g))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.goals.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	var (
		goals []core.Goal
		err   error
	)
	switch r.URL.Query().Get("state") {
	case "":
		goals, err = s.goals.ListGoals(r.Context())
	case "active":
		goals, err = s.goals.ListActiveGoals(r.Context())
	case "completed":
		goals, err = s.goals.ListCompletedGoals(r.Context())
	default:
		writeError(w, r, fmt.Errorf("%w: state must be 'active' or 'completed'", core.ErrValidationFailed))
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]goalResponse, 0, len(goals))
	for _, g := range goals {
		out = append(out, s.toGoalResponse(g))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGoalProgress applies a signed contribution. Negative amounts
// withdraw from the goal.
func (s *Server) handleGoalProgress(w http.ResponseWriter, r *http.Request) {
	var req goalProgressRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	raw := strings.TrimSpace(req.Amount)
	sign := int64(1)
	if strings.HasPrefix(raw, "-") {
		sign = -1
		raw = raw[1:]
	}
	cents, err := core.ParseDecimalToCents(raw)
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: %v", core.ErrValidationFailed, err))
		return
	}
	g, err := s.goals.AddProgress(r.Context(), r.PathValue("id"), core.Money{Cents: sign * cents})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toGoalResponse(g))
}

func (s *Server) handleGoalComplete(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.MarkCompleted(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toGoalResponse(g))
}

func (s *Server) handleGoalReset(w http.ResponseWriter, r *http.Request) {
	g, err := s.goals.ResetProgress(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toGoalResponse(g))
}

func goalFromRequest(req goalRequest) (core.Goal, error) {
	cents, err := core.ParseDecimalToCents(req.Target)
	if err != nil {
		return core.Goal{}, fmt.Errorf("%w: %v", core.ErrValidationFailed, err)
	}
	target, err := parseDate(req.TargetDate)
	if err != nil {
		return core.Goal{}, err
	}
	return core.Goal{
		Name:       sanitizeInput(req.Name),
		Target:     core.Money{Cents: cents},
		TargetDate: target,
		Notes:      sanitizeInput(req.Notes),
		Icon:       req.Icon,
	}, nil
}
