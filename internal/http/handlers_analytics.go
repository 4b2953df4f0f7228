package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"tally/internal/core"
)

type balanceSampleResponse struct {
	At            time.Time `json:"at"`
	BalanceCents  int64     `json:"balance_cents"`
	Balance       string    `json:"balance"`
	DeltaCents    int64     `json:"delta_cents"`
	PercentChange float64   `json:"percent_change"`
}

type monthlyExpensesResponse struct {
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"by_category"`
}

type projectionResponse struct {
	Scale                    string  `json:"scale"`
	CurrentIncome            float64 `json:"current_income"`
	ProjectedIncome          float64 `json:"projected_income"`
	Expenses                 float64 `json:"expenses"`
	LoanPayments             float64 `json:"loan_payments"`
	AvailableIncome          float64 `json:"available_income"`
	ProjectedAvailableIncome float64 `json:"projected_available_income"`
}

type upcomingBillResponse struct {
	Transaction transactionResponse `json:"transaction"`
	DueDate     time.Time           `json:"due_date"`
}

type convertResponse struct {
	Value float64 `json:"value"`
	From  string  `json:"from"`
	To    string  `json:"to"`
}

// handleBalanceSeries returns the running balance over a date range.
// Query params: from, to (required), starting_balance (decimal, optional).
func (s *Server) handleBalanceSeries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseDate(q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseDate(q.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var starting core.Money
	if raw := q.Get("starting_balance"); raw != "" {
		cents, err := core.ParseDecimalToCents(raw)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: starting_balance: %v", core.ErrValidationFailed, err))
			return
		}
		starting = core.Money{Cents: cents}
	}

	cacheKey := fmt.Sprintf("series:%d:%s:%s", starting.Cents, from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached, ok := s.seriesCache.Get(cacheKey); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	samples, err := s.analytics.BalanceSeries(r.Context(), starting, from, to)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]balanceSampleResponse, 0, len(samples))
	for _, sm := range samples {
		out = append(out, balanceSampleResponse{
			At:            sm.At,
			BalanceCents:  sm.Balance.Cents,
			Balance:       s.formatMoney(sm.Balance),
			DeltaCents:    sm.Delta.Cents,
			PercentChange: sm.PercentChange,
		})
	}
	s.seriesCache.Set(cacheKey, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMonthlyExpenses(w http.ResponseWriter, r *http.Request) {
	total, byCategory, err := s.analytics.MonthlyExpenses(r.Context(), time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := monthlyExpensesResponse{Total: total, ByCategory: make(map[string]float64, len(byCategory))}
	for cat, v := range byCategory {
		out.ByCategory[string(cat)] = v
	}
	writeJSON(w, http.StatusOK, out)
}

// handleProjections computes income projections across every time scale
// from a current and an optional projected work schedule.
// Query params: rate, hours (required), projected_rate, projected_hours.
func (s *Server) handleProjections(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rate, err := parseFloat(q.Get("rate"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: rate: %v", core.ErrValidationFailed, err))
		return
	}
	hours, err := parseFloat(q.Get("hours"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: hours: %v", core.ErrValidationFailed, err))
		return
	}
	schedule := core.WorkSchedule{HourlyRate: rate, HoursPerWeek: hours}

	projected := schedule
	if q.Get("projected_rate") != "" || q.Get("projected_hours") != "" {
		pr, err := parseFloat(q.Get("projected_rate"))
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: projected_rate: %v", core.ErrValidationFailed, err))
			return
		}
		ph, err := parseFloat(q.Get("projected_hours"))
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: projected_hours: %v", core.ErrValidationFailed, err))
			return
		}
		projected = core.WorkSchedule{HourlyRate: pr, HoursPerWeek: ph}
	}

	projections, err := s.analytics.ProjectIncome(r.Context(), schedule, projected, time.Now())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]projectionResponse, 0, len(projections))
	for _, p := range projections {
		out = append(out, projectionResponse{
			Scale:                    string(p.Scale),
			CurrentIncome:            p.CurrentIncome,
			ProjectedIncome:          p.ProjectedIncome,
			Expenses:                 p.Expenses,
			LoanPayments:             p.LoanPayments,
			AvailableIncome:          p.AvailableIncome,
			ProjectedAvailableIncome: p.ProjectedAvailableIncome,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUpcomingBills lists recurring expenses due within the window.
// Query param: days (default 7).
func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	days := 7
	if raw := r.URL.Query().Get("days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, r, fmt.Errorf("%w: days must be a positive integer", core.ErrValidationFailed))
			return
		}
		days = v
	}
	bills, err := s.analytics.UpcomingBills(r.Context(), time.Now(), time.Duration(days)*24*time.Hour)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]upcomingBillResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, upcomingBillResponse{
			Transaction: s.toTransactionResponse(b.Transaction),
			DueDate:     b.DueDate,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleConvertRate converts a monetary rate between time scales.
// Query params: value, from, to.
func (s *Server) handleConvertRate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	value, err := parseFloat(q.Get("value"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: value: %v", core.ErrValidationFailed, err))
		return
	}
	from, err := parseScale(q.Get("from"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := parseScale(q.Get("to"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, convertResponse{
		Value: core.ConvertRate(value, from, to),
		From:  string(from),
		To:    string(to),
	})
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return v, nil
}

func parseScale(s string) (core.TimeScale, error) {
	switch scale := core.TimeScale(s); scale {
	case core.ScaleHourly, core.ScaleDaily, core.ScaleWeekly, core.ScaleMonthly, core.ScaleYearly:
		return scale, nil
	default:
		return "", fmt.Errorf("%w: unknown time scale %q", core.ErrValidationFailed, s)
	}
}
