package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/currency"
	"tally/internal/notify"
	"tally/internal/services"
	"tally/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	notifier := notify.NewCenter()
	budgets := services.NewBudgetService(repo, repo, notifier)
	transactions := services.NewTransactionService(repo, budgets, nil, notifier)
	goals := services.NewGoalService(repo, notifier)
	loans := services.NewLoanService(repo, time.Minute)
	analytics := services.NewAnalyticsService(repo, repo, notifier)

	srv := NewServer(":0", Deps{
		Transactions: transactions,
		Budgets:      budgets,
		Goals:        goals,
		Loans:        loans,
		Analytics:    analytics,
		Notifier:     notifier,
		Formatter:    currency.NewFormatter("en", 2),
		CurrencyCode: "USD",
		CacheTTL:     time.Minute,
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv
}

func do(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	if rec := do(t, srv, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d", rec.Code)
	}
	if rec := do(t, srv, http.MethodGet, "/readyz", nil); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d", rec.Code)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/transactions", map[string]any{
		"title":     "Groceries",
		"amount":    "45.50",
		"is_income": false,
		"category":  "food",
		"date":      "2026-03-10",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[map[string]any](t, rec)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatal("expected generated id")
	}
	if created["amount_cents"].(float64) != 4550 {
		t.Fatalf("amount_cents = %v", created["amount_cents"])
	}

	rec = do(t, srv, http.MethodGet, "/transactions/"+id, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodPut, "/transactions/"+id, map[string]any{
		"title":     "Groceries and snacks",
		"amount":    "52.00",
		"is_income": false,
		"category":  "food",
		"date":      "2026-03-10",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/transactions?category=food", nil)
	list := decodeBody[[]map[string]any](t, rec)
	if len(list) != 1 {
		t.Fatalf("category filter returned %d items", len(list))
	}
	if list[0]["title"] != "Groceries and snacks" {
		t.Fatalf("title = %v", list[0]["title"])
	}

	rec = do(t, srv, http.MethodDelete, "/transactions/"+id, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	if rec = do(t, srv, http.MethodGet, "/transactions/"+id, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete = %d", rec.Code)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad amount", map[string]any{"title": "x", "amount": "abc", "category": "other", "date": "2026-01-01"}},
		{"negative amount", map[string]any{"title": "x", "amount": "-5", "category": "other", "date": "2026-01-01"}},
		{"empty title", map[string]any{"title": "  ", "amount": "5", "category": "other", "date": "2026-01-01"}},
		{"bad date", map[string]any{"title": "x", "amount": "5", "category": "other", "date": "soon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, srv, http.MethodPost, "/transactions", tc.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
			}
		})
	}

	rec := do(t, srv, http.MethodPost, "/transactions", map[string]any{"title": "x", "bogus": true})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown field = %d", rec.Code)
	}
}

func TestBudgetProgressEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/budgets", map[string]any{
		"category":   "food",
		"allocated":  "500.00",
		"start_date": "2026-03-01",
		"end_date":   "2026-04-01",
		"period":     "monthly",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create budget = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodPost, "/transactions", map[string]any{
		"title":    "Restaurant",
		"amount":   "120.00",
		"category": "food",
		"date":     "2026-03-05",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction = %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv, http.MethodGet, "/budgets", nil)
	budgets := decodeBody[[]map[string]any](t, rec)
	if len(budgets) != 1 {
		t.Fatalf("budgets = %d", len(budgets))
	}
	if got := budgets[0]["spent_cents"].(float64); got != 12000 {
		t.Fatalf("spent_cents = %v", got)
	}
	if got := budgets[0]["remaining_cents"].(float64); got != 38000 {
		t.Fatalf("remaining_cents = %v", got)
	}
	if budgets[0]["status"] != "on_track" {
		t.Fatalf("status = %v", budgets[0]["status"])
	}
}

func TestGoalProgressAndMilestoneNotification(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/goals", map[string]any{
		"name":        "Vacation",
		"target":      "1000.00",
		"target_date": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d: %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[map[string]any](t, rec)
	id := goal["id"].(string)

	rec = do(t, srv, http.MethodPost, "/goals/"+id+"/progress", map[string]any{"amount": "400.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("progress = %d: %s", rec.Code, rec.Body.String())
	}

	// Overshooting clamps at the target and completes the goal.
	rec = do(t, srv, http.MethodPost, "/goals/"+id+"/progress", map[string]any{"amount": "700.00"})
	updated := decodeBody[map[string]any](t, rec)
	if updated["saved_cents"].(float64) != 100000 {
		t.Fatalf("saved_cents = %v", updated["saved_cents"])
	}
	if updated["completed"] != true {
		t.Fatal("expected completed goal")
	}

	rec = do(t, srv, http.MethodGet, "/notifications", nil)
	items := decodeBody[[]map[string]any](t, rec)
	var milestones int
	for _, it := range items {
		if it["type"] == "goal_milestone" {
			milestones++
		}
	}
	if milestones != 1 {
		t.Fatalf("milestone notifications = %d", milestones)
	}

	rec = do(t, srv, http.MethodPost, "/goals/"+id+"/reset", nil)
	reset := decodeBody[map[string]any](t, rec)
	if reset["saved_cents"].(float64) != 0 || reset["completed"] == true {
		t.Fatalf("reset goal = %v", reset)
	}
}

func TestGoalCompleteEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/goals", map[string]any{
		"name":        "New laptop",
		"target":      "1500.00",
		"target_date": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal = %d: %s", rec.Code, rec.Body.String())
	}
	goal := decodeBody[map[string]any](t, rec)
	id := goal["id"].(string)

	do(t, srv, http.MethodPost, "/goals/"+id+"/progress", map[string]any{"amount": "200.00"})

	// Forcing completion snaps saved to the full target.
	rec = do(t, srv, http.MethodPost, "/goals/"+id+"/complete", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete = %d: %s", rec.Code, rec.Body.String())
	}
	done := decodeBody[map[string]any](t, rec)
	if done["saved_cents"].(float64) != 150000 {
		t.Fatalf("saved_cents = %v", done["saved_cents"])
	}
	if done["completed"] != true {
		t.Fatal("expected completed goal")
	}

	rec = do(t, srv, http.MethodGet, "/goals?state=completed", nil)
	completed := decodeBody[[]map[string]any](t, rec)
	if len(completed) != 1 || completed[0]["id"] != id {
		t.Fatalf("completed goals = %v", completed)
	}

	rec = do(t, srv, http.MethodPost, "/goals/unknown/complete", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("complete unknown goal = %d", rec.Code)
	}
}

func TestGoalWithdrawal(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/goals", map[string]any{
		"name":        "Emergency fund",
		"target":      "500.00",
		"target_date": time.Now().AddDate(1, 0, 0).Format("2006-01-02"),
	})
	goal := decodeBody[map[string]any](t, rec)
	id := goal["id"].(string)

	do(t, srv, http.MethodPost, "/goals/"+id+"/progress", map[string]any{"amount": "300.00"})
	rec = do(t, srv, http.MethodPost, "/goals/"+id+"/progress", map[string]any{"amount": "-100.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("withdrawal = %d: %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[map[string]any](t, rec)
	if updated["saved_cents"].(float64) != 20000 {
		t.Fatalf("saved_cents = %v", updated["saved_cents"])
	}
}

func TestLoanPaymentAndSummary(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/loans", map[string]any{
		"name":            "Car loan",
		"lender":          "Bank",
		"original":        "12000.00",
		"current_balance": "8000.00",
		"interest_rate":   4.5,
		"monthly_payment": "350.00",
		"start_date":      "2025-01-15",
		"end_date":        "2028-01-15",
		"type":            "auto",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create loan = %d: %s", rec.Code, rec.Body.String())
	}
	loan := decodeBody[map[string]any](t, rec)
	id := loan["id"].(string)
	if loan["status"] != "active" {
		t.Fatalf("status defaulted to %v", loan["status"])
	}

	rec = do(t, srv, http.MethodPost, "/loans/"+id+"/payments", map[string]any{"amount": "350.00"})
	if rec.Code != http.StatusOK {
		t.Fatalf("payment = %d: %s", rec.Code, rec.Body.String())
	}
	paid := decodeBody[map[string]any](t, rec)
	if paid["current_balance_cents"].(float64) != 765000 {
		t.Fatalf("balance = %v", paid["current_balance_cents"])
	}

	rec = do(t, srv, http.MethodGet, "/loans/summary", nil)
	summary := decodeBody[map[string]any](t, rec)
	if summary["active_loans"].(float64) != 1 {
		t.Fatalf("active_loans = %v", summary["active_loans"])
	}
	if summary["total_debt_cents"].(float64) != 765000 {
		t.Fatalf("total_debt_cents = %v", summary["total_debt_cents"])
	}
}

func TestBalanceSeriesEndpoint(t *testing.T) {
	srv := newTestServer(t)

	for _, tx := range []map[string]any{
		{"title": "Salary", "amount": "2000.00", "is_income": true, "category": "other", "date": "2026-02-03"},
		{"title": "Rent", "amount": "800.00", "category": "housing", "date": "2026-02-05"},
	} {
		if rec := do(t, srv, http.MethodPost, "/transactions", tx); rec.Code != http.StatusCreated {
			t.Fatalf("seed transaction = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := do(t, srv, http.MethodGet, "/analytics/balance-series?from=2026-02-01&to=2026-03-01&starting_balance=100.00", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("series = %d: %s", rec.Code, rec.Body.String())
	}
	samples := decodeBody[[]map[string]any](t, rec)
	if len(samples) == 0 {
		t.Fatal("expected samples")
	}
	last := samples[len(samples)-1]
	if got := last["balance_cents"].(float64); got != 130000 {
		t.Fatalf("final balance = %v", got)
	}

	// Second read must come from cache and still agree.
	rec = do(t, srv, http.MethodGet, "/analytics/balance-series?from=2026-02-01&to=2026-03-01&starting_balance=100.00", nil)
	cached := decodeBody[[]map[string]any](t, rec)
	if len(cached) != len(samples) {
		t.Fatalf("cached samples = %d, want %d", len(cached), len(samples))
	}
}

func TestConvertRateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/analytics/convert?value=1200&from=monthly&to=yearly", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert = %d: %s", rec.Code, rec.Body.String())
	}
	out := decodeBody[map[string]any](t, rec)
	if out["value"].(float64) != 14400 {
		t.Fatalf("value = %v", out["value"])
	}

	if rec = do(t, srv, http.MethodGet, "/analytics/convert?value=10&from=monthly&to=fortnightly", nil); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad scale = %d", rec.Code)
	}
}

func TestNotificationEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/transactions", map[string]any{
		"title": "Coffee", "amount": "4.00", "category": "food", "date": "2026-03-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec = do(t, srv, http.MethodGet, "/notifications", nil)
	items := decodeBody[[]map[string]any](t, rec)
	if len(items) != 1 {
		t.Fatalf("notifications = %d", len(items))
	}
	id := items[0]["id"].(string)

	rec = do(t, srv, http.MethodGet, "/notifications/unread", nil)
	unread := decodeBody[map[string]int](t, rec)
	if unread["unread"] != 1 {
		t.Fatalf("unread = %d", unread["unread"])
	}

	if rec = do(t, srv, http.MethodPost, "/notifications/"+id+"/read", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("mark read = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/notifications/unread", nil)
	if decodeBody[map[string]int](t, rec)["unread"] != 0 {
		t.Fatal("expected zero unread after mark read")
	}

	if rec = do(t, srv, http.MethodDelete, "/notifications", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("clear = %d", rec.Code)
	}
	rec = do(t, srv, http.MethodGet, "/notifications", nil)
	if got := decodeBody[[]map[string]any](t, rec); len(got) != 0 {
		t.Fatalf("notifications after clear = %d", len(got))
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	srv := newTestServer(t)
	rec := do(t, srv, http.MethodGet, "/transactions", nil)
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing X-Content-Type-Options header")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Fatal("missing Content-Security-Policy header")
	}
}
