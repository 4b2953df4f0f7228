// Package http exposes the JSON API over the domain services.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"tally/internal/cache"
	"tally/internal/core"
	"tally/internal/currency"
	"tally/internal/middleware/ratelimit"
	"tally/internal/middleware/security"
	"tally/internal/middleware/trace"
	"tally/internal/notify"
	"tally/internal/services"
)

const budgetProgressKey = "budget-progress"

// Deps carries everything the server needs. All fields are required
// except Formatter, which falls back to plain USD formatting.
type Deps struct {
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Goals        *services.GoalService
	Loans        *services.LoanService
	Analytics    *services.AnalyticsService
	Notifier     *notify.Center
	Formatter    *currency.Formatter
	CurrencyCode string
	CacheTTL     time.Duration
}

type Server struct {
	http.Server

	transactions *services.TransactionService
	budgets      *services.BudgetService
	goals        *services.GoalService
	loans        *services.LoanService
	analytics    *services.AnalyticsService
	notifier     *notify.Center

	formatter    *currency.Formatter
	currencyCode string

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	progressCache *cache.LRUCache[[]budgetResponse]
	seriesCache   *cache.LRUCache[[]balanceSampleResponse]
	caches        *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, deps Deps) *Server {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	code := deps.CurrencyCode
	if code == "" {
		code = "USD"
	}
	formatter := deps.Formatter
	if formatter == nil {
		formatter = currency.NewFormatter("en", 2)
	}

	s := &Server{
		transactions: deps.Transactions,
		budgets:      deps.Budgets,
		goals:        deps.Goals,
		loans:        deps.Loans,
		analytics:    deps.Analytics,
		notifier:     deps.Notifier,
		formatter:    formatter,
		currencyCode: code,

		limiter: ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:  trace.NewMiddleware(security.ExtractClientIP),

		progressCache: cache.NewLRUCache[[]budgetResponse](1, ttl),
		seriesCache:   cache.NewLRUCache[[]balanceSampleResponse](50, ttl),
		caches:        cache.NewManager(),
	}
	s.caches.Register(s.progressCache)
	s.caches.Register(s.seriesCache)
	s.caches.StartCleanup(10 * time.Minute)

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.HeadersMiddleware(security.DefaultHeadersConfig())
	handler := s.tracer.Middleware(headers(s.limitWrites(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("GET /transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /budgets", s.handleListBudgets)
	mux.HandleFunc("GET /budgets/{id}", s.handleGetBudget)
	mux.HandleFunc("PUT /budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("POST /goals", s.handleCreateGoal)
	mux.HandleFunc("GET /goals", s.handleListGoals)
	mux.HandleFunc("GET /goals/{id}", s.handleGetGoal)
	mux.HandleFunc("PUT /goals/{id}", s.handleUpdateGoal)
	mux.HandleFunc("DELETE /goals/{id}", s.handleDeleteGoal)
	mux.HandleFunc("POST /goals/{id}/progress", s.handleGoalProgress)
	mux.HandleFunc("POST /goals/{id}/complete", s.handleGoalComplete)
	mux.HandleFunc("POST /goals/{id}/reset", s.handleGoalReset)

	mux.HandleFunc("POST /loans", s.handleCreateLoan)
	mux.HandleFunc("GET /loans", s.handleListLoans)
	mux.HandleFunc("GET /loans/summary", s.handleLoanSummary)
	mux.HandleFunc("GET /loans/upcoming-payments", s.handleUpcomingLoanPayments)
	mux.HandleFunc("GET /loans/{id}", s.handleGetLoan)
	mux.HandleFunc("PUT /loans/{id}", s.handleUpdateLoan)
	mux.HandleFunc("DELETE /loans/{id}", s.handleDeleteLoan)
	mux.HandleFunc("POST /loans/{id}/payments", s.handleLoanPayment)

	mux.HandleFunc("GET /analytics/balance-series", s.handleBalanceSeries)
	mux.HandleFunc("GET /analytics/monthly-expenses", s.handleMonthlyExpenses)
	mux.HandleFunc("GET /analytics/projections", s.handleProjections)
	mux.HandleFunc("GET /analytics/upcoming-bills", s.handleUpcomingBills)
	mux.HandleFunc("GET /analytics/convert", s.handleConvertRate)

	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("GET /notifications/unread", s.handleUnreadCount)
	mux.HandleFunc("POST /notifications/read-all", s.handleMarkAllNotificationsRead)
	mux.HandleFunc("POST /notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("DELETE /notifications", s.handleClearNotifications)
	mux.HandleFunc("DELETE /notifications/{id}", s.handleRemoveNotification)
}

// limitWrites applies the rate limit to mutating requests only. Reads
// stay cheap and cacheable.
func (s *Server) limitWrites(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && !s.limiter.Allow(security.ExtractClientIP(r)) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) formatMoney(m core.Money) string {
	return s.formatter.Format(s.currencyCode, m.Cents)
}

// invalidateAnalytics drops every cached aggregate that a transaction
// write could change.
func (s *Server) invalidateAnalytics() {
	s.progressCache.Delete(budgetProgressKey)
	s.seriesCache.Clear()
}

// Shutdown stops the HTTP server along with the limiter and cache
// cleanup goroutines. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	m := s.tracer.GetMetrics()
	writeJSON(w, http.StatusOK, map[string]int64{
		"total_requests":       m.TotalRequests,
		"last_response_micros": m.LastResponseMicros,
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
