package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"tally/internal/amqp"
	"tally/internal/cli"
	"tally/internal/currency"
	apphttp "tally/internal/http"
	"tally/internal/notify"
	"tally/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("server")
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Export events are optional; without a broker the worker's periodic
	// sweep still picks pending rows up.
	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, export events disabled", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	notifier := notify.NewCenter()
	formatter := currency.NewFormatter(cfg.Locale, 2)

	budgetSvc := services.NewBudgetService(repo, repo, notifier)
	transactionSvc := services.NewTransactionService(repo, budgetSvc, publisher, notifier)
	goalSvc := services.NewGoalService(repo, notifier)
	loanSvc := services.NewLoanService(repo, cfg.CacheTTL)
	analyticsSvc := services.NewAnalyticsService(repo, repo, notifier)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Transactions: transactionSvc,
		Budgets:      budgetSvc,
		Goals:        goalSvc,
		Loans:        loanSvc,
		Analytics:    analyticsSvc,
		Notifier:     notifier,
		Formatter:    formatter,
		CurrencyCode: cfg.CurrencyCode,
		CacheTTL:     cfg.CacheTTL,
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	})

	logger.Info("Starting tally server", "port", cfg.Port, "currency", cfg.CurrencyCode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	<-done
	logger.Info("Server stopped gracefully")
}
