package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/core"
	"tally/internal/notify"
	"tally/internal/storage"
)

// EventPublisher publishes transaction change events for the export worker.
type EventPublisher interface {
	PublishTransactionEvent(ctx context.Context, id, action string, version int64) error
}

// TransactionService orchestrates transaction writes: persistence, budget
// recomputation, export events, and notifications.
type TransactionService struct {
	repo      storage.TransactionRepository
	budgets   *BudgetService
	publisher EventPublisher
	notifier  *notify.Center
}

func NewTransactionService(
	repo storage.TransactionRepository,
	budgets *BudgetService,
	publisher EventPublisher,
	notifier *notify.Center,
) *TransactionService {
	return &TransactionService{
		repo:      repo,
		budgets:   budgets,
		publisher: publisher,
		notifier:  notifier,
	}
}

// CreateTransaction validates and saves the transaction, refreshes the
// category budget, and publishes an export event. Budget and event failures
// never fail the request once the row is saved.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := core.ValidateTransaction(t.Amount, t.Title, t.Category).Err(); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.repo.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.refreshBudget(ctx, created)
	s.publishEvent(ctx, created.ID, "create", 1)

	if s.notifier != nil {
		verb := "Expense"
		if created.IsIncome {
			verb = "Income"
		}
		s.notifier.Add(notify.Item{
			Type:                 notify.TypeTransaction,
			Title:                fmt.Sprintf("%s recorded", verb),
			Message:              fmt.Sprintf("%s: %.2f", created.Title, created.Amount.Units()),
			RelatedTransactionID: created.ID,
		})
	}

	return created, nil
}

func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	previous, err := s.repo.GetTransaction(ctx, t.ID)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.refreshBudget(ctx, t)
	if previous.Category != t.Category {
		s.refreshBudget(ctx, previous)
	}
	s.publishEvent(ctx, t.ID, "create", 2)
	return nil
}

// DeleteTransaction removes the row, refreshes the affected budget and
// publishes a delete event so the exported sheet row is cleared too.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id string) error {
	t, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.refreshBudget(ctx, t)
	s.publishEvent(ctx, id, "delete", 1)
	return nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx)
}

func (s *TransactionService) ListByCategory(ctx context.Context, category core.Category) ([]core.Transaction, error) {
	return s.repo.ListByCategory(ctx, category)
}

func (s *TransactionService) ListByDateRange(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	return s.repo.ListByDateRange(ctx, from, to)
}

func (s *TransactionService) ListByType(ctx context.Context, isIncome bool) ([]core.Transaction, error) {
	return s.repo.ListByType(ctx, isIncome)
}

func (s *TransactionService) refreshBudget(ctx context.Context, t core.Transaction) {
	if s.budgets == nil || t.IsIncome {
		return
	}
	if err := s.budgets.RecomputeSpent(ctx, t.Category); err != nil {
		slog.ErrorContext(ctx, "Failed to refresh budget",
			"category", t.Category, "error", err)
	}
}

func (s *TransactionService) publishEvent(ctx context.Context, id, action string, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping export event", "id", id)
		return
	}
	if err := s.publisher.PublishTransactionEvent(ctx, id, action, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transaction event",
			"id", id, "action", action, "error", err)
	}
}
