package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tally/internal/core"
	"tally/internal/notify"
	"tally/internal/storage"
)

// BudgetProgress pairs a budget with its derived progress figures for the
// API layer.
type BudgetProgress struct {
	Budget    core.Budget
	Remaining core.Money
	Progress  float64
	Status    core.BudgetStatus
}

// NewBudgetProgress derives the progress figures for a single budget.
func NewBudgetProgress(b core.Budget) BudgetProgress {
	return BudgetProgress{
		Budget:    b,
		Remaining: b.Remaining(),
		Progress:  b.Progress(),
		Status:    b.Status(),
	}
}

// BudgetService keeps budget Spent figures in sync with the transaction
// table and raises threshold notifications on status crossings.
type BudgetService struct {
	budgets      storage.BudgetRepository
	transactions storage.TransactionRepository
	notifier     *notify.Center
}

func NewBudgetService(
	budgets storage.BudgetRepository,
	transactions storage.TransactionRepository,
	notifier *notify.Center,
) *BudgetService {
	return &BudgetService{
		budgets:      budgets,
		transactions: transactions,
		notifier:     notifier,
	}
}

func (s *BudgetService) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	created, err := s.budgets.CreateBudget(ctx, b)
	if err != nil {
		return core.Budget{}, err
	}
	// Pick up any transactions that predate the budget.
	if err := s.RecomputeSpent(ctx, created.Category); err != nil {
		slog.ErrorContext(ctx, "Failed to recompute fresh budget",
			"category", created.Category, "error", err)
	}
	return s.budgets.GetBudget(ctx, created.ID)
}

func (s *BudgetService) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	return s.budgets.GetBudget(ctx, id)
}

func (s *BudgetService) UpdateBudget(ctx context.Context, b core.Budget) error {
	return s.budgets.UpdateBudget(ctx, b)
}

func (s *BudgetService) DeleteBudget(ctx context.Context, id string) error {
	return s.budgets.DeleteBudget(ctx, id)
}

// ListProgress returns all budgets with their derived progress figures.
func (s *BudgetService) ListProgress(ctx context.Context) ([]BudgetProgress, error) {
	budgets, err := s.budgets.ListBudgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	out := make([]BudgetProgress, len(budgets))
	for i, b := range budgets {
		out[i] = BudgetProgress{
			Budget:    b,
			Remaining: b.Remaining(),
			Progress:  b.Progress(),
			Status:    b.Status(),
		}
	}
	return out, nil
}

// RecomputeSpent re-derives the budget's Spent figure from the expense sum
// over its window. A status crossing into warning or over raises a
// notification; recomputations that stay in the same bucket are silent.
func (s *BudgetService) RecomputeSpent(ctx context.Context, category core.Category) error {
	b, err := s.budgets.GetBudgetByCategory(ctx, category)
	if errors.Is(err, core.ErrNotFound) {
		return nil // no budget for this category
	}
	if err != nil {
		return err
	}

	spent, err := s.transactions.SumByCategoryAndRange(ctx, category, b.StartDate, b.EndDate)
	if err != nil {
		return fmt.Errorf("sum spending for %s: %w", category, err)
	}

	previousStatus := b.Status()
	b.Spent = spent
	if err := s.budgets.UpdateBudget(ctx, b); err != nil {
		return fmt.Errorf("update budget spent: %w", err)
	}

	newStatus := b.Status()
	if newStatus != previousStatus {
		s.notifyStatus(b, newStatus)
	}

	slog.InfoContext(ctx, "Budget spent recomputed",
		"category", category,
		"spent_cents", spent.Cents,
		"allocated_cents", b.Allocated.Cents,
		"status", newStatus)

	return nil
}

func (s *BudgetService) notifyStatus(b core.Budget, status core.BudgetStatus) {
	if s.notifier == nil {
		return
	}
	switch status {
	case core.BudgetWarning:
		s.notifier.Add(notify.Item{
			Type:    notify.TypeBudgetThreshold,
			Title:   "Budget almost used up",
			Message: fmt.Sprintf("%s budget is at %.0f%%", b.Category, b.Progress()*100),
		})
	case core.BudgetOver:
		s.notifier.Add(notify.Item{
			Type:    notify.TypeBudgetExceeded,
			Title:   "Budget exceeded",
			Message: fmt.Sprintf("%s budget is over by %.2f", b.Category, -b.Remaining().Units()),
		})
	}
}
