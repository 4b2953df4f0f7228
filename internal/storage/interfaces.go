package storage

import (
	"context"
	"time"

	"tally/internal/core"
)

// TransactionRepository persists transactions and answers the range and
// category queries the aggregation services are built on.
type TransactionRepository interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	ListByCategory(ctx context.Context, category core.Category) ([]core.Transaction, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]core.Transaction, error)
	ListByType(ctx context.Context, isIncome bool) ([]core.Transaction, error)

	SumByCategoryAndRange(ctx context.Context, category core.Category, from, to time.Time) (core.Money, error)
	SumByTypeAndRange(ctx context.Context, isIncome bool, from, to time.Time) (core.Money, error)
}

type BudgetRepository interface {
	CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, id string) (core.Budget, error)
	UpdateBudget(ctx context.Context, b core.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	GetBudgetByCategory(ctx context.Context, category core.Category) (core.Budget, error)
}

type GoalRepository interface {
	CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error)
	GetGoal(ctx context.Context, id string) (core.Goal, error)
	UpdateGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	ListGoals(ctx context.Context) ([]core.Goal, error)
	ListActiveGoals(ctx context.Context) ([]core.Goal, error)
	ListCompletedGoals(ctx context.Context) ([]core.Goal, error)
}

type LoanRepository interface {
	CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error)
	GetLoan(ctx context.Context, id string) (core.Loan, error)
	UpdateLoan(ctx context.Context, l core.Loan) error
	DeleteLoan(ctx context.Context, id string) error
	ListLoans(ctx context.Context) ([]core.Loan, error)
	ListLoansByStatus(ctx context.Context, status core.LoanStatus) ([]core.Loan, error)
}

// ExportQueue exposes the transactions still waiting to be pushed to the
// spreadsheet sink. Used by the export worker.
type ExportQueue interface {
	PendingExports(ctx context.Context, limit int) ([]PendingExport, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}
