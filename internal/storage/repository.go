package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"

	"tally/internal/core"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Export statuses for the spreadsheet sync queue.
const (
	ExportPending = "pending"
	ExportDone    = "done"
	ExportError   = "error"
)

// PendingExport is the minimal row data the export worker needs to build
// a queue message.
type PendingExport struct {
	ID        string
	Version   int64
	CreatedAt time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := applySchema(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// applySchema brings the database up to the latest embedded migration.
// It opens its own connection because migrate closes whatever handle it
// is given when it finishes.
func applySchema(dbPath string) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open sqlite database: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		db.Close()
		return fmt.Errorf("init migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		db.Close()
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- transactions ---

const transactionColumns = "id, title, subtitle, amount_cents, is_income, category, date, linked_goal_id"

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var t core.Transaction
	var isIncome int64
	err := row.Scan(&t.ID, &t.Title, &t.Subtitle, &t.Amount.Cents, &isIncome, &t.Category, &t.Date, &t.LinkedGoalID)
	if err != nil {
		return core.Transaction{}, err
	}
	t.IsIncome = isIncome != 0
	return t, nil
}

func (r *SQLiteRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, title, subtitle, amount_cents, is_income, category, date, linked_goal_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Subtitle, t.Amount.Cents, boolToInt(t.IsIncome), string(t.Category), t.Date, t.LinkedGoalID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrSaveFailed, err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"title", t.Title,
		"amount_cents", t.Amount.Cents,
		"is_income", t.IsIncome,
		"category", t.Category)

	return t, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ?", id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return t, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET title = ?, subtitle = ?, amount_cents = ?, is_income = ?, category = ?, date = ?,
		    linked_goal_id = ?, export_status = ?, export_version = export_version + 1,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		t.Title, t.Subtitle, t.Amount.Cents, boolToInt(t.IsIncome), string(t.Category), t.Date,
		t.LinkedGoalID, ExportPending, t.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	return requireRow(res, t.ID)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDeleteFailed, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions ORDER BY date DESC")
}

func (r *SQLiteRepository) ListByCategory(ctx context.Context, category core.Category) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE category = ? ORDER BY date DESC",
		string(category))
}

func (r *SQLiteRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE date >= ? AND date < ? ORDER BY date ASC",
		from, to)
}

func (r *SQLiteRepository) ListByType(ctx context.Context, isIncome bool) ([]core.Transaction, error) {
	return r.queryTransactions(ctx,
		"SELECT "+transactionColumns+" FROM transactions WHERE is_income = ? ORDER BY date DESC",
		boolToInt(isIncome))
}

func (r *SQLiteRepository) SumByCategoryAndRange(ctx context.Context, category core.Category, from, to time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE category = ? AND is_income = 0 AND date >= ? AND date < ?`,
		string(category), from, to).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return core.Money{Cents: cents}, nil
}

func (r *SQLiteRepository) SumByTypeAndRange(ctx context.Context, isIncome bool, from, to time.Time) (core.Money, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount_cents), 0) FROM transactions
		WHERE is_income = ? AND date >= ? AND date < ?`,
		boolToInt(isIncome), from, to).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return core.Money{Cents: cents}, nil
}

// --- export queue ---

func (r *SQLiteRepository) PendingExports(ctx context.Context, limit int) ([]PendingExport, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, export_version, created_at FROM transactions
		WHERE export_status = ? ORDER BY created_at ASC LIMIT ?`,
		ExportPending, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []PendingExport
	for rows.Next() {
		var p PendingExport
		if err := rows.Scan(&p.ID, &p.Version, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending export: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET export_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		ExportDone, id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE transactions SET export_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		ExportError, id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

// --- budgets ---

const budgetColumns = "id, category, allocated_cents, spent_cents, start_date, end_date, period"

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var b core.Budget
	err := row.Scan(&b.ID, &b.Category, &b.Allocated.Cents, &b.Spent.Cents, &b.StartDate, &b.EndDate, &b.Period)
	return b, err
}

func (r *SQLiteRepository) CreateBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category, allocated_cents, spent_cents, start_date, end_date, period)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.ID, string(b.Category), b.Allocated.Cents, b.Spent.Cents, b.StartDate, b.EndDate, string(b.Period))
	if err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", core.ErrSaveFailed, err)
	}

	slog.InfoContext(ctx, "Budget saved",
		"id", b.ID, "category", b.Category, "allocated_cents", b.Allocated.Cents, "period", b.Period)
	return b, nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id string) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE id = ?", id)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return b, nil
}

func (r *SQLiteRepository) GetBudgetByCategory(ctx context.Context, category core.Category) (core.Budget, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets WHERE category = ? ORDER BY start_date DESC LIMIT 1",
		string(category))
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget for category %s: %w", category, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return b, nil
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE budgets
		SET category = ?, allocated_cents = ?, spent_cents = ?, start_date = ?, end_date = ?,
		    period = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(b.Category), b.Allocated.Cents, b.Spent.Cents, b.StartDate, b.EndDate, string(b.Period), b.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	return requireRow(res, b.ID)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM budgets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDeleteFailed, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+budgetColumns+" FROM budgets ORDER BY category ASC")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// --- goals ---

const goalColumns = "id, name, target_cents, saved_cents, target_date, notes, icon, completed"

func scanGoal(row interface{ Scan(...any) error }) (core.Goal, error) {
	var g core.Goal
	var completed int64
	err := row.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &g.TargetDate, &g.Notes, &g.Icon, &completed)
	if err != nil {
		return core.Goal{}, err
	}
	g.Completed = completed != 0
	return g, nil
}

func (r *SQLiteRepository) queryGoals(ctx context.Context, query string, args ...any) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if err := g.Validate(time.Now()); err != nil {
		return core.Goal{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_cents, saved_cents, target_date, notes, icon, completed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.Target.Cents, g.Saved.Cents, g.TargetDate, g.Notes, g.Icon, boolToInt(g.Completed))
	if err != nil {
		return core.Goal{}, fmt.Errorf("%w: %v", core.ErrSaveFailed, err)
	}

	slog.InfoContext(ctx, "Goal saved", "id", g.ID, "name", g.Name, "target_cents", g.Target.Cents)
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.Goal, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Goal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Goal{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return g, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE goals
		SET name = ?, target_cents = ?, saved_cents = ?, target_date = ?, notes = ?, icon = ?,
		    completed = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		g.Name, g.Target.Cents, g.Saved.Cents, g.TargetDate, g.Notes, g.Icon, boolToInt(g.Completed), g.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	return requireRow(res, g.ID)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDeleteFailed, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return r.queryGoals(ctx, "SELECT "+goalColumns+" FROM goals ORDER BY target_date ASC")
}

func (r *SQLiteRepository) ListActiveGoals(ctx context.Context) ([]core.Goal, error) {
	return r.queryGoals(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE completed = 0 ORDER BY target_date ASC")
}

func (r *SQLiteRepository) ListCompletedGoals(ctx context.Context) ([]core.Goal, error) {
	return r.queryGoals(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE completed = 1 ORDER BY target_date ASC")
}

// --- loans ---

const loanColumns = "id, name, lender, original_cents, current_balance_cents, interest_rate, monthly_payment_cents, start_date, end_date, loan_type, status"

func scanLoan(row interface{ Scan(...any) error }) (core.Loan, error) {
	var l core.Loan
	err := row.Scan(&l.ID, &l.Name, &l.Lender, &l.Original.Cents, &l.CurrentBalance.Cents,
		&l.InterestRate, &l.MonthlyPayment.Cents, &l.StartDate, &l.EndDate, &l.Type, &l.Status)
	return l, err
}

func (r *SQLiteRepository) queryLoans(ctx context.Context, query string, args ...any) ([]core.Loan, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	defer rows.Close()

	var out []core.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan loan: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) CreateLoan(ctx context.Context, l core.Loan) (core.Loan, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = core.LoanActive
	}
	if err := l.Validate(); err != nil {
		return core.Loan{}, err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loans (id, name, lender, original_cents, current_balance_cents, interest_rate,
		                   monthly_payment_cents, start_date, end_date, loan_type, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Name, l.Lender, l.Original.Cents, l.CurrentBalance.Cents, l.InterestRate,
		l.MonthlyPayment.Cents, l.StartDate, l.EndDate, string(l.Type), string(l.Status))
	if err != nil {
		return core.Loan{}, fmt.Errorf("%w: %v", core.ErrSaveFailed, err)
	}

	slog.InfoContext(ctx, "Loan saved",
		"id", l.ID, "name", l.Name, "balance_cents", l.CurrentBalance.Cents, "status", l.Status)
	return l, nil
}

func (r *SQLiteRepository) GetLoan(ctx context.Context, id string) (core.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+loanColumns+" FROM loans WHERE id = ?", id)
	l, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Loan{}, fmt.Errorf("loan %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Loan{}, fmt.Errorf("%w: %v", core.ErrFetchFailed, err)
	}
	return l, nil
}

func (r *SQLiteRepository) UpdateLoan(ctx context.Context, l core.Loan) error {
	if err := l.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE loans
		SET name = ?, lender = ?, original_cents = ?, current_balance_cents = ?, interest_rate = ?,
		    monthly_payment_cents = ?, start_date = ?, end_date = ?, loan_type = ?, status = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		l.Name, l.Lender, l.Original.Cents, l.CurrentBalance.Cents, l.InterestRate,
		l.MonthlyPayment.Cents, l.StartDate, l.EndDate, string(l.Type), string(l.Status), l.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrUpdateFailed, err)
	}
	return requireRow(res, l.ID)
}

func (r *SQLiteRepository) DeleteLoan(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM loans WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrDeleteFailed, err)
	}
	return requireRow(res, id)
}

func (r *SQLiteRepository) ListLoans(ctx context.Context) ([]core.Loan, error) {
	return r.queryLoans(ctx, "SELECT "+loanColumns+" FROM loans ORDER BY name ASC")
}

func (r *SQLiteRepository) ListLoansByStatus(ctx context.Context, status core.LoanStatus) ([]core.Loan, error) {
	return r.queryLoans(ctx,
		"SELECT "+loanColumns+" FROM loans WHERE status = ? ORDER BY name ASC",
		string(status))
}

// --- helpers ---

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return nil
}
