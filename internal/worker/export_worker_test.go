package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/sheets/memory"
	"tally/internal/storage"
)

func newTestWorker(t *testing.T) (*ExportWorker, *storage.SQLiteRepository, *memory.Store) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "tally.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	sink := memory.New()
	return NewExportWorker(repo, sink, sink, 10), repo, sink
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository, title string) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), core.Transaction{
		Title:    title,
		Amount:   core.Money{Cents: 4500},
		Category: core.CategoryFood,
		Date:     time.Now(),
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	return tx
}

func TestHandleEventExportsAndMarks(t *testing.T) {
	w, repo, sink := newTestWorker(t)
	ctx := context.Background()
	tx := seedTransaction(t, repo, "Groceries")

	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(tx.ID, amqp.ActionCreate, 1)); err != nil {
		t.Fatalf("HandleEvent: %v", err)
	}

	items := sink.Items()
	if len(items) != 1 || items[0].ID != tx.ID {
		t.Fatalf("sink items = %+v", items)
	}

	pending, err := repo.PendingExports(ctx, 10)
	if err != nil {
		t.Fatalf("PendingExports: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending after export = %d, want 0", len(pending))
	}
}

func TestHandleEventSkipsMissingRow(t *testing.T) {
	w, _, sink := newTestWorker(t)

	err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent("gone", amqp.ActionCreate, 1))
	if err != nil {
		t.Fatalf("missing rows should be skipped, got %v", err)
	}
	if len(sink.Items()) != 0 {
		t.Fatal("nothing should be exported")
	}
}

func TestHandleDeleteEventClearsRow(t *testing.T) {
	w, repo, sink := newTestWorker(t)
	ctx := context.Background()
	tx := seedTransaction(t, repo, "Groceries")

	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(tx.ID, amqp.ActionCreate, 1)); err != nil {
		t.Fatalf("HandleEvent(create): %v", err)
	}
	if err := w.HandleEvent(ctx, amqp.NewTransactionEvent(tx.ID, amqp.ActionDelete, 1)); err != nil {
		t.Fatalf("HandleEvent(delete): %v", err)
	}
	if len(sink.Items()) != 0 {
		t.Fatalf("sink items after delete = %+v", sink.Items())
	}
}

func TestHandleDeleteWithoutRemover(t *testing.T) {
	_, repo, sink := newTestWorker(t)
	w := NewExportWorker(repo, sink, nil, 10)

	if err := w.HandleEvent(context.Background(), amqp.NewTransactionEvent("tx-1", amqp.ActionDelete, 1)); err != nil {
		t.Fatalf("delete without remover should be a no-op, got %v", err)
	}
}

func TestProcessPendingSweepsBacklog(t *testing.T) {
	w, repo, sink := newTestWorker(t)
	ctx := context.Background()

	seedTransaction(t, repo, "First")
	seedTransaction(t, repo, "Second")

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending: %v", err)
	}

	if len(sink.Items()) != 2 {
		t.Fatalf("sink items = %d, want 2", len(sink.Items()))
	}
	pending, _ := repo.PendingExports(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("pending after sweep = %d, want 0", len(pending))
	}

	// A clean backlog sweep is a no-op.
	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending on empty backlog: %v", err)
	}
	if len(sink.Items()) != 2 {
		t.Fatal("no duplicate exports expected")
	}
}

type failingSink struct{}

func (failingSink) Append(context.Context, core.Transaction) (string, error) {
	return "", errors.New("sink unavailable")
}

func TestProcessPendingMarksFailures(t *testing.T) {
	_, repo, _ := newTestWorker(t)
	w := NewExportWorker(repo, failingSink{}, nil, 10)
	ctx := context.Background()

	seedTransaction(t, repo, "Doomed")

	if err := w.ProcessPending(ctx); err != nil {
		t.Fatalf("ProcessPending should absorb row failures: %v", err)
	}

	// The row is parked in error state, not retried forever.
	pending, _ := repo.PendingExports(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("pending after failure = %d, want 0", len(pending))
	}
}
