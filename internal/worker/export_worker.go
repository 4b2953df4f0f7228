package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tally/internal/amqp"
	"tally/internal/core"
	"tally/internal/sheets"
	"tally/internal/storage"
)

// Storage is the slice of the repository the export worker needs.
type Storage interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	PendingExports(ctx context.Context, limit int) ([]storage.PendingExport, error)
	MarkExported(ctx context.Context, id string) error
	MarkExportError(ctx context.Context, id string) error
}

// ExportWorker pushes transactions from SQLite to the spreadsheet sink.
// Events arrive over AMQP; a periodic backlog sweep catches rows whose
// events were lost.
type ExportWorker struct {
	storage   Storage
	sink      sheets.TransactionAppender
	remover   sheets.TransactionRemover
	batchSize int
}

func NewExportWorker(storage Storage, sink sheets.TransactionAppender, remover sheets.TransactionRemover, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		sink:      sink,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleEvent processes one transaction event. A returned error requeues
// the message; rows deleted between publish and delivery are skipped.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing export event",
		"id", msg.ID,
		"action", msg.Action,
		"version", msg.Version)

	if msg.Action == amqp.ActionDelete {
		return w.removeRow(ctx, msg.ID)
	}

	t, err := w.storage.GetTransaction(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Transaction gone before export, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transaction: %w", err)
	}

	return w.exportRow(ctx, t)
}

func (w *ExportWorker) removeRow(ctx context.Context, id string) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No row remover configured, skipping sheet deletion", "id", id)
		return nil
	}
	if err := w.remover.Remove(ctx, id); err != nil {
		return fmt.Errorf("remove exported row: %w", err)
	}
	return nil
}

func (w *ExportWorker) exportRow(ctx context.Context, t core.Transaction) error {
	rowRef, err := w.sink.Append(ctx, t)
	if err != nil {
		return fmt.Errorf("append to sink: %w", err)
	}

	if err := w.storage.MarkExported(ctx, t.ID); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported", "id", t.ID, "row", rowRef)
	return nil
}

// ProcessPending sweeps the export backlog. Rows that fail to export are
// marked with an error status instead of blocking the batch.
func (w *ExportWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.PendingExports(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing export backlog", "count", len(pending))

	exported := 0
	for _, p := range pending {
		t, err := w.storage.GetTransaction(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction", "id", p.ID, "error", err)
			w.markError(ctx, p.ID)
			continue
		}

		if err := w.exportRow(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending transaction", "id", p.ID, "error", err)
			w.markError(ctx, p.ID)
			continue
		}
		exported++
	}

	slog.InfoContext(ctx, "Export backlog processed", "exported", exported, "total", len(pending))
	return nil
}

func (w *ExportWorker) markError(ctx context.Context, id string) {
	if err := w.storage.MarkExportError(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark export error", "id", id, "error", err)
	}
}

// RunBacklogSweeps sweeps once at startup, then on every tick until the
// context is cancelled.
func (w *ExportWorker) RunBacklogSweeps(ctx context.Context, interval time.Duration) error {
	if err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup backlog sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Backlog sweep failed", "error", err)
			}
		}
	}
}
