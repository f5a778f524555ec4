// Package worker turns expense change events into sheet rows.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expensed/internal/amqp"
	"expensed/internal/core"
)

type (
	// ExpenseReader fetches the current record for an event.
	ExpenseReader interface {
		GetByID(ctx context.Context, id int64) (core.Expense, error)
	}

	// RowAppender writes one exported row per expense.
	RowAppender interface {
		AppendExpense(ctx context.Context, e core.Expense) error
	}
)

// ExportWorker consumes expense change events and mirrors the records to an
// external sheet. The mirror is append-only: deletions are logged, not
// replayed.
type ExportWorker struct {
	store ExpenseReader
	sheet RowAppender
}

func NewExportWorker(store ExpenseReader, sheet RowAppender) *ExportWorker {
	return &ExportWorker{store: store, sheet: sheet}
}

// Handle processes one event. Returning an error requeues the message, so
// events whose record has vanished in the meantime are dropped instead.
func (w *ExportWorker) Handle(ctx context.Context, msg *amqp.ExpenseEvent) error {
	switch msg.Event {
	case amqp.EventCreated, amqp.EventUpdated:
		expense, err := w.store.GetByID(ctx, msg.ID)
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Expense gone before export, skipping",
				"event", msg.Event,
				"id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("fetch expense %d: %w", msg.ID, err)
		}
		if err := w.sheet.AppendExpense(ctx, expense); err != nil {
			return fmt.Errorf("export expense %d: %w", msg.ID, err)
		}
		return nil
	case amqp.EventDeleted:
		slog.InfoContext(ctx, "Expense deleted, mirror row kept", "id", msg.ID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event kind", "event", msg.Event, "id", msg.ID)
		return nil
	}
}
