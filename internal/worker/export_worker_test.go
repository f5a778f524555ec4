package worker

import (
	"context"
	"errors"
	"testing"

	"expensed/internal/amqp"
	"expensed/internal/core"
	"expensed/internal/storage/memory"
)

type fakeSheet struct {
	rows    []core.Expense
	failure error
}

func (f *fakeSheet) AppendExpense(_ context.Context, e core.Expense) error {
	if f.failure != nil {
		return f.failure
	}
	f.rows = append(f.rows, e)
	return nil
}

func TestHandleCreatedAppendsRow(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	stored, _ := store.Insert(ctx, core.Expense{Category: "Food", Amount: 10, Date: core.NewDate(2024, 1, 1)})

	sheet := &fakeSheet{}
	w := NewExportWorker(store, sheet)

	if err := w.Handle(ctx, amqp.NewExpenseEvent(amqp.EventCreated, stored.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(sheet.rows) != 1 || sheet.rows[0].ID != stored.ID {
		t.Fatalf("expected one exported row, got %+v", sheet.rows)
	}
}

func TestHandleMissingRecordIsDropped(t *testing.T) {
	w := NewExportWorker(memory.New(), &fakeSheet{})
	// The record has been deleted since the event was published; the event
	// must be acked, not requeued forever.
	if err := w.Handle(context.Background(), amqp.NewExpenseEvent(amqp.EventUpdated, 42)); err != nil {
		t.Fatalf("expected nil for vanished record, got %v", err)
	}
}

func TestHandleAppendFailureRequeues(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	stored, _ := store.Insert(ctx, core.Expense{Category: "Food", Amount: 10, Date: core.NewDate(2024, 1, 1)})

	sheet := &fakeSheet{failure: errors.New("quota exceeded")}
	w := NewExportWorker(store, sheet)

	if err := w.Handle(ctx, amqp.NewExpenseEvent(amqp.EventCreated, stored.ID)); err == nil {
		t.Fatalf("expected error so the event is requeued")
	}
}

func TestHandleDeletedIsNoOp(t *testing.T) {
	sheet := &fakeSheet{}
	w := NewExportWorker(memory.New(), sheet)
	if err := w.Handle(context.Background(), amqp.NewExpenseEvent(amqp.EventDeleted, 1)); err != nil {
		t.Fatalf("handle deleted: %v", err)
	}
	if len(sheet.rows) != 0 {
		t.Fatalf("deleted events must not append rows")
	}
}
