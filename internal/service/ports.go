package service

import (
	"context"

	"expensed/internal/core"
)

// Ports for outbound adapters.
type (
	// ExpenseStore is the storage gateway contract. Implementations must
	// return core.ErrNotFound for lookup misses and keep every operation
	// atomic: a failed call leaves no partial mutation visible.
	ExpenseStore interface {
		Insert(ctx context.Context, e core.Expense) (core.Expense, error)
		GetAll(ctx context.Context) ([]core.Expense, error)
		GetByID(ctx context.Context, id int64) (core.Expense, error)
		Update(ctx context.Context, id int64, patch core.ExpensePatch) (core.Expense, error)
		Delete(ctx context.Context, id int64) (core.Expense, error)
	}

	// EventPublisher announces committed ledger changes. Publishing is
	// best-effort: failures are logged, never surfaced to the caller.
	EventPublisher interface {
		PublishExpenseEvent(ctx context.Context, event string, id int64) error
	}
)
