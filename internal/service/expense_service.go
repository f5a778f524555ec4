package service

import (
	"context"
	"log/slog"
	"strings"

	"expensed/internal/amqp"
	"expensed/internal/core"
)

// ExpenseService implements the expense record operations against the
// storage gateway. It holds no state of its own: every operation is a
// single request/response transaction.
type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

// NewExpenseService creates the service. events may be nil, in which case
// change notifications are skipped.
func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// NewExpense is the input for Create; the id is assigned by the store.
type NewExpense struct {
	Category string
	Amount   float64
	Date     core.Date
}

// Create validates the input, inserts it, and returns the stored record
// with its assigned id.
func (s *ExpenseService) Create(ctx context.Context, input NewExpense) (core.Expense, error) {
	e := core.Expense{
		Category: input.Category,
		Amount:   input.Amount,
		Date:     input.Date,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	stored, err := s.store.Insert(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.EventCreated, stored.ID)
	return stored, nil
}

// ListAll returns every stored expense, or core.ErrNoExpenses when the
// table is empty.
func (s *ExpenseService) ListAll(ctx context.Context) ([]core.Expense, error) {
	expenses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, core.ErrNoExpenses
	}
	return expenses, nil
}

// ListByCategory returns expenses whose category matches the input under
// case-insensitive comparison. The match is exact, not substring.
func (s *ExpenseService) ListByCategory(ctx context.Context, category string) ([]core.Expense, error) {
	return s.matchCategory(ctx, "category", category)
}

// Search has the same exact-match semantics as ListByCategory; it exists as
// a separate operation because the HTTP surface exposes it separately.
func (s *ExpenseService) Search(ctx context.Context, query string) ([]core.Expense, error) {
	return s.matchCategory(ctx, "q", query)
}

func (s *ExpenseService) matchCategory(ctx context.Context, field, category string) ([]core.Expense, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, &core.ValidationError{Field: field, Reason: field + " is required"}
	}

	expenses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var matched []core.Expense
	for _, e := range expenses {
		if strings.EqualFold(e.Category, category) {
			matched = append(matched, e)
		}
	}
	if len(matched) == 0 {
		return nil, core.ErrNoExpenses
	}
	return matched, nil
}

// Summarize groups all expenses by category and returns per-category totals
// strictly greater than minAmount, ordered by descending total. An empty
// table is reported (before filtering) as core.ErrNoExpenses.
func (s *ExpenseService) Summarize(ctx context.Context, minAmount float64) (core.Summary, error) {
	expenses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, core.ErrNoExpenses
	}
	return core.Summarize(expenses, minAmount), nil
}

// Delete removes the identified expense and returns the removed record.
// Non-positive ids are rejected before any storage call; generated ids
// start at 1, so a legitimate record can never be masked by this check.
func (s *ExpenseService) Delete(ctx context.Context, id int64) (core.Expense, error) {
	if id <= 0 {
		return core.Expense{}, &core.ValidationError{Field: "id", Reason: "expense id is required"}
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.EventDeleted, id)
	return deleted, nil
}

// Update merges the supplied fields into the stored record. The patch is
// validated first; the gateway re-validates the merged record before commit.
func (s *ExpenseService) Update(ctx context.Context, id int64, patch core.ExpensePatch) (core.Expense, error) {
	if err := patch.Validate(); err != nil {
		return core.Expense{}, err
	}

	updated, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return core.Expense{}, err
	}

	s.publish(ctx, amqp.EventUpdated, id)
	return updated, nil
}

// FilterByDate returns expenses with start <= date <= end, both bounds
// inclusive. A nil start means no lower bound; a nil end defaults to today.
// An empty result is returned as an empty slice, not an error.
func (s *ExpenseService) FilterByDate(ctx context.Context, start, end *core.Date) ([]core.Expense, error) {
	expenses, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	upper := core.Today()
	if end != nil {
		upper = *end
	}

	matched := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if start != nil && e.Date.Before(*start) {
			continue
		}
		if e.Date.After(upper) {
			continue
		}
		matched = append(matched, e)
	}
	return matched, nil
}

// Get returns a single expense by id.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ExpenseService) publish(ctx context.Context, event string, id int64) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseEvent(ctx, event, id); err != nil {
		// The record is already committed; the mirror catches up later.
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"error", err,
			"event", event,
			"id", id)
	}
}
