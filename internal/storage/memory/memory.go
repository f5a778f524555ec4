// Package memory provides an in-memory expense store with the same
// semantics as the SQLite gateway. It backs tests and diskless runs.
package memory

import (
	"context"
	"sync"

	"expensed/internal/core"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
}

func New() *Store {
	return &Store{nextID: 1}
}

// Insert stores the expense and returns it with a fresh id.
func (s *Store) Insert(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.nextID
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

// GetAll returns all expenses in insertion order.
func (s *Store) GetAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

// GetByID returns the expense with the given id, or core.ErrNotFound.
func (s *Store) GetByID(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.items {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

// Update merges the patch into the stored record after re-validating the
// merged result, mirroring the SQLite gateway's transactional behavior.
func (s *Store) Update(_ context.Context, id int64, patch core.ExpensePatch) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID != id {
			continue
		}
		merged := patch.Apply(e)
		if err := merged.Validate(); err != nil {
			return core.Expense{}, err
		}
		s.items[i] = merged
		return merged, nil
	}
	return core.Expense{}, core.ErrNotFound
}

// Delete removes the expense with the given id and returns it.
func (s *Store) Delete(_ context.Context, id int64) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}
