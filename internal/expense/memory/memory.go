// Package memory is an in-process expense repository. It backs
// STORE_BACKEND=memory and the controller tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

type Store struct {
	mu    sync.Mutex
	items []expense.Expense
	now   func() time.Time
}

func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Insert(_ context.Context, e *expense.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = uuid.NewString()
	e.CreatedAt = s.now().UTC()
	s.items = append(s.items, *e)

	return nil
}

// List returns copies of the matching expenses, stably sorted by date so that
// insertion order breaks ties the way a document store's natural order does.
func (s *Store) List(_ context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*expense.Expense

	for _, e := range s.items {
		if !filter.Matches(&e) {
			continue
		}

		out = append(out, &e)
	}

	slices.SortStableFunc(out, func(a, b *expense.Expense) int {
		return cmp.Compare(a.Date, b.Date)
	})

	return out, nil
}

func (s *Store) Get(_ context.Context, id string) (*expense.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, expense.ErrNotFound
	}

	e := s.items[i]

	return &e, nil
}

func (s *Store) Update(_ context.Context, id string, in expense.Input) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return expense.ErrNotFound
	}

	s.items[i].Description = in.Description
	s.items[i].Amount = in.Amount
	s.items[i].Category = in.Category
	s.items[i].Date = in.Date

	return nil
}

func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return expense.ErrNotFound
	}

	s.items = slices.Delete(s.items, i, i+1)

	return nil
}

func (s *Store) ParseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return expense.ErrInvalidID
	}

	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.items, func(e expense.Expense) bool { return e.ID == id })
}
