package expense

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	Insert(ctx context.Context, e *Expense) error
	List(ctx context.Context, filter ListFilter) ([]*Expense, error)
	Get(ctx context.Context, id string) (*Expense, error)
	Update(ctx context.Context, id string, in Input) error
	Delete(ctx context.Context, id string) error

	// ParseID returns ErrInvalidID if id cannot identify a stored record.
	ParseID(id string) error
}

// ListFilter selects expenses by an inclusive date range. An empty bound is
// unbounded on that side.
type ListFilter struct {
	From string
	To   string
}

// Matches reports whether e falls inside the filter's range.
func (f ListFilter) Matches(e *Expense) bool {
	if f.From != "" && e.Date < f.From {
		return false
	}

	if f.To != "" && e.Date > f.To {
		return false
	}

	return true
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Add validates and persists a new expense. The returned expense carries the
// store-assigned ID and CreatedAt.
func (s *Service) Add(ctx context.Context, in Input) (*Expense, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	e := &Expense{
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
	}
	if err := s.repo.Insert(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// FindAll returns every expense sorted ascending by date.
func (s *Service) FindAll(ctx context.Context) ([]*Expense, error) {
	return s.repo.List(ctx, ListFilter{})
}

// FindByDateRange returns expenses with from <= date <= to, sorted ascending
// by date. Either bound may be empty.
func (s *Service) FindByDateRange(ctx context.Context, from, to string) ([]*Expense, error) {
	return s.repo.List(ctx, ListFilter{From: from, To: to})
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id string) (*Expense, error) {
	if err := s.repo.ParseID(id); err != nil {
		return nil, err
	}

	return s.repo.Get(ctx, id)
}

// Update replaces the editable fields of the expense with the given id.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	if err := in.Validate(); err != nil {
		return err
	}

	if err := s.repo.ParseID(id); err != nil {
		return err
	}

	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.ParseID(id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting expense %s: %w", id, err)
	}

	return nil
}

// CheckID reports whether id is a well-formed store identifier.
func (s *Service) CheckID(id string) error {
	return s.repo.ParseID(id)
}
