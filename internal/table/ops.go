package table

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

// Snapshot is a listing read from the store, not yet shown.
type Snapshot struct {
	Expenses []*expense.Expense
	Filter   expense.ListFilter
}

// Ops are the store halves of the controller operations. They only go through
// the expense service and never touch a Controller, so they may run on any
// goroutine. Their results are applied with Controller.Apply, Append and
// Remove.
type Ops struct {
	svc *expense.Service
}

func NewOps(svc *expense.Service) Ops {
	return Ops{svc: svc}
}

// Load lists the expenses matching filter, ascending by date.
func (o Ops) Load(ctx context.Context, filter expense.ListFilter) (Snapshot, error) {
	exps, err := o.svc.List(ctx, filter)
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading expenses: %w", err)
	}

	return Snapshot{Expenses: exps, Filter: filter}, nil
}

// LoadRange validates the bounds with ParseRange and loads the range.
func (o Ops) LoadRange(ctx context.Context, from, to string) (Snapshot, error) {
	filter, err := ParseRange(from, to)
	if err != nil {
		return Snapshot{}, err
	}

	return o.Load(ctx, filter)
}

// Add validates the form and persists it.
func (o Ops) Add(ctx context.Context, f Form) (*expense.Expense, error) {
	in, err := f.Parse()
	if err != nil {
		return nil, err
	}

	e, err := o.svc.Add(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("adding expense: %w", err)
	}

	return e, nil
}

// Get loads the single selected record for the edit dialog.
func (o Ops) Get(ctx context.Context, ids []string) (*expense.Expense, error) {
	switch {
	case len(ids) == 0:
		return nil, ErrSelectOne
	case len(ids) > 1:
		return nil, ErrSelectOnlyOne
	}

	e, err := o.svc.Get(ctx, ids[0])
	if err != nil {
		return nil, fmt.Errorf("loading expense: %w", err)
	}

	return e, nil
}

// Edit validates the form, replaces the record's editable fields and loads
// every expense unfiltered.
func (o Ops) Edit(ctx context.Context, id string, f Form) (Snapshot, error) {
	in, err := f.Parse()
	if err != nil {
		return Snapshot{}, err
	}

	if err := o.svc.Update(ctx, id, in); err != nil {
		return Snapshot{}, fmt.Errorf("updating expense: %w", err)
	}

	return o.Load(ctx, expense.ListFilter{})
}

// Delete removes ids in order and returns those that are gone from the store.
// A record already missing counts as deleted. It stops at the first other
// failure.
func (o Ops) Delete(ctx context.Context, ids []string) ([]string, error) {
	deleted := make([]string, 0, len(ids))

	for _, id := range ids {
		err := o.svc.Delete(ctx, id)
		if err != nil && !errors.Is(err, expense.ErrNotFound) {
			return deleted, fmt.Errorf("deleting expense: %w", err)
		}

		deleted = append(deleted, id)
	}

	return deleted, nil
}

// ParseRange trims and validates inclusive date bounds. A blank bound is
// unbounded.
func ParseRange(from, to string) (expense.ListFilter, error) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)

	if from != "" && !expense.ValidDate(from) {
		return expense.ListFilter{}, ErrFromDate
	}

	if to != "" && !expense.ValidDate(to) {
		return expense.ListFilter{}, ErrToDate
	}

	return expense.ListFilter{From: from, To: to}, nil
}
