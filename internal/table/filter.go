package table

import (
	"context"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

var (
	ErrFromDate = &expense.ValidationError{Message: "From date must be YYYY-MM-DD"}
	ErrToDate   = &expense.ValidationError{Message: "To date must be YYYY-MM-DD"}
)

// Filter narrows the table to an inclusive date range.
type Filter struct {
	table *Controller
}

func NewFilter(c *Controller) *Filter {
	return &Filter{table: c}
}

// Apply rebuilds the table with expenses dated within [from, to]. A blank
// bound is unbounded. A malformed bound aborts without touching the table.
func (f *Filter) Apply(ctx context.Context, from, to string) error {
	s, err := f.table.ops.LoadRange(ctx, from, to)
	if err != nil {
		return err
	}

	f.table.Apply(s)

	return nil
}

// Clear drops both bounds and reloads every expense.
func (f *Filter) Clear(ctx context.Context) error {
	return f.table.ReloadAll(ctx)
}

// Bounds returns the range currently applied to the table.
func (f *Filter) Bounds() (from, to string) {
	cur := f.table.Filter()
	return cur.From, cur.To
}

// Active reports whether either bound is set.
func (f *Filter) Active() bool {
	from, to := f.Bounds()
	return from != "" || to != ""
}
