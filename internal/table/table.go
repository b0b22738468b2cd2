// Package table holds the expense table state and the operations that keep it
// in step with the store. It knows nothing about rendering.
package table

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

var (
	ErrNoSelection   = &expense.Notice{Message: "No expense selected."}
	ErrSelectOne     = &expense.Notice{Message: "Select a single item to edit (double click row or select then click Edit)."}
	ErrSelectOnlyOne = &expense.Notice{Message: "Please select only one item to edit at a time."}
)

// InvalidIDsError rejects a batch that contains identifiers the store cannot
// resolve. No row is touched when it is returned.
type InvalidIDsError struct {
	IDs []string
}

func (e *InvalidIDsError) Error() string {
	return fmt.Sprintf("Invalid expense id(s): %s", strings.Join(e.IDs, ", "))
}

// Controller owns the displayed rows and their running total.
// It is not safe for concurrent use.
type Controller struct {
	ops Ops

	rows   []Row
	total  decimal.Decimal
	filter expense.ListFilter

	// descending holds the direction the next Sort on a column will use.
	descending map[Column]bool
}

func New(svc *expense.Service) *Controller {
	return &Controller{
		ops:        NewOps(svc),
		descending: make(map[Column]bool),
	}
}

// Ops returns the store operations backing the controller.
func (c *Controller) Ops() Ops { return c.ops }

// ReloadAll replaces the rows with every stored expense, ascending by date,
// and recomputes the total from scratch.
func (c *Controller) ReloadAll(ctx context.Context) error {
	return c.rebuild(ctx, expense.ListFilter{})
}

func (c *Controller) rebuild(ctx context.Context, filter expense.ListFilter) error {
	s, err := c.ops.Load(ctx, filter)
	if err != nil {
		return err
	}

	c.Apply(s)

	return nil
}

// Apply replaces the rows and the total with the snapshot's expenses.
func (c *Controller) Apply(s Snapshot) {
	rows := make([]Row, len(s.Expenses))
	total := decimal.Zero

	for i, e := range s.Expenses {
		rows[i] = Row{Expense: e, Tag: tagFor(i)}
		total = total.Add(e.Amount)
	}

	c.rows = rows
	c.total = total
	c.filter = s.Filter
}

// Add validates the form, persists the expense and appends it to the end of
// the table without re-sorting.
func (c *Controller) Add(ctx context.Context, f Form) (*expense.Expense, error) {
	e, err := c.ops.Add(ctx, f)
	if err != nil {
		return nil, err
	}

	c.Append(e)

	return e, nil
}

// Append adds a stored expense as the last row.
func (c *Controller) Append(e *expense.Expense) {
	c.rows = append(c.rows, Row{Expense: e, Tag: tagFor(len(c.rows))})
	c.total = c.total.Add(e.Amount)
}

// Selected loads the single selected record for the edit dialog.
func (c *Controller) Selected(ctx context.Context, ids []string) (*expense.Expense, error) {
	return c.ops.Get(ctx, ids)
}

// Edit validates the form, replaces the record's editable fields and rebuilds
// the whole table.
func (c *Controller) Edit(ctx context.Context, id string, f Form) error {
	s, err := c.ops.Edit(ctx, id, f)
	if err != nil {
		return err
	}

	c.Apply(s)

	return nil
}

// DeleteRequest is a validated, not yet confirmed, batch delete.
type DeleteRequest struct {
	c   *Controller
	ids []string
}

// PrepareDelete checks the selection before anything is removed. Every id
// must be well formed and currently displayed, otherwise the whole batch is
// rejected with an InvalidIDsError.
func (c *Controller) PrepareDelete(ids []string) (*DeleteRequest, error) {
	if len(ids) == 0 {
		return nil, ErrNoSelection
	}

	var invalid []string

	for _, id := range ids {
		if c.ops.svc.CheckID(id) != nil || c.indexOf(id) < 0 {
			invalid = append(invalid, id)
		}
	}

	if len(invalid) > 0 {
		return nil, &InvalidIDsError{IDs: invalid}
	}

	return &DeleteRequest{c: c, ids: slices.Clone(ids)}, nil
}

func (r *DeleteRequest) Count() int { return len(r.ids) }

// IDs returns the records the request will delete.
func (r *DeleteRequest) IDs() []string { return slices.Clone(r.ids) }

// Prompt is the confirmation question shown before deleting.
func (r *DeleteRequest) Prompt() string {
	return fmt.Sprintf("Delete %d selected item(s)?", len(r.ids))
}

// Confirm deletes each selected record, subtracting its amount from the total
// and removing its row. It stops at the first store failure; rows deleted up
// to that point stay removed.
func (r *DeleteRequest) Confirm(ctx context.Context) (int, error) {
	deleted, err := r.c.ops.Delete(ctx, r.ids)
	n := r.c.Remove(deleted)

	return n, err
}

// Remove drops the rows of ids, subtracting their amounts from the total, and
// returns how many rows went away. Ids not displayed are ignored.
func (c *Controller) Remove(ids []string) int {
	removed := 0

	for _, id := range ids {
		i := c.indexOf(id)
		if i < 0 {
			continue
		}

		c.total = c.total.Sub(c.rows[i].Expense.Amount)
		c.rows = slices.Delete(c.rows, i, i+1)
		removed++
	}

	return removed
}

// Sort orders the displayed rows by col. Values compare numerically when every
// cell in the column parses as a number, otherwise case-insensitively. Each
// call on the same column flips the direction, starting ascending. It returns
// whether the applied order was descending.
func (c *Controller) Sort(col Column) bool {
	desc := c.descending[col]

	nums := make(map[string]float64, len(c.rows))
	numeric := true

	for _, r := range c.rows {
		v := r.Value(col)

		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			numeric = false
			break
		}

		nums[v] = f
	}

	slices.SortStableFunc(c.rows, func(a, b Row) int {
		av, bv := a.Value(col), b.Value(col)

		var n int
		if numeric {
			n = cmp.Compare(nums[av], nums[bv])
		} else {
			n = cmp.Compare(strings.ToLower(av), strings.ToLower(bv))
		}

		if desc {
			return -n
		}

		return n
	})

	c.descending[col] = !desc

	return desc
}

// Rows returns a copy of the displayed rows.
func (c *Controller) Rows() []Row {
	return slices.Clone(c.rows)
}

func (c *Controller) Len() int { return len(c.rows) }

// Total is the sum of the displayed rows' amounts.
func (c *Controller) Total() decimal.Decimal { return c.total }

func (c *Controller) FormatTotal() string { return expense.FormatAmount(c.total) }

// Filter returns the range of the last full rebuild.
func (c *Controller) Filter() expense.ListFilter { return c.filter }

func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.rows, func(r Row) bool { return r.Expense.ID == id })
}
