package table

import (
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

// Tag is the alternating visual tag of a row.
type Tag string

const (
	TagEven Tag = "even"
	TagOdd  Tag = "odd"
)

func tagFor(i int) Tag {
	if i%2 == 0 {
		return TagEven
	}

	return TagOdd
}

// Column identifies a sortable table column.
type Column int

const (
	ColumnID Column = iota
	ColumnDescription
	ColumnAmount
	ColumnCategory
	ColumnDate
)

// Columns lists the table columns in display order.
var Columns = []Column{ColumnID, ColumnDescription, ColumnAmount, ColumnCategory, ColumnDate}

func (c Column) String() string {
	switch c {
	case ColumnID:
		return "Id"
	case ColumnDescription:
		return "Description"
	case ColumnAmount:
		return "Amount"
	case ColumnCategory:
		return "Category"
	case ColumnDate:
		return "Date"
	}

	return "Unknown"
}

// Row is the displayed projection of an expense.
type Row struct {
	Expense *expense.Expense
	Tag     Tag
}

// ID returns the store identifier of the row's expense.
func (r Row) ID() string { return r.Expense.ID }

// Value returns the cell text of the given column.
func (r Row) Value(c Column) string {
	switch c {
	case ColumnID:
		return r.Expense.ID
	case ColumnDescription:
		return r.Expense.Description
	case ColumnAmount:
		return expense.FormatAmount(r.Expense.Amount)
	case ColumnCategory:
		return string(r.Expense.Category)
	case ColumnDate:
		return r.Expense.Date
	}

	return ""
}

// Values returns the row's cells in Columns order.
func (r Row) Values() []string {
	out := make([]string, len(Columns))
	for i, c := range Columns {
		out[i] = r.Value(c)
	}

	return out
}

// Form carries the raw text of the add/edit form fields.
type Form struct {
	Description string
	Amount      string
	Category    string
	Date        string
}

// Parse validates the form with the expense validation rules.
func (f Form) Parse() (expense.Input, error) {
	return expense.ParseInput(f.Description, f.Amount, f.Category, f.Date)
}

// FormFor pre-fills a form from an existing expense, as the edit dialog does.
func FormFor(e *expense.Expense) Form {
	return Form{
		Description: e.Description,
		Amount:      expense.FormatAmount(e.Amount),
		Category:    string(e.Category),
		Date:        e.Date,
	}
}
