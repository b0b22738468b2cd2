package view

import (
	"time"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/table"
)

// expenseForm holds the field bindings of the add/edit dialog. It lives behind
// a pointer so the bindings survive copies of the enclosing model.
type expenseForm struct {
	title  string
	editID string
	values table.Form
}

func newAddForm() *expenseForm {
	return &expenseForm{
		title:  "Add Expense",
		values: table.Form{Date: time.Now().Format(expense.DateLayout)},
	}
}

func newEditForm(e *expense.Expense) *expenseForm {
	return &expenseForm{
		title:  "Edit Expense",
		editID: e.ID,
		values: table.FormFor(e),
	}
}

func (f *expenseForm) editing() bool { return f.editID != "" }

// build creates the huh form. Fields are not validated here; the controller
// applies the validation rules in order once the form is submitted.
func (f *expenseForm) build(currency string) *huh.Form {
	options := make([]huh.Option[string], 0, len(expense.Categories))
	for _, c := range expense.Categories {
		options = append(options, huh.NewOption(string(c), string(c)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&f.values.Description),

			huh.NewInput().
				Key("amount").
				Title("Amount ("+currency+")").
				Placeholder("0.00").
				Value(&f.values.Amount),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&f.values.Category),

			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&f.values.Date),
		).Title(f.title),
	).WithWidth(50).WithShowHelp(false)
}

// deleteConfirm is the yes/no dialog shown before a batch delete.
type deleteConfirm struct {
	req *table.DeleteRequest
	yes bool
}

func (d *deleteConfirm) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("confirm").
				Title(d.req.Prompt()).
				Affirmative("Yes").
				Negative("No").
				Value(&d.yes),
		),
	).WithWidth(50).WithShowHelp(false)
}
