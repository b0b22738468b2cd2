package view

import (
	"context"
	"errors"
	"fmt"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/table"
)

type expensesState int

const (
	expensesStateBrowse expensesState = iota
	expensesStateForm
	expensesStateConfirm
	expensesStateFilter
)

// sortKeys maps the number keys to the displayed columns.
var sortKeys = map[string]table.Column{
	"1": table.ColumnDescription,
	"2": table.ColumnAmount,
	"3": table.ColumnCategory,
	"4": table.ColumnDate,
}

// ExpensesModel is the main screen: the expense table with its add, edit,
// delete, sort and filter actions. Controller calls that reach the store run
// in commands while busy is set; no key is handled until their result
// message arrives.
type ExpensesModel struct {
	CommonModel
	ctrl     *table.Controller
	ops      table.Ops
	currency string

	state  expensesState
	table  btable.Model
	rows   []table.Row
	marked map[string]bool
	sortOn *sortState

	// Copied from the controller by refreshTable so that View never reads it.
	total    string
	from, to string

	busy   bool
	status status

	form      *huh.Form
	formState *expenseForm
	confirm   *huh.Form
	deleting  *deleteConfirm
	filterBar FilterBar
}

type sortState struct {
	col  table.Column
	desc bool
}

func NewExpensesModel(svc *expense.Service, currency string) ExpensesModel {
	ctrl := table.New(svc)

	t := btable.New(
		btable.WithColumns(expenseColumns(currency, nil)),
		btable.WithFocused(true),
		btable.WithHeight(15),
	)

	s := btable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return ExpensesModel{
		ctrl:      ctrl,
		ops:       ctrl.Ops(),
		currency:  currency,
		total:     ctrl.FormatTotal(),
		table:     t,
		marked:    make(map[string]bool),
		filterBar: NewFilterBar(),
		busy:      true, // until the initial load reports back
	}
}

func expenseColumns(currency string, sorted *sortState) []btable.Column {
	titles := map[table.Column]string{
		table.ColumnDescription: "Description",
		table.ColumnAmount:      "Amount (" + currency + ")",
		table.ColumnCategory:    "Category",
		table.ColumnDate:        "Date",
	}

	if sorted != nil {
		arrow := " ▲"
		if sorted.desc {
			arrow = " ▼"
		}
		titles[sorted.col] += arrow
	}

	return []btable.Column{
		{Title: " ", Width: 3},
		{Title: titles[table.ColumnDescription], Width: 32},
		{Title: titles[table.ColumnAmount], Width: 16},
		{Title: titles[table.ColumnCategory], Width: 15},
		{Title: titles[table.ColumnDate], Width: 12},
	}
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	switch m.state {
	case expensesStateForm, expensesStateConfirm:
		return "Esc: cancel"
	case expensesStateFilter:
		return ""
	}

	return "Space: select | a: add | e/Enter: edit | d: delete | 1-4: sort | f: filter | c: clear filter | r: reload | Esc: back"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.run("load expenses", "", loadAll)
}

// Messages

// tableOpMsg reports the end of a store operation run off the UI loop. apply
// carries its result into the controller and is called from Update only.
type tableOpMsg struct {
	action string
	done   string
	apply  func(*table.Controller)
	err    error
}

// tableOp is the store half of a table action. It must not touch the
// controller; whatever it returns is applied once the result reaches Update.
type tableOp func(ctx context.Context, ops table.Ops) (func(*table.Controller), error)

func loadAll(ctx context.Context, ops table.Ops) (func(*table.Controller), error) {
	s, err := ops.Load(ctx, expense.ListFilter{})
	if err != nil {
		return nil, err
	}

	return func(c *table.Controller) { c.Apply(s) }, nil
}

type editLoadedMsg struct {
	expense *expense.Expense
	err     error
}

// run executes op in a command and marks the model busy until the resulting
// tableOpMsg is handled.
func (m *ExpensesModel) run(action, done string, op tableOp) tea.Cmd {
	m.busy = true
	ops := m.ops

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		apply, err := op(ctx, ops)

		return tableOpMsg{action: action, done: done, apply: apply, err: err}
	}
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		m.table.SetHeight(max(msg.Height-12, 5))
		return m, nil

	case tableOpMsg:
		m.busy = false

		if msg.apply != nil {
			msg.apply(m.ctrl)
		}

		m.refreshTable()

		if msg.err != nil {
			logFailure(msg.action, msg.err)
			m.status = statusFor(msg.err)

			return m.reopenOnInvalid(msg.err)
		}

		m.status = statusOK(msg.done)
		m.closeDialogs()

		return m, nil

	case editLoadedMsg:
		m.busy = false

		if msg.err != nil {
			logFailure("load expense", msg.err)
			m.status = statusFor(msg.err)
			return m, nil
		}

		return m.openForm(newEditForm(msg.expense))

	case FilterSubmittedMsg:
		from, to := msg.From, msg.To
		cmd := m.run("filter expenses", "", func(ctx context.Context, ops table.Ops) (func(*table.Controller), error) {
			s, err := ops.LoadRange(ctx, from, to)
			if err != nil {
				return nil, err
			}

			return func(c *table.Controller) { c.Apply(s) }, nil
		})

		return m, cmd

	case FilterCancelledMsg:
		m.state = expensesStateBrowse
		m.table.Focus()
		return m, nil
	}

	if m.busy {
		return m, nil
	}

	switch m.state {
	case expensesStateForm:
		return m.updateForm(msg)
	case expensesStateConfirm:
		return m.updateConfirm(msg)
	case expensesStateFilter:
		var cmd tea.Cmd
		m.filterBar, cmd = m.filterBar.Update(msg)
		return m, cmd
	}

	return m.updateBrowse(msg)
}

func (m ExpensesModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	key := keyMsg.String()

	if col, ok := sortKeys[key]; ok {
		desc := m.ctrl.Sort(col)
		m.sortOn = &sortState{col: col, desc: desc}
		m.table.SetColumns(expenseColumns(m.currency, m.sortOn))
		m.refreshTable()

		return m, nil
	}

	switch key {
	case "esc":
		return m, Back
	case " ":
		if r, ok := m.cursorRow(); ok {
			m.marked[r.ID()] = !m.marked[r.ID()]
			if !m.marked[r.ID()] {
				delete(m.marked, r.ID())
			}
			m.refreshTable()
		}

		return m, nil
	case "a":
		m.status = status{}
		return m.openForm(newAddForm())
	case "e", "enter":
		m.status = status{}
		ids := m.targetIDs()

		m.busy = true
		ops := m.ops

		return m, func() tea.Msg {
			ctx, cancel := DbCtx()
			defer cancel()

			e, err := ops.Get(ctx, ids)
			return editLoadedMsg{expense: e, err: err}
		}
	case "d":
		return m.startDelete()
	case "f":
		from, to := m.from, m.to
		m.state = expensesStateFilter
		m.table.Blur()

		var cmd tea.Cmd
		m.filterBar, cmd = m.filterBar.Open(from, to)

		return m, cmd
	case "c":
		cmd := m.run("clear filter", "Filter cleared.", loadAll)

		return m, cmd
	case "r":
		cmd := m.run("reload expenses", "", loadAll)

		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m ExpensesModel) openForm(f *expenseForm) (tea.Model, tea.Cmd) {
	m.formState = f
	m.form = f.build(m.currency)
	m.state = expensesStateForm
	m.table.Blur()

	return m, m.form.Init()
}

func (m ExpensesModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeDialogs()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	fs := m.formState
	values := fs.values

	if fs.editing() {
		id := fs.editID
		cmd := m.run("update expense", "Expense updated.", func(ctx context.Context, ops table.Ops) (func(*table.Controller), error) {
			s, err := ops.Edit(ctx, id, values)
			if err != nil {
				return nil, err
			}

			return func(c *table.Controller) { c.Apply(s) }, nil
		})

		return m, cmd
	}

	cmd = m.run("add expense", "Expense added.", func(ctx context.Context, ops table.Ops) (func(*table.Controller), error) {
		e, err := ops.Add(ctx, values)
		if err != nil {
			return nil, err
		}

		return func(c *table.Controller) { c.Append(e) }, nil
	})

	return m, cmd
}

// reopenOnInvalid puts the add/edit dialog back with the entered values when
// the controller rejected them, so the user can correct the field.
func (m ExpensesModel) reopenOnInvalid(err error) (tea.Model, tea.Cmd) {
	var ve *expense.ValidationError
	if m.state == expensesStateForm && m.formState != nil && errors.As(err, &ve) {
		return m.openForm(m.formState)
	}

	if m.state == expensesStateFilter && errors.As(err, &ve) {
		return m, nil
	}

	m.closeDialogs()

	return m, nil
}

func (m ExpensesModel) startDelete() (tea.Model, tea.Cmd) {
	req, err := m.ctrl.PrepareDelete(m.targetIDs())
	if err != nil {
		m.status = statusFor(err)
		return m, nil
	}

	m.status = status{}
	m.deleting = &deleteConfirm{req: req}
	m.confirm = m.deleting.build()
	m.state = expensesStateConfirm
	m.table.Blur()

	return m, m.confirm.Init()
}

func (m ExpensesModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.closeDialogs()
		return m, nil
	}

	form, cmd := m.confirm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.confirm = f
	}

	if m.confirm.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.deleting.yes {
		m.closeDialogs()
		return m, nil
	}

	req := m.deleting.req
	ids := req.IDs()

	// Rows deleted before a failure are removed even when err is set.
	cmd = m.run("delete expenses", fmt.Sprintf("Deleted %d expense(s).", req.Count()), func(ctx context.Context, ops table.Ops) (func(*table.Controller), error) {
		deleted, err := ops.Delete(ctx, ids)
		return func(c *table.Controller) { c.Remove(deleted) }, err
	})

	return m, cmd
}

func (m *ExpensesModel) closeDialogs() {
	m.state = expensesStateBrowse
	m.form = nil
	m.formState = nil
	m.confirm = nil
	m.deleting = nil
	m.table.Focus()
}

// targetIDs returns the marked rows in display order, or the row under the
// cursor when nothing is marked.
func (m ExpensesModel) targetIDs() []string {
	var ids []string

	for _, r := range m.rows {
		if m.marked[r.ID()] {
			ids = append(ids, r.ID())
		}
	}

	if len(ids) > 0 {
		return ids
	}

	if r, ok := m.cursorRow(); ok {
		return []string{r.ID()}
	}

	return nil
}

func (m ExpensesModel) cursorRow() (table.Row, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.rows) {
		return table.Row{}, false
	}

	return m.rows[idx], true
}

// refreshTable copies the controller's rows into the widget and drops marks
// on rows that are no longer displayed.
func (m *ExpensesModel) refreshTable() {
	m.rows = m.ctrl.Rows()
	m.total = m.ctrl.FormatTotal()

	filter := m.ctrl.Filter()
	m.from, m.to = filter.From, filter.To

	shown := make(map[string]bool, len(m.rows))
	out := make([]btable.Row, 0, len(m.rows))

	for _, r := range m.rows {
		shown[r.ID()] = true

		mark := ""
		if m.marked[r.ID()] {
			mark = "[x]"
		}

		out = append(out, btable.Row{
			mark,
			r.Value(table.ColumnDescription),
			r.Value(table.ColumnAmount),
			r.Value(table.ColumnCategory),
			r.Value(table.ColumnDate),
		})
	}

	for id := range m.marked {
		if !shown[id] {
			delete(m.marked, id)
		}
	}

	m.table.SetRows(out)

	if c := m.table.Cursor(); c >= len(out) && len(out) > 0 {
		m.table.SetCursor(len(out) - 1)
	}
}

func (m ExpensesModel) View() string {
	header := titleStyle.Render("Expenses")
	if m.from != "" || m.to != "" {
		header += helpStyle.Render(fmt.Sprintf("  filtered %s .. %s", orDash(m.from), orDash(m.to)))
	}

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	footer := fmt.Sprintf("Total: %s %s   (%d rows, %d selected)",
		m.total, m.currency, len(m.rows), len(m.marked))

	parts := []string{header, ""}

	if m.state == expensesStateFilter {
		parts = append(parts, m.filterBar.View(), "")
	}

	parts = append(parts, tableView, lipgloss.NewStyle().Bold(true).Render(footer))

	if m.busy {
		parts = append(parts, helpStyle.Render("Working..."))
	} else if s := m.status.View(); s != "" {
		parts = append(parts, s)
	}

	parts = append(parts, helpStyle.Render(m.ShortHelp()))

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	var dialog *huh.Form

	switch m.state {
	case expensesStateForm:
		dialog = m.form
	case expensesStateConfirm:
		dialog = m.confirm
	}

	if dialog != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(54).
			Render(dialog.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
