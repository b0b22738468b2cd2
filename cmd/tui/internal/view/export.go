package view

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensetracker/internal/export"
)

type exportState int

const (
	exportStateForm exportState = iota
	exportStateExporting
	exportStateResult
)

// exportChoice holds the form bindings behind a pointer so they survive copies
// of the model.
type exportChoice struct {
	format export.Format
	path   string
}

type ExportModel struct {
	CommonModel
	exportService *export.Service

	state   exportState
	choice  *exportChoice
	form    *huh.Form
	spinner spinner.Model
	result  status
}

func NewExportModel(svc *export.Service, dir string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := ExportModel{
		exportService: svc,
		state:         exportStateForm,
		choice: &exportChoice{
			format: export.FormatCSV,
			path:   filepath.Join(dir, "expenses"),
		},
		spinner: s,
	}
	m.form = m.buildForm()

	return m
}

func (m ExportModel) Title() string { return "Export Expenses" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStateForm:
		return m.updateForm(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.choice.format, m.choice.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.result = result.status
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "enter":
			m.state = exportStateForm
			m.form = m.buildForm()
			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m ExportModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[export.Format]().
				Key("format").
				Title("Format").
				Options(
					huh.NewOption("CSV", export.FormatCSV),
					huh.NewOption("Excel (xlsx)", export.FormatXLSX),
				).
				Value(&m.choice.format),

			huh.NewInput().
				Key("path").
				Title("Output File").
				Description("The extension is added when missing").
				Value(&m.choice.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting expenses...", m.spinner.View()),
		)

	case exportStateResult:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				m.result.View(),
				"",
				helpStyle.Render("Enter: export again | Esc: back to menu"),
			),
		)
	}

	return ""
}

type exportResultMsg struct {
	status status
}

const exportTimeout = 2 * time.Minute

func (m ExportModel) runExportCmd(format export.Format, path string) tea.Cmd {
	svc := m.exportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		res, err := svc.Export(ctx, format, path)
		if err != nil {
			logFailure("export expenses", err)
			return exportResultMsg{status: statusFor(err)}
		}

		return exportResultMsg{status: statusOK(svc.Summary(res))}
	}
}
