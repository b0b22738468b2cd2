package view

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

const (
	importTimeout = 2 * time.Minute
	maxRejected   = 10
)

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string

	result *importer.Result
	status status
}

func NewImportModel(svc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		importService: svc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Expenses" }

func (m ImportModel) ShortHelp() string {
	if m.state == importStateResult {
		return "Esc: back"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case importResultMsg:
		m.state = importStateResult
		m.result = msg.result

		switch {
		case msg.fileErr:
			logFailure("open import file", msg.err)
			m.status = status{text: msg.err.Error(), style: errorStyle}
		case msg.err != nil:
			logFailure("import expenses", msg.err)
			m.status = statusFor(msg.err)
		default:
			m.status = statusOK(importer.Summary(msg.result))
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.path = path

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.state == importStateResult {
		m.state = importStateFilePick
		m.result = nil
		m.status = status{}

		return m, nil
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select a CSV file to import:\n\n%s", m.filePicker.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Importing from %s...", m.path))
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewResult() string {
	lines := []string{m.status.View()}

	if m.result != nil && len(m.result.Rejected) > 0 {
		lines = append(lines, "", "Skipped rows:")

		for i, r := range m.result.Rejected {
			if i == maxRejected {
				lines = append(lines, fmt.Sprintf("  ... and %d more", len(m.result.Rejected)-maxRejected))
				break
			}

			lines = append(lines, fmt.Sprintf("  line %d: %s", r.Line, r.Message))
		}
	}

	if m.result != nil && m.result.Encoding != "" {
		lines = append(lines, "", helpStyle.Render("Source encoding: "+string(m.result.Encoding)))
	}

	lines = append(lines, "", helpStyle.Render("(Esc to go back)"))

	return lipgloss.NewStyle().Padding(2).Render(strings.Join(lines, "\n"))
}

// Messages

type importResultMsg struct {
	result  *importer.Result
	err     error
	fileErr bool
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: fmt.Errorf("opening %s: %w", path, err), fileErr: true}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, f)

		return importResultMsg{result: result, err: err}
	}
}
