package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// FilterSubmittedMsg carries the raw bounds typed into the filter bar.
type FilterSubmittedMsg struct {
	From string
	To   string
}

// FilterCancelledMsg closes the filter bar without touching the table.
type FilterCancelledMsg struct{}

// FilterBar is the From/To input pair above the expense table.
type FilterBar struct {
	fromInput  textinput.Model
	toInput    textinput.Model
	focusIndex int
	preset     int
	now        func() time.Time
}

func NewFilterBar() FilterBar {
	fi := textinput.New()
	fi.Placeholder = "YYYY-MM-DD"
	fi.CharLimit = 10
	fi.Width = 12
	fi.Prompt = "From: "

	ti := textinput.New()
	ti.Placeholder = "YYYY-MM-DD"
	ti.CharLimit = 10
	ti.Width = 12
	ti.Prompt = "To: "

	return FilterBar{
		fromInput: fi,
		toInput:   ti,
		preset:    -1,
		now:       time.Now,
	}
}

// Open focuses the From input and pre-fills the inputs with the active range.
func (m FilterBar) Open(from, to string) (FilterBar, tea.Cmd) {
	m.fromInput.SetValue(from)
	m.toInput.SetValue(to)
	m.focusIndex = 0
	m.preset = -1
	m.toInput.Blur()
	m.fromInput.Focus()

	return m, textinput.Blink
}

func (m FilterBar) Update(msg tea.Msg) (FilterBar, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "tab", "shift+tab":
			m.focusIndex = (m.focusIndex + 1) % 2
			m.fromInput.Blur()
			m.toInput.Blur()
			if m.focusIndex == 0 {
				m.fromInput.Focus()
				return m, textinput.Blink
			}
			m.toInput.Focus()
			return m, textinput.Blink

		case "ctrl+p":
			m.preset = (m.preset + 1) % len(presets)
			from, to := presets[m.preset].Range(m.now())
			m.fromInput.SetValue(from)
			m.toInput.SetValue(to)
			return m, nil

		case "enter":
			from, to := m.fromInput.Value(), m.toInput.Value()
			return m, func() tea.Msg {
				return FilterSubmittedMsg{From: from, To: to}
			}

		case "esc":
			return m, func() tea.Msg { return FilterCancelledMsg{} }
		}
	}

	var cmds []tea.Cmd
	var c tea.Cmd

	m.fromInput, c = m.fromInput.Update(msg)
	cmds = append(cmds, c)
	m.toInput, c = m.toInput.Update(msg)
	cmds = append(cmds, c)

	return m, tea.Batch(cmds...)
}

func (m FilterBar) View() string {
	preset := ""
	if m.preset >= 0 {
		preset = fmt.Sprintf("  [%s]", presets[m.preset])
	}

	return fmt.Sprintf("%s  %s%s\n%s",
		m.fromInput.View(),
		m.toInput.View(),
		preset,
		helpStyle.Render("Enter: apply | Tab: switch | Ctrl+P: preset range | Esc: cancel"),
	)
}
