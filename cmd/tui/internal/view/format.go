package view

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/table"
)

var dbTimeout = 5 * time.Second

// SetDBTimeout overrides the deadline applied to every store call.
func SetDBTimeout(d time.Duration) {
	if d > 0 {
		dbTimeout = d
	}
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// FormatAmount renders an amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return expense.FormatAmount(d)
}

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
)

// status is the one-line message channel shown under each screen.
type status struct {
	text  string
	style lipgloss.Style
}

func statusOK(text string) status { return status{text: text, style: successStyle} }

// statusFor picks the style from the kind of err: notices are informational,
// everything else is an error.
func statusFor(err error) status {
	var ide *table.InvalidIDsError
	if errors.As(err, &ide) {
		return status{text: ide.Error(), style: errorStyle}
	}

	if expense.IsNotice(err) {
		return status{text: expense.Message(err), style: infoStyle}
	}

	return status{text: expense.Message(err), style: errorStyle}
}

func (s status) View() string {
	if s.text == "" {
		return ""
	}

	return s.style.Render(s.text)
}

// logFailure records store and I/O failures. Validation errors and notices
// are user input problems and are only shown on the status line.
func logFailure(action string, err error) {
	var (
		ve  *expense.ValidationError
		ide *table.InvalidIDsError
	)
	if err == nil || errors.As(err, &ve) || errors.As(err, &ide) || expense.IsNotice(err) {
		return
	}

	slog.Error("failed to "+action, "error", err)
}
