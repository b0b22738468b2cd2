package view

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/expensetracker/internal/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
)

type chartMode int

const (
	chartModeCategory chartMode = iota
	chartModeDate
)

func (c chartMode) String() string {
	if c == chartModeDate {
		return "By Date"
	}

	return "By Category"
}

type ChartsModel struct {
	CommonModel
	chartService *chart.Service
	currency     string

	mode    chartMode
	slices  []chart.Slice
	bars    []chart.Bar
	loading bool
	status  status
}

func NewChartsModel(svc *chart.Service, currency string) ChartsModel {
	return ChartsModel{
		chartService: svc,
		currency:     currency,
		loading:      true,
	}
}

func (m ChartsModel) Title() string { return "Charts" }

func (m ChartsModel) ShortHelp() string {
	return "Tab: switch chart | r: reload | Esc: back"
}

func (m ChartsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ChartsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg)
		return m, nil

	case chartsLoadedMsg:
		m.loading = false
		m.slices = msg.slices
		m.bars = msg.bars
		m.status = status{}

		if msg.err != nil {
			logFailure("load chart data", msg.err)
			m.status = statusFor(msg.err)
		}

		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "tab", "left", "right":
			m.mode = (m.mode + 1) % 2
			return m, nil
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m ChartsModel) View() string {
	header := titleStyle.Render("Charts") + "  " + activeStyle(m.mode.String())

	var body string

	switch {
	case m.loading:
		body = "Loading..."
	case m.status.text != "":
		body = m.status.View()
	case m.mode == chartModeDate:
		body = RenderBars(m.bars, m.chartHeight())
	default:
		body = RenderPie(m.slices, m.chartWidth())
	}

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			body,
			"",
			helpStyle.Render(fmt.Sprintf("Amounts in %s | %s", m.currency, m.ShortHelp())),
		),
	)
}

func (m ChartsModel) chartWidth() int {
	if m.Width == 0 {
		return 40
	}

	return max(m.Width-40, 10)
}

func (m ChartsModel) chartHeight() int {
	if m.Height == 0 {
		return 12
	}

	return max(m.Height-22, 4)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

// Messages

type chartsLoadedMsg struct {
	slices []chart.Slice
	bars   []chart.Bar
	err    error
}

func (m ChartsModel) loadCmd() tea.Cmd {
	svc := m.chartService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		slices, err := svc.CategoryBreakdown(ctx)
		if err != nil {
			return chartsLoadedMsg{err: err}
		}

		bars, err := svc.DateBreakdown(ctx)
		if err != nil {
			return chartsLoadedMsg{err: err}
		}

		return chartsLoadedMsg{slices: slices, bars: bars}
	}
}

// Rendering

var palette = []lipgloss.Color{"39", "205", "46", "214", "141", "196", "51", "226", "99", "250"}

func categoryColor(c expense.Category) lipgloss.Color {
	for i, known := range expense.Categories {
		if known == c {
			return palette[i%len(palette)]
		}
	}

	return palette[len(palette)-1]
}

// RenderPie draws the category breakdown as one proportional bar per slice,
// labelled with its percentage of the total. width is the length of a bar
// holding the whole total.
func RenderPie(slices []chart.Slice, width int) string {
	if len(slices) == 0 {
		return ""
	}

	width = max(width, 1)

	labelWidth := 0
	for _, s := range slices {
		labelWidth = max(labelWidth, len(s.Category))
	}

	var b strings.Builder

	for i, s := range slices {
		n := int(math.Round(s.Percent / 100 * float64(width)))
		if n == 0 && s.Total.IsPositive() {
			n = 1
		}

		bar := lipgloss.NewStyle().Foreground(categoryColor(s.Category)).Render(strings.Repeat("█", n))

		fmt.Fprintf(&b, "%-*s %s%s %5.1f%%  %s",
			labelWidth, s.Category,
			bar, strings.Repeat(" ", width-n),
			s.Percent,
			FormatAmount(s.Total),
		)

		if i < len(slices)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

const barWidth = 3

// RenderBars draws the date breakdown as a column chart of the given height.
// Date labels are written top to bottom under each column.
func RenderBars(bars []chart.Bar, height int) string {
	if len(bars) == 0 {
		return ""
	}

	height = max(height, 1)

	peak := 0.0
	for _, bar := range bars {
		peak = max(peak, bar.Total.InexactFloat64())
	}

	heights := make([]int, len(bars))
	for i, bar := range bars {
		if peak > 0 {
			heights[i] = int(math.Round(bar.Total.InexactFloat64() / peak * float64(height)))
		}

		if heights[i] == 0 && bar.Total.IsPositive() {
			heights[i] = 1
		}
	}

	axis := fmt.Sprintf("%.2f", peak)
	axisWidth := len(axis)
	column := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	var lines []string

	for row := height; row >= 1; row-- {
		label := strings.Repeat(" ", axisWidth)

		switch row {
		case height:
			label = axis
		case 1:
			label = fmt.Sprintf("%*s", axisWidth, "0")
		}

		var b strings.Builder
		b.WriteString(label + " │")

		for _, h := range heights {
			if h >= row {
				b.WriteString(column.Render(strings.Repeat("█", barWidth-1)) + " ")
				continue
			}

			b.WriteString(strings.Repeat(" ", barWidth))
		}

		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	lines = append(lines, strings.Repeat(" ", axisWidth)+" └"+strings.Repeat("─", barWidth*len(bars)))

	labelLen := 0
	for _, bar := range bars {
		labelLen = max(labelLen, len(bar.Date))
	}

	for k := range labelLen {
		var b strings.Builder
		b.WriteString(strings.Repeat(" ", axisWidth+2))

		for _, bar := range bars {
			ch := " "
			if k < len(bar.Date) {
				ch = bar.Date[k : k+1]
			}

			b.WriteString(ch + strings.Repeat(" ", barWidth-1))
		}

		lines = append(lines, strings.TrimRight(b.String(), " "))
	}

	return strings.Join(lines, "\n")
}
