package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/expensetracker/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/expensetracker/internal/backend"
	"github.com/MrJamesThe3rd/expensetracker/internal/chart"
	"github.com/MrJamesThe3rd/expensetracker/internal/config"
	"github.com/MrJamesThe3rd/expensetracker/internal/expense"
	"github.com/MrJamesThe3rd/expensetracker/internal/export"
	"github.com/MrJamesThe3rd/expensetracker/internal/importer"
)

type model struct {
	cfg *config.Config

	expenseService *expense.Service
	chartService   *chart.Service
	exportService  *export.Service
	importService  *importer.Service

	currentView View
	size        tea.WindowSizeMsg

	expensesView view.ExpensesModel
	chartsView   view.ChartsModel
	exportView   view.ExportModel
	importView   view.ImportModel
}

type View int

const (
	ViewMenu     View = 0
	ViewExpenses View = 1
	ViewCharts   View = 2
	ViewExport   View = 3
	ViewImport   View = 4
)

func newModel(cfg *config.Config, repo expense.Repository) model {
	expSvc := expense.NewService(repo)

	return model{
		cfg:            cfg,
		expenseService: expSvc,
		chartService:   chart.NewService(expSvc),
		exportService:  export.NewService(expSvc),
		importService:  importer.NewService(expSvc),
		currentView:    ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// resized forwards the last known terminal size to a freshly opened view.
func (m model) resized(cmd tea.Cmd) tea.Cmd {
	if m.size.Width == 0 {
		return cmd
	}

	size := m.size

	return tea.Batch(cmd, func() tea.Msg { return size })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.size = msg
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewExpenses
				m.expensesView = view.NewExpensesModel(m.expenseService, m.cfg.App.Currency)

				return m, m.resized(m.expensesView.Init())
			case "2":
				m.currentView = ViewCharts
				m.chartsView = view.NewChartsModel(m.chartService, m.cfg.App.Currency)

				return m, m.resized(m.chartsView.Init())
			case "3":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService, m.cfg.Export.Dir)

				return m, m.exportView.Init()
			case "4":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.importService)

				return m, m.importView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewExpenses:
		var newModel tea.Model
		newModel, cmd = m.expensesView.Update(msg)
		m.expensesView = newModel.(view.ExpensesModel)
	case ViewCharts:
		var newModel tea.Model
		newModel, cmd = m.chartsView.Update(msg)
		m.chartsView = newModel.(view.ChartsModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.cfg.App.Name + "\n\n" +
				"1. Expenses\n" +
				"2. Charts\n" +
				"3. Export\n" +
				"4. Import\n\n" +
				"q. Quit",
		)
	case ViewExpenses:
		return m.expensesView.View()
	case ViewCharts:
		return m.chartsView.View()
	case ViewExport:
		return m.exportView.View()
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

// setupLogging sends slog output to the log file so it does not corrupt the
// terminal UI.
func setupLogging(cfg *config.Config) (func(), error) {
	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	return func() { _ = f.Close() }, nil
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	closeLog, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	view.SetDBTimeout(cfg.Store.Timeout)

	ctx := context.Background()

	be, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		return fmt.Errorf("failed to open store: %w", err)
	}

	defer func() {
		if err := be.Close(ctx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	p := tea.NewProgram(newModel(cfg, be.Repository), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		return err
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
