package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/backoffice/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/backoffice/internal/app"
	"github.com/MrJamesThe3rd/backoffice/internal/config"
)

type model struct {
	app *app.App

	currentView View

	importView     view.ImportModel
	reviewView     view.ReviewModel
	listView       view.ListModel
	invoiceView    view.InvoiceModel
	recurringView  view.RecurringModel
	budgetView     view.BudgetModel
	automationView view.AutomationModel
}

type View int

const (
	ViewMenu View = iota
	ViewImport
	ViewReview
	ViewList
	ViewInvoice
	ViewRecurring
	ViewBudget
	ViewAutomation
)

func initialModel(a *app.App) model {
	return model{
		app:         a,
		currentView: ViewMenu,
		importView:  view.NewImportModel(a.Transactions, a.Importer),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Transactions, m.app.Importer)

				return m, m.importView.Init()
			case "2":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.app.Transactions, m.app.Registry)

				return m, m.reviewView.Init()
			case "3":
				m.currentView = ViewList
				m.listView = view.NewListModel(m.app.Transactions)

				return m, m.listView.Init()
			case "4":
				m.currentView = ViewInvoice
				m.invoiceView = view.NewInvoiceModel(m.app.Invoices)

				return m, m.invoiceView.Init()
			case "5":
				m.currentView = ViewRecurring
				m.recurringView = view.NewRecurringModel(m.app.Recurring)

				return m, m.recurringView.Init()
			case "6":
				m.currentView = ViewBudget
				m.budgetView = view.NewBudgetModel(m.app.Budgets)

				return m, m.budgetView.Init()
			case "7":
				m.currentView = ViewAutomation
				m.automationView = view.NewAutomationModel(m.app.Automation)

				return m, m.automationView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewList:
		var newModel tea.Model
		newModel, cmd = m.listView.Update(msg)
		m.listView = newModel.(view.ListModel)
	case ViewInvoice:
		var newModel tea.Model
		newModel, cmd = m.invoiceView.Update(msg)
		m.invoiceView = newModel.(view.InvoiceModel)
	case ViewRecurring:
		var newModel tea.Model
		newModel, cmd = m.recurringView.Update(msg)
		m.recurringView = newModel.(view.RecurringModel)
	case ViewBudget:
		var newModel tea.Model
		newModel, cmd = m.budgetView.Update(msg)
		m.budgetView = newModel.(view.BudgetModel)
	case ViewAutomation:
		var newModel tea.Model
		newModel, cmd = m.automationView.Update(msg)
		m.automationView = newModel.(view.AutomationModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			m.app.Config.App.Name + " console\n\n" +
				"1. Import Transactions\n" +
				"2. Review Pending Transactions\n" +
				"3. List All Transactions\n" +
				"4. Invoices\n" +
				"5. Recurring Transactions\n" +
				"6. Budgets\n" +
				"7. Run Automation\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	case ViewReview:
		return m.reviewView.View()
	case ViewList:
		return m.listView.View()
	case ViewInvoice:
		return m.invoiceView.View()
	case ViewRecurring:
		return m.recurringView.View()
	case ViewBudget:
		return m.budgetView.View()
	case ViewAutomation:
		return m.automationView.View()
	}

	return "Unknown View"
}

func main() {
	_ = godotenv.Load()

	// Logs would garble the terminal UI.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	if err := run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("starting: %w", err)
	}
	defer a.Close()

	_, err = tea.NewProgram(initialModel(a)).Run()

	return err
}
