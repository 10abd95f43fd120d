package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/backoffice/internal/budget"
)

type budgetState int

const (
	budgetStateList budgetState = iota
	budgetStateDetail
)

type BudgetModel struct {
	CommonModel
	svc *budget.Service

	state      budgetState
	table      table.Model
	detail     table.Model
	budgets    []*budget.Budget
	current    *budget.Budget
	categories []*budget.Category
	alerts     []budget.Alert

	loading bool
	status  string
}

func NewBudgetModel(svc *budget.Service) BudgetModel {
	detail := newTable([]table.Column{
		{Title: "Category", Width: 24},
		{Title: "Allocated", Width: 12},
		{Title: "Spent", Width: 12},
		{Title: "Remaining", Width: 12},
		{Title: "Used %", Width: 8},
		{Title: "Last Alert", Width: 12},
	})
	detail.Blur()

	return BudgetModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Name", Width: 24},
			{Title: "Period", Width: 10},
			{Title: "Start", Width: 12},
			{Title: "End", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Status", Width: 10},
		}),
		detail:  detail,
		loading: true,
	}
}

func (m BudgetModel) Title() string { return "Budgets" }

func (m BudgetModel) ShortHelp() string {
	if m.state == budgetStateDetail {
		return "Esc: back to budgets | e: check thresholds (preview)"
	}

	return "Esc: back | Enter: categories | r: refresh"
}

func (m BudgetModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m BudgetModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadBudgetsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.budgets = msg.budgets
		m.refreshTable()

		return m, nil

	case loadCategoriesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.categories = msg.categories
		m.alerts = nil
		m.refreshDetail()

		return m, nil

	case previewAlertsMsg:
		m.alerts = msg.alerts
		m.status = fmt.Sprintf("%d alert(s) would fire", len(msg.alerts))

		if msg.err != nil {
			m.status = fmt.Sprintf("%s (error: %v)", m.status, msg.err)
		}

		return m, nil

	case tea.KeyMsg:
		if m.state == budgetStateDetail {
			return m.updateDetail(msg)
		}

		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "enter":
			idx := m.table.Cursor()
			if idx < 0 || idx >= len(m.budgets) {
				return m, nil
			}

			m.current = m.budgets[idx]
			m.state = budgetStateDetail
			m.status = ""
			m.table.Blur()
			m.detail.Focus()

			return m, m.loadCategoriesCmd(m.current)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m BudgetModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = budgetStateList
		m.current = nil
		m.status = ""
		m.detail.Blur()
		m.table.Focus()

		return m, nil
	case "e":
		return m, m.previewCmd(m.current)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)

	return m, cmd
}

func (m BudgetModel) View() string {
	if m.loading {
		return notice("Loading budgets...")
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))

	content := box.Render(m.table.View())

	if m.state == budgetStateDetail && m.current != nil {
		content = fmt.Sprintf("%s (%s .. %s)\n", activeStyle(m.current.Name),
			FormatDate(m.current.StartDate), FormatDate(m.current.EndDate)) + box.Render(m.detail.View())

		for _, a := range m.alerts {
			line := fmt.Sprintf("%s: %s at %s%%", a.Type, a.CategoryName, a.Percentage.StringFixed(2))
			if a.Type == budget.AlertExceeded {
				line = errorStyle(line)
			}

			content += "\n" + line
		}
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + m.ShortHelp())
}

func (m *BudgetModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.budgets))
	for _, b := range m.budgets {
		rows = append(rows, table.Row{
			b.Name,
			string(b.PeriodType),
			FormatDate(b.StartDate),
			FormatDate(b.EndDate),
			FormatAmount(b.TotalAmount),
			string(b.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m *BudgetModel) refreshDetail() {
	rows := make([]table.Row, 0, len(m.categories))
	for _, c := range m.categories {
		rows = append(rows, table.Row{
			c.CategoryName,
			FormatAmount(c.AllocatedAmount),
			FormatAmount(c.SpentAmount),
			FormatAmount(c.Remaining()),
			c.PercentageUsed().StringFixed(2),
			FormatOptionalDate(c.LastAlertSentAt),
		})
	}

	m.detail.SetRows(rows)
}

type loadBudgetsMsg struct {
	budgets []*budget.Budget
	err     error
}

func (m BudgetModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		budgets, err := m.svc.List(ctx)

		return loadBudgetsMsg{budgets: budgets, err: err}
	}
}

type loadCategoriesMsg struct {
	categories []*budget.Category
	err        error
}

func (m BudgetModel) loadCategoriesCmd(b *budget.Budget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		cats, err := m.svc.Categories(ctx, b.ID)

		return loadCategoriesMsg{categories: cats, err: err}
	}
}

type previewAlertsMsg struct {
	alerts []budget.Alert
	err    error
}

func (m BudgetModel) previewCmd(b *budget.Budget) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		alerts, err := m.svc.Preview(ctx, b)

		return previewAlertsMsg{alerts: alerts, err: err}
	}
}
