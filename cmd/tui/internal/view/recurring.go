package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/backoffice/internal/recurring"
)

type RecurringModel struct {
	CommonModel
	svc *recurring.Service

	table   table.Model
	rules   []*recurring.Rule
	results []recurring.Result

	loading bool
	status  string
}

func NewRecurringModel(svc *recurring.Service) RecurringModel {
	return RecurringModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Description", Width: 30},
			{Title: "Type", Width: 8},
			{Title: "Amount", Width: 12},
			{Title: "Every", Width: 12},
			{Title: "Next Due", Width: 12},
			{Title: "Created", Width: 8},
			{Title: "Ends", Width: 12},
			{Title: "Active", Width: 6},
		}),
		loading: true,
	}
}

func (m RecurringModel) Title() string { return "Recurring Transactions" }

func (m RecurringModel) ShortHelp() string {
	return "Esc: back | p: preview due | g: generate due | r: refresh"
}

func (m RecurringModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m RecurringModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadRulesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.rules = msg.rules
		m.refreshTable()

		return m, nil

	case recurringRunMsg:
		m.results = msg.results
		m.status = summarizeResults(msg.results, msg.dryRun)

		if msg.err != nil {
			m.status = fmt.Sprintf("%s (error: %v)", m.status, msg.err)
		}

		return m, m.loadCmd()

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "p":
			return m, m.runCmd(true)
		case "g":
			return m, m.runCmd(false)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecurringModel) View() string {
	if m.loading {
		return notice("Loading recurring rules...")
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + m.ShortHelp())
}

func (m *RecurringModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.rules))
	for _, r := range m.rules {
		active := "no"
		if r.IsActive {
			active = "yes"
		}

		rows = append(rows, table.Row{
			r.Description,
			string(r.Type),
			FormatAmount(r.Amount) + " " + r.Currency,
			fmt.Sprintf("%d %s", r.Interval, r.Frequency),
			FormatDate(r.NextDueDate),
			fmt.Sprint(r.OccurrencesCreated),
			FormatOptionalDate(r.EndDate),
			active,
		})
	}

	m.table.SetRows(rows)
}

func summarizeResults(results []recurring.Result, dryRun bool) string {
	counts := make(map[recurring.Outcome]int)
	for _, r := range results {
		counts[r.Outcome]++
	}

	prefix := "Generated"
	if dryRun {
		prefix = "Would generate"
	}

	parts := []string{fmt.Sprintf("%s %d", prefix, counts[recurring.OutcomeCreated])}
	if n := counts[recurring.OutcomeStopped]; n > 0 {
		parts = append(parts, fmt.Sprintf("stopped %d", n))
	}

	if n := counts[recurring.OutcomeError]; n > 0 {
		parts = append(parts, fmt.Sprintf("failed %d", n))
	}

	return strings.Join(parts, ", ")
}

type loadRulesMsg struct {
	rules []*recurring.Rule
	err   error
}

func (m RecurringModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		rules, err := m.svc.List(ctx)

		return loadRulesMsg{rules: rules, err: err}
	}
}

type recurringRunMsg struct {
	results []recurring.Result
	dryRun  bool
	err     error
}

func (m RecurringModel) runCmd(dryRun bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		run := m.svc.ProcessDue
		if dryRun {
			run = m.svc.Preview
		}

		results, err := run(ctx, time.Now(), false)

		return recurringRunMsg{results: results, dryRun: dryRun, err: err}
	}
}
