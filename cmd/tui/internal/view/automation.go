package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/backoffice/internal/automation"
)

type automationState int

const (
	automationStateForm automationState = iota
	automationStateRunning
	automationStateResult
)

// AutomationModel runs one automation task on demand and shows its report.
type AutomationModel struct {
	CommonModel
	svc *automation.Service

	state  automationState
	form   *huh.Form
	report *automation.Report
	err    error

	in *automationInput
}

// automationInput is held by pointer so form bindings survive model copies.
type automationInput struct {
	task   automation.Task
	dryRun bool
	force  bool
	asOf   string
}

func NewAutomationModel(svc *automation.Service) AutomationModel {
	m := AutomationModel{svc: svc, in: &automationInput{task: automation.TaskOverdueInvoices, dryRun: true}}
	m.form = m.buildForm()

	return m
}

func (m AutomationModel) buildForm() *huh.Form {
	opts := make([]huh.Option[automation.Task], len(automation.Tasks))
	for i, t := range automation.Tasks {
		opts[i] = huh.NewOption(string(t), t)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[automation.Task]().
				Title("Task").
				Options(opts...).
				Value(&m.in.task),
			huh.NewConfirm().
				Title("Dry run?").
				Description("Report what would change without writing").
				Value(&m.in.dryRun),
			huh.NewConfirm().
				Title("Force?").
				Description("Recurring only: process rules that are not due yet").
				Value(&m.in.force),
			huh.NewInput().
				Title("As of").
				Placeholder("YYYY-MM-DD, empty for today").
				Value(&m.in.asOf).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}

					_, err := time.Parse(time.DateOnly, s)

					return err
				}),
		),
	).WithWidth(60).WithShowHelp(false)
}

func (m AutomationModel) Title() string { return "Run Automation" }

func (m AutomationModel) ShortHelp() string { return "Esc: back" }

func (m AutomationModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m AutomationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == automationStateResult {
				m.state = automationStateForm
				m.form = m.buildForm()

				return m, m.form.Init()
			}

			return m, Back
		}

	case automationResultMsg:
		m.state = automationStateResult
		m.report = msg.report
		m.err = msg.err

		return m, nil
	}

	if m.state != automationStateForm {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.state = automationStateRunning
		return m, m.runCmd()
	}

	return m, cmd
}

func (m AutomationModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	switch m.state {
	case automationStateRunning:
		return style.Render(fmt.Sprintf("Running %s...", m.in.task))
	case automationStateResult:
		return style.Render(m.viewReport() + "\n\n(Esc to run another)")
	}

	return style.Render(m.form.View())
}

func (m AutomationModel) viewReport() string {
	if m.report == nil {
		return errorStyle(fmt.Sprintf("Error: %v", m.err))
	}

	r := m.report

	var b strings.Builder

	title := string(r.Task)
	if r.DryRun {
		title += " (dry run)"
	}

	fmt.Fprintf(&b, "%s\n\nProcessed: %d\nSkipped:   %d\nFailed:    %d\n", activeStyle(title), r.Processed, r.Skipped, r.Failed)

	for _, msg := range r.Messages {
		fmt.Fprintf(&b, "  %s\n", msg)
	}

	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  %s\n", errorStyle(e))
	}

	if r.Suppressed > 0 {
		fmt.Fprintf(&b, "  ... %d more errors\n", r.Suppressed)
	}

	if m.err != nil {
		fmt.Fprintf(&b, "\n%s", errorStyle(m.err.Error()))
	} else {
		b.WriteString("\n" + okStyle("Done."))
	}

	return b.String()
}

type automationResultMsg struct {
	report *automation.Report
	err    error
}

func (m AutomationModel) runCmd() tea.Cmd {
	task := m.in.task
	opts := automation.Options{DryRun: m.in.dryRun, Force: m.in.force}

	if m.in.asOf != "" {
		if t, err := time.Parse(time.DateOnly, m.in.asOf); err == nil {
			opts.AsOf = &t
		}
	}

	return func() tea.Msg {
		// The service bounds the batch itself.
		report, err := m.svc.Run(context.Background(), task, opts)

		return automationResultMsg{report: report, err: err}
	}
}
