package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/backoffice/internal/invoice"
)

var invoiceStatusFilters = []invoice.Status{
	"",
	invoice.StatusDraft,
	invoice.StatusSent,
	invoice.StatusOverdue,
	invoice.StatusPaid,
	invoice.StatusCancelled,
}

type InvoiceModel struct {
	CommonModel
	svc *invoice.Service

	table     table.Model
	invoices  []*invoice.Invoice
	filterIdx int
	form      *huh.Form

	loading bool
	status  string

	// formAmount is shared by pointer so the form's binding survives copies.
	formAmount *string
}

func NewInvoiceModel(svc *invoice.Service) InvoiceModel {
	return InvoiceModel{
		svc: svc,
		table: newTable([]table.Column{
			{Title: "Number", Width: 16},
			{Title: "Title", Width: 30},
			{Title: "Status", Width: 10},
			{Title: "Issued", Width: 12},
			{Title: "Due", Width: 12},
			{Title: "Total", Width: 12},
			{Title: "Paid", Width: 12},
			{Title: "Reminders", Width: 9},
		}),
		loading:    true,
		formAmount: new(""),
	}
}

func (m InvoiceModel) Title() string { return "Invoices" }

func (m InvoiceModel) ShortHelp() string {
	return "Esc: back | s: send | c: cancel | m: match payment | p: record payment | f: filter | r: refresh"
}

func (m InvoiceModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m InvoiceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadInvoicesMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.invoices = msg.invoices
		m.refreshTable()

		return m, nil

	case invoiceActionMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		inv := m.selected()

		switch key.String() {
		case "esc":
			return m, Back
		case "r":
			return m, m.loadCmd()
		case "f":
			m.filterIdx = (m.filterIdx + 1) % len(invoiceStatusFilters)
			return m, m.loadCmd()
		case "s":
			if inv != nil {
				return m, m.transitionCmd(inv, invoice.StatusSent)
			}
		case "c":
			if inv != nil {
				return m, m.transitionCmd(inv, invoice.StatusCancelled)
			}
		case "m":
			if inv != nil {
				return m, m.matchCmd(inv)
			}
		case "p":
			if inv != nil {
				return m.paymentForm(inv)
			}
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m InvoiceModel) selected() *invoice.Invoice {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.invoices) {
		return nil
	}

	return m.invoices[idx]
}

func (m InvoiceModel) paymentForm(inv *invoice.Invoice) (tea.Model, tea.Cmd) {
	*m.formAmount = inv.Remaining().StringFixed(2)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Payment for %s (open %s %s)", inv.Number, FormatAmount(inv.Remaining()), inv.Currency)).
				Value(m.formAmount).
				Validate(func(s string) error {
					d, err := decimal.NewFromString(s)
					if err != nil || !d.IsPositive() {
						return fmt.Errorf("enter a positive amount")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)

	m.table.Blur()

	return m, m.form.Init()
}

func (m InvoiceModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.form = nil
	m.table.Focus()

	inv := m.selected()
	if inv == nil {
		return m, nil
	}

	return m, m.paymentCmd(inv, decimal.RequireFromString(*m.formAmount))
}

func (m InvoiceModel) View() string {
	if m.loading {
		return notice("Loading invoices...")
	}

	label := "All"
	if f := invoiceStatusFilters[m.filterIdx]; f != "" {
		label = string(f)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render("Filter: [f] Status: "+activeStyle(label)),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.table.View()),
	)

	if m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Render(m.form.View())
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content + "\n" + m.ShortHelp())
}

func (m *InvoiceModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.invoices))
	for _, inv := range m.invoices {
		rows = append(rows, table.Row{
			inv.Number,
			inv.Title,
			string(inv.Status),
			FormatDate(inv.InvoiceDate),
			FormatOptionalDate(inv.DueDate),
			FormatAmount(inv.TotalAmount) + " " + inv.Currency,
			FormatAmount(inv.PaidAmount),
			fmt.Sprint(inv.ReminderCount),
		})
	}

	m.table.SetRows(rows)
}

type loadInvoicesMsg struct {
	invoices []*invoice.Invoice
	err      error
}

func (m InvoiceModel) loadCmd() tea.Cmd {
	var filter invoice.ListFilter
	if f := invoiceStatusFilters[m.filterIdx]; f != "" {
		filter.Status = &f
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := m.svc.List(ctx, filter)

		return loadInvoicesMsg{invoices: invs, err: err}
	}
}

type invoiceActionMsg struct {
	status string
	err    error
}

func (m InvoiceModel) transitionCmd(inv *invoice.Invoice, to invoice.Status) tea.Cmd {
	id, number := inv.ID, inv.Number

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var err error
		if to == invoice.StatusSent {
			_, err = m.svc.Send(ctx, id)
		} else {
			_, err = m.svc.Cancel(ctx, id)
		}

		return invoiceActionMsg{status: fmt.Sprintf("%s is now %s", number, to), err: err}
	}
}

func (m InvoiceModel) matchCmd(inv *invoice.Invoice) tea.Cmd {
	c := *inv

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		matched, err := m.svc.AutoMatchPayments(ctx, &c)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		if !matched {
			return invoiceActionMsg{status: fmt.Sprintf("%s: no matching payment found", c.Number)}
		}

		return invoiceActionMsg{status: fmt.Sprintf("%s: payment matched, paid %s", c.Number, FormatAmount(c.PaidAmount))}
	}
}

func (m InvoiceModel) paymentCmd(inv *invoice.Invoice, amount decimal.Decimal) tea.Cmd {
	id, number := inv.ID, inv.Number

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		updated, err := m.svc.RecordPayment(ctx, id, amount, nil)
		if err != nil {
			return invoiceActionMsg{err: err}
		}

		return invoiceActionMsg{status: fmt.Sprintf("%s: recorded %s, status %s", number, FormatAmount(amount), updated.Status)}
	}
}
