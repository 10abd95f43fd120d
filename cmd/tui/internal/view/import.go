package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/MrJamesThe3rd/backoffice/internal/importer"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

const importTimeout = 2 * time.Minute

type importPhase int

const (
	phasePick importPhase = iota
	phaseParsing
	phaseDuplicates
	phaseDone
)

// ImportModel picks a ledger export, imports the rows that are new and lets
// the operator decide which suspected duplicates to book anyway.
type ImportModel struct {
	CommonModel
	txService *transaction.Service
	importer  *importer.Service

	phase  importPhase
	picker filepicker.Model

	pending    []transaction.CreateParams
	duplicates []transaction.Conflict
	keep       []bool
	table      table.Model

	message string
	err     error
}

func NewImportModel(txSvc *transaction.Service, imp *importer.Service) ImportModel {
	picker := filepicker.New()
	picker.CurrentDirectory, _ = os.Getwd()
	picker.AllowedTypes = []string{".csv", ".txt"}
	picker.SetHeight(15)

	return ImportModel{
		txService: txSvc,
		importer:  imp,
		picker:    picker,
		table: newTable([]table.Column{
			{Title: "Book", Width: 4},
			{Title: "Date", Width: 10},
			{Title: "Amount", Width: 12},
			{Title: "Incoming", Width: 32},
			{Title: "Already booked as", Width: 32},
			{Title: "Status", Width: 10},
		}),
	}
}

func (m ImportModel) Title() string { return "Import Transactions" }

func (m ImportModel) ShortHelp() string {
	if m.phase == phaseDuplicates {
		return "Space: book/skip | a: book all | n: skip all | Enter: save | Esc: cancel"
	}

	return "Esc: back | Enter: select file"
}

func (m ImportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.phase == phasePick {
				return m, Back
			}

			return m.reset()
		}

		if m.phase == phaseDuplicates {
			return m.updateDuplicates(msg)
		}

	case parsedMsg:
		return m.onParsed(msg)

	case savedMsg:
		m.phase = phaseDone
		m.err = msg.err
		m.message = fmt.Sprintf("Booked %d transactions (%d duplicates skipped).", msg.count, msg.skipped)

		if msg.err != nil {
			m.message = fmt.Sprintf("Error: %v", msg.err)
		}

		return m, nil
	}

	if m.phase != phasePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.phase = phaseParsing
		m.message = "Reading " + path + "..."

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) onParsed(msg parsedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.phase = phaseDone
		m.err = msg.err
		m.message = fmt.Sprintf("Error: %v", msg.err)

		return m, nil
	}

	if len(msg.result.Conflicts) == 0 {
		m.phase = phaseDone
		m.message = fmt.Sprintf("Booked %d transactions from a %s export.", len(msg.result.Imported), msg.result.Format)

		return m, nil
	}

	m.phase = phaseDuplicates
	m.pending = msg.result.New
	m.duplicates = msg.result.Conflicts
	m.keep = make([]bool, len(m.duplicates))
	m.message = fmt.Sprintf("%s export: %d new, %d look already booked", msg.result.Format, len(m.pending), len(m.duplicates))
	m.renderDuplicates()

	return m, nil
}

func (m ImportModel) reset() (tea.Model, tea.Cmd) {
	m.phase = phasePick
	m.pending, m.duplicates, m.keep = nil, nil, nil
	m.message, m.err = "", nil

	return m, m.picker.Init()
}

func (m ImportModel) updateDuplicates(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		if i := m.table.Cursor(); i >= 0 && i < len(m.keep) {
			// keep is shared with copies of m; replace it before mutating
			m.keep = append([]bool(nil), m.keep...)
			m.keep[i] = !m.keep[i]
		}
	case "a", "n":
		m.keep = make([]bool, len(m.duplicates))
		for i := range m.keep {
			m.keep[i] = msg.String() == "a"
		}
	case "enter":
		return m, m.saveCmd()
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	m.renderDuplicates()

	return m, nil
}

func (m *ImportModel) renderDuplicates() {
	rows := make([]table.Row, 0, len(m.duplicates))

	for i, d := range m.duplicates {
		mark := "no"
		if m.keep[i] {
			mark = "yes"
		}

		rows = append(rows, table.Row{
			mark,
			FormatDate(d.Incoming.Date),
			FormatAmount(d.Incoming.Amount),
			d.Incoming.RawDescription,
			d.Existing.Description,
			string(d.Existing.Status),
		})
	}

	m.table.SetRows(rows)
}

func (m ImportModel) View() string {
	switch m.phase {
	case phasePick:
		return panel("Select a ledger export (CSV, layout and encoding are detected):\n\n" + m.picker.View())
	case phaseParsing:
		return notice(m.message)
	case phaseDuplicates:
		return panel(activeStyle(m.message) + "\n\n" + m.table.View() + "\n" + m.ShortHelp())
	}

	return outcome(m.message, m.err)
}

type parsedMsg struct {
	result *importer.Result
	err    error
}

type savedMsg struct {
	count   int
	skipped int
	err     error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parsedMsg{err: err}
		}
		defer f.Close()

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.importer.Import(ctx, f)

		return parsedMsg{result: result, err: err}
	}
}

func (m ImportModel) saveCmd() tea.Cmd {
	params := append([]transaction.CreateParams(nil), m.pending...)
	skipped := 0

	for i, d := range m.duplicates {
		if m.keep[i] {
			params = append(params, d.Incoming)
		} else {
			skipped++
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		txs, err := m.txService.CreateBatch(ctx, params)

		return savedMsg{count: len(txs), skipped: skipped, err: err}
	}
}
