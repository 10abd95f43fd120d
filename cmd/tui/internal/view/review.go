package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/backoffice/internal/registry"
	"github.com/MrJamesThe3rd/backoffice/internal/transaction"
)

// ReviewModel walks pending transactions one by one, suggests a category from
// the learned description rules and books the entry.
type ReviewModel struct {
	CommonModel
	txService *transaction.Service
	registry  *registry.Service

	queue      []*transaction.Transaction
	currentTx  *transaction.Transaction
	categories []*registry.Category
	form       *huh.Form

	status     string
	loading    bool
	totalCount int

	in *reviewInput
}

// reviewInput is held by pointer so form bindings survive model copies.
type reviewInput struct {
	desc     string
	category uuid.UUID
	complete bool
}

func NewReviewModel(txSvc *transaction.Service, reg *registry.Service) ReviewModel {
	return ReviewModel{
		txService: txSvc,
		registry:  reg,
		loading:   true,
		in:        &reviewInput{},
	}
}

func (m ReviewModel) Title() string { return "Review Transactions" }

func (m ReviewModel) ShortHelp() string { return "Enter: next field | Esc: back" }

func (m ReviewModel) Init() tea.Cmd {
	return m.loadPendingCmd()
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m, Back
		}

	case loadPendingMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading: %v", msg.err)
			return m, nil
		}

		m.queue = msg.txs
		m.categories = msg.categories
		m.totalCount = len(m.queue)

		return m, m.nextTx(msg.suggestions)

	case saveResultMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving: %v", msg.err)
		}

		return m, m.nextTx(msg.suggestions)
	}

	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.form = nil
		return m, m.saveCmd()
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	style := lipgloss.NewStyle().Padding(2)

	if m.loading {
		return style.Render("Loading pending transactions...")
	}

	if m.currentTx == nil {
		if m.status == "" {
			m.status = "No pending transactions."
		}

		return style.Render(m.status + "\n\n(Esc to back)")
	}

	tx := m.currentTx
	info := fmt.Sprintf(
		"Date:   %s\nType:   %s\nAmount: %s %s\nRaw:    %s\n",
		FormatDate(tx.Date),
		tx.Type,
		FormatAmount(tx.Amount),
		tx.Currency,
		tx.RawDescription,
	)

	header := fmt.Sprintf("Reviewing %d/%d", m.totalCount-len(m.queue), m.totalCount)
	if m.status != "" {
		header += "  " + errorStyle(m.status)
	}

	body := ""
	if m.form != nil {
		body = m.form.View()
	}

	return style.Render(fmt.Sprintf("%s\n\n%s\n%s\n\n(Esc to quit)", header, info, body))
}

// nextTx pops the queue and builds the form for the next transaction.
func (m *ReviewModel) nextTx(suggestions map[uuid.UUID]uuid.UUID) tea.Cmd {
	if len(m.queue) == 0 {
		m.currentTx = nil
		m.form = nil
		m.status = "All done! No more pending transactions."

		return nil
	}

	m.currentTx = m.queue[0]
	m.queue = m.queue[1:]
	m.status = ""

	m.in.desc = m.currentTx.Description
	if m.in.desc == "" {
		m.in.desc = m.currentTx.RawDescription
	}

	m.in.category = uuid.Nil
	if m.currentTx.CategoryID != nil {
		m.in.category = *m.currentTx.CategoryID
	} else if id, ok := suggestions[m.currentTx.ID]; ok {
		m.in.category = id
	}

	opts := []huh.Option[uuid.UUID]{huh.NewOption("(none)", uuid.Nil)}
	for _, c := range m.categories {
		opts = append(opts, huh.NewOption(c.Name, c.ID))
	}

	m.in.complete = true

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&m.in.desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("description cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[uuid.UUID]().
				Title("Category").
				Options(opts...).
				Value(&m.in.category),
			huh.NewConfirm().
				Title("Mark as completed?").
				Value(&m.in.complete),
		),
	).WithWidth(60).WithShowHelp(false)

	return m.form.Init()
}

func (m ReviewModel) categoryName(id uuid.UUID) string {
	for _, c := range m.categories {
		if c.ID == id {
			return c.Name
		}
	}

	return ""
}

type loadPendingMsg struct {
	txs         []*transaction.Transaction
	categories  []*registry.Category
	suggestions map[uuid.UUID]uuid.UUID
	err         error
}

func (m ReviewModel) loadPendingCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, transaction.ListFilter{Status: new(transaction.StatusPending)})
		if err != nil {
			return loadPendingMsg{err: err}
		}

		cats, err := m.registry.Categories(ctx)
		if err != nil {
			return loadPendingMsg{err: err}
		}

		suggestions := make(map[uuid.UUID]uuid.UUID)

		for _, tx := range txs {
			if tx.CategoryID != nil || tx.RawDescription == "" {
				continue
			}

			if id, err := m.registry.SuggestCategory(ctx, tx.RawDescription); err == nil && id != uuid.Nil {
				suggestions[tx.ID] = id
			}
		}

		return loadPendingMsg{txs: txs, categories: cats, suggestions: suggestions}
	}
}

type saveResultMsg struct {
	suggestions map[uuid.UUID]uuid.UUID
	err         error
}

func (m ReviewModel) saveCmd() tea.Cmd {
	tx := *m.currentTx
	tx.Description = strings.TrimSpace(m.in.desc)
	tx.CategoryID = nil

	if m.in.category != uuid.Nil {
		tx.CategoryID = new(m.in.category)
	}

	learn := m.categoryName(m.in.category)
	complete := m.in.complete
	rest := m.queue

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if learn != "" && tx.RawDescription != "" {
			if _, err := m.registry.LearnRule(ctx, tx.RawDescription, learn); err != nil {
				return saveResultMsg{err: err}
			}
		}

		if err := m.txService.Update(ctx, &tx); err != nil {
			return saveResultMsg{err: err}
		}

		if complete {
			if err := m.txService.UpdateStatus(ctx, tx.ID, transaction.StatusCompleted); err != nil {
				return saveResultMsg{err: err}
			}
		}

		// Rules learned from this entry may now cover the rest of the queue.
		suggestions := make(map[uuid.UUID]uuid.UUID)

		for _, next := range rest {
			if next.CategoryID != nil || next.RawDescription == "" {
				continue
			}

			if id, err := m.registry.SuggestCategory(ctx, next.RawDescription); err == nil && id != uuid.Nil {
				suggestions[next.ID] = id
			}
		}

		return saveResultMsg{suggestions: suggestions}
	}
}
