package view

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type reviewState int

const (
	reviewStatePick reviewState = iota
	reviewStateQueue
	reviewStateConfirm
)

type queueLoadedMsg struct {
	txs []*ledger.Transaction
	err error
}

type decisionMsg struct {
	tx  *ledger.Transaction
	err error
}

// ReviewModel walks a partner through the pending draw requests of one
// investment, approving or denying each in turn.
type ReviewModel struct {
	CommonModel

	ledgerSvc *ledger.Service
	picker    investmentPicker
	reviewer  uuid.UUID

	state reviewState
	inv   *investment.Investment
	queue []*ledger.Transaction
	idx   int

	form    *huh.Form
	action  ledger.DecisionAction
	confirm bool

	loading bool
	status  string
	err     error
}

func NewReviewModel(ledgerSvc *ledger.Service, invSvc *investment.Service, reviewer uuid.UUID) ReviewModel {
	return ReviewModel{
		ledgerSvc: ledgerSvc,
		picker:    newInvestmentPicker(invSvc),
		reviewer:  reviewer,
	}
}

func (m ReviewModel) Title() string { return "Review Queue" }

func (m ReviewModel) ShortHelp() string {
	switch m.state {
	case reviewStateConfirm:
		return "Confirm decision | Esc: cancel"
	case reviewStateQueue:
		return "a: approve | d: deny | s: skip | Esc: back"
	}
	return "Enter: select | r: refresh | Esc: back"
}

func (m ReviewModel) Init() tea.Cmd {
	return m.picker.load()
}

func (m ReviewModel) loadQueueCmd() tea.Cmd {
	invID := m.inv.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledgerSvc.List(ctx, ledger.ListFilter{
			InvestmentID: invID,
			Status:       new(ledger.StatusPending),
		})

		return queueLoadedMsg{txs: txs, err: err}
	}
}

func (m ReviewModel) decideCmd(id uuid.UUID, action ledger.DecisionAction) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		tx, err := m.ledgerSvc.Decide(ctx, id, action, m.reviewer)

		return decisionMsg{tx: tx, err: err}
	}
}

func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case investmentPickedMsg:
		m.inv = msg.inv
		m.state = reviewStateQueue
		m.loading = true
		m.status = ""
		return m, m.loadQueueCmd()

	case queueLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.queue = msg.txs
		m.idx = 0
		return m, nil

	case decisionMsg:
		m.state = reviewStateQueue
		m.form = nil
		if msg.err != nil {
			m.status = fmt.Sprintf("Decision failed: %v", msg.err)
			return m, m.loadQueueCmd()
		}
		m.status = fmt.Sprintf("%s %s", shortID(msg.tx.ID), msg.tx.Status)
		m.queue = append(m.queue[:m.idx], m.queue[m.idx+1:]...)
		if m.idx >= len(m.queue) && m.idx > 0 {
			m.idx--
		}
		return m, nil
	}

	switch m.state {
	case reviewStatePick:
		return m.updatePick(msg)
	case reviewStateQueue:
		return m.updateQueue(msg)
	case reviewStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ReviewModel) updatePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m ReviewModel) updateQueue(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.state = reviewStatePick
		m.inv = nil
		m.status = ""
		return m, m.picker.load()
	case "r":
		m.loading = true
		return m, m.loadQueueCmd()
	case "s":
		if len(m.queue) > 1 {
			m.idx = (m.idx + 1) % len(m.queue)
		}
		return m, nil
	case "a":
		return m.startConfirm(ledger.ActionApprove)
	case "d":
		return m.startConfirm(ledger.ActionDeny)
	}

	return m, nil
}

func (m ReviewModel) startConfirm(action ledger.DecisionAction) (tea.Model, tea.Cmd) {
	if len(m.queue) == 0 {
		return m, nil
	}

	tx := m.queue[m.idx]
	m.action = action
	m.confirm = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("%s %s for %s?", action, shortID(tx.ID), FormatAmount(tx.AmountCents))).
				Affirmative("Yes").
				Negative("No").
				Value(&m.confirm),
		),
	)
	m.state = reviewStateConfirm

	return m, m.form.Init()
}

func (m ReviewModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.state = reviewStateQueue
		m.form = nil
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if !m.confirm {
			m.state = reviewStateQueue
			m.form = nil
			return m, nil
		}
		return m, m.decideCmd(m.queue[m.idx].ID, m.action)
	}

	return m, cmd
}

func (m ReviewModel) View() string {
	switch m.state {
	case reviewStatePick:
		return m.picker.View()
	case reviewStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading pending requests...")
	}
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}
	if len(m.queue) == 0 {
		content := "No pending requests for this investment."
		if m.status != "" {
			content = m.status + "\n\n" + content
		}
		return lipgloss.NewStyle().Padding(2).Render(content)
	}

	tx := m.queue[m.idx]

	category := "-"
	if tx.CreditCategory != nil {
		category = string(*tx.CreditCategory)
	}
	if tx.CashExpenseCategory != nil {
		category = string(*tx.CashExpenseCategory)
	}

	card := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Request")+fmt.Sprintf(" %d of %d", m.idx+1, len(m.queue)),
		"",
		labelStyle.Render("Title:")+" "+tx.Title,
		labelStyle.Render("Type:")+" "+string(tx.Type),
		labelStyle.Render("Category:")+" "+category,
		labelStyle.Render("Amount:")+" "+FormatAmount(tx.AmountCents),
		labelStyle.Render("Requested:")+" "+FormatDate(tx.CreatedAt)+" by "+shortID(tx.RequestedBy),
		labelStyle.Render("Details:")+" "+tx.Description,
	)

	panel := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(card)

	if m.status != "" {
		panel = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + panel
	}

	return lipgloss.NewStyle().Padding(1).Render(panel)
}

var labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
