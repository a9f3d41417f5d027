package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perchlabs/fundledger/internal/export"
	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type ledgerState int

const (
	ledgerStatePick ledgerState = iota
	ledgerStateBrowse
)

type ledgerLoadedMsg struct {
	txs []*ledger.Transaction
	err error
}

type exportDoneMsg struct {
	path string
	err  error
}

var statusFilters = []*ledger.Status{
	nil,
	new(ledger.StatusPending),
	new(ledger.StatusApproved),
	new(ledger.StatusDenied),
	new(ledger.StatusCancelled),
}

// LedgerModel is a browsable table of one investment's transactions with
// status filtering and CSV statement export.
type LedgerModel struct {
	CommonModel

	ledgerSvc *ledger.Service
	exportSvc *export.Service
	picker    investmentPicker

	state ledgerState
	inv   *investment.Investment
	table table.Model
	txs   []*ledger.Transaction

	statusFilterIdx int

	loading bool
	status  string
	err     error
}

func NewLedgerModel(ledgerSvc *ledger.Service, exportSvc *export.Service, invSvc *investment.Service) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 18},
		{Title: "Category", Width: 12},
		{Title: "Status", Width: 10},
		{Title: "Amount", Width: 12},
		{Title: "Title", Width: 32},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return LedgerModel{
		ledgerSvc: ledgerSvc,
		exportSvc: exportSvc,
		picker:    newInvestmentPicker(invSvc),
		table:     t,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	if m.state == ledgerStateBrowse {
		return "f: status filter | e: export CSV | r: refresh | Esc: back"
	}
	return "Enter: select | r: refresh | Esc: back"
}

func (m LedgerModel) Init() tea.Cmd {
	return m.picker.load()
}

func (m LedgerModel) loadCmd() tea.Cmd {
	filter := ledger.ListFilter{
		InvestmentID: m.inv.ID,
		Status:       statusFilters[m.statusFilterIdx],
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.ledgerSvc.List(ctx, filter)

		return ledgerLoadedMsg{txs: txs, err: err}
	}
}

func (m LedgerModel) exportCmd() tea.Cmd {
	invID := m.inv.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		path, err := m.exportSvc.Statement(ctx, invID, ".")

		return exportDoneMsg{path: path, err: err}
	}
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case investmentPickedMsg:
		m.inv = msg.inv
		m.state = ledgerStateBrowse
		m.loading = true
		m.status = ""
		return m, m.loadCmd()

	case ledgerLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.txs = msg.txs
		m.refreshTable()
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Export failed: %v", msg.err)
		} else {
			m.status = "Exported " + msg.path
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	if m.state == ledgerStatePick {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			return m, Back
		}
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.state = ledgerStatePick
			m.inv = nil
			m.status = ""
			return m, m.picker.load()
		case "f":
			m.statusFilterIdx = (m.statusFilterIdx + 1) % len(statusFilters)
			m.loading = true
			return m, m.loadCmd()
		case "e":
			m.status = "Exporting..."
			return m, m.exportCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))
	for _, tx := range m.txs {
		category := "-"
		if tx.CreditCategory != nil {
			category = string(*tx.CreditCategory)
		}
		if tx.CashExpenseCategory != nil {
			category = string(*tx.CashExpenseCategory)
		}

		rows = append(rows, table.Row{
			FormatDate(tx.CreatedAt),
			string(tx.Type),
			category,
			string(tx.Status),
			FormatAmount(tx.AmountCents),
			tx.Title,
		})
	}
	m.table.SetRows(rows)
}

func (m LedgerModel) View() string {
	if m.state == ledgerStatePick {
		return m.picker.View()
	}
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filterLabel := "all"
	if f := statusFilters[m.statusFilterIdx]; f != nil {
		filterLabel = string(*f)
	}

	header := fmt.Sprintf("Investment %s | filter: %s | %d transactions",
		shortID(m.inv.ID), filterLabel, len(m.txs))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}
