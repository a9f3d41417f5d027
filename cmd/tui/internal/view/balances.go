package view

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type balancesState int

const (
	balancesStatePick balancesState = iota
	balancesStateShow
)

type balancesLoadedMsg struct {
	balances  ledger.Balances
	analytics ledger.Analytics
	err       error
}

// BalancesModel renders remaining pools, per-category breakdowns and the
// burn-rate analytics for one investment.
type BalancesModel struct {
	CommonModel

	ledgerSvc *ledger.Service
	picker    investmentPicker

	state     balancesState
	inv       *investment.Investment
	balances  ledger.Balances
	analytics ledger.Analytics

	loading bool
	err     error
}

func NewBalancesModel(ledgerSvc *ledger.Service, invSvc *investment.Service) BalancesModel {
	return BalancesModel{
		ledgerSvc: ledgerSvc,
		picker:    newInvestmentPicker(invSvc),
	}
}

func (m BalancesModel) Title() string { return "Balances" }

func (m BalancesModel) ShortHelp() string {
	if m.state == balancesStateShow {
		return "r: refresh | Esc: back"
	}
	return "Enter: select | r: refresh | Esc: back"
}

func (m BalancesModel) Init() tea.Cmd {
	return m.picker.load()
}

func (m BalancesModel) loadCmd() tea.Cmd {
	invID := m.inv.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		balances, err := m.ledgerSvc.Balances(ctx, invID)
		if err != nil {
			return balancesLoadedMsg{err: err}
		}

		analytics, err := m.ledgerSvc.Analytics(ctx, invID)

		return balancesLoadedMsg{balances: balances, analytics: analytics, err: err}
	}
}

func (m BalancesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case investmentPickedMsg:
		m.inv = msg.inv
		m.state = balancesStateShow
		m.loading = true
		return m, m.loadCmd()

	case balancesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.balances = msg.balances
		m.analytics = msg.analytics
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case balancesStatePick:
			if msg.String() == "esc" {
				return m, Back
			}
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd

		case balancesStateShow:
			switch msg.String() {
			case "esc":
				m.state = balancesStatePick
				m.inv = nil
				m.err = nil
				return m, m.picker.load()
			case "r":
				m.loading = true
				return m, m.loadCmd()
			}
			return m, nil
		}

	default:
		if m.state == balancesStatePick {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m BalancesModel) View() string {
	if m.state == balancesStatePick {
		return m.picker.View()
	}
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading balances...")
	}
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	pools := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Cash"),
		poolLine(m.balances.Cash),
		"",
		labelStyle.Render("Credits"),
		poolLine(m.balances.Credits),
	)

	var categories []string
	categories = append(categories, labelStyle.Render("Credit categories"))
	for _, category := range ledger.CreditCategories() {
		b := m.balances.CreditCategories[category]
		categories = append(categories, fmt.Sprintf("  %-10s %s used", category, FormatAmount(b.UsedCents)))
	}
	if len(m.balances.CashCategories) > 0 {
		categories = append(categories, "", labelStyle.Render("Cash spend"))
		names := make([]ledger.CashExpenseCategory, 0, len(m.balances.CashCategories))
		for name := range m.balances.CashCategories {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
		for _, name := range names {
			b := m.balances.CashCategories[name]
			categories = append(categories, fmt.Sprintf("  %-10s %s used", name, FormatAmount(b.UsedCents)))
		}
	}

	runway := fmt.Sprintf("%d months", m.analytics.RunwayMonths)
	if m.analytics.BurnRateCents == 0 {
		runway = "n/a (no burn)"
	}

	stats := lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render("Burn rate:")+" "+FormatAmount(m.analytics.BurnRateCents)+"/month",
		labelStyle.Render("Runway:")+" "+runway,
	)

	left := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(1, 2).
		Render(pools + "\n\n" + stats)

	right := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, categories...))

	header := fmt.Sprintf("Investment %s (%s)", shortID(m.inv.ID), m.inv.Status)

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().PaddingBottom(1).Render(header),
			lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right),
		),
	)
}

func poolLine(p ledger.PoolBalance) string {
	return fmt.Sprintf("  %s remaining of %s (%s pending)",
		FormatAmount(p.RemainingCents),
		FormatAmount(p.PrincipalCents),
		FormatAmount(p.PendingCents),
	)
}
