package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/perchlabs/fundledger/internal/investment"
)

type investmentsLoadedMsg struct {
	investments []*investment.Investment
	err         error
}

type investmentPickedMsg struct {
	inv *investment.Investment
}

// investmentPicker is the shared first screen of every view: a table of
// investments, enter selects one.
type investmentPicker struct {
	svc         *investment.Service
	table       table.Model
	investments []*investment.Investment
	loading     bool
	err         error
}

func newInvestmentPicker(svc *investment.Service) investmentPicker {
	columns := []table.Column{
		{Title: "Investment", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Cash", Width: 14},
		{Title: "Credits", Width: 14},
		{Title: "Approved", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
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

	return investmentPicker{svc: svc, table: t, loading: true}
}

func (p investmentPicker) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		invs, err := p.svc.List(ctx)

		return investmentsLoadedMsg{investments: invs, err: err}
	}
}

func (p investmentPicker) Update(msg tea.Msg) (investmentPicker, tea.Cmd) {
	switch msg := msg.(type) {
	case investmentsLoadedMsg:
		p.loading = false
		if msg.err != nil {
			p.err = msg.err
			return p, nil
		}
		p.investments = msg.investments
		p.refreshTable()
		return p, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if len(p.investments) == 0 {
				return p, nil
			}
			inv := p.investments[p.table.Cursor()]
			return p, func() tea.Msg { return investmentPickedMsg{inv: inv} }
		case "r":
			p.loading = true
			return p, p.load()
		}
	}

	var cmd tea.Cmd
	p.table, cmd = p.table.Update(msg)
	return p, cmd
}

func (p *investmentPicker) refreshTable() {
	rows := make([]table.Row, 0, len(p.investments))
	for _, inv := range p.investments {
		rows = append(rows, table.Row{
			shortID(inv.ID),
			string(inv.Status),
			FormatAmount(inv.CashPrincipalCents),
			FormatAmount(inv.CreditsPrincipalCents),
			FormatDate(inv.ApprovedAt),
		})
	}
	p.table.SetRows(rows)
}

func (p investmentPicker) View() string {
	if p.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading investments...")
	}
	if p.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", p.err))
	}
	if len(p.investments) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No investments yet.")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(p.table.View())
}
