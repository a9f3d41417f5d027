package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/perchlabs/fundledger/cmd/tui/internal/view"
	"github.com/perchlabs/fundledger/internal/config"
	"github.com/perchlabs/fundledger/internal/database"
	"github.com/perchlabs/fundledger/internal/export"
	"github.com/perchlabs/fundledger/internal/feed"
	"github.com/perchlabs/fundledger/internal/investment"
	investmentStore "github.com/perchlabs/fundledger/internal/investment/store"
	"github.com/perchlabs/fundledger/internal/ledger"
	ledgerStore "github.com/perchlabs/fundledger/internal/ledger/store"
)

type model struct {
	ledgerService     *ledger.Service
	investmentService *investment.Service
	exportService     *export.Service
	partnerID         uuid.UUID

	currentView View

	reviewView   view.ReviewModel
	balancesView view.BalancesModel
	ledgerView   view.LedgerModel
}

type View int

const (
	ViewMenu     View = 0
	ViewReview   View = 1
	ViewBalances View = 2
	ViewLedger   View = 3
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	partnerID, err := uuid.Parse(os.Getenv("PARTNER_ID"))
	if err != nil {
		slog.Error("PARTNER_ID must be set to the reviewing partner's id", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	invSvc := investment.NewService(investmentStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db), invSvc, feed.NewHub())
	expSvc := export.NewService(ledgerSvc)

	return model{
		ledgerService:     ledgerSvc,
		investmentService: invSvc,
		exportService:     expSvc,
		partnerID:         partnerID,
		currentView:       ViewMenu,
		reviewView:        view.NewReviewModel(ledgerSvc, invSvc, partnerID),
		balancesView:      view.NewBalancesModel(ledgerSvc, invSvc),
		ledgerView:        view.NewLedgerModel(ledgerSvc, expSvc, invSvc),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewReview
				m.reviewView = view.NewReviewModel(m.ledgerService, m.investmentService, m.partnerID)

				return m, m.reviewView.Init()
			case "2":
				m.currentView = ViewBalances
				m.balancesView = view.NewBalancesModel(m.ledgerService, m.investmentService)

				return m, m.balancesView.Init()
			case "3":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.ledgerService, m.exportService, m.investmentService)

				return m, m.ledgerView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewReview:
		var newModel tea.Model
		newModel, cmd = m.reviewView.Update(msg)
		m.reviewView = newModel.(view.ReviewModel)
	case ViewBalances:
		var newModel tea.Model
		newModel, cmd = m.balancesView.Update(msg)
		m.balancesView = newModel.(view.BalancesModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Fundledger Partner Console\n\n" +
				"1. Review Pending Requests\n" +
				"2. Balances & Runway\n" +
				"3. Browse Ledger\n\n" +
				"q. Quit",
		)
	case ViewReview:
		return m.reviewView.View()
	case ViewBalances:
		return m.balancesView.View()
	case ViewLedger:
		return m.ledgerView.View()
	}

	return "Unknown View"
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
