package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/investment"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)

	// CancelIfPending flips the transaction to cancelled only if it is
	// still pending, in a single conditional write. It returns
	// ErrInvalidState when a concurrent decision got there first.
	CancelIfPending(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// BeginDecision opens a persistence transaction that serializes
	// decisions per investment. All reads through the returned DecisionTx
	// observe the then-current committed state.
	BeginDecision(ctx context.Context, investmentID uuid.UUID) (DecisionTx, error)
}

// DecisionTx is the atomic unit for a partner decision: the balance re-check
// and the status write either commit together or not at all.
type DecisionTx interface {
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	GetInvestment(ctx context.Context, id uuid.UUID) (*investment.Investment, error)

	// ApprovedTotal sums amountCents over currently-approved transactions
	// of the given type for the investment.
	ApprovedTotal(ctx context.Context, investmentID uuid.UUID, t Type) (int64, error)

	// SetDecision writes the terminal status gated on status = pending.
	// Returns ErrInvalidState if the transaction is no longer pending.
	SetDecision(ctx context.Context, id uuid.UUID, status Status, reviewedBy uuid.UUID, reviewedAt time.Time) (*Transaction, error)

	Commit() error
	Rollback() error
}

// InvestmentGetter resolves investments for create-time validation.
type InvestmentGetter interface {
	GetInvestment(ctx context.Context, id uuid.UUID) (*investment.Investment, error)
}

// EventType classifies a change-feed event.
type EventType string

const (
	EventInsert EventType = "insert"
	EventUpdate EventType = "update"
)

// Event is emitted after a transaction row is committed so founder and
// partner clients can recompute displayed balances.
type Event struct {
	Type        EventType
	Transaction *Transaction
}

// Publisher delivers change-feed events after commit. Delivery is
// best-effort; the ledger never blocks on it.
type Publisher interface {
	Publish(event Event)
}

type Service struct {
	repo        Repository
	investments InvestmentGetter
	feed        Publisher
}

func NewService(repo Repository, investments InvestmentGetter, feed Publisher) *Service {
	return &Service{repo: repo, investments: investments, feed: feed}
}

type CreateParams struct {
	InvestmentID        uuid.UUID
	Type                Type
	CreditCategory      *CreditCategory
	CashExpenseCategory *CashExpenseCategory
	AmountCents         int64
	Title               string
	Description         string
	RequestedBy         uuid.UUID
}

type ListFilter struct {
	InvestmentID uuid.UUID
	Status       *Status
	Type         *Type
}

// DecisionAction is a partner's verdict on a pending transaction.
type DecisionAction string

const (
	ActionApprove DecisionAction = "approve"
	ActionDeny    DecisionAction = "deny"
)

// Create validates and records a new pending draw request. The balance
// check here is advisory: it reads the current ledger for fast user
// feedback, but the authoritative guard runs again at approval time.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if err := validateCreate(params); err != nil {
		return nil, err
	}

	inv, err := s.investments.GetInvestment(ctx, params.InvestmentID)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			return nil, fmt.Errorf("investment %s: %w", params.InvestmentID, ErrNotFound)
		}

		return nil, fmt.Errorf("loading investment: %w", err)
	}

	if inv.Status != investment.StatusActive {
		return nil, fmt.Errorf("investment is %s: %w", inv.Status, ErrInvalidState)
	}

	txs, err := s.repo.ListTransactions(ctx, ListFilter{InvestmentID: inv.ID})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	balances := ComputeBalances(inv, txs)
	if remaining := balances.Pool(params.Type).RemainingCents; remaining < params.AmountCents {
		return nil, &InsufficientBalanceError{
			Pool:           params.Type,
			RequestedCents: params.AmountCents,
			RemainingCents: remaining,
		}
	}

	tx := &Transaction{
		InvestmentID:        params.InvestmentID,
		Type:                params.Type,
		CreditCategory:      params.CreditCategory,
		CashExpenseCategory: params.CashExpenseCategory,
		AmountCents:         params.AmountCents,
		Title:               params.Title,
		Description:         params.Description,
		Status:              StatusPending,
		RequestedBy:         params.RequestedBy,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	s.publish(Event{Type: EventInsert, Transaction: tx})

	return tx, nil
}

// Decide records a partner's verdict on a pending transaction. Approval
// recomputes the approved total inside the decision transaction, so two
// concurrent approvals against the same shrinking pool cannot both pass:
// whichever commits second sees the first one's amount already counted.
func (s *Service) Decide(ctx context.Context, id uuid.UUID, action DecisionAction, reviewedBy uuid.UUID) (*Transaction, error) {
	if action != ActionApprove && action != ActionDeny {
		return nil, &ValidationError{Field: "action", Reason: "must be approve or deny"}
	}

	// First read is only to locate the owning investment for the
	// decision lock; all authoritative reads happen inside the tx.
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	dtx, err := s.repo.BeginDecision(ctx, tx.InvestmentID)
	if err != nil {
		return nil, fmt.Errorf("beginning decision: %w", err)
	}
	defer dtx.Rollback()

	current, err := dtx.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if current.Status != StatusPending {
		return nil, fmt.Errorf("transaction is %s: %w", current.Status, ErrInvalidState)
	}

	status := StatusDenied

	if action == ActionApprove {
		inv, err := dtx.GetInvestment(ctx, current.InvestmentID)
		if err != nil {
			return nil, fmt.Errorf("loading investment: %w", err)
		}

		approved, err := dtx.ApprovedTotal(ctx, current.InvestmentID, current.Type)
		if err != nil {
			return nil, fmt.Errorf("summing approved transactions: %w", err)
		}

		principal := inv.CashPrincipalCents
		if current.Type == TypeCreditUsage {
			principal = inv.CreditsPrincipalCents
		}

		if approved+current.AmountCents > principal {
			return nil, &InsufficientBalanceError{
				Pool:           current.Type,
				RequestedCents: current.AmountCents,
				RemainingCents: principal - approved,
			}
		}

		status = StatusApproved
	}

	decided, err := dtx.SetDecision(ctx, id, status, reviewedBy, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := dtx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision: %w", err)
	}

	s.publish(Event{Type: EventUpdate, Transaction: decided})

	return decided, nil
}

// Cancel withdraws a pending request. Only the original requester may
// cancel; a cancel racing a decision loses to whichever operation observes
// pending under the conditional write.
func (s *Service) Cancel(ctx context.Context, id, requestedBy uuid.UUID) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.RequestedBy != requestedBy {
		return nil, fmt.Errorf("transaction belongs to another requester: %w", ErrForbidden)
	}

	if tx.Status != StatusPending {
		return nil, fmt.Errorf("transaction is %s: %w", tx.Status, ErrInvalidState)
	}

	cancelled, err := s.repo.CancelIfPending(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(Event{Type: EventUpdate, Transaction: cancelled})

	return cancelled, nil
}

// Balances recomputes the derived view from the authoritative ledger.
func (s *Service) Balances(ctx context.Context, investmentID uuid.UUID) (Balances, error) {
	inv, err := s.investments.GetInvestment(ctx, investmentID)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			return Balances{}, fmt.Errorf("investment %s: %w", investmentID, ErrNotFound)
		}

		return Balances{}, fmt.Errorf("loading investment: %w", err)
	}

	txs, err := s.repo.ListTransactions(ctx, ListFilter{InvestmentID: investmentID})
	if err != nil {
		return Balances{}, fmt.Errorf("listing transactions: %w", err)
	}

	return ComputeBalances(inv, txs), nil
}

// Analytics derives the monthly cash-spend series, burn rate and runway.
func (s *Service) Analytics(ctx context.Context, investmentID uuid.UUID) (Analytics, error) {
	inv, err := s.investments.GetInvestment(ctx, investmentID)
	if err != nil {
		if errors.Is(err, investment.ErrNotFound) {
			return Analytics{}, fmt.Errorf("investment %s: %w", investmentID, ErrNotFound)
		}

		return Analytics{}, fmt.Errorf("loading investment: %w", err)
	}

	txs, err := s.repo.ListTransactions(ctx, ListFilter{InvestmentID: investmentID})
	if err != nil {
		return Analytics{}, fmt.Errorf("listing transactions: %w", err)
	}

	balances := ComputeBalances(inv, txs)

	return ComputeAnalytics(txs, balances.Cash.RemainingCents), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

func (s *Service) publish(event Event) {
	if s.feed == nil {
		return
	}

	s.feed.Publish(event)
}

func validateCreate(params CreateParams) error {
	if params.AmountCents <= 0 {
		return &ValidationError{Field: "amount_cents", Reason: "must be greater than zero"}
	}

	switch params.Type {
	case TypeCashDisbursement:
		if params.CreditCategory != nil {
			return &ValidationError{Field: "credit_category", Reason: "not allowed for cash disbursements"}
		}

	case TypeCreditUsage:
		if params.CreditCategory == nil {
			return &ValidationError{Field: "credit_category", Reason: "required for credit usage"}
		}

		if !params.CreditCategory.Valid() {
			return &ValidationError{Field: "credit_category", Reason: fmt.Sprintf("unknown category %q", *params.CreditCategory)}
		}

		if params.CashExpenseCategory != nil {
			return &ValidationError{Field: "cash_expense_category", Reason: "not allowed for credit usage"}
		}

	default:
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", params.Type)}
	}

	return nil
}
