package investment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound is returned when the investment does not exist.
var ErrNotFound = errors.New("investment not found")

// ErrInvalidTransition is returned for an illegal status change, e.g.
// reopening a closed investment.
var ErrInvalidTransition = errors.New("invalid status transition")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=investment
type Repository interface {
	CreateInvestment(ctx context.Context, inv *Investment) error
	GetInvestment(ctx context.Context, id uuid.UUID) (*Investment, error)
	ListInvestments(ctx context.Context) ([]*Investment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	ApplicationID         uuid.UUID
	CashPrincipalCents    int64
	CreditsPrincipalCents int64
	ApprovedBy            uuid.UUID
}

// Create records a new investment. Principals are fixed from this point on;
// everything drawn against them goes through the transaction ledger.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Investment, error) {
	if params.CashPrincipalCents < 0 {
		return nil, fmt.Errorf("cash principal must not be negative")
	}

	if params.CreditsPrincipalCents < 0 {
		return nil, fmt.Errorf("credits principal must not be negative")
	}

	inv := &Investment{
		ApplicationID:         params.ApplicationID,
		CashPrincipalCents:    params.CashPrincipalCents,
		CreditsPrincipalCents: params.CreditsPrincipalCents,
		Status:                StatusActive,
		ApprovedBy:            params.ApprovedBy,
	}
	if err := s.repo.CreateInvestment(ctx, inv); err != nil {
		return nil, fmt.Errorf("creating investment: %w", err)
	}

	return inv, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Investment, error) {
	return s.repo.GetInvestment(ctx, id)
}

// GetInvestment satisfies the ledger package's InvestmentGetter.
func (s *Service) GetInvestment(ctx context.Context, id uuid.UUID) (*Investment, error) {
	return s.repo.GetInvestment(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Investment, error) {
	return s.repo.ListInvestments(ctx)
}

// SetStatus applies a lifecycle change (freeze, reactivate, close).
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next Status) (*Investment, error) {
	inv, err := s.repo.GetInvestment(ctx, id)
	if err != nil {
		return nil, err
	}

	if !inv.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", inv.Status, next, ErrInvalidTransition)
	}

	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	inv.Status = next

	return inv, nil
}
