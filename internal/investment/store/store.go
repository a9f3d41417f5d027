package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/investment"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectInvestmentColumns = `
	id, application_id, cash_principal_cents, credits_principal_cents,
	status, approved_by, approved_at, created_at, updated_at
`

func scanInvestment(s scanner) (*investment.Investment, error) {
	var inv investment.Investment

	var statusStr string

	if err := s.Scan(
		&inv.ID, &inv.ApplicationID, &inv.CashPrincipalCents, &inv.CreditsPrincipalCents,
		&statusStr, &inv.ApprovedBy, &inv.ApprovedAt, &inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.Status = investment.Status(statusStr)

	return &inv, nil
}

func (s *Store) CreateInvestment(ctx context.Context, inv *investment.Investment) error {
	query := `
		INSERT INTO investments (application_id, cash_principal_cents, credits_principal_cents,
			status, approved_by, approved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW(), NOW())
		RETURNING id, approved_at, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.ApplicationID,
		inv.CashPrincipalCents,
		inv.CreditsPrincipalCents,
		inv.Status,
		inv.ApprovedBy,
	).Scan(&inv.ID, &inv.ApprovedAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating investment: %w", err)
	}

	return nil
}

func (s *Store) GetInvestment(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	query := `SELECT ` + selectInvestmentColumns + ` FROM investments WHERE id = $1`

	inv, err := scanInvestment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, investment.ErrNotFound
		}

		return nil, fmt.Errorf("getting investment: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvestments(ctx context.Context) ([]*investment.Investment, error) {
	query := `SELECT ` + selectInvestmentColumns + ` FROM investments ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing investments: %w", err)
	}
	defer rows.Close()

	var invs []*investment.Investment

	for rows.Next() {
		inv, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning investment: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating investment rows: %w", err)
	}

	return invs, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status investment.Status) error {
	query := `
		UPDATE investments
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`

	_, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return nil
}
