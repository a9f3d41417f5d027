package store

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const selectTransactionColumns = `
	id, investment_id, type, credit_category, cash_expense_category, amount_cents,
	title, description, status, requested_by, reviewed_by, reviewed_at, created_at, updated_at
`

// scanTransaction reads a transaction row in selectTransactionColumns order.
func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var tx ledger.Transaction

	var typeStr, statusStr string

	var creditCategory, cashCategory sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.InvestmentID, &typeStr, &creditCategory, &cashCategory, &tx.AmountCents,
		&tx.Title, &tx.Description, &statusStr, &tx.RequestedBy, &tx.ReviewedBy, &tx.ReviewedAt,
		&tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = ledger.Type(typeStr)
	tx.Status = ledger.Status(statusStr)

	if creditCategory.Valid {
		c := ledger.CreditCategory(creditCategory.String)
		tx.CreditCategory = &c
	}

	if cashCategory.Valid {
		c := ledger.CashExpenseCategory(cashCategory.String)
		tx.CashExpenseCategory = &c
	}

	return &tx, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (investment_id, type, credit_category, cash_expense_category,
			amount_cents, title, description, status, requested_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		tx.InvestmentID,
		tx.Type,
		creditCategoryArg(tx.CreditCategory),
		cashCategoryArg(tx.CashExpenseCategory),
		tx.AmountCents,
		tx.Title,
		tx.Description,
		tx.Status,
		tx.RequestedBy,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return getTransaction(ctx, s.db, id)
}

func getTransaction(ctx context.Context, q querier, id uuid.UUID) (*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions
		WHERE investment_id = $1`

	args := []any{filter.InvestmentID}
	argIdx := 2

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	query += " ORDER BY created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*ledger.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

// CancelIfPending is a single conditional write: the row flips to cancelled
// only if a concurrent decision has not already left the pending state.
func (s *Store) CancelIfPending(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING ` + selectTransactionColumns

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, ledger.StatusCancelled, id, ledger.StatusPending))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, stateConflict(ctx, s.db, id)
		}

		return nil, fmt.Errorf("cancelling transaction: %w", err)
	}

	return tx, nil
}

// stateConflict distinguishes a missing row from one that is no longer pending.
func stateConflict(ctx context.Context, q querier, id uuid.UUID) error {
	current, err := getTransaction(ctx, q, id)
	if err != nil {
		return err
	}

	return fmt.Errorf("transaction is %s: %w", current.Status, ledger.ErrInvalidState)
}

// decisionLockKey derives the advisory lock key that serializes decisions
// for one investment.
func decisionLockKey(investmentID uuid.UUID) int64 {
	h := fnv.New64a()
	h.Write([]byte("decision"))
	h.Write([]byte{0})
	h.Write(investmentID[:])

	return int64(h.Sum64())
}

type decisionTx struct {
	tx *sql.Tx
}

// BeginDecision opens a database transaction holding a per-investment
// advisory lock, so at most one decision for an investment is in flight at
// a time. The balance re-check inside therefore always sees every approval
// committed before it.
func (s *Store) BeginDecision(ctx context.Context, investmentID uuid.UUID) (ledger.DecisionTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning decision tx: %w", err)
	}

	lockKey := decisionLockKey(investmentID)
	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", lockKey); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring decision lock: %w", err)
	}

	return &decisionTx{tx: dbTx}, nil
}

func (dtx *decisionTx) Commit() error   { return dtx.tx.Commit() }
func (dtx *decisionTx) Rollback() error { return dtx.tx.Rollback() }

func (dtx *decisionTx) GetTransaction(ctx context.Context, id uuid.UUID) (*ledger.Transaction, error) {
	return getTransaction(ctx, dtx.tx, id)
}

func (dtx *decisionTx) GetInvestment(ctx context.Context, id uuid.UUID) (*investment.Investment, error) {
	query := `
		SELECT id, application_id, cash_principal_cents, credits_principal_cents,
			status, approved_by, approved_at, created_at, updated_at
		FROM investments
		WHERE id = $1
	`

	var inv investment.Investment

	var statusStr string

	err := dtx.tx.QueryRowContext(ctx, query, id).Scan(
		&inv.ID, &inv.ApplicationID, &inv.CashPrincipalCents, &inv.CreditsPrincipalCents,
		&statusStr, &inv.ApprovedBy, &inv.ApprovedAt, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, investment.ErrNotFound
		}

		return nil, fmt.Errorf("getting investment: %w", err)
	}

	inv.Status = investment.Status(statusStr)

	return &inv, nil
}

func (dtx *decisionTx) ApprovedTotal(ctx context.Context, investmentID uuid.UUID, t ledger.Type) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE investment_id = $1 AND type = $2 AND status = $3
	`

	var total int64
	if err := dtx.tx.QueryRowContext(ctx, query, investmentID, t, ledger.StatusApproved).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing approved transactions: %w", err)
	}

	return total, nil
}

func (dtx *decisionTx) SetDecision(ctx context.Context, id uuid.UUID, status ledger.Status, reviewedBy uuid.UUID, reviewedAt time.Time) (*ledger.Transaction, error) {
	query := `
		UPDATE transactions
		SET status = $1, reviewed_by = $2, reviewed_at = $3, updated_at = NOW()
		WHERE id = $4 AND status = $5
		RETURNING ` + selectTransactionColumns

	tx, err := scanTransaction(dtx.tx.QueryRowContext(ctx, query, status, reviewedBy, reviewedAt, id, ledger.StatusPending))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, stateConflict(ctx, dtx.tx, id)
		}

		return nil, fmt.Errorf("recording decision: %w", err)
	}

	return tx, nil
}

func creditCategoryArg(c *ledger.CreditCategory) any {
	if c == nil {
		return nil
	}

	return string(*c)
}

func cashCategoryArg(c *ledger.CashExpenseCategory) any {
	if c == nil {
		return nil
	}

	return string(*c)
}
