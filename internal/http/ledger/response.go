package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/ledger"
)

type transactionResponse struct {
	ID                  uuid.UUID                   `json:"id"`
	InvestmentID        uuid.UUID                   `json:"investment_id"`
	Type                ledger.Type                 `json:"type"`
	CreditCategory      *ledger.CreditCategory      `json:"credit_category,omitempty"`
	CashExpenseCategory *ledger.CashExpenseCategory `json:"cash_expense_category,omitempty"`
	AmountCents         int64                       `json:"amount_cents"`
	Title               string                      `json:"title"`
	Description         string                      `json:"description,omitempty"`
	Status              ledger.Status               `json:"status"`
	RequestedBy         uuid.UUID                   `json:"requested_by"`
	ReviewedBy          *uuid.UUID                  `json:"reviewed_by,omitempty"`
	ReviewedAt          *time.Time                  `json:"reviewed_at,omitempty"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           *time.Time                  `json:"updated_at,omitempty"`
}

func toResponse(tx *ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:                  tx.ID,
		InvestmentID:        tx.InvestmentID,
		Type:                tx.Type,
		CreditCategory:      tx.CreditCategory,
		CashExpenseCategory: tx.CashExpenseCategory,
		AmountCents:         tx.AmountCents,
		Title:               tx.Title,
		Description:         tx.Description,
		Status:              tx.Status,
		RequestedBy:         tx.RequestedBy,
		ReviewedBy:          tx.ReviewedBy,
		ReviewedAt:          tx.ReviewedAt,
		CreatedAt:           tx.CreatedAt,
		UpdatedAt:           tx.UpdatedAt,
	}
}

func toResponseList(txs []*ledger.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
