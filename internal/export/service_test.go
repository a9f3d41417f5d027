package export_test

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/perchlabs/fundledger/internal/export"
	"github.com/perchlabs/fundledger/internal/ledger"
)

func TestService_Statement(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	invs := ledger.NewMockInvestmentGetter(ctrl)

	investmentID := uuid.New()
	category := ledger.CreditDesign
	reviewedAt := time.Date(2026, time.June, 2, 9, 30, 0, 0, time.UTC)

	txs := []*ledger.Transaction{
		{
			ID:           uuid.New(),
			InvestmentID: investmentID,
			Type:         ledger.TypeCashDisbursement,
			AmountCents:  123_45,
			Title:        "Server hosting",
			Status:       ledger.StatusApproved,
			ReviewedAt:   &reviewedAt,
			CreatedAt:    time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:             uuid.New(),
			InvestmentID:   investmentID,
			Type:           ledger.TypeCreditUsage,
			CreditCategory: &category,
			AmountCents:    500_00,
			Title:          "Brand refresh",
			Status:         ledger.StatusApproved,
			ReviewedAt:     &reviewedAt,
			CreatedAt:      time.Date(2026, time.June, 3, 12, 0, 0, 0, time.UTC),
		},
	}

	status := ledger.StatusApproved
	repo.EXPECT().
		ListTransactions(gomock.Any(), ledger.ListFilter{InvestmentID: investmentID, Status: &status}).
		Return(txs, nil)

	svc := export.NewService(ledger.NewService(repo, invs, nil))

	dir := t.TempDir()

	path, err := svc.Statement(context.Background(), investmentID, dir)
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"date", "type", "category", "title", "amount", "reviewed_at"}, rows[0])
	assert.Equal(t, []string{"2026-06-01", "cash_disbursement", "", "Server hosting", "123.45", "2026-06-02T09:30:00Z"}, rows[1])
	assert.Equal(t, []string{"2026-06-03", "credit_usage", "design", "Brand refresh", "500.00", "2026-06-02T09:30:00Z"}, rows[2])
}

func TestService_Statement_EmptyLedger(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := ledger.NewMockRepository(ctrl)
	invs := ledger.NewMockInvestmentGetter(ctrl)

	repo.EXPECT().ListTransactions(gomock.Any(), gomock.Any()).Return(nil, nil)

	svc := export.NewService(ledger.NewService(repo, invs, nil))

	path, err := svc.Statement(context.Background(), uuid.New(), t.TempDir())
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "date,type,category,title,amount,reviewed_at\n", string(data))
}
