package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchlabs/fundledger/internal/ledger"
)

func approvedCashAt(amountCents int64, createdAt time.Time) *ledger.Transaction {
	tx := cashTx(newActiveInvestment(0, 0), amountCents, ledger.StatusApproved)
	tx.CreatedAt = createdAt

	return tx
}

func TestComputeAnalytics_MonthlySeries(t *testing.T) {
	txs := []*ledger.Transaction{
		approvedCashAt(1_000_00, time.Date(2026, time.March, 3, 10, 0, 0, 0, time.UTC)),
		approvedCashAt(500_00, time.Date(2026, time.March, 28, 10, 0, 0, 0, time.UTC)),
		approvedCashAt(2_000_00, time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)),
	}

	a := ledger.ComputeAnalytics(txs, 7_000_00)

	require.Len(t, a.MonthlySpend, 2)
	assert.Equal(t, "2026-03", a.MonthlySpend[0].Month)
	assert.Equal(t, int64(1_500_00), a.MonthlySpend[0].TotalCents)
	assert.Equal(t, "2026-05", a.MonthlySpend[1].Month)
	assert.Equal(t, int64(2_000_00), a.MonthlySpend[1].TotalCents)

	// 350000 / 2 months.
	assert.Equal(t, int64(1_750_00), a.BurnRateCents)
	// floor(700000 / 175000) = 4 months.
	assert.Equal(t, int64(4), a.RunwayMonths)
}

func TestComputeAnalytics_NoSpend(t *testing.T) {
	a := ledger.ComputeAnalytics(nil, 5_000_00)

	assert.Empty(t, a.MonthlySpend)
	assert.Zero(t, a.BurnRateCents)
	assert.Zero(t, a.RunwayMonths)
}

func TestComputeAnalytics_IgnoresPendingAndCredits(t *testing.T) {
	inv := newActiveInvestment(0, 0)

	pending := cashTx(inv, 1_000_00, ledger.StatusPending)
	pending.CreatedAt = time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	credit := creditTx(inv, 2_000_00, ledger.CreditCloud, ledger.StatusApproved)
	credit.CreatedAt = time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)

	a := ledger.ComputeAnalytics([]*ledger.Transaction{pending, credit}, 1_000_00)

	assert.Empty(t, a.MonthlySpend)
	assert.Zero(t, a.BurnRateCents)
	assert.Zero(t, a.RunwayMonths)
}

func TestComputeAnalytics_RoundsBurnRate(t *testing.T) {
	txs := []*ledger.Transaction{
		approvedCashAt(100, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)),
		approvedCashAt(100, time.Date(2026, time.February, 5, 0, 0, 0, 0, time.UTC)),
		approvedCashAt(101, time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)),
	}

	a := ledger.ComputeAnalytics(txs, 1_000)

	// 301 / 3 = 100.33..., rounded to whole cents.
	assert.Equal(t, int64(100), a.BurnRateCents)
	// Runway uses the exact quotient, not the rounded burn rate:
	// floor(1000 / (301/3)) = floor(9.966...) = 9.
	assert.Equal(t, int64(9), a.RunwayMonths)
}
