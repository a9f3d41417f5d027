package ledger_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

func newActiveInvestment(cashCents, creditsCents int64) *investment.Investment {
	return &investment.Investment{
		ID:                    uuid.New(),
		ApplicationID:         uuid.New(),
		CashPrincipalCents:    cashCents,
		CreditsPrincipalCents: creditsCents,
		Status:                investment.StatusActive,
	}
}

func cashTx(inv *investment.Investment, amountCents int64, status ledger.Status) *ledger.Transaction {
	return &ledger.Transaction{
		ID:           uuid.New(),
		InvestmentID: inv.ID,
		Type:         ledger.TypeCashDisbursement,
		AmountCents:  amountCents,
		Status:       status,
		RequestedBy:  uuid.New(),
	}
}

func creditTx(inv *investment.Investment, amountCents int64, category ledger.CreditCategory, status ledger.Status) *ledger.Transaction {
	return &ledger.Transaction{
		ID:             uuid.New(),
		InvestmentID:   inv.ID,
		Type:           ledger.TypeCreditUsage,
		CreditCategory: &category,
		AmountCents:    amountCents,
		Status:         status,
		RequestedBy:    uuid.New(),
	}
}

func TestComputeBalances_EmptyLedger(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 5_000_00)

	b := ledger.ComputeBalances(inv, nil)

	assert.Equal(t, int64(0), b.Cash.UsedCents)
	assert.Equal(t, int64(0), b.Cash.PendingCents)
	assert.Equal(t, int64(10_000_00), b.Cash.RemainingCents)
	assert.Equal(t, int64(0), b.Credits.UsedCents)
	assert.Equal(t, int64(5_000_00), b.Credits.RemainingCents)
	assert.Empty(t, b.CreditCategories)
	assert.Empty(t, b.CashCategories)
}

func TestComputeBalances_StatusFilters(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 5_000_00)

	txs := []*ledger.Transaction{
		cashTx(inv, 2_000_00, ledger.StatusApproved),
		cashTx(inv, 1_500_00, ledger.StatusPending),
		cashTx(inv, 9_999_00, ledger.StatusDenied),
		cashTx(inv, 8_888_00, ledger.StatusCancelled),
		creditTx(inv, 1_000_00, ledger.CreditCloud, ledger.StatusApproved),
		creditTx(inv, 500_00, ledger.CreditLegal, ledger.StatusPending),
	}

	b := ledger.ComputeBalances(inv, txs)

	assert.Equal(t, int64(2_000_00), b.Cash.UsedCents)
	assert.Equal(t, int64(1_500_00), b.Cash.PendingCents)
	assert.Equal(t, int64(8_000_00), b.Cash.RemainingCents)

	assert.Equal(t, int64(1_000_00), b.Credits.UsedCents)
	assert.Equal(t, int64(500_00), b.Credits.PendingCents)
	assert.Equal(t, int64(4_000_00), b.Credits.RemainingCents)
}

func TestComputeBalances_Idempotent(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 5_000_00)

	txs := []*ledger.Transaction{
		cashTx(inv, 2_000_00, ledger.StatusApproved),
		creditTx(inv, 700_00, ledger.CreditDesign, ledger.StatusPending),
	}

	first := ledger.ComputeBalances(inv, txs)
	second := ledger.ComputeBalances(inv, txs)

	assert.Equal(t, first, second)
}

func TestComputeBalances_CreditCategoryBreakdown(t *testing.T) {
	inv := newActiveInvestment(0, 5_000_00)

	txs := []*ledger.Transaction{
		creditTx(inv, 500, ledger.CreditDesign, ledger.StatusApproved),
	}

	b := ledger.ComputeBalances(inv, txs)

	require.Contains(t, b.CreditCategories, ledger.CreditDesign)
	assert.Equal(t, int64(500), b.CreditCategories[ledger.CreditDesign].UsedCents)
	assert.Equal(t, int64(0), b.CreditCategories[ledger.CreditDesign].PendingCents)

	for category, c := range b.CreditCategories {
		if category == ledger.CreditDesign {
			continue
		}

		assert.Zero(t, c.UsedCents, "category %s should have no usage", category)
		assert.Zero(t, c.PendingCents, "category %s should have no pending", category)
	}

	assert.Empty(t, b.CashCategories)
}

func TestComputeBalances_CashCategoryTagsDoNotAffectPools(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 0)

	tagged := cashTx(inv, 1_000_00, ledger.StatusApproved)
	category := ledger.CashPayroll
	tagged.CashExpenseCategory = &category

	untagged := cashTx(inv, 2_000_00, ledger.StatusApproved)

	b := ledger.ComputeBalances(inv, []*ledger.Transaction{tagged, untagged})

	assert.Equal(t, int64(3_000_00), b.Cash.UsedCents)
	assert.Equal(t, int64(1_000_00), b.CashCategories[ledger.CashPayroll].UsedCents)
	assert.Len(t, b.CashCategories, 1)
}

// A request that gets denied immediately must leave used untouched and
// return pending to its pre-request value.
func TestComputeBalances_CreateThenDenyRoundTrip(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 0)

	base := []*ledger.Transaction{cashTx(inv, 1_000_00, ledger.StatusApproved)}
	before := ledger.ComputeBalances(inv, base)

	request := cashTx(inv, 3_000_00, ledger.StatusPending)
	during := ledger.ComputeBalances(inv, append(base, request))

	assert.Equal(t, before.Cash.UsedCents, during.Cash.UsedCents)
	assert.Equal(t, before.Cash.PendingCents+3_000_00, during.Cash.PendingCents)

	request.Status = ledger.StatusDenied
	after := ledger.ComputeBalances(inv, append(base, request))

	assert.Equal(t, before.Cash, after.Cash)
}

func TestComputeBalances_DeniedLeavesBalancesUntouched(t *testing.T) {
	inv := newActiveInvestment(10_000_00, 0)

	before := ledger.ComputeBalances(inv, nil)

	denied := cashTx(inv, 4_000_00, ledger.StatusDenied)
	after := ledger.ComputeBalances(inv, []*ledger.Transaction{denied})

	assert.Equal(t, before.Cash, after.Cash)
}
