package ledger

import (
	"github.com/perchlabs/fundledger/internal/investment"
)

// PoolBalance holds the derived figures for one pool. All values are
// integer cents; nothing here is ever persisted.
type PoolBalance struct {
	PrincipalCents int64
	UsedCents      int64
	PendingCents   int64
	RemainingCents int64
}

// CategoryBalance holds the used/pending split for one category.
type CategoryBalance struct {
	UsedCents    int64
	PendingCents int64
}

// Balances is the full derived view of one investment's ledger.
type Balances struct {
	Cash    PoolBalance
	Credits PoolBalance

	CreditCategories map[CreditCategory]CategoryBalance
	CashCategories   map[CashExpenseCategory]CategoryBalance
}

// ComputeBalances derives used, pending, remaining and category breakdowns
// for both pools from the authoritative transaction set. It is pure: callers
// must pass the current set on every balance-sensitive decision rather than
// reuse an earlier result.
//
// Approved transactions count toward used, pending toward pending; denied
// and cancelled transactions are history only and count toward neither.
func ComputeBalances(inv *investment.Investment, txs []*Transaction) Balances {
	b := Balances{
		Cash:    PoolBalance{PrincipalCents: inv.CashPrincipalCents},
		Credits: PoolBalance{PrincipalCents: inv.CreditsPrincipalCents},

		CreditCategories: make(map[CreditCategory]CategoryBalance),
		CashCategories:   make(map[CashExpenseCategory]CategoryBalance),
	}

	for _, tx := range txs {
		if tx.Status != StatusApproved && tx.Status != StatusPending {
			continue
		}

		pool := &b.Cash
		if tx.Type == TypeCreditUsage {
			pool = &b.Credits
		}

		if tx.Status == StatusApproved {
			pool.UsedCents += tx.AmountCents
		} else {
			pool.PendingCents += tx.AmountCents
		}

		switch tx.Type {
		case TypeCreditUsage:
			if tx.CreditCategory == nil {
				break
			}

			c := b.CreditCategories[*tx.CreditCategory]
			if tx.Status == StatusApproved {
				c.UsedCents += tx.AmountCents
			} else {
				c.PendingCents += tx.AmountCents
			}

			b.CreditCategories[*tx.CreditCategory] = c

		case TypeCashDisbursement:
			if tx.CashExpenseCategory == nil {
				break
			}

			c := b.CashCategories[*tx.CashExpenseCategory]
			if tx.Status == StatusApproved {
				c.UsedCents += tx.AmountCents
			} else {
				c.PendingCents += tx.AmountCents
			}

			b.CashCategories[*tx.CashExpenseCategory] = c
		}
	}

	b.Cash.RemainingCents = b.Cash.PrincipalCents - b.Cash.UsedCents
	b.Credits.RemainingCents = b.Credits.PrincipalCents - b.Credits.UsedCents

	return b
}

// Pool returns the balance of the pool the given transaction type draws from.
func (b Balances) Pool(t Type) PoolBalance {
	if t == TypeCreditUsage {
		return b.Credits
	}

	return b.Cash
}
