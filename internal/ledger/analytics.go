package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySpend is one month of approved cash spend.
type MonthlySpend struct {
	Month      string // YYYY-MM
	TotalCents int64
}

// Analytics is the read-only overlay derived from approved cash
// disbursements plus the current cash balance.
type Analytics struct {
	MonthlySpend []MonthlySpend
	// BurnRateCents is the average monthly spend across months that had
	// any spend, rounded to whole cents. Zero when nothing was spent.
	BurnRateCents int64
	// RunwayMonths is floor(remaining cash / burn rate), zero when the
	// burn rate is zero.
	RunwayMonths int64
}

// ComputeAnalytics derives the monthly-spend series, burn rate and runway
// from the transaction set. Only approved cash disbursements contribute;
// credit usage never appears in burn or runway.
func ComputeAnalytics(txs []*Transaction, remainingCashCents int64) Analytics {
	byMonth := make(map[string]int64)

	for _, tx := range txs {
		if tx.Type != TypeCashDisbursement || tx.Status != StatusApproved {
			continue
		}

		month := monthKey(tx.CreatedAt)
		byMonth[month] += tx.AmountCents
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}

	sort.Strings(months)

	a := Analytics{MonthlySpend: make([]MonthlySpend, 0, len(months))}

	var totalCents int64

	for _, m := range months {
		a.MonthlySpend = append(a.MonthlySpend, MonthlySpend{Month: m, TotalCents: byMonth[m]})
		totalCents += byMonth[m]
	}

	if len(months) == 0 || totalCents == 0 {
		return a
	}

	total := decimal.NewFromInt(totalCents)
	count := decimal.NewFromInt(int64(len(months)))

	burn := total.Div(count)
	a.BurnRateCents = burn.Round(0).IntPart()

	if burn.IsPositive() {
		remaining := decimal.NewFromInt(remainingCashCents)
		if remaining.IsPositive() {
			a.RunwayMonths = remaining.Div(burn).Floor().IntPart()
		}
	}

	return a
}

func monthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
