package investment

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/perchlabs/fundledger/internal/investment"
	"github.com/perchlabs/fundledger/internal/ledger"
)

type investmentResponse struct {
	ID                    uuid.UUID         `json:"id"`
	ApplicationID         uuid.UUID         `json:"application_id"`
	CashPrincipalCents    int64             `json:"cash_principal_cents"`
	CreditsPrincipalCents int64             `json:"credits_principal_cents"`
	Status                investment.Status `json:"status"`
	ApprovedBy            uuid.UUID         `json:"approved_by"`
	ApprovedAt            time.Time         `json:"approved_at"`
	CreatedAt             time.Time         `json:"created_at"`
	UpdatedAt             *time.Time        `json:"updated_at,omitempty"`
}

func toResponse(inv *investment.Investment) investmentResponse {
	return investmentResponse{
		ID:                    inv.ID,
		ApplicationID:         inv.ApplicationID,
		CashPrincipalCents:    inv.CashPrincipalCents,
		CreditsPrincipalCents: inv.CreditsPrincipalCents,
		Status:                inv.Status,
		ApprovedBy:            inv.ApprovedBy,
		ApprovedAt:            inv.ApprovedAt,
		CreatedAt:             inv.CreatedAt,
		UpdatedAt:             inv.UpdatedAt,
	}
}

func toResponseList(invs []*investment.Investment) []investmentResponse {
	resp := make([]investmentResponse, len(invs))
	for i, inv := range invs {
		resp[i] = toResponse(inv)
	}

	return resp
}

type poolBalanceResponse struct {
	PrincipalCents int64 `json:"principal_cents"`
	UsedCents      int64 `json:"used_cents"`
	PendingCents   int64 `json:"pending_cents"`
	RemainingCents int64 `json:"remaining_cents"`
}

type categoryBalanceResponse struct {
	Category     string `json:"category"`
	UsedCents    int64  `json:"used_cents"`
	PendingCents int64  `json:"pending_cents"`
}

type balancesResponse struct {
	Cash             poolBalanceResponse       `json:"cash"`
	Credits          poolBalanceResponse       `json:"credits"`
	CreditCategories []categoryBalanceResponse `json:"credit_categories"`
	CashCategories   []categoryBalanceResponse `json:"cash_categories"`
}

func toBalancesResponse(b ledger.Balances) balancesResponse {
	resp := balancesResponse{
		Cash:             toPoolResponse(b.Cash),
		Credits:          toPoolResponse(b.Credits),
		CreditCategories: make([]categoryBalanceResponse, 0, len(b.CreditCategories)),
		CashCategories:   make([]categoryBalanceResponse, 0, len(b.CashCategories)),
	}

	// Credit categories are a closed set; emit them in declaration order
	// so every category shows up even with zero activity.
	for _, category := range ledger.CreditCategories() {
		c := b.CreditCategories[category]
		resp.CreditCategories = append(resp.CreditCategories, categoryBalanceResponse{
			Category:     string(category),
			UsedCents:    c.UsedCents,
			PendingCents: c.PendingCents,
		})
	}

	for category, c := range b.CashCategories {
		resp.CashCategories = append(resp.CashCategories, categoryBalanceResponse{
			Category:     string(category),
			UsedCents:    c.UsedCents,
			PendingCents: c.PendingCents,
		})
	}

	sort.Slice(resp.CashCategories, func(i, j int) bool {
		return resp.CashCategories[i].Category < resp.CashCategories[j].Category
	})

	return resp
}

func toPoolResponse(p ledger.PoolBalance) poolBalanceResponse {
	return poolBalanceResponse{
		PrincipalCents: p.PrincipalCents,
		UsedCents:      p.UsedCents,
		PendingCents:   p.PendingCents,
		RemainingCents: p.RemainingCents,
	}
}

type monthlySpendResponse struct {
	Month      string `json:"month"`
	TotalCents int64  `json:"total_cents"`
}

type analyticsResponse struct {
	MonthlySpend  []monthlySpendResponse `json:"monthly_spend"`
	BurnRateCents int64                  `json:"burn_rate_cents"`
	RunwayMonths  int64                  `json:"runway_months"`
}

func toAnalyticsResponse(a ledger.Analytics) analyticsResponse {
	resp := analyticsResponse{
		MonthlySpend:  make([]monthlySpendResponse, 0, len(a.MonthlySpend)),
		BurnRateCents: a.BurnRateCents,
		RunwayMonths:  a.RunwayMonths,
	}

	for _, m := range a.MonthlySpend {
		resp.MonthlySpend = append(resp.MonthlySpend, monthlySpendResponse{
			Month:      m.Month,
			TotalCents: m.TotalCents,
		})
	}

	return resp
}
