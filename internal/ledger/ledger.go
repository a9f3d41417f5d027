package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Type represents the pool a transaction draws from.
type Type string

const (
	TypeCashDisbursement Type = "cash_disbursement"
	TypeCreditUsage      Type = "credit_usage"
)

// Status represents the lifecycle state of a transaction. Pending is the
// only non-terminal state; approved, denied and cancelled are final.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDenied    Status = "denied"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition out of s is legal.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusDenied || s == StatusCancelled
}

// CreditCategory is the closed set of service-credit categories. A
// credit_usage transaction must carry exactly one of these.
type CreditCategory string

const (
	CreditCloud      CreditCategory = "cloud"
	CreditDesign     CreditCategory = "design"
	CreditLegal      CreditCategory = "legal"
	CreditMarketing  CreditCategory = "marketing"
	CreditRecruiting CreditCategory = "recruiting"
)

// CreditCategories lists every valid credit category.
func CreditCategories() []CreditCategory {
	return []CreditCategory{
		CreditCloud,
		CreditDesign,
		CreditLegal,
		CreditMarketing,
		CreditRecruiting,
	}
}

// Valid reports whether c is a member of the closed category set.
func (c CreditCategory) Valid() bool {
	switch c {
	case CreditCloud, CreditDesign, CreditLegal, CreditMarketing, CreditRecruiting:
		return true
	}

	return false
}

// CashExpenseCategory tags a cash disbursement for reporting. It never
// affects balance arithmetic, so unknown values are accepted.
type CashExpenseCategory string

const (
	CashPayroll   CashExpenseCategory = "payroll"
	CashMarketing CashExpenseCategory = "marketing"
	CashSoftware  CashExpenseCategory = "software"
	CashOffice    CashExpenseCategory = "office"
	CashTravel    CashExpenseCategory = "travel"
	CashOther     CashExpenseCategory = "other"
)

// Transaction is a single draw request against an investment.
type Transaction struct {
	ID           uuid.UUID
	InvestmentID uuid.UUID
	Type         Type
	// CreditCategory is set iff Type == TypeCreditUsage.
	CreditCategory *CreditCategory
	// CashExpenseCategory is an optional analytics tag for cash disbursements.
	CashExpenseCategory *CashExpenseCategory
	AmountCents         int64
	Title               string
	Description         string
	Status              Status
	RequestedBy         uuid.UUID
	ReviewedBy          *uuid.UUID
	ReviewedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           *time.Time
}
