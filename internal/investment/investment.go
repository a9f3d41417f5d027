package investment

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of an investment. Only active
// investments accept new draw requests.
type Status string

const (
	StatusActive Status = "active"
	StatusFrozen Status = "frozen"
	StatusClosed Status = "closed"
)

// CanTransitionTo reports whether the status change s -> next is legal.
// Closed is terminal; active and frozen may swap; either may close.
func (s Status) CanTransitionTo(next Status) bool {
	if s == StatusClosed || s == next {
		return false
	}

	switch next {
	case StatusActive, StatusFrozen, StatusClosed:
		return true
	}

	return false
}

// Investment is the cash + credit allotment granted to one startup. The two
// principals are fixed at creation; balances are always derived from the
// transaction ledger, never stored.
type Investment struct {
	ID                    uuid.UUID
	ApplicationID         uuid.UUID
	CashPrincipalCents    int64
	CreditsPrincipalCents int64
	Status                Status
	ApprovedBy            uuid.UUID
	ApprovedAt            time.Time
	CreatedAt             time.Time
	UpdatedAt             *time.Time
}
