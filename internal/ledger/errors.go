package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the referenced investment or
	// transaction does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation targets an investment
	// that is not active or a transaction that is no longer pending.
	ErrInvalidState = errors.New("invalid state")

	// ErrForbidden is returned when the acting user may not perform the
	// operation, e.g. cancelling someone else's request.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError describes malformed input on a create request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientBalanceError is returned when a request or an approval would
// exceed the pool it draws from. RemainingCents is the freshly computed
// remaining balance so callers can render a precise message.
type InsufficientBalanceError struct {
	Pool           Type
	RequestedCents int64
	RemainingCents int64
}

func (e *InsufficientBalanceError) Error() string {
	pool := "cash"
	if e.Pool == TypeCreditUsage {
		pool = "credits"
	}

	return fmt.Sprintf("insufficient %s balance: requested %s, remaining %s",
		pool, formatCents(e.RequestedCents), formatCents(e.RemainingCents))
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
