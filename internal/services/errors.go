package services

import (
	"fmt"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/shopspring/decimal"
)

// ValidationError reports malformed or out-of-policy input. Always
// recoverable by the caller correcting the input.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// InsufficientFundsError reports a failed balance precondition on a
// withdrawal or transfer.
type InsufficientFundsError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: available %s XOF, requested %s XOF",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

// LimitExceededError reports a breached tiered cap, carrying which cap
// and which period.
type LimitExceededError struct {
	Period models.Period
	Reason string
}

func (e *LimitExceededError) Error() string {
	return e.Reason
}

// NotFoundError reports a lookup miss by id or reference
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

// UnsupportedCurrencyError reports a currency code missing from the
// exchange-rate table.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency: %s", e.Code)
}
