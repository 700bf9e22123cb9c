package services

import (
	"time"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/shopspring/decimal"
)

var (
	minTransactionAmount  = decimal.RequireFromString("100.00")
	maxTransactionAmount  = decimal.RequireFromString("10000000.00")
	highRiskThreshold     = decimal.RequireFromString("5000000.00")
	verificationThreshold = decimal.RequireFromString("1000000.00")
	withdrawalFeeRate     = decimal.RequireFromString("0.005")
	minWithdrawalFee      = decimal.RequireFromString("100.00")
)

const (
	maxDescriptionLength = 500
	minTransactionGap    = time.Minute
)

// TransactionValidator applies the stateless policy rules every
// proposed transaction must pass. All checks are side-effect free.
type TransactionValidator struct{}

func NewTransactionValidator() *TransactionValidator {
	return &TransactionValidator{}
}

// ValidateAmount enforces the amount policy: strictly positive, within
// [100.00, 10,000,000.00] XOF and at most two fractional digits.
func (v *TransactionValidator) ValidateAmount(amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return &ValidationError{Reason: "amount must be positive"}
	}
	if amount.Cmp(minTransactionAmount) < 0 {
		return validationErrorf("minimum transaction amount is %s XOF", minTransactionAmount.StringFixed(2))
	}
	if amount.Cmp(maxTransactionAmount) > 0 {
		return validationErrorf("maximum transaction amount is %s XOF", maxTransactionAmount.StringFixed(2))
	}
	if !amount.Equal(amount.Truncate(2)) {
		return &ValidationError{Reason: "amount cannot have more than 2 decimal places"}
	}
	return nil
}

// ValidateCurrency accepts only the base currency for mutating
// operations; other codes exist for informational lookups only.
func (v *TransactionValidator) ValidateCurrency(currency string) error {
	if currency == "" {
		return &ValidationError{Reason: "currency is required"}
	}
	if currency != config.BaseCurrency {
		return validationErrorf("only %s is supported for transactions", config.BaseCurrency)
	}
	return nil
}

func (v *TransactionValidator) ValidateTransactionType(transactionType models.TransactionType) error {
	if !transactionType.Valid() {
		return &ValidationError{Reason: "transaction type is required"}
	}
	return nil
}

func (v *TransactionValidator) ValidateDescription(description string) error {
	if len([]rune(description)) > maxDescriptionLength {
		return validationErrorf("description cannot exceed %d characters", maxDescriptionLength)
	}
	return nil
}

// ValidateTransfer checks transfer participants and the amount rule
func (v *TransactionValidator) ValidateTransfer(fromUserID, toUserID int64, amount decimal.Decimal) error {
	if fromUserID == 0 || toUserID == 0 {
		return &ValidationError{Reason: "both user identifiers are required"}
	}
	if fromUserID == toUserID {
		return &ValidationError{Reason: "cannot transfer to the same account"}
	}
	return v.ValidateAmount(amount)
}

// ValidateTiming rejects a transaction within one minute of the user's
// previous one. A zero lastTransaction means no history and passes.
func (v *TransactionValidator) ValidateTiming(lastTransaction time.Time) error {
	if lastTransaction.IsZero() {
		return nil
	}
	if time.Since(lastTransaction) < minTransactionGap {
		return &ValidationError{Reason: "please wait at least 1 minute between transactions"}
	}
	return nil
}

// IsHighRisk is advisory: large amounts and all withdrawals qualify
func (v *TransactionValidator) IsHighRisk(amount decimal.Decimal, transactionType models.TransactionType) bool {
	return amount.Cmp(highRiskThreshold) > 0 || transactionType == models.TypeWithdrawal
}

// RequiresAdditionalVerification is advisory, keyed on amount alone
func (v *TransactionValidator) RequiresAdditionalVerification(amount decimal.Decimal) bool {
	return amount.Cmp(verificationThreshold) > 0
}

// TransactionFee returns max(amount * 0.5%, 100.00) for withdrawals
// and zero for every other type.
func (v *TransactionValidator) TransactionFee(amount decimal.Decimal, transactionType models.TransactionType) decimal.Decimal {
	if transactionType != models.TypeWithdrawal {
		return decimal.Zero
	}
	fee := amount.Mul(withdrawalFeeRate)
	if fee.Cmp(minWithdrawalFee) < 0 {
		return minWithdrawalFee
	}
	return fee
}
