package services

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/faroukali99/reserveFound/internal/models"
)

func TestTransactionValidator_ValidateAmount(t *testing.T) {
	v := NewTransactionValidator()

	t.Run("accepts the minimum amount", func(t *testing.T) {
		assert.NoError(t, v.ValidateAmount(decimal.RequireFromString("100.00")))
	})

	t.Run("accepts the maximum amount", func(t *testing.T) {
		assert.NoError(t, v.ValidateAmount(decimal.RequireFromString("10000000.00")))
	})

	t.Run("rejects zero", func(t *testing.T) {
		err := v.ValidateAmount(decimal.Zero)
		assert.Error(t, err)
		assert.IsType(t, &ValidationError{}, err)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		assert.Error(t, v.ValidateAmount(decimal.RequireFromString("-500.00")))
	})

	t.Run("rejects below the minimum", func(t *testing.T) {
		assert.Error(t, v.ValidateAmount(decimal.RequireFromString("99.99")))
	})

	t.Run("rejects above the maximum", func(t *testing.T) {
		assert.Error(t, v.ValidateAmount(decimal.RequireFromString("10000000.01")))
	})

	t.Run("rejects more than two decimal places", func(t *testing.T) {
		err := v.ValidateAmount(decimal.RequireFromString("1000.999"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "decimal")
	})

	t.Run("accepts two decimal places exactly", func(t *testing.T) {
		assert.NoError(t, v.ValidateAmount(decimal.RequireFromString("1000.99")))
	})
}

func TestTransactionValidator_ValidateCurrency(t *testing.T) {
	v := NewTransactionValidator()

	assert.NoError(t, v.ValidateCurrency("XOF"))
	assert.Error(t, v.ValidateCurrency("EUR"))
	assert.Error(t, v.ValidateCurrency("xof"))
	assert.Error(t, v.ValidateCurrency(""))
}

func TestTransactionValidator_ValidateDescription(t *testing.T) {
	v := NewTransactionValidator()

	assert.NoError(t, v.ValidateDescription(""))
	assert.NoError(t, v.ValidateDescription(strings.Repeat("a", 500)))
	assert.Error(t, v.ValidateDescription(strings.Repeat("a", 501)))
}

func TestTransactionValidator_ValidateTransfer(t *testing.T) {
	v := NewTransactionValidator()
	amount := decimal.RequireFromString("5000.00")

	t.Run("accepts distinct participants", func(t *testing.T) {
		assert.NoError(t, v.ValidateTransfer(1, 2, amount))
	})

	t.Run("rejects missing participants", func(t *testing.T) {
		assert.Error(t, v.ValidateTransfer(0, 2, amount))
		assert.Error(t, v.ValidateTransfer(1, 0, amount))
	})

	t.Run("rejects self transfer", func(t *testing.T) {
		assert.Error(t, v.ValidateTransfer(7, 7, amount))
	})
}

func TestTransactionValidator_ValidateTiming(t *testing.T) {
	v := NewTransactionValidator()

	t.Run("no previous transaction passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateTiming(time.Time{}))
	})

	t.Run("previous transaction within a minute fails", func(t *testing.T) {
		assert.Error(t, v.ValidateTiming(time.Now().Add(-30*time.Second)))
	})

	t.Run("previous transaction over a minute ago passes", func(t *testing.T) {
		assert.NoError(t, v.ValidateTiming(time.Now().Add(-2*time.Minute)))
	})
}

func TestTransactionValidator_RiskClassification(t *testing.T) {
	v := NewTransactionValidator()

	t.Run("high amount is high risk for any type", func(t *testing.T) {
		amount := decimal.RequireFromString("5000000.01")
		assert.True(t, v.IsHighRisk(amount, models.TypeDeposit))
	})

	t.Run("withdrawals are always high risk", func(t *testing.T) {
		assert.True(t, v.IsHighRisk(decimal.RequireFromString("100.00"), models.TypeWithdrawal))
	})

	t.Run("modest deposit is not high risk", func(t *testing.T) {
		assert.False(t, v.IsHighRisk(decimal.RequireFromString("100.00"), models.TypeDeposit))
	})

	t.Run("verification threshold is exclusive", func(t *testing.T) {
		assert.False(t, v.RequiresAdditionalVerification(decimal.RequireFromString("1000000.00")))
		assert.True(t, v.RequiresAdditionalVerification(decimal.RequireFromString("1000000.01")))
	})
}

func TestTransactionValidator_TransactionFee(t *testing.T) {
	v := NewTransactionValidator()

	t.Run("withdrawal fee is half a percent", func(t *testing.T) {
		fee := v.TransactionFee(decimal.RequireFromString("100000.00"), models.TypeWithdrawal)
		assert.True(t, fee.Equal(decimal.RequireFromString("500.00")), "got %s", fee)
	})

	t.Run("withdrawal fee has a floor", func(t *testing.T) {
		fee := v.TransactionFee(decimal.RequireFromString("1000.00"), models.TypeWithdrawal)
		assert.True(t, fee.Equal(decimal.RequireFromString("100.00")), "got %s", fee)
	})

	t.Run("other types are free", func(t *testing.T) {
		fee := v.TransactionFee(decimal.RequireFromString("100000.00"), models.TypeDeposit)
		assert.True(t, fee.IsZero())
	})
}
