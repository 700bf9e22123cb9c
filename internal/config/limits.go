package config

import (
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/shopspring/decimal"
)

// LimitKey addresses one cell of the limit table
type LimitKey struct {
	Tier   models.Tier
	Period models.Period
}

// LimitProfiles maps (tier, period) to the caps applied in that window.
// Built once at startup and treated as immutable afterwards.
type LimitProfiles map[LimitKey]models.TransactionLimit

func xof(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultLimitProfiles returns the built-in tiered limit table (XOF)
func DefaultLimitProfiles() LimitProfiles {
	return LimitProfiles{
		{models.TierStandard, models.PeriodDaily}: {
			MaxTotalAmount:       xof("1000000.00"),
			MaxTransactionCount:  10,
			MaxTransactionAmount: xof("100000.00"),
		},
		{models.TierVerified, models.PeriodDaily}: {
			MaxTotalAmount:       xof("5000000.00"),
			MaxTransactionCount:  50,
			MaxTransactionAmount: xof("500000.00"),
		},
		{models.TierPremium, models.PeriodDaily}: {
			MaxTotalAmount:       xof("50000000.00"),
			MaxTransactionCount:  100,
			MaxTransactionAmount: xof("5000000.00"),
		},
		{models.TierStandard, models.PeriodWeekly}: {
			MaxTotalAmount:       xof("5000000.00"),
			MaxTransactionCount:  50,
			MaxTransactionAmount: xof("100000.00"),
		},
		{models.TierVerified, models.PeriodWeekly}: {
			MaxTotalAmount:       xof("25000000.00"),
			MaxTransactionCount:  200,
			MaxTransactionAmount: xof("500000.00"),
		},
		{models.TierPremium, models.PeriodWeekly}: {
			MaxTotalAmount:       xof("250000000.00"),
			MaxTransactionCount:  500,
			MaxTransactionAmount: xof("5000000.00"),
		},
		{models.TierStandard, models.PeriodMonthly}: {
			MaxTotalAmount:       xof("20000000.00"),
			MaxTransactionCount:  200,
			MaxTransactionAmount: xof("100000.00"),
		},
		{models.TierVerified, models.PeriodMonthly}: {
			MaxTotalAmount:       xof("100000000.00"),
			MaxTransactionCount:  800,
			MaxTransactionAmount: xof("500000.00"),
		},
		{models.TierPremium, models.PeriodMonthly}: {
			MaxTotalAmount:       xof("1000000000.00"),
			MaxTransactionCount:  2000,
			MaxTransactionAmount: xof("5000000.00"),
		},
	}
}
