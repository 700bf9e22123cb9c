package models

import "github.com/shopspring/decimal"

// Tier is the KYC-derived limit classification
type Tier string

const (
	TierStandard Tier = "STANDARD"
	TierVerified Tier = "VERIFIED"
	TierPremium  Tier = "PREMIUM"
)

// Period is a rolling aggregation window for limit checks
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
)

// TransactionLimit is one cell of the (tier, period) limit table
type TransactionLimit struct {
	MaxTotalAmount       decimal.Decimal `json:"maxTotalAmount"`
	MaxTransactionCount  int             `json:"maxTransactionCount"`
	MaxTransactionAmount decimal.Decimal `json:"maxTransactionAmount"`
}

// RemainingLimit is a read-only usage snapshot for one period
type RemainingLimit struct {
	MaxTotalAmount            decimal.Decimal `json:"maxTotalAmount"`
	UsedAmount                decimal.Decimal `json:"usedAmount"`
	RemainingAmount           decimal.Decimal `json:"remainingAmount"`
	MaxTransactionCount       int             `json:"maxTransactionCount"`
	UsedTransactionCount      int             `json:"usedTransactionCount"`
	RemainingTransactionCount int             `json:"remainingTransactionCount"`
	MaxTransactionAmount      decimal.Decimal `json:"maxTransactionAmount"`
}
