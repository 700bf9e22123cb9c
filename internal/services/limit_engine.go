package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
	"github.com/shopspring/decimal"
)

// TierForKYCLevel maps an externally resolved KYC level to a limit tier
func TierForKYCLevel(level int) models.Tier {
	switch level {
	case 2:
		return models.TierVerified
	case 3:
		return models.TierPremium
	default:
		return models.TierStandard
	}
}

// LimitEngine evaluates rolling-window aggregates of a user's history
// against the tier-specific caps of its limit table.
type LimitEngine struct {
	store    store.RecordStore
	profiles config.LimitProfiles
	now      func() time.Time
}

func NewLimitEngine(recordStore store.RecordStore, profiles config.LimitProfiles) *LimitEngine {
	return &LimitEngine{
		store:    recordStore,
		profiles: profiles,
		now:      time.Now,
	}
}

// periodWindow returns the aggregation window ending "now" for a period.
// DAILY is the local calendar day; WEEKLY and MONTHLY trail 7 and 30 days.
func (e *LimitEngine) periodWindow(period models.Period) (time.Time, time.Time) {
	now := e.now()
	switch period {
	case models.PeriodDaily:
		year, month, day := now.Date()
		start := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
		end := time.Date(year, month, day, 23, 59, 59, 0, now.Location())
		return start, end
	case models.PeriodWeekly:
		return now.AddDate(0, 0, -7), now
	default:
		return now.AddDate(0, 0, -30), now
	}
}

// CheckLimit fails with LimitExceededError when the period's count cap
// is already reached, the amount exceeds the per-transaction cap, or
// the window total plus amount would exceed the total cap - evaluated
// in that order, first breach wins.
func (e *LimitEngine) CheckLimit(ctx context.Context, userID int64, amount decimal.Decimal, tier models.Tier, period models.Period) error {
	limit, ok := e.profiles[config.LimitKey{Tier: tier, Period: period}]
	if !ok {
		return fmt.Errorf("no limit profile for tier %s period %s", tier, period)
	}

	start, end := e.periodWindow(period)
	transactions, err := e.store.ListByUserAndDateRange(ctx, userID, start, end)
	if err != nil {
		return fmt.Errorf("fetch %s window for user %d: %w", period, userID, err)
	}

	if len(transactions) >= limit.MaxTransactionCount {
		return &LimitExceededError{
			Period: period,
			Reason: fmt.Sprintf("%s transaction count limit reached (%d transactions)",
				period, limit.MaxTransactionCount),
		}
	}

	if amount.Cmp(limit.MaxTransactionAmount) > 0 {
		return &LimitExceededError{
			Period: period,
			Reason: fmt.Sprintf("maximum amount per transaction exceeded: limit %s XOF, requested %s XOF",
				limit.MaxTransactionAmount.StringFixed(2), amount.StringFixed(2)),
		}
	}

	totalAmount := decimal.Zero
	for _, tx := range transactions {
		totalAmount = totalAmount.Add(tx.Amount)
	}
	if totalAmount.Add(amount).Cmp(limit.MaxTotalAmount) > 0 {
		return &LimitExceededError{
			Period: period,
			Reason: fmt.Sprintf("%s total amount limit exceeded: limit %s XOF, used %s XOF, requested %s XOF",
				period, limit.MaxTotalAmount.StringFixed(2), totalAmount.StringFixed(2), amount.StringFixed(2)),
		}
	}

	return nil
}

// CheckAll runs the daily, weekly and monthly checks in sequence,
// aborting at the first failure.
func (e *LimitEngine) CheckAll(ctx context.Context, userID int64, amount decimal.Decimal, tier models.Tier) error {
	for _, period := range []models.Period{models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly} {
		if err := e.CheckLimit(ctx, userID, amount, tier, period); err != nil {
			return err
		}
	}
	return nil
}

// RemainingLimits returns a read-only usage snapshot for every period
func (e *LimitEngine) RemainingLimits(ctx context.Context, userID int64, tier models.Tier) (map[models.Period]models.RemainingLimit, error) {
	snapshot := make(map[models.Period]models.RemainingLimit, 3)
	for _, period := range []models.Period{models.PeriodDaily, models.PeriodWeekly, models.PeriodMonthly} {
		limit, ok := e.profiles[config.LimitKey{Tier: tier, Period: period}]
		if !ok {
			return nil, fmt.Errorf("no limit profile for tier %s period %s", tier, period)
		}

		start, end := e.periodWindow(period)
		transactions, err := e.store.ListByUserAndDateRange(ctx, userID, start, end)
		if err != nil {
			return nil, fmt.Errorf("fetch %s window for user %d: %w", period, userID, err)
		}

		usedAmount := decimal.Zero
		for _, tx := range transactions {
			usedAmount = usedAmount.Add(tx.Amount)
		}

		snapshot[period] = models.RemainingLimit{
			MaxTotalAmount:            limit.MaxTotalAmount,
			UsedAmount:                usedAmount,
			RemainingAmount:           limit.MaxTotalAmount.Sub(usedAmount),
			MaxTransactionCount:       limit.MaxTransactionCount,
			UsedTransactionCount:      len(transactions),
			RemainingTransactionCount: limit.MaxTransactionCount - len(transactions),
			MaxTransactionAmount:      limit.MaxTransactionAmount,
		}
	}
	return snapshot, nil
}

// CanProcess converts a LimitExceededError into false, swallowing the
// specific reason. Store failures are reported, not swallowed.
func (e *LimitEngine) CanProcess(ctx context.Context, userID int64, amount decimal.Decimal, tier models.Tier) (bool, error) {
	err := e.CheckAll(ctx, userID, amount, tier)
	if err == nil {
		return true, nil
	}
	var limitErr *LimitExceededError
	if errors.As(err, &limitErr) {
		return false, nil
	}
	return false, err
}
