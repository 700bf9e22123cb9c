package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store/memory"
)

// fixed mid-day reference time so date windows are deterministic
var limitTestNow = time.Date(2025, time.March, 15, 12, 0, 0, 0, time.Local)

func newLimitEngineForTest(t *testing.T) (*LimitEngine, *memory.RecordStore) {
	t.Helper()
	recordStore := memory.NewRecordStore()
	engine := NewLimitEngine(recordStore, config.DefaultLimitProfiles())
	engine.now = func() time.Time { return limitTestNow }
	return engine, recordStore
}

func seedTransaction(t *testing.T, recordStore *memory.RecordStore, userID int64, amount string, createdAt time.Time) {
	t.Helper()
	err := recordStore.Create(context.Background(), &models.ReserveFund{
		Reference:       fmt.Sprintf("RF-SEED%03d-%d", createdAt.Unix()%1000, time.Now().UnixNano()),
		UserID:          userID,
		Amount:          decimal.RequireFromString(amount),
		Balance:         decimal.RequireFromString(amount),
		Currency:        config.BaseCurrency,
		TransactionType: models.TypeDeposit,
		Status:          models.StatusCompleted,
		CreatedAt:       createdAt,
	})
	require.NoError(t, err)
}

func TestTierForKYCLevel(t *testing.T) {
	assert.Equal(t, models.TierStandard, TierForKYCLevel(1))
	assert.Equal(t, models.TierVerified, TierForKYCLevel(2))
	assert.Equal(t, models.TierPremium, TierForKYCLevel(3))
	assert.Equal(t, models.TierStandard, TierForKYCLevel(0))
	assert.Equal(t, models.TierStandard, TierForKYCLevel(99))
}

func TestLimitEngine_CheckLimit(t *testing.T) {
	t.Run("empty history passes", func(t *testing.T) {
		engine, _ := newLimitEngineForTest(t)
		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("50000.00"), models.TierStandard, models.PeriodDaily)
		assert.NoError(t, err)
	})

	t.Run("count cap wins before amount checks", func(t *testing.T) {
		engine, recordStore := newLimitEngineForTest(t)
		for i := 0; i < 10; i++ {
			seedTransaction(t, recordStore, 1, "1000.00", limitTestNow.Add(-time.Duration(i+1)*time.Minute))
		}

		// the 11th transaction of the day fails on count even though
		// the amount would also breach the per-transaction cap
		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("200000.00"), models.TierStandard, models.PeriodDaily)
		require.Error(t, err)
		var limitErr *LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, models.PeriodDaily, limitErr.Period)
		assert.Contains(t, limitErr.Reason, "count")
	})

	t.Run("per transaction cap", func(t *testing.T) {
		engine, _ := newLimitEngineForTest(t)
		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("100000.01"), models.TierStandard, models.PeriodDaily)
		require.Error(t, err)
		var limitErr *LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Contains(t, limitErr.Reason, "per transaction")
	})

	t.Run("total cap counts the proposed amount", func(t *testing.T) {
		engine, recordStore := newLimitEngineForTest(t)
		for i := 0; i < 5; i++ {
			seedTransaction(t, recordStore, 1, "100000.00", limitTestNow.Add(-time.Duration(i+1)*time.Hour))
		}

		// VERIFIED daily total is 5,000,000; 500,000 used, so another
		// 4,500,000 exactly fits but a franc more does not
		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("500000.00"), models.TierVerified, models.PeriodDaily)
		assert.NoError(t, err)

		err = engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("4500000.01"), models.TierVerified, models.PeriodDaily)
		require.Error(t, err)
		var limitErr *LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Contains(t, limitErr.Reason, "total")
	})

	t.Run("daily window ignores yesterday", func(t *testing.T) {
		engine, recordStore := newLimitEngineForTest(t)
		for i := 0; i < 10; i++ {
			seedTransaction(t, recordStore, 1, "1000.00", limitTestNow.AddDate(0, 0, -1))
		}

		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("1000.00"), models.TierStandard, models.PeriodDaily)
		assert.NoError(t, err)
	})

	t.Run("weekly window trails seven days", func(t *testing.T) {
		engine, recordStore := newLimitEngineForTest(t)
		// inside the weekly window but on a different calendar day
		seedTransaction(t, recordStore, 1, "4999000.00", limitTestNow.AddDate(0, 0, -3))

		// passes daily (window empty today) but breaks the weekly total
		err := engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("5000.00"), models.TierStandard, models.PeriodDaily)
		assert.NoError(t, err)

		err = engine.CheckLimit(context.Background(), 1,
			decimal.RequireFromString("5000.00"), models.TierStandard, models.PeriodWeekly)
		require.Error(t, err)
		var limitErr *LimitExceededError
		require.ErrorAs(t, err, &limitErr)
		assert.Equal(t, models.PeriodWeekly, limitErr.Period)
	})
}

func TestLimitEngine_CheckAll(t *testing.T) {
	engine, recordStore := newLimitEngineForTest(t)
	seedTransaction(t, recordStore, 1, "4999000.00", limitTestNow.AddDate(0, 0, -3))

	err := engine.CheckAll(context.Background(), 1,
		decimal.RequireFromString("5000.00"), models.TierStandard)
	require.Error(t, err)
	var limitErr *LimitExceededError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, models.PeriodWeekly, limitErr.Period)
}

func TestLimitEngine_RemainingLimits(t *testing.T) {
	engine, recordStore := newLimitEngineForTest(t)
	seedTransaction(t, recordStore, 1, "250000.00", limitTestNow.Add(-time.Hour))
	seedTransaction(t, recordStore, 1, "250000.00", limitTestNow.Add(-2*time.Hour))

	snapshot, err := engine.RemainingLimits(context.Background(), 1, models.TierVerified)
	require.NoError(t, err)
	require.Len(t, snapshot, 3)

	daily := snapshot[models.PeriodDaily]
	assert.True(t, daily.UsedAmount.Equal(decimal.RequireFromString("500000.00")))
	assert.True(t, daily.RemainingAmount.Equal(decimal.RequireFromString("4500000.00")))
	assert.Equal(t, 2, daily.UsedTransactionCount)
	assert.Equal(t, 48, daily.RemainingTransactionCount)
}

func TestLimitEngine_CanProcess(t *testing.T) {
	engine, recordStore := newLimitEngineForTest(t)

	ok, err := engine.CanProcess(context.Background(), 1,
		decimal.RequireFromString("1000.00"), models.TierStandard)
	require.NoError(t, err)
	assert.True(t, ok)

	for i := 0; i < 10; i++ {
		seedTransaction(t, recordStore, 1, "1000.00", limitTestNow.Add(-time.Duration(i+1)*time.Minute))
	}

	ok, err = engine.CanProcess(context.Background(), 1,
		decimal.RequireFromString("1000.00"), models.TierStandard)
	require.NoError(t, err)
	assert.False(t, ok)
}
