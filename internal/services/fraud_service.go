package services

import (
	"context"
	"fmt"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
	"github.com/shopspring/decimal"
)

const (
	FlagSuspiciousAmount  = "SUSPICIOUS_AMOUNT"
	FlagHighVelocity      = "HIGH_VELOCITY"
	FlagSuspiciousPattern = "SUSPICIOUS_PATTERN"
	FlagUnusualTime       = "UNUSUAL_TIME"
	FlagUnusualBehavior   = "UNUSUAL_BEHAVIOR"
)

var (
	suspiciousAmount   = decimal.RequireFromString("5000000.00")
	behaviorMultiplier = decimal.NewFromInt(5)
)

const (
	velocityWindow         = time.Hour
	maxTransactionsPerHour = 20
	patternWindow          = 24 * time.Hour
	samePatternCount       = 5
	behaviorWindowDays     = 30
)

// fraudRule is one independent signal: a predicate over the proposed
// transaction and the user's history, with a fixed weight.
type fraudRule struct {
	code        string
	description string
	weight      int
	applies     func(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error)
}

// FraudDetectionService scores a proposed transaction against a small
// ordered rule list. Every rule runs unconditionally; the cumulative
// score reduces to a risk level. The verdict is advisory only - this
// service never rejects a transaction itself.
type FraudDetectionService struct {
	store store.RecordStore
	rules []fraudRule
	now   func() time.Time
}

func NewFraudDetectionService(recordStore store.RecordStore) *FraudDetectionService {
	fs := &FraudDetectionService{
		store: recordStore,
		now:   time.Now,
	}
	fs.rules = []fraudRule{
		{
			code:        FlagSuspiciousAmount,
			description: "Unusually high amount",
			weight:      30,
			applies: func(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
				return amount.Cmp(suspiciousAmount) > 0, nil
			},
		},
		{
			code:        FlagHighVelocity,
			description: "Too many transactions in a short time",
			weight:      40,
			applies:     fs.hasHighVelocity,
		},
		{
			code:        FlagSuspiciousPattern,
			description: "Repetitive transaction pattern detected",
			weight:      50,
			applies:     fs.hasSuspiciousPattern,
		},
		{
			code:        FlagUnusualTime,
			description: "Transaction at an unusual hour",
			weight:      20,
			applies: func(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
				hour := fs.now().Hour()
				return hour >= 23 || hour < 5, nil
			},
		},
		{
			code:        FlagUnusualBehavior,
			description: "Deviation from usual behaviour detected",
			weight:      30,
			applies:     fs.hasUnusualBehavior,
		},
	}
	return fs
}

// AnalyzeTransaction accumulates all signals for the proposed
// transaction. Signals are additive, not mutually exclusive.
func (fs *FraudDetectionService) AnalyzeTransaction(ctx context.Context, userID int64, amount decimal.Decimal, transactionType models.TransactionType) (*models.FraudAnalysisResult, error) {
	result := &models.FraudAnalysisResult{}

	for _, rule := range fs.rules {
		hit, err := rule.applies(ctx, userID, amount)
		if err != nil {
			return nil, fmt.Errorf("fraud rule %s for user %d: %w", rule.code, userID, err)
		}
		if hit {
			result.AddFlag(rule.code, rule.description)
			result.IncreaseRiskScore(rule.weight)
		}
	}

	result.DetermineRiskLevel()
	return result, nil
}

// ShouldBlock advises blocking on a CRITICAL level or a score >= 80
func (fs *FraudDetectionService) ShouldBlock(result *models.FraudAnalysisResult) bool {
	return result.RiskLevel == models.RiskCritical || result.RiskScore >= 80
}

// RequiresManualReview advises review on HIGH, or MEDIUM with score >= 60
func (fs *FraudDetectionService) RequiresManualReview(result *models.FraudAnalysisResult) bool {
	return result.RiskLevel == models.RiskHigh ||
		(result.RiskLevel == models.RiskMedium && result.RiskScore >= 60)
}

func (fs *FraudDetectionService) hasHighVelocity(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	now := fs.now()
	recent, err := fs.store.ListByUserAndDateRange(ctx, userID, now.Add(-velocityWindow), now)
	if err != nil {
		return false, err
	}
	return len(recent) >= maxTransactionsPerHour, nil
}

func (fs *FraudDetectionService) hasSuspiciousPattern(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	now := fs.now()
	recent, err := fs.store.ListByUserAndDateRange(ctx, userID, now.Add(-patternWindow), now)
	if err != nil {
		return false, err
	}
	sameAmount := 0
	for _, tx := range recent {
		if tx.Amount.Equal(amount) {
			sameAmount++
		}
	}
	return sameAmount >= samePatternCount, nil
}

func (fs *FraudDetectionService) hasUnusualBehavior(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	avg, err := fs.averageTransactionAmount(ctx, userID)
	if err != nil {
		return false, err
	}
	if avg.IsZero() {
		// not enough history to judge
		return false, nil
	}
	return amount.Cmp(avg.Mul(behaviorMultiplier)) > 0, nil
}

func (fs *FraudDetectionService) averageTransactionAmount(ctx context.Context, userID int64) (decimal.Decimal, error) {
	now := fs.now()
	history, err := fs.store.ListByUserAndDateRange(ctx, userID, now.AddDate(0, 0, -behaviorWindowDays), now)
	if err != nil {
		return decimal.Zero, err
	}
	if len(history) == 0 {
		return decimal.Zero, nil
	}
	total := decimal.Zero
	for _, tx := range history {
		total = total.Add(tx.Amount)
	}
	return total.DivRound(decimal.NewFromInt(int64(len(history))), 2), nil
}
