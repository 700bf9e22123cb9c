package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/faroukali99/reserveFound/internal/config"
	"github.com/faroukali99/reserveFound/internal/middleware"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	entityReserveFund = "RESERVE_FUND"

	// attempts before giving up on reference collisions
	maxReferenceAttempts = 5

	transferReceivedPrefix = "Transfer received: "
)

// balance floor that triggers a low-balance notification
var lowBalanceThreshold = decimal.RequireFromString("1000.00")

// TierResolver maps a user to a KYC level; implementations default to
// level 1 when the external service is unavailable.
type TierResolver interface {
	KYCLevel(ctx context.Context, userID int64) int
}

// ReserveFundService owns the transaction records and balance
// computation. Mutating operations run the full control chain:
// validator, limit engine, fraud scorer, then commit and audit.
//
// The balance check-then-write of Withdraw and Transfer is serialised
// per user with an in-process mutex map, so concurrent calls for the
// same user cannot race past the balance check.
type ReserveFundService struct {
	store    store.RecordStore
	validate *TransactionValidator
	limits   *LimitEngine
	fraud    *FraudDetectionService
	tiers    TierResolver
	audit    *AuditService
	notifier *NotificationService

	userMu map[int64]*sync.Mutex
	mapMu  sync.Mutex
}

func NewReserveFundService(
	recordStore store.RecordStore,
	validator *TransactionValidator,
	limits *LimitEngine,
	fraud *FraudDetectionService,
	tiers TierResolver,
	audit *AuditService,
	notifier *NotificationService,
) *ReserveFundService {
	return &ReserveFundService{
		store:    recordStore,
		validate: validator,
		limits:   limits,
		fraud:    fraud,
		tiers:    tiers,
		audit:    audit,
		notifier: notifier,
		userMu:   make(map[int64]*sync.Mutex),
	}
}

// Deposit creates a COMPLETED deposit record crediting the full amount
func (s *ReserveFundService) Deposit(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*models.ReserveFund, error) {
	if err := s.validate.ValidateAmount(amount); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, err.Error())
		return nil, err
	}
	if err := s.validate.ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, userID, amount, models.TypeDeposit); err != nil {
		return nil, err
	}

	fund := s.newRecord(ctx, userID, amount, models.TypeDeposit, description)
	fund.Balance = amount

	if err := s.createWithRetry(ctx, fund); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, err.Error())
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	s.afterCommit(ctx, fund)
	return fund, nil
}

// Withdraw debits the amount after checking the user's total balance.
// Fails with InsufficientFundsError when the balance cannot cover it.
func (s *ReserveFundService) Withdraw(ctx context.Context, userID int64, amount decimal.Decimal, description string) (*models.ReserveFund, error) {
	if err := s.validate.ValidateAmount(amount); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, err.Error())
		return nil, err
	}
	if err := s.validate.ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, userID, amount, models.TypeWithdrawal); err != nil {
		return nil, err
	}

	mu := s.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	totalBalance, err := s.TotalBalance(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for user %d: %w", userID, err)
	}
	if totalBalance.Cmp(amount) < 0 {
		insufficientErr := &InsufficientFundsError{Available: totalBalance, Requested: amount}
		s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, insufficientErr.Error())
		return nil, insufficientErr
	}

	fund := s.newRecord(ctx, userID, amount, models.TypeWithdrawal, description)
	fund.Balance = amount.Neg()

	if err := s.createWithRetry(ctx, fund); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, err.Error())
		s.notifier.TransactionFailed(fund, err.Error())
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	s.afterCommit(ctx, fund)
	remaining := totalBalance.Sub(amount)
	s.notifier.BalanceUpdated(userID, remaining.StringFixed(2))
	if remaining.Cmp(lowBalanceThreshold) < 0 {
		s.notifier.LowBalance(userID, remaining.StringFixed(2), lowBalanceThreshold.StringFixed(2))
	}
	return fund, nil
}

// Transfer moves the amount between users, writing the debit and
// credit records as one atomic unit. Returns the sender's record.
func (s *ReserveFundService) Transfer(ctx context.Context, fromUserID, toUserID int64, amount decimal.Decimal, description string) (*models.ReserveFund, error) {
	if err := s.validate.ValidateTransfer(fromUserID, toUserID, amount); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, fromUserID, models.AuditActionCreate, fromUserID, err.Error())
		return nil, err
	}
	if err := s.validate.ValidateDescription(description); err != nil {
		return nil, err
	}
	if err := s.admit(ctx, fromUserID, amount, models.TypeTransfer); err != nil {
		return nil, err
	}

	// lock both parties in id order to avoid deadlocks
	first, second := fromUserID, toUserID
	if first > second {
		first, second = second, first
	}
	firstMu, secondMu := s.userLock(first), s.userLock(second)
	firstMu.Lock()
	defer firstMu.Unlock()
	secondMu.Lock()
	defer secondMu.Unlock()

	senderBalance, err := s.TotalBalance(ctx, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balance for user %d: %w", fromUserID, err)
	}
	if senderBalance.Cmp(amount) < 0 {
		insufficientErr := &InsufficientFundsError{Available: senderBalance, Requested: amount}
		s.audit.LogFailedAction(ctx, entityReserveFund, fromUserID, models.AuditActionCreate, fromUserID, insufficientErr.Error())
		return nil, insufficientErr
	}

	debit := s.newRecord(ctx, fromUserID, amount, models.TypeTransfer, description)
	debit.Balance = amount.Neg()
	debit.SourceAccount = strconv.FormatInt(fromUserID, 10)
	debit.DestinationAccount = strconv.FormatInt(toUserID, 10)

	credit := s.newRecord(ctx, toUserID, amount, models.TypeDeposit, transferReceivedPrefix+description)
	credit.Balance = amount

	if err := s.createPairWithRetry(ctx, debit, credit); err != nil {
		s.audit.LogFailedAction(ctx, entityReserveFund, fromUserID, models.AuditActionCreate, fromUserID, err.Error())
		return nil, fmt.Errorf("failed to record transfer: %w", err)
	}

	s.afterCommit(ctx, debit)
	s.audit.LogCreate(ctx, entityReserveFund, credit.ID, credit, toUserID)
	s.notifier.TransactionCompleted(credit)
	return debit, nil
}

func (s *ReserveFundService) GetByID(ctx context.Context, id int64) (*models.ReserveFund, error) {
	fund, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "reserve fund", Key: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return fund, nil
}

func (s *ReserveFundService) GetByReference(ctx context.Context, reference string) (*models.ReserveFund, error) {
	fund, err := s.store.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Resource: "reserve fund", Key: reference}
		}
		return nil, err
	}
	return fund, nil
}

func (s *ReserveFundService) ListByUser(ctx context.Context, userID int64) ([]models.ReserveFund, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *ReserveFundService) ListByStatus(ctx context.Context, status models.FundStatus) ([]models.ReserveFund, error) {
	return s.store.ListByStatus(ctx, status)
}

func (s *ReserveFundService) ListAll(ctx context.Context) ([]models.ReserveFund, error) {
	return s.store.ListAll(ctx)
}

func (s *ReserveFundService) TransactionHistory(ctx context.Context, userID int64, start, end time.Time) ([]models.ReserveFund, error) {
	return s.store.ListByUserAndDateRange(ctx, userID, start, end)
}

// TotalBalance sums the balance contribution of every record the user
// owns. Cancelled records still count; cancellation does not reverse
// a contribution.
func (s *ReserveFundService) TotalBalance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	funds, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, fund := range funds {
		total = total.Add(fund.Balance)
	}
	return total, nil
}

func (s *ReserveFundService) TotalActiveBalance(ctx context.Context) (decimal.Decimal, error) {
	return s.store.TotalActiveBalance(ctx)
}

// UpdateStatus sets any status on any record. No transition guard is
// enforced here; the audit trail is the safety net for unexpected
// moves out of terminal states.
func (s *ReserveFundService) UpdateStatus(ctx context.Context, id int64, newStatus models.FundStatus) (*models.ReserveFund, error) {
	if !newStatus.Valid() {
		return nil, validationErrorf("unknown status: %s", newStatus)
	}

	fund, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *fund

	now := time.Now()
	fund.Status = newStatus
	fund.UpdatedAt = &now
	fund.UpdatedBy = middleware.ActorFrom(ctx).Username

	if err := s.store.Update(ctx, fund); err != nil {
		return nil, fmt.Errorf("failed to update status of record %d: %w", id, err)
	}

	s.audit.LogUpdate(ctx, entityReserveFund, fund.ID, &before, fund, fund.UserID, "status")
	return fund, nil
}

// Cancel marks the record CANCELLED without reversing its balance
// contribution, mirroring the soft-delete semantics of the original
// system.
func (s *ReserveFundService) Cancel(ctx context.Context, id int64) error {
	fund, err := s.UpdateStatus(ctx, id, models.StatusCancelled)
	if err != nil {
		return err
	}
	s.audit.LogDelete(ctx, entityReserveFund, fund.ID, fund, fund.UserID)
	return nil
}

// admit runs the limit and fraud gates for a proposed transaction.
// Limit breaches surface verbatim; the fraud verdict is advisory and
// only a should-block outcome rejects here.
func (s *ReserveFundService) admit(ctx context.Context, userID int64, amount decimal.Decimal, transactionType models.TransactionType) error {
	tier := models.TierStandard
	if s.tiers != nil {
		tier = TierForKYCLevel(s.tiers.KYCLevel(ctx, userID))
	}

	if err := s.limits.CheckAll(ctx, userID, amount, tier); err != nil {
		var limitErr *LimitExceededError
		if errors.As(err, &limitErr) {
			s.audit.LogFailedAction(ctx, entityReserveFund, userID, models.AuditActionCreate, userID, limitErr.Error())
		}
		return err
	}

	result, err := s.fraud.AnalyzeTransaction(ctx, userID, amount, transactionType)
	if err != nil {
		return fmt.Errorf("fraud analysis for user %d: %w", userID, err)
	}
	if len(result.Flags) > 0 {
		s.audit.LogSecurityEvent(ctx,
			fmt.Sprintf("Risk flags on %s of %s XOF: %s (score %d, level %s)",
				transactionType, amount.StringFixed(2), flagCodes(result), result.RiskScore, result.RiskLevel),
			userID, string(result.RiskLevel))
	}
	if s.fraud.ShouldBlock(result) {
		s.notifier.SecurityAlert(userID, "transaction blocked by risk controls")
		return &ValidationError{Reason: "transaction blocked by risk controls"}
	}
	if s.fraud.RequiresManualReview(result) {
		log.Printf("[LEDGER] Manual review advised for user %d: score %d level %s",
			userID, result.RiskScore, result.RiskLevel)
	}
	return nil
}

func (s *ReserveFundService) newRecord(ctx context.Context, userID int64, amount decimal.Decimal, transactionType models.TransactionType, description string) *models.ReserveFund {
	return &models.ReserveFund{
		Reference:       generateReference(),
		UserID:          userID,
		Amount:          amount,
		Balance:         decimal.Zero,
		Currency:        config.BaseCurrency,
		TransactionType: transactionType,
		Status:          models.StatusCompleted,
		Description:     description,
		CreatedAt:       time.Now(),
		CreatedBy:       middleware.ActorFrom(ctx).Username,
	}
}

func (s *ReserveFundService) afterCommit(ctx context.Context, fund *models.ReserveFund) {
	s.audit.LogCreate(ctx, entityReserveFund, fund.ID, fund, fund.UserID)
	s.notifier.TransactionCompleted(fund)
	if s.validate.RequiresAdditionalVerification(fund.Amount) {
		s.notifier.LargeTransaction(fund.UserID, fund)
	}
}

func (s *ReserveFundService) createWithRetry(ctx context.Context, fund *models.ReserveFund) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err = s.store.Create(ctx, fund)
		if !errors.Is(err, store.ErrDuplicateReference) {
			return err
		}
		fund.Reference = generateReference()
	}
	return err
}

func (s *ReserveFundService) createPairWithRetry(ctx context.Context, debit, credit *models.ReserveFund) error {
	var err error
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err = s.store.CreatePair(ctx, debit, credit)
		if !errors.Is(err, store.ErrDuplicateReference) {
			return err
		}
		debit.Reference = generateReference()
		credit.Reference = generateReference()
	}
	return err
}

// generateReference draws 8 uppercase alphanumerics from a random UUID
func generateReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "RF-" + strings.ToUpper(raw[:8])
}

func (s *ReserveFundService) userLock(userID int64) *sync.Mutex {
	s.mapMu.Lock()
	defer s.mapMu.Unlock()

	if _, ok := s.userMu[userID]; !ok {
		s.userMu[userID] = &sync.Mutex{}
	}
	return s.userMu[userID]
}

func flagCodes(result *models.FraudAnalysisResult) string {
	codes := make([]string, 0, len(result.Flags))
	for _, f := range result.Flags {
		codes = append(codes, f.Code)
	}
	return strings.Join(codes, ", ")
}
