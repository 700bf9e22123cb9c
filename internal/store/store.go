package store

import (
	"context"
	"errors"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned on lookup misses by id or reference
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateReference is returned when the unique constraint on
	// reference rejects a write; callers retry with a fresh reference
	ErrDuplicateReference = errors.New("duplicate reference")
)

// RecordStore is the durable record store consumed by the ledger and by
// the limit and fraud engines for historical reads.
type RecordStore interface {
	Create(ctx context.Context, fund *models.ReserveFund) error
	// CreatePair writes the debit and credit sides of a transfer as one
	// atomic unit; neither record is visible unless both commit.
	CreatePair(ctx context.Context, debit, credit *models.ReserveFund) error
	GetByID(ctx context.Context, id int64) (*models.ReserveFund, error)
	GetByReference(ctx context.Context, reference string) (*models.ReserveFund, error)
	ListByUser(ctx context.Context, userID int64) ([]models.ReserveFund, error)
	ListByStatus(ctx context.Context, status models.FundStatus) ([]models.ReserveFund, error)
	ListAll(ctx context.Context) ([]models.ReserveFund, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.ReserveFund, error)
	TotalActiveBalance(ctx context.Context) (decimal.Decimal, error)
	Update(ctx context.Context, fund *models.ReserveFund) error
}

// AuditStore is the append-only audit sink. Entries are never updated
// or deleted.
type AuditStore interface {
	Append(ctx context.Context, entry *models.AuditLog) error
	ListByEntity(ctx context.Context, entityType string, entityID int64) ([]models.AuditLog, error)
	ListByUser(ctx context.Context, userID int64) ([]models.AuditLog, error)
	ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.AuditLog, error)
	ListByAction(ctx context.Context, action string) ([]models.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error)
}
