package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

const uniqueViolation = "23505"

const recordColumns = `id, reference, user_id, amount, balance, currency, transaction_type,
	status, description, source_account, destination_account,
	created_at, updated_at, created_by, updated_by`

// RecordStore is the Postgres-backed store.RecordStore. The
// reserve_funds table carries a unique constraint on reference, which
// surfaces as store.ErrDuplicateReference for the caller's retry loop.
type RecordStore struct {
	db *sql.DB
}

func NewRecordStore(db *sql.DB) *RecordStore {
	return &RecordStore{db: db}
}

func (s *RecordStore) Create(ctx context.Context, fund *models.ReserveFund) error {
	return s.insert(ctx, s.db, fund)
}

func (s *RecordStore) CreatePair(ctx context.Context, debit, credit *models.ReserveFund) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transfer pair: %w", err)
	}
	defer tx.Rollback()

	if err := s.insert(ctx, tx, debit); err != nil {
		return err
	}
	if err := s.insert(ctx, tx, credit); err != nil {
		return err
	}
	return tx.Commit()
}

type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *RecordStore) insert(ctx context.Context, q execer, fund *models.ReserveFund) error {
	if fund.CreatedAt.IsZero() {
		fund.CreatedAt = time.Now()
	}
	err := q.QueryRowContext(ctx, `
		INSERT INTO reserve_funds (reference, user_id, amount, balance, currency, transaction_type,
			status, description, source_account, destination_account, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		fund.Reference, fund.UserID, fund.Amount, fund.Balance, fund.Currency,
		fund.TransactionType, fund.Status, fund.Description,
		fund.SourceAccount, fund.DestinationAccount, fund.CreatedAt, fund.CreatedBy,
	).Scan(&fund.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return store.ErrDuplicateReference
		}
		return fmt.Errorf("insert reserve fund: %w", err)
	}
	return nil
}

func (s *RecordStore) GetByID(ctx context.Context, id int64) (*models.ReserveFund, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM reserve_funds WHERE id = $1`, id)
	return scanRecord(row)
}

func (s *RecordStore) GetByReference(ctx context.Context, reference string) (*models.ReserveFund, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM reserve_funds WHERE reference = $1`, reference)
	return scanRecord(row)
}

func (s *RecordStore) ListByUser(ctx context.Context, userID int64) ([]models.ReserveFund, error) {
	return s.list(ctx,
		`SELECT `+recordColumns+` FROM reserve_funds WHERE user_id = $1 ORDER BY id`, userID)
}

func (s *RecordStore) ListByStatus(ctx context.Context, status models.FundStatus) ([]models.ReserveFund, error) {
	return s.list(ctx,
		`SELECT `+recordColumns+` FROM reserve_funds WHERE status = $1 ORDER BY id`, status)
}

func (s *RecordStore) ListAll(ctx context.Context) ([]models.ReserveFund, error) {
	return s.list(ctx, `SELECT `+recordColumns+` FROM reserve_funds ORDER BY id`)
}

func (s *RecordStore) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.ReserveFund, error) {
	return s.list(ctx,
		`SELECT `+recordColumns+` FROM reserve_funds
		 WHERE user_id = $1 AND created_at BETWEEN $2 AND $3 ORDER BY id`,
		userID, start, end)
}

func (s *RecordStore) TotalActiveBalance(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(balance) FROM reserve_funds WHERE status = 'ACTIVE'`).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total active balance: %w", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (s *RecordStore) Update(ctx context.Context, fund *models.ReserveFund) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reserve_funds
		SET status = $1, description = $2, updated_at = $3, updated_by = $4
		WHERE id = $5`,
		fund.Status, fund.Description, fund.UpdatedAt, fund.UpdatedBy, fund.ID)
	if err != nil {
		return fmt.Errorf("update reserve fund: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reserve fund: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *RecordStore) list(ctx context.Context, query string, args ...any) ([]models.ReserveFund, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reserve funds: %w", err)
	}
	defer rows.Close()

	var funds []models.ReserveFund
	for rows.Next() {
		fund, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, *fund)
	}
	return funds, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecordRow(row rowScanner) (*models.ReserveFund, error) {
	var fund models.ReserveFund
	var description, sourceAccount, destinationAccount, createdBy, updatedBy sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(&fund.ID, &fund.Reference, &fund.UserID, &fund.Amount, &fund.Balance,
		&fund.Currency, &fund.TransactionType, &fund.Status, &description,
		&sourceAccount, &destinationAccount, &fund.CreatedAt, &updatedAt,
		&createdBy, &updatedBy)
	if err != nil {
		return nil, err
	}
	fund.Description = description.String
	fund.SourceAccount = sourceAccount.String
	fund.DestinationAccount = destinationAccount.String
	fund.CreatedBy = createdBy.String
	fund.UpdatedBy = updatedBy.String
	if updatedAt.Valid {
		fund.UpdatedAt = &updatedAt.Time
	}
	return &fund, nil
}

func scanRecord(row *sql.Row) (*models.ReserveFund, error) {
	fund, err := scanRecordRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("scan reserve fund: %w", err)
	}
	return fund, nil
}

var _ store.RecordStore = (*RecordStore)(nil)
