package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
)

const auditColumns = `id, entity_type, entity_id, action, user_id, username, ip_address,
	user_agent, session_id, request_id, old_value, new_value, changed_fields,
	description, status, error_message, timestamp`

// AuditStore is the Postgres-backed append-only store.AuditStore. Rows
// are inserted once and never updated or deleted.
type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, entry *models.AuditLog) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO audit_logs (entity_type, entity_id, action, user_id, username, ip_address,
			user_agent, session_id, request_id, old_value, new_value, changed_fields,
			description, status, error_message, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`,
		entry.EntityType, entry.EntityID, entry.Action, entry.UserID, entry.Username,
		entry.IPAddress, entry.UserAgent, entry.SessionID, entry.RequestID,
		entry.OldValue, entry.NewValue, entry.ChangedFields,
		entry.Description, entry.Status, entry.ErrorMessage, entry.Timestamp,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("append audit log: %w", err)
	}
	return nil
}

func (s *AuditStore) ListByEntity(ctx context.Context, entityType string, entityID int64) ([]models.AuditLog, error) {
	return s.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 WHERE entity_type = $1 AND entity_id = $2 ORDER BY timestamp DESC`,
		entityType, entityID)
}

func (s *AuditStore) ListByUser(ctx context.Context, userID int64) ([]models.AuditLog, error) {
	return s.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs WHERE user_id = $1 ORDER BY timestamp DESC`,
		userID)
}

func (s *AuditStore) ListByUserAndDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.AuditLog, error) {
	return s.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs
		 WHERE user_id = $1 AND timestamp BETWEEN $2 AND $3 ORDER BY timestamp DESC`,
		userID, start, end)
}

func (s *AuditStore) ListByAction(ctx context.Context, action string) ([]models.AuditLog, error) {
	return s.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs WHERE action = $1 ORDER BY timestamp DESC`,
		action)
}

func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return s.list(ctx,
		`SELECT `+auditColumns+` FROM audit_logs ORDER BY timestamp DESC LIMIT $1`, limit)
}

func (s *AuditStore) list(ctx context.Context, query string, args ...any) ([]models.AuditLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditLog
	for rows.Next() {
		var e models.AuditLog
		var username, ipAddress, userAgent, sessionID, requestID sql.NullString
		var oldValue, newValue, changedFields, description, errorMessage sql.NullString
		var userID sql.NullInt64

		err := rows.Scan(&e.ID, &e.EntityType, &e.EntityID, &e.Action, &userID, &username,
			&ipAddress, &userAgent, &sessionID, &requestID, &oldValue, &newValue,
			&changedFields, &description, &e.Status, &errorMessage, &e.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		e.UserID = userID.Int64
		e.Username = username.String
		e.IPAddress = ipAddress.String
		e.UserAgent = userAgent.String
		e.SessionID = sessionID.String
		e.RequestID = requestID.String
		e.OldValue = oldValue.String
		e.NewValue = newValue.String
		e.ChangedFields = changedFields.String
		e.Description = description.String
		e.ErrorMessage = errorMessage.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

var _ store.AuditStore = (*AuditStore)(nil)
