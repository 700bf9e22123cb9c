package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/faroukali99/reserveFound/internal/middleware"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store"
)

// AuditService writes the append-only action trail. Writes are
// best-effort: a failed audit write is logged to the operational log
// and never fails the business operation that triggered it.
type AuditService struct {
	store store.AuditStore
}

func NewAuditService(auditStore store.AuditStore) *AuditService {
	return &AuditService{store: auditStore}
}

func (a *AuditService) LogCreate(ctx context.Context, entityType string, entityID int64, entity any, userID int64) {
	entry := a.newEntry(ctx, entityType, entityID, models.AuditActionCreate, userID)
	entry.NewValue = serialize(entity)
	entry.Status = models.AuditStatusSuccess
	entry.Description = fmt.Sprintf("Created %s with ID %d", entityType, entityID)
	a.append(ctx, entry)
}

func (a *AuditService) LogUpdate(ctx context.Context, entityType string, entityID int64, oldEntity, newEntity any, userID int64, changedFields string) {
	entry := a.newEntry(ctx, entityType, entityID, models.AuditActionUpdate, userID)
	entry.OldValue = serialize(oldEntity)
	entry.NewValue = serialize(newEntity)
	entry.ChangedFields = changedFields
	entry.Status = models.AuditStatusSuccess
	entry.Description = fmt.Sprintf("Updated %s with ID %d, changed fields: %s", entityType, entityID, changedFields)
	a.append(ctx, entry)
}

func (a *AuditService) LogDelete(ctx context.Context, entityType string, entityID int64, entity any, userID int64) {
	entry := a.newEntry(ctx, entityType, entityID, models.AuditActionDelete, userID)
	entry.OldValue = serialize(entity)
	entry.Status = models.AuditStatusSuccess
	entry.Description = fmt.Sprintf("Deleted %s with ID %d", entityType, entityID)
	a.append(ctx, entry)
}

func (a *AuditService) LogRead(ctx context.Context, entityType string, entityID int64, userID int64) {
	entry := a.newEntry(ctx, entityType, entityID, models.AuditActionRead, userID)
	entry.Status = models.AuditStatusSuccess
	entry.Description = fmt.Sprintf("Read %s with ID %d", entityType, entityID)
	a.append(ctx, entry)
}

func (a *AuditService) LogFailedAction(ctx context.Context, entityType string, entityID int64, action string, userID int64, errorMessage string) {
	entry := a.newEntry(ctx, entityType, entityID, action, userID)
	entry.Status = models.AuditStatusFailed
	entry.ErrorMessage = errorMessage
	entry.Description = fmt.Sprintf("%s failed for %s with ID %d", action, entityType, entityID)
	a.append(ctx, entry)
}

// LogSecurityEvent records an alert with the caller-supplied severity
// as its status.
func (a *AuditService) LogSecurityEvent(ctx context.Context, description string, userID int64, severity string) {
	entry := a.newEntry(ctx, "SECURITY_EVENT", 0, models.AuditActionSecurityAlert, userID)
	entry.Status = severity
	entry.Description = description
	a.append(ctx, entry)
	log.Printf("[AUDIT] Security event for user %d: %s", userID, description)
}

func (a *AuditService) EntityTrail(ctx context.Context, entityType string, entityID int64) ([]models.AuditLog, error) {
	return a.store.ListByEntity(ctx, entityType, entityID)
}

func (a *AuditService) UserTrail(ctx context.Context, userID int64) ([]models.AuditLog, error) {
	return a.store.ListByUser(ctx, userID)
}

func (a *AuditService) UserTrailByDateRange(ctx context.Context, userID int64, start, end time.Time) ([]models.AuditLog, error) {
	return a.store.ListByUserAndDateRange(ctx, userID, start, end)
}

func (a *AuditService) RecentAudits(ctx context.Context, limit int) ([]models.AuditLog, error) {
	return a.store.ListRecent(ctx, limit)
}

func (a *AuditService) AuditsByAction(ctx context.Context, action string) ([]models.AuditLog, error) {
	return a.store.ListByAction(ctx, action)
}

func (a *AuditService) newEntry(ctx context.Context, entityType string, entityID int64, action string, userID int64) *models.AuditLog {
	actor := middleware.ActorFrom(ctx)
	return &models.AuditLog{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		UserID:     userID,
		Username:   actor.Username,
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
		SessionID:  actor.SessionID,
		RequestID:  actor.RequestID,
		Timestamp:  time.Now(),
	}
}

func (a *AuditService) append(ctx context.Context, entry *models.AuditLog) {
	if err := a.store.Append(ctx, entry); err != nil {
		log.Printf("[AUDIT] Failed to write audit entry %s %s/%d: %v",
			entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

func serialize(entity any) string {
	if entity == nil {
		return ""
	}
	data, err := json.Marshal(entity)
	if err != nil {
		log.Printf("[AUDIT] Failed to serialize entity: %v", err)
		return ""
	}
	return string(data)
}
