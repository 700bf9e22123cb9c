package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faroukali99/reserveFound/internal/middleware"
	"github.com/faroukali99/reserveFound/internal/models"
	"github.com/faroukali99/reserveFound/internal/store/memory"
)

func TestAuditService_LogCreate(t *testing.T) {
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)

	ctx := middleware.WithActor(context.Background(), middleware.Actor{
		UserID:    7,
		Username:  "amina",
		IPAddress: "10.0.0.1",
		RequestID: "req-1",
	})

	audit.LogCreate(ctx, "RESERVE_FUND", 42, map[string]string{"reference": "RF-ABC12345"}, 7)

	entries, err := auditStore.ListByEntity(ctx, "RESERVE_FUND", 42)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, models.AuditActionCreate, entry.Action)
	assert.Equal(t, models.AuditStatusSuccess, entry.Status)
	assert.Equal(t, "amina", entry.Username)
	assert.Equal(t, "10.0.0.1", entry.IPAddress)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Contains(t, entry.NewValue, "RF-ABC12345")
	assert.Empty(t, entry.OldValue)
	assert.WithinDuration(t, time.Now(), entry.Timestamp, time.Minute)
}

func TestAuditService_LogUpdate(t *testing.T) {
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)
	ctx := context.Background()

	audit.LogUpdate(ctx, "RESERVE_FUND", 42,
		map[string]string{"status": "COMPLETED"},
		map[string]string{"status": "CANCELLED"},
		7, "status")

	entries, err := auditStore.ListByAction(ctx, models.AuditActionUpdate)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].OldValue, "COMPLETED")
	assert.Contains(t, entries[0].NewValue, "CANCELLED")
	assert.Equal(t, "status", entries[0].ChangedFields)
}

func TestAuditService_LogFailedAction(t *testing.T) {
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)
	ctx := context.Background()

	audit.LogFailedAction(ctx, "RESERVE_FUND", 1, models.AuditActionCreate, 7, "insufficient funds")

	entries, err := auditStore.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.AuditStatusFailed, entries[0].Status)
	assert.Equal(t, "insufficient funds", entries[0].ErrorMessage)
}

func TestAuditService_LogSecurityEvent(t *testing.T) {
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)
	ctx := context.Background()

	audit.LogSecurityEvent(ctx, "risk flags raised", 7, "CRITICAL")

	entries, err := auditStore.ListByAction(ctx, models.AuditActionSecurityAlert)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CRITICAL", entries[0].Status)
	assert.Equal(t, "risk flags raised", entries[0].Description)
}

func TestAuditService_RecentAudits(t *testing.T) {
	auditStore := memory.NewAuditStore()
	audit := NewAuditService(auditStore)
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		audit.LogRead(ctx, "RESERVE_FUND", i, 7)
	}

	entries, err := audit.RecentAudits(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
