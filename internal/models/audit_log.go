package models

import "time"

// Audit actions
const (
	AuditActionCreate        = "CREATE"
	AuditActionUpdate        = "UPDATE"
	AuditActionDelete        = "DELETE"
	AuditActionRead          = "READ"
	AuditActionSecurityAlert = "SECURITY_ALERT"
)

// Audit outcome statuses
const (
	AuditStatusSuccess = "SUCCESS"
	AuditStatusFailed  = "FAILED"
)

// AuditLog is a single append-only trail entry. Entries are written once
// per action and never updated or deleted.
type AuditLog struct {
	ID            int64     `json:"id" db:"id"`
	EntityType    string    `json:"entityType" db:"entity_type"`
	EntityID      int64     `json:"entityId" db:"entity_id"`
	Action        string    `json:"action" db:"action"`
	UserID        int64     `json:"userId,omitempty" db:"user_id"`
	Username      string    `json:"username,omitempty" db:"username"`
	IPAddress     string    `json:"ipAddress,omitempty" db:"ip_address"`
	UserAgent     string    `json:"userAgent,omitempty" db:"user_agent"`
	SessionID     string    `json:"sessionId,omitempty" db:"session_id"`
	RequestID     string    `json:"requestId,omitempty" db:"request_id"`
	OldValue      string    `json:"oldValue,omitempty" db:"old_value"`
	NewValue      string    `json:"newValue,omitempty" db:"new_value"`
	ChangedFields string    `json:"changedFields,omitempty" db:"changed_fields"`
	Description   string    `json:"description,omitempty" db:"description"`
	Status        string    `json:"status" db:"status"`
	ErrorMessage  string    `json:"errorMessage,omitempty" db:"error_message"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}
