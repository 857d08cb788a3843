package domain

import (
	"encoding/json"
	"time"
)

// AuditLog records who ran which ledger operation, for compliance and for
// reconstructing how a balance chain got to its current state.
type AuditLog struct {
	ID           string
	UserID       string
	Action       string
	ResourceType string // cashbox, entry, advance, employee
	ResourceID   string
	RunID        string // ULID of the recompute/reconcile run, when applicable
	Detail       JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data.
type JSON map[string]any

// AuditAction represents the auditable operations of the ledger core.
type AuditAction string

const (
	AuditActionRecompute     AuditAction = "balance.recompute"
	AuditActionReconcile     AuditAction = "ledger.reconcile"
	AuditActionAdvanceCreate AuditAction = "advance.create"
	AuditActionAdvanceAttach AuditAction = "advance.attach"
	AuditActionAdvanceDetach AuditAction = "advance.detach"
	AuditActionAdvanceDelete AuditAction = "advance.delete"
	AuditActionBoxCreate     AuditAction = "cashbox.create"
	AuditActionBoxHide       AuditAction = "cashbox.hide"
)

// AuditStatus represents the status of an audited action.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// MarshalState converts a domain object to JSON for audit logging.
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs.
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Limit        int
	Offset       int
}
