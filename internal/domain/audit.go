package domain

import "time"

// AuditAction enumerates the mutating operations the recorder captures.
type AuditAction string

const (
	AuditCreate    AuditAction = "CREATE"
	AuditUpdate    AuditAction = "UPDATE"
	AuditDelete    AuditAction = "DELETE"
	AuditAnonymize AuditAction = "ANONYMIZE"
)

// AuditEntry is one append-only audit log row. Entries are never mutated or
// deleted by normal operation.
type AuditEntry struct {
	ID         string
	ActorID    *string
	ActorEmail string
	Action     AuditAction
	EntityType string
	EntityID   string
	BranchID   *string
	RequestID  string
	Changes    map[string]any // sanitized before storage
	CreatedAt  time.Time
}

// AuditFilter narrows an audit log listing.
type AuditFilter struct {
	ActorEmail *string
	Action     *AuditAction
	EntityType *string
	BranchID   *string
	Page       PageRequest
}
