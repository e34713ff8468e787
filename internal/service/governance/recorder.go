// Package governance implements audit recording and audit log access.
package governance

import (
	"context"
	"log/slog"

	"visacrm/internal/domain"
	"visacrm/internal/middleware"
)

// redacted replaces values of sensitive fields in stored diffs.
const redacted = "***"

// maxFieldLen caps stored diff values; longer strings are truncated.
const maxFieldLen = 500

// sensitiveFields are diff keys whose values are never stored.
var sensitiveFields = map[string]bool{
	"password": true,
	"token":    true,
	"secret":   true,
	"refresh":  true,
	"access":   true,
	"file":     true,
}

// Recorder writes append-only audit entries for mutating operations. Audit
// is best-effort logging: a failed insert is logged and swallowed, never
// surfaced to the caller or rolled into the operation's outcome.
type Recorder struct {
	repo   domain.AuditRepository
	logger *slog.Logger
}

// NewRecorder creates an audit recorder.
func NewRecorder(repo domain.AuditRepository, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Record captures one mutating operation. The actor and request ID come from
// the context; changes are sanitized and truncated before storage.
func (r *Recorder) Record(ctx context.Context, action domain.AuditAction, entityType, entityID string, branchID *string, changes map[string]any) {
	if r == nil || r.repo == nil {
		return
	}

	entry := &domain.AuditEntry{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BranchID:   branchID,
		RequestID:  middleware.RequestIDFromContext(ctx),
		Changes:    SanitizeChanges(changes),
	}
	if actor, ok := domain.UserFromContext(ctx); ok {
		id := actor.ID
		entry.ActorID = &id
		entry.ActorEmail = actor.Email
	}

	if err := r.repo.Insert(ctx, entry); err != nil {
		r.logger.Error("audit record failed",
			"action", string(action), "entity_type", entityType,
			"entity_id", entityID, "error", err)
	}
}

// EntityBranch derives the audit branch for an entity: the entity's own
// branch when set, otherwise the actor's assigned branch.
func EntityBranch(row domain.TenantRow, actor *domain.User) *string {
	if row != nil {
		if b := row.Tenant().BranchID; b != nil {
			return b
		}
	}
	if actor != nil {
		return actor.BranchID
	}
	return nil
}

// SanitizeChanges redacts sensitive fields and truncates long string values.
func SanitizeChanges(changes map[string]any) map[string]any {
	if len(changes) == 0 {
		return nil
	}
	sanitized := make(map[string]any, len(changes))
	for key, value := range changes {
		if sensitiveFields[key] {
			sanitized[key] = redacted
			continue
		}
		if s, ok := value.(string); ok && len(s) > maxFieldLen {
			sanitized[key] = s[:maxFieldLen] + "..."
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
