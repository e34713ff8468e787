package domain

import (
	"context"
	"time"
)

// VisibilityFilter narrows a tenant listing to what the caller may see.
// Scope and OwnerID come from the security layer, never from client input.
type VisibilityFilter struct {
	Scope BranchScope
	// OwnerID restricts to rows owned by this user (counselor sub-scoping),
	// in addition to the branch scope.
	OwnerID *string
	// IncludeDeleted exposes soft-deleted rows. Compliance tooling only.
	IncludeDeleted bool
	Page           PageRequest
}

// BranchRepository provides access to branch records.
type BranchRepository interface {
	Create(ctx context.Context, b *Branch) (*Branch, error)
	GetByID(ctx context.Context, id string) (*Branch, error)
	GetByCode(ctx context.Context, code string) (*Branch, error)
	List(ctx context.Context, scope BranchScope, page PageRequest) ([]Branch, int64, error)
	Update(ctx context.Context, b *Branch) error
}

// UserRepository provides access to staff user records.
type UserRepository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, scope BranchScope, page PageRequest) ([]User, int64, error)
}

// LeadRepository persists leads with the tenant envelope.
type LeadRepository interface {
	Create(ctx context.Context, l *Lead) (*Lead, error)
	// GetByID returns soft-deleted rows as well; visibility decisions are
	// made by the caller, which has the resolved scope.
	GetByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context, filter VisibilityFilter) ([]Lead, int64, error)
	Update(ctx context.Context, l *Lead) error
	// ListRetentionDue returns rows soft-deleted before cutoff and not yet
	// anonymized, for the retention sweep.
	ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]Lead, error)
}

// StudentRepository persists students with the tenant envelope.
type StudentRepository interface {
	Create(ctx context.Context, s *Student) (*Student, error)
	GetByID(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, filter VisibilityFilter) ([]Student, int64, error)
	Update(ctx context.Context, s *Student) error
	ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]Student, error)
}

// AuditRepository persists append-only audit entries.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
