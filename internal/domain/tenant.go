package domain

import "time"

// AnonymizedName is the fixed placeholder written over personal name fields.
const AnonymizedName = "Anonymized"

// AnonymizedEmail returns the synthetic, non-deliverable address written over
// an entity's email field. Derived from the immutable row ID so the value is
// stable and unique without retaining the original address.
func AnonymizedEmail(id string) string {
	return "anonymized-" + id + "@example.invalid"
}

// TenantFields is the universal envelope embedded by every tenant entity:
// identity, branch linkage, soft-delete, anonymization, and timestamps.
type TenantFields struct {
	ID           string
	BranchID     *string
	IsDeleted    bool
	DeletedAt    *time.Time
	IsAnonymized bool
	AnonymizedAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewTenantFields initialises the envelope for a freshly created row.
// The branch must already have been validated against the caller's scope.
func NewTenantFields(branchID *string, now time.Time) TenantFields {
	return TenantFields{
		ID:        NewID(),
		BranchID:  branchID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Tenant returns the envelope; it makes any embedding struct satisfy
// TenantRow.
func (t *TenantFields) Tenant() *TenantFields { return t }

// SoftDelete marks the row deleted. Idempotent: a second call leaves
// DeletedAt unchanged and reports false.
func (t *TenantFields) SoftDelete(now time.Time) bool {
	if t.IsDeleted {
		return false
	}
	t.IsDeleted = true
	t.DeletedAt = &now
	t.UpdatedAt = now
	return true
}

// MarkAnonymized records the irreversible anonymization transition.
// Reports false when the row is already anonymized; the caller must clear
// its personal fields only on a true return.
func (t *TenantFields) MarkAnonymized(now time.Time) bool {
	if t.IsAnonymized {
		return false
	}
	t.IsAnonymized = true
	t.AnonymizedAt = &now
	t.UpdatedAt = now
	return true
}

// Touch bumps UpdatedAt for an ordinary mutation.
func (t *TenantFields) Touch(now time.Time) { t.UpdatedAt = now }

// TenantRow is implemented by every entity embedding TenantFields.
// OwnerID returns the owning counselor's user ID, or nil for entity types
// without ownership sub-scoping.
type TenantRow interface {
	Tenant() *TenantFields
	OwnerID() *string
}
