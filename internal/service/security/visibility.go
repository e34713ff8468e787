package security

import (
	"visacrm/internal/domain"
)

// FilterOptions controls FilterVisible.
type FilterOptions struct {
	// IncludeDeleted exposes soft-deleted rows. Compliance tooling only.
	IncludeDeleted bool
	// BranchCountry maps a branch ID to its country; required for country
	// scopes to match rows. A nil func makes country scopes match nothing.
	BranchCountry func(branchID string) string
	// Owner restricts to rows owned by this user ID, in addition to the
	// branch scope.
	Owner *string
}

// FilterVisible returns the subset of rows visible under scope. It is a pure
// function of (scope, row branch/owner, options): no hidden state and no
// clock, so it is unit-testable without a request.
//
// Repositories apply the same rules in SQL; this in-memory form serves rows
// that are already loaded (related objects, fan-out checks) and is the
// reference semantics the SQL path must agree with.
func FilterVisible[T domain.TenantRow](scope domain.BranchScope, rows []T, opts FilterOptions) []T {
	var visible []T
	for _, row := range rows {
		if rowVisible(scope, row, opts) {
			visible = append(visible, row)
		}
	}
	return visible
}

func rowVisible[T domain.TenantRow](scope domain.BranchScope, row T, opts FilterOptions) bool {
	t := row.Tenant()
	if t.IsDeleted && !opts.IncludeDeleted {
		return false
	}

	switch scope.Kind {
	case domain.ScopeGlobal:
		// no branch restriction
	case domain.ScopeBranch:
		if t.BranchID == nil || *t.BranchID != scope.BranchID {
			return false
		}
	case domain.ScopeCountry:
		if t.BranchID == nil || opts.BranchCountry == nil {
			return false
		}
		if opts.BranchCountry(*t.BranchID) != scope.Country {
			return false
		}
	default:
		return false
	}

	if opts.Owner != nil {
		owner := row.OwnerID()
		if owner == nil || *owner != *opts.Owner {
			return false
		}
	}
	return true
}

// OwnerNarrowing returns the owner restriction for a user: counselors are
// limited to rows they own even within their own branch; every other role
// gets no ownership restriction.
func OwnerNarrowing(u *domain.User) *string {
	if u == nil || u.IsSuperuser {
		return nil
	}
	if u.Role == domain.RoleCounselor {
		id := u.ID
		return &id
	}
	return nil
}
