// Package crm implements the lead and student services. Every read path
// narrows through the tenant row filter and every write path through the
// branch access assertion before touching storage.
package crm

import (
	"context"
	"errors"
	"time"

	"visacrm/internal/domain"
	"visacrm/internal/service/security"
)

// now returns the current UTC time; a variable so tests can pin the clock.
var now = func() time.Time { return time.Now().UTC() }

// resolveCreateBranch decides which branch a newly created tenant row is
// assigned to, from the caller's scope and the client-requested branch.
//
//   - HQ level: the requested branch when given, otherwise the caller's
//     resolved scope branch (override or assignment), otherwise none.
//   - country manager: the requested branch, else the scope branch, else
//     their own; required, and it must be in their country.
//   - branch staff: always their own resolved branch; a differing request
//     is rejected, and a missing branch is an error.
func resolveCreateBranch(ctx context.Context, resolver *security.BranchResolver, branches domain.BranchRepository, caller *domain.User, requested *string) (*domain.Branch, error) {
	scope := resolver.Resolve(ctx, caller)

	if caller.IsHQLevel() {
		if requested != nil {
			return lookupBranch(ctx, branches, *requested)
		}
		if scope.Kind == domain.ScopeBranch {
			return lookupBranch(ctx, branches, scope.BranchID)
		}
		return nil, nil
	}

	if caller.IsCountryManager() {
		target := requested
		if target == nil && scope.Kind == domain.ScopeBranch {
			target = &scope.BranchID
		}
		if target == nil {
			target = caller.BranchID
		}
		if target == nil {
			return nil, domain.ErrValidation("branch is required")
		}
		b, err := lookupBranch(ctx, branches, *target)
		if err != nil {
			return nil, err
		}
		if err := resolver.AssertBranchAccess(ctx, caller, b, "you cannot assign a branch outside your country"); err != nil {
			return nil, err
		}
		return b, nil
	}

	if scope.Kind != domain.ScopeBranch {
		return nil, domain.ErrValidation("branch is required")
	}
	if requested != nil && *requested != scope.BranchID {
		return nil, domain.ErrValidation("you cannot set a different branch")
	}
	return lookupBranch(ctx, branches, scope.BranchID)
}

func lookupBranch(ctx context.Context, branches domain.BranchRepository, id string) (*domain.Branch, error) {
	b, err := branches.GetByID(ctx, id)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, domain.ErrValidation("branch %s does not exist", id)
		}
		return nil, err
	}
	return b, nil
}

// rowBranch loads the branch record a tenant row points at, or nil for
// branchless rows.
func rowBranch(ctx context.Context, branches domain.BranchRepository, row domain.TenantRow) (*domain.Branch, error) {
	id := row.Tenant().BranchID
	if id == nil {
		return nil, nil
	}
	b, err := branches.GetByID(ctx, *id)
	if err != nil {
		var notFound *domain.NotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, err
	}
	return b, nil
}

// visibleToCaller applies the row filter to a single loaded row. Invisible
// rows are reported to callers as not found, so cross-branch probes cannot
// distinguish "hidden" from "absent".
func visibleToCaller[T domain.TenantRow](ctx context.Context, resolver *security.BranchResolver, branches domain.BranchRepository, caller *domain.User, row T, includeDeleted bool) bool {
	scope := resolver.Resolve(ctx, caller)
	visible := security.FilterVisible(scope, []T{row}, security.FilterOptions{
		IncludeDeleted: includeDeleted,
		Owner:          security.OwnerNarrowing(caller),
		BranchCountry: func(branchID string) string {
			b, err := branches.GetByID(ctx, branchID)
			if err != nil {
				return ""
			}
			return b.Country
		},
	})
	return len(visible) == 1
}

// requireComplianceRead gates the include-deleted path, which exists for
// compliance tooling only.
func requireComplianceRead(caller *domain.User, includeDeleted bool) error {
	if !includeDeleted {
		return nil
	}
	return domain.RequirePermission(caller, domain.ResourceCompliance, domain.OpRead)
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
