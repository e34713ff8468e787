package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"visacrm/internal/domain"
)

func TestResolve_UnauthenticatedGetsNoScope(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), nil)
	assert.Equal(t, domain.ScopeNone, scope.Kind)
}

func TestResolve_InactiveUserGetsNoScope(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleSuperAdmin, nil)
	u.IsActive = false
	scope := r.Resolve(context.Background(), u)
	assert.Equal(t, domain.ScopeNone, scope.Kind)
}

func TestResolve_SuperAdminNoBranchNoOverrideGetsGlobal(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleSuperAdmin, nil))
	assert.Equal(t, domain.GlobalScope(), scope)
}

func TestResolve_SuperAdminAssignedBranchNarrowsToIt(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleSuperAdmin, strPtr(branchLHR.ID)))
	assert.Equal(t, domain.SingleBranchScope(branchLHR.ID), scope)
}

func TestResolve_SuperAdminOverrideWinsOverAssignment(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleSuperAdmin, strPtr(branchLHR.ID))
	scope := r.Resolve(ctxWithOverride(branchDXB.ID), u)
	assert.Equal(t, domain.SingleBranchScope(branchDXB.ID), scope)
}

func TestResolve_SuperuserFlagAloneCountsAsHQ(t *testing.T) {
	r := newTestResolver()
	u := superuser()
	u.Role = domain.RoleCounselor // role says staff, flag says HQ
	scope := r.Resolve(context.Background(), u)
	assert.Equal(t, domain.GlobalScope(), scope)
}

func TestResolve_AuditorDefaultsToGlobal(t *testing.T) {
	// Auditors get full visibility even when assigned to a branch.
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleAuditor, strPtr(branchLHR.ID)))
	assert.Equal(t, domain.GlobalScope(), scope)
}

func TestResolve_AuditorOverrideNarrowsToSingleBranch(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(ctxWithOverride(branchDXB.ID), userWithRole(domain.RoleAuditor, nil))
	assert.Equal(t, domain.SingleBranchScope(branchDXB.ID), scope)
}

func TestResolve_InvalidOverrideIgnored(t *testing.T) {
	// An override naming no real branch falls through to the default rules,
	// it never errors: the header is no more trusted than any client input.
	r := newTestResolver()
	scope := r.Resolve(ctxWithOverride("b-nope"), userWithRole(domain.RoleAuditor, nil))
	assert.Equal(t, domain.GlobalScope(), scope)
}

func TestResolve_CountryManagerGetsCountryScope(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID)))
	assert.Equal(t, domain.CountryScope("Pakistan"), scope)
}

func TestResolve_CountryManagerOverrideInsideCountryNarrows(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	scope := r.Resolve(ctxWithOverride(branchISB.ID), u)
	assert.Equal(t, domain.SingleBranchScope(branchISB.ID), scope)
}

func TestResolve_CountryManagerOverrideOutsideCountryIgnored(t *testing.T) {
	// A Pakistan country manager pointing X-Branch-ID at Dubai stays
	// country-wide; the override cannot widen visibility across borders.
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	scope := r.Resolve(ctxWithOverride(branchDXB.ID), u)
	assert.Equal(t, domain.CountryScope("Pakistan"), scope)
}

func TestResolve_CountryManagerUnassignedGetsNoScope(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleCountryManager, nil))
	assert.Equal(t, domain.ScopeNone, scope.Kind)
}

func TestResolve_BranchStaffGetAssignedBranch(t *testing.T) {
	r := newTestResolver()
	for _, role := range []domain.Role{
		domain.RoleBranchManager, domain.RoleCounselor,
		domain.RoleFinanceOfficer, domain.RoleDocProcessor,
	} {
		scope := r.Resolve(context.Background(), userWithRole(role, strPtr(branchLHR.ID)))
		assert.Equal(t, domain.SingleBranchScope(branchLHR.ID), scope, "role %s", role)
	}
}

func TestResolve_BranchStaffOverrideIgnored(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCounselor, strPtr(branchLHR.ID))
	scope := r.Resolve(ctxWithOverride(branchDXB.ID), u)
	assert.Equal(t, domain.SingleBranchScope(branchLHR.ID), scope)
}

func TestResolve_BranchStaffUnassignedGetsNoScope(t *testing.T) {
	r := newTestResolver()
	scope := r.Resolve(context.Background(), userWithRole(domain.RoleCounselor, nil))
	assert.Equal(t, domain.ScopeNone, scope.Kind)
}

func TestResolveOwn_IgnoresOverride(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	scope := r.ResolveOwn(ctxWithOverride(branchISB.ID), u)
	assert.Equal(t, domain.CountryScope("Pakistan"), scope)
}
