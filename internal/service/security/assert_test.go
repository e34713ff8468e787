package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacrm/internal/domain"
)

func TestAssertBranchAccess_NilUserUnauthorized(t *testing.T) {
	r := newTestResolver()
	err := r.AssertBranchAccess(context.Background(), nil, branchLHR, "no")
	var unauthorized *domain.UnauthorizedError
	assert.ErrorAs(t, err, &unauthorized)
}

func TestAssertBranchAccess_HQAlwaysAllowed(t *testing.T) {
	r := newTestResolver()
	for _, u := range []*domain.User{
		superuser(),
		userWithRole(domain.RoleSuperAdmin, nil),
		userWithRole(domain.RoleAuditor, strPtr(branchLHR.ID)),
	} {
		assert.NoError(t, r.AssertBranchAccess(context.Background(), u, branchDXB, "no"), "user %s", u.Email)
		assert.NoError(t, r.AssertBranchAccess(context.Background(), u, nil, "no"), "user %s, nil target", u.Email)
	}
}

func TestAssertBranchAccess_CountryManagerInsideCountry(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	assert.NoError(t, r.AssertBranchAccess(context.Background(), u, branchISB, "no"))
}

func TestAssertBranchAccess_CountryManagerOutsideCountryDenied(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	err := r.AssertBranchAccess(context.Background(), u, branchDXB, "cannot write to this branch")
	require.Error(t, err)
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.EqualError(t, err, "cannot write to this branch")
}

func TestAssertBranchAccess_CountryManagerNilTargetDenied(t *testing.T) {
	// A branch-less row has no country to match, so country managers may
	// not claim it.
	r := newTestResolver()
	u := userWithRole(domain.RoleCountryManager, strPtr(branchLHR.ID))
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, r.AssertBranchAccess(context.Background(), u, nil, "no"), &denied)
}

func TestAssertBranchAccess_StaffOwnBranchAllowed(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleCounselor, strPtr(branchLHR.ID))
	assert.NoError(t, r.AssertBranchAccess(context.Background(), u, branchLHR, "no"))
}

func TestAssertBranchAccess_StaffOtherBranchDenied(t *testing.T) {
	r := newTestResolver()
	u := userWithRole(domain.RoleBranchManager, strPtr(branchLHR.ID))
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, r.AssertBranchAccess(context.Background(), u, branchISB, "no"), &denied)
}

func TestAssertBranchAccess_StaffWithoutBranchSucceeds(t *testing.T) {
	// Staff with no resolvable branch context have nothing to enforce, so
	// the write proceeds rather than locking the account out entirely.
	r := newTestResolver()
	u := userWithRole(domain.RoleCounselor, nil)
	assert.NoError(t, r.AssertBranchAccess(context.Background(), u, branchLHR, "no"))
}

func TestAssertBranchAccess_OverrideNeverWidensWrites(t *testing.T) {
	// Even with a valid override header pointing elsewhere, writes are
	// checked against the caller's own assignment.
	r := newTestResolver()
	u := userWithRole(domain.RoleCounselor, strPtr(branchLHR.ID))
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, r.AssertBranchAccess(ctxWithOverride(branchISB.ID), u, branchISB, "no"), &denied)
}
