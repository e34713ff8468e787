package security

import (
	"context"
	"time"

	"visacrm/internal/domain"
	"visacrm/internal/testutil"
)

// Shared fixtures: a small branch network across two countries plus HQ.
var (
	branchLHR = &domain.Branch{ID: "b-lhr", Code: "LHR", Name: "Lahore", Country: "Pakistan", IsActive: true}
	branchISB = &domain.Branch{ID: "b-isb", Code: "ISB", Name: "Islamabad", Country: "Pakistan", IsActive: true}
	branchDXB = &domain.Branch{ID: "b-dxb", Code: "DXB", Name: "Dubai", Country: "UAE", IsActive: true}
	branchLON = &domain.Branch{ID: "b-lon", Code: "LON", Name: "London HQ", Country: "UK", IsHQ: true, IsActive: true}
)

func branchDir() *testutil.MockBranchRepo {
	return testutil.BranchDirectory(branchLHR, branchISB, branchDXB, branchLON)
}

func newTestResolver() *BranchResolver {
	return NewBranchResolver(branchDir(), nil)
}

func userWithRole(role domain.Role, branchID *string) *domain.User {
	return &domain.User{
		ID:       "u-" + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
		IsActive: true,
		BranchID: branchID,
	}
}

func superuser() *domain.User {
	u := userWithRole(domain.RoleSuperAdmin, nil)
	u.IsSuperuser = true
	return u
}

func strPtr(s string) *string { return &s }

func ctxWithOverride(branchID string) context.Context {
	return domain.WithBranchOverride(context.Background(), branchID)
}

func countryOf(branchID string) string {
	switch branchID {
	case branchLHR.ID, branchISB.ID:
		return "Pakistan"
	case branchDXB.ID:
		return "UAE"
	case branchLON.ID:
		return "UK"
	default:
		return ""
	}
}

func leadAt(id string, branchID *string, counselorID *string) *domain.Lead {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Lead{
		TenantFields: domain.TenantFields{
			ID:        id,
			BranchID:  branchID,
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:   "Test",
		LastName:    "Lead",
		Email:       id + "@example.com",
		Status:      domain.LeadStatusNew,
		CounselorID: counselorID,
	}
}
