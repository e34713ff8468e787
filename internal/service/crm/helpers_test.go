package crm

import (
	"context"
	"time"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
	"visacrm/internal/testutil"
)

var (
	branchLHR = &domain.Branch{ID: "b-lhr", Code: "LHR", Name: "Lahore", Country: "Pakistan", IsActive: true}
	branchISB = &domain.Branch{ID: "b-isb", Code: "ISB", Name: "Islamabad", Country: "Pakistan", IsActive: true}
	branchDXB = &domain.Branch{ID: "b-dxb", Code: "DXB", Name: "Dubai", Country: "UAE", IsActive: true}
)

// testEnv bundles the usual fixture wiring for lead and student tests.
type testEnv struct {
	leads    *testutil.MockLeadRepo
	students *testutil.MockStudentRepo
	branches *testutil.MockBranchRepo
	audit    *testutil.MockAuditRepo
	resolver *security.BranchResolver
	recorder *governance.Recorder
}

func newTestEnv() *testEnv {
	branches := testutil.BranchDirectory(branchLHR, branchISB, branchDXB)
	audit := &testutil.MockAuditRepo{}
	return &testEnv{
		leads:    &testutil.MockLeadRepo{},
		students: &testutil.MockStudentRepo{},
		branches: branches,
		audit:    audit,
		resolver: security.NewBranchResolver(branches, nil),
		recorder: governance.NewRecorder(audit, nil),
	}
}

func (e *testEnv) leadService() *LeadService {
	return NewLeadService(e.leads, e.branches, e.resolver, e.recorder)
}

func (e *testEnv) studentService() *StudentService {
	return NewStudentService(e.students, e.leads, e.branches, e.resolver, e.recorder)
}

func userCtx(role domain.Role, branchID *string) context.Context {
	return domain.WithUser(context.Background(), &domain.User{
		ID:       "u-" + string(role),
		Email:    string(role) + "@example.com",
		Role:     role,
		IsActive: true,
		BranchID: branchID,
	})
}

func superadminCtx() context.Context {
	return userCtx(domain.RoleSuperAdmin, nil)
}

func strPtr(s string) *string { return &s }

func storedLead(id string, branchID *string, counselorID *string) *domain.Lead {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Lead{
		TenantFields: domain.TenantFields{
			ID:        id,
			BranchID:  branchID,
			CreatedAt: created,
			UpdatedAt: created,
		},
		FirstName: "Ayesha",
		LastName:  "Khan",
		Email:     id + "@example.com",
		Status:    domain.LeadStatusNew,
		CounselorID: counselorID,
	}
}

func storedStudent(id string, branchID *string) *domain.Student {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	passport := "AB1234567"
	return &domain.Student{
		TenantFields: domain.TenantFields{
			ID:        id,
			BranchID:  branchID,
			CreatedAt: created,
			UpdatedAt: created,
		},
		FirstName:      "Bilal",
		LastName:       "Ahmed",
		Email:          id + "@example.com",
		PassportNumber: &passport,
		Status:         domain.StudentStatusActive,
	}
}
