package crm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacrm/internal/domain"
)

func TestStudentCreate_ConvertsSourceLead(t *testing.T) {
	env := newTestEnv()
	env.students.CreateFn = func(_ context.Context, s *domain.Student) (*domain.Student, error) {
		return s, nil
	}
	lead := storedLead("l-1", strPtr(branchLHR.ID), nil)
	env.leads.GetByIDFn = func(context.Context, string) (*domain.Lead, error) { return lead, nil }
	env.leads.UpdateFn = func(context.Context, *domain.Lead) error { return nil }
	svc := env.studentService()

	student, err := svc.Create(userCtx(domain.RoleBranchManager, strPtr(branchLHR.ID)), domain.CreateStudentRequest{
		FirstName: "Bilal",
		LastName:  "Ahmed",
		Email:     "bilal@example.com",
		LeadID:    strPtr("l-1"),
	})
	require.NoError(t, err)
	require.NotNil(t, student.LeadID)
	assert.Equal(t, "l-1", *student.LeadID)
	assert.Equal(t, domain.StudentStatusActive, student.Status)
	assert.Equal(t, domain.LeadStatusConverted, lead.Status)

	// One UPDATE for the lead conversion plus the student CREATE.
	assert.True(t, env.audit.HasAction(domain.AuditUpdate))
	assert.True(t, env.audit.HasAction(domain.AuditCreate))
}

func TestStudentCreate_MissingLeadTolerated(t *testing.T) {
	// A dangling lead reference must not block the enrollment itself.
	env := newTestEnv()
	env.students.CreateFn = func(_ context.Context, s *domain.Student) (*domain.Student, error) {
		return s, nil
	}
	env.leads.GetByIDFn = func(_ context.Context, id string) (*domain.Lead, error) {
		return nil, domain.ErrNotFound("lead %s not found", id)
	}
	svc := env.studentService()

	_, err := svc.Create(userCtx(domain.RoleBranchManager, strPtr(branchLHR.ID)), domain.CreateStudentRequest{
		FirstName: "Bilal", LastName: "Ahmed", Email: "bilal@example.com",
		LeadID: strPtr("l-gone"),
	})
	assert.NoError(t, err)
}

func TestStudentCreate_AlreadyConvertedLeadNotTouched(t *testing.T) {
	env := newTestEnv()
	env.students.CreateFn = func(_ context.Context, s *domain.Student) (*domain.Student, error) {
		return s, nil
	}
	lead := storedLead("l-1", strPtr(branchLHR.ID), nil)
	lead.Status = domain.LeadStatusConverted
	updates := 0
	env.leads.GetByIDFn = func(context.Context, string) (*domain.Lead, error) { return lead, nil }
	env.leads.UpdateFn = func(context.Context, *domain.Lead) error { updates++; return nil }
	svc := env.studentService()

	_, err := svc.Create(userCtx(domain.RoleBranchManager, strPtr(branchLHR.ID)), domain.CreateStudentRequest{
		FirstName: "Bilal", LastName: "Ahmed", Email: "bilal@example.com",
		LeadID: strPtr("l-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, updates)
}

func TestStudentGet_DocProcessorReadsOwnBranch(t *testing.T) {
	env := newTestEnv()
	env.students.GetByIDFn = func(_ context.Context, id string) (*domain.Student, error) {
		return storedStudent(id, strPtr(branchLHR.ID)), nil
	}
	svc := env.studentService()

	got, err := svc.Get(userCtx(domain.RoleDocProcessor, strPtr(branchLHR.ID)), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "s-1", got.ID)

	// But not another branch's student.
	env.students.GetByIDFn = func(_ context.Context, id string) (*domain.Student, error) {
		return storedStudent(id, strPtr(branchDXB.ID)), nil
	}
	_, err = svc.Get(userCtx(domain.RoleDocProcessor, strPtr(branchLHR.ID)), "s-2")
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestStudentUpdate_DocProcessorDeniedWrites(t *testing.T) {
	env := newTestEnv()
	svc := env.studentService()

	_, err := svc.Update(userCtx(domain.RoleDocProcessor, strPtr(branchLHR.ID)), "s-1", domain.UpdateStudentRequest{
		FirstName: strPtr("X"),
	})
	var denied *domain.AccessDeniedError
	assert.ErrorAs(t, err, &denied)
}

func TestStudentUpdate_AnonymizedRejectsPassportWrite(t *testing.T) {
	env := newTestEnv()
	student := storedStudent("s-1", strPtr(branchLHR.ID))
	student.Anonymize(student.CreatedAt)
	env.students.GetByIDFn = func(context.Context, string) (*domain.Student, error) { return student, nil }
	env.students.UpdateFn = func(context.Context, *domain.Student) error { return nil }
	svc := env.studentService()

	_, err := svc.Update(userCtx(domain.RoleBranchManager, strPtr(branchLHR.ID)), "s-1", domain.UpdateStudentRequest{
		PassportNumber: strPtr("XY999"),
	})
	var validation *domain.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestStudentList_CountryManagerGetsCountryScope(t *testing.T) {
	env := newTestEnv()
	var captured domain.VisibilityFilter
	env.students.ListFn = func(_ context.Context, filter domain.VisibilityFilter) ([]domain.Student, int64, error) {
		captured = filter
		return nil, 0, nil
	}
	svc := env.studentService()

	_, _, err := svc.List(userCtx(domain.RoleCountryManager, strPtr(branchLHR.ID)), domain.PageRequest{}, false)
	require.NoError(t, err)
	assert.Equal(t, domain.CountryScope("Pakistan"), captured.Scope)
	assert.Nil(t, captured.OwnerID)
}

func TestStudentAnonymize_ClearsPassportAndNationality(t *testing.T) {
	env := newTestEnv()
	student := storedStudent("s-1", strPtr(branchLHR.ID))
	nationality := "Pakistani"
	student.Nationality = &nationality
	env.students.GetByIDFn = func(context.Context, string) (*domain.Student, error) { return student, nil }
	env.students.UpdateFn = func(context.Context, *domain.Student) error { return nil }
	svc := env.studentService()

	got, err := svc.Anonymize(superadminCtx(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, "Anonymized", got.FirstName)
	assert.Equal(t, "Student", got.LastName)
	assert.Nil(t, got.PassportNumber)
	assert.Nil(t, got.Nationality)
	assert.True(t, env.audit.HasAction(domain.AuditAnonymize))
}
