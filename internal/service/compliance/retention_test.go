package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
	"visacrm/internal/testutil"
)

func deletedLead(id string, deletedAt time.Time) domain.Lead {
	l := domain.Lead{
		TenantFields: domain.NewTenantFields(strPtr("b-lhr"), deletedAt.Add(-time.Hour)),
		FirstName:    "Ayesha",
		LastName:     "Khan",
		Email:        id + "@example.com",
		Status:       domain.LeadStatusNew,
	}
	l.ID = id
	l.SoftDelete(deletedAt)
	return l
}

func deletedStudent(id string, deletedAt time.Time) domain.Student {
	s := domain.Student{
		TenantFields: domain.NewTenantFields(strPtr("b-lhr"), deletedAt.Add(-time.Hour)),
		FirstName:    "Bilal",
		LastName:     "Ahmed",
		Email:        id + "@example.com",
		Status:       domain.StudentStatusActive,
	}
	s.ID = id
	s.SoftDelete(deletedAt)
	return s
}

func strPtr(s string) *string { return &s }

func newTestSweeper(leads *testutil.MockLeadRepo, students *testutil.MockStudentRepo, audit *testutil.MockAuditRepo) *Sweeper {
	return NewSweeper(leads, students, governance.NewRecorder(audit, nil), DefaultRetentionConfig(), nil)
}

func TestSweep_AnonymizesDueRows(t *testing.T) {
	now := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	leads := &testutil.MockLeadRepo{}
	students := &testutil.MockStudentRepo{}
	audit := &testutil.MockAuditRepo{}

	leads.ListRetentionDueFn = func(_ context.Context, cutoff time.Time, limit int) ([]domain.Lead, error) {
		assert.Equal(t, now.Add(-730*24*time.Hour), cutoff)
		assert.Equal(t, 500, limit)
		return []domain.Lead{
			deletedLead("l-1", now.AddDate(-3, 0, 0)),
			deletedLead("l-2", now.AddDate(-3, 0, 0)),
		}, nil
	}
	students.ListRetentionDueFn = func(_ context.Context, cutoff time.Time, limit int) ([]domain.Student, error) {
		assert.Equal(t, now.Add(-2555*24*time.Hour), cutoff)
		return []domain.Student{deletedStudent("s-1", now.AddDate(-8, 0, 0))}, nil
	}
	var updatedLeads []*domain.Lead
	leads.UpdateFn = func(_ context.Context, l *domain.Lead) error {
		updatedLeads = append(updatedLeads, l)
		return nil
	}
	students.UpdateFn = func(context.Context, *domain.Student) error { return nil }

	result, err := newTestSweeper(leads, students, audit).Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{Leads: 2, Students: 1}, result)

	require.Len(t, updatedLeads, 2)
	assert.Equal(t, "Anonymized", updatedLeads[0].FirstName)
	assert.Nil(t, updatedLeads[0].Phone)
	assert.True(t, updatedLeads[0].IsAnonymized)
	assert.Len(t, audit.Entries, 3)
	assert.True(t, audit.HasAction(domain.AuditAnonymize))
	// Sweep runs without a request principal.
	assert.Nil(t, audit.Entries[0].ActorID)
}

func TestSweep_FailingRowSkippedNotFatal(t *testing.T) {
	now := time.Now().UTC()
	leads := &testutil.MockLeadRepo{}
	students := &testutil.MockStudentRepo{}
	audit := &testutil.MockAuditRepo{}

	leads.ListRetentionDueFn = func(context.Context, time.Time, int) ([]domain.Lead, error) {
		return []domain.Lead{
			deletedLead("l-bad", now.AddDate(-3, 0, 0)),
			deletedLead("l-good", now.AddDate(-3, 0, 0)),
		}, nil
	}
	leads.UpdateFn = func(_ context.Context, l *domain.Lead) error {
		if l.ID == "l-bad" {
			return errors.New("disk full")
		}
		return nil
	}
	students.ListRetentionDueFn = func(context.Context, time.Time, int) ([]domain.Student, error) {
		return nil, nil
	}

	result, err := newTestSweeper(leads, students, audit).Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Leads)
	assert.Len(t, audit.Entries, 1)
}

func TestSweep_AlreadyAnonymizedNotCounted(t *testing.T) {
	now := time.Now().UTC()
	leads := &testutil.MockLeadRepo{}
	students := &testutil.MockStudentRepo{}
	audit := &testutil.MockAuditRepo{}

	lead := deletedLead("l-1", now.AddDate(-3, 0, 0))
	lead.Anonymize(now.AddDate(0, -1, 0))
	leads.ListRetentionDueFn = func(context.Context, time.Time, int) ([]domain.Lead, error) {
		return []domain.Lead{lead}, nil
	}
	students.ListRetentionDueFn = func(context.Context, time.Time, int) ([]domain.Student, error) {
		return nil, nil
	}

	result, err := newTestSweeper(leads, students, audit).Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, SweepResult{}, result)
	assert.Empty(t, audit.Entries)
}

func TestSweep_ListErrorAborts(t *testing.T) {
	leads := &testutil.MockLeadRepo{}
	students := &testutil.MockStudentRepo{}
	audit := &testutil.MockAuditRepo{}

	leads.ListRetentionDueFn = func(context.Context, time.Time, int) ([]domain.Lead, error) {
		return nil, errors.New("db locked")
	}

	_, err := newTestSweeper(leads, students, audit).Sweep(context.Background(), time.Now().UTC())
	assert.Error(t, err)
}
