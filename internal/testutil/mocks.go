// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"time"

	"visacrm/internal/domain"
)

// === Audit Repository Mock ===

// MockAuditRepo implements domain.AuditRepository for testing.
type MockAuditRepo struct {
	InsertFn func(ctx context.Context, e *domain.AuditEntry) error
	ListFn   func(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error)
	Entries  []*domain.AuditEntry // collected entries for assertions
}

// Insert implements the interface method for testing.
func (m *MockAuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if m.InsertFn != nil {
		err := m.InsertFn(ctx, e)
		if err != nil {
			return err
		}
		m.Entries = append(m.Entries, e)
		return nil
	}
	m.Entries = append(m.Entries, e)
	return nil
}

// List implements the interface method for testing.
func (m *MockAuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockAuditRepo.List")
}

// LastEntry returns the last collected audit entry, or nil if none.
func (m *MockAuditRepo) LastEntry() *domain.AuditEntry {
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// HasAction returns true if any collected entry has the given action.
func (m *MockAuditRepo) HasAction(action domain.AuditAction) bool {
	for _, e := range m.Entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

var _ domain.AuditRepository = (*MockAuditRepo)(nil)

// === Branch Repository Mock ===

// MockBranchRepo implements domain.BranchRepository for testing.
// Uses function fields so tests only need to set the methods they care about.
type MockBranchRepo struct {
	CreateFn    func(ctx context.Context, b *domain.Branch) (*domain.Branch, error)
	GetByIDFn   func(ctx context.Context, id string) (*domain.Branch, error)
	GetByCodeFn func(ctx context.Context, code string) (*domain.Branch, error)
	ListFn      func(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.Branch, int64, error)
	UpdateFn    func(ctx context.Context, b *domain.Branch) error
}

// Create implements the interface method for testing.
func (m *MockBranchRepo) Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, b)
	}
	panic("unexpected call to MockBranchRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockBranchRepo) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockBranchRepo.GetByID")
}

// GetByCode implements the interface method for testing.
func (m *MockBranchRepo) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	if m.GetByCodeFn != nil {
		return m.GetByCodeFn(ctx, code)
	}
	panic("unexpected call to MockBranchRepo.GetByCode")
}

// List implements the interface method for testing.
func (m *MockBranchRepo) List(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.Branch, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, page)
	}
	panic("unexpected call to MockBranchRepo.List")
}

// Update implements the interface method for testing.
func (m *MockBranchRepo) Update(ctx context.Context, b *domain.Branch) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, b)
	}
	panic("unexpected call to MockBranchRepo.Update")
}

var _ domain.BranchRepository = (*MockBranchRepo)(nil)

// BranchDirectory builds a MockBranchRepo serving the given branches by ID,
// returning NotFoundError for everything else. Most resolver and service
// tests only need lookups, so this saves per-test wiring.
func BranchDirectory(branches ...*domain.Branch) *MockBranchRepo {
	byID := make(map[string]*domain.Branch, len(branches))
	for _, b := range branches {
		byID[b.ID] = b
	}
	return &MockBranchRepo{
		GetByIDFn: func(ctx context.Context, id string) (*domain.Branch, error) {
			if b, ok := byID[id]; ok {
				return b, nil
			}
			return nil, domain.ErrNotFound("branch %q not found", id)
		},
	}
}

// === User Repository Mock ===

// MockUserRepo implements domain.UserRepository for testing.
type MockUserRepo struct {
	CreateFn     func(ctx context.Context, u *domain.User) (*domain.User, error)
	GetByIDFn    func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	ListFn       func(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.User, int64, error)
}

// Create implements the interface method for testing.
func (m *MockUserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	panic("unexpected call to MockUserRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockUserRepo.GetByID")
}

// GetByEmail implements the interface method for testing.
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	panic("unexpected call to MockUserRepo.GetByEmail")
}

// List implements the interface method for testing.
func (m *MockUserRepo) List(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.User, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, scope, page)
	}
	panic("unexpected call to MockUserRepo.List")
}

var _ domain.UserRepository = (*MockUserRepo)(nil)

// === Lead Repository Mock ===

// MockLeadRepo implements domain.LeadRepository for testing.
type MockLeadRepo struct {
	CreateFn           func(ctx context.Context, l *domain.Lead) (*domain.Lead, error)
	GetByIDFn          func(ctx context.Context, id string) (*domain.Lead, error)
	ListFn             func(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Lead, int64, error)
	UpdateFn           func(ctx context.Context, l *domain.Lead) error
	ListRetentionDueFn func(ctx context.Context, cutoff time.Time, limit int) ([]domain.Lead, error)
}

// Create implements the interface method for testing.
func (m *MockLeadRepo) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	panic("unexpected call to MockLeadRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockLeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockLeadRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockLeadRepo) List(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Lead, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockLeadRepo.List")
}

// Update implements the interface method for testing.
func (m *MockLeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l)
	}
	panic("unexpected call to MockLeadRepo.Update")
}

// ListRetentionDue implements the interface method for testing.
func (m *MockLeadRepo) ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Lead, error) {
	if m.ListRetentionDueFn != nil {
		return m.ListRetentionDueFn(ctx, cutoff, limit)
	}
	panic("unexpected call to MockLeadRepo.ListRetentionDue")
}

var _ domain.LeadRepository = (*MockLeadRepo)(nil)

// === Student Repository Mock ===

// MockStudentRepo implements domain.StudentRepository for testing.
type MockStudentRepo struct {
	CreateFn           func(ctx context.Context, s *domain.Student) (*domain.Student, error)
	GetByIDFn          func(ctx context.Context, id string) (*domain.Student, error)
	ListFn             func(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Student, int64, error)
	UpdateFn           func(ctx context.Context, s *domain.Student) error
	ListRetentionDueFn func(ctx context.Context, cutoff time.Time, limit int) ([]domain.Student, error)
}

// Create implements the interface method for testing.
func (m *MockStudentRepo) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	panic("unexpected call to MockStudentRepo.Create")
}

// GetByID implements the interface method for testing.
func (m *MockStudentRepo) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	panic("unexpected call to MockStudentRepo.GetByID")
}

// List implements the interface method for testing.
func (m *MockStudentRepo) List(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Student, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	panic("unexpected call to MockStudentRepo.List")
}

// Update implements the interface method for testing.
func (m *MockStudentRepo) Update(ctx context.Context, s *domain.Student) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	panic("unexpected call to MockStudentRepo.Update")
}

// ListRetentionDue implements the interface method for testing.
func (m *MockStudentRepo) ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Student, error) {
	if m.ListRetentionDueFn != nil {
		return m.ListRetentionDueFn(ctx, cutoff, limit)
	}
	panic("unexpected call to MockStudentRepo.ListRetentionDue")
}

var _ domain.StudentRepository = (*MockStudentRepo)(nil)
