package crm

import (
	"context"
	"errors"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
)

// StudentService implements student operations on top of the authorization
// core.
type StudentService struct {
	students domain.StudentRepository
	leads    domain.LeadRepository
	branches domain.BranchRepository
	resolver *security.BranchResolver
	recorder *governance.Recorder
}

// NewStudentService creates a new StudentService.
func NewStudentService(students domain.StudentRepository, leads domain.LeadRepository, branches domain.BranchRepository, resolver *security.BranchResolver, recorder *governance.Recorder) *StudentService {
	return &StudentService{students: students, leads: leads, branches: branches, resolver: resolver, recorder: recorder}
}

// Create persists a new student under a validated branch. When lead_id is
// given and the lead is visible to the caller, the lead is marked converted.
func (s *StudentService) Create(ctx context.Context, req domain.CreateStudentRequest) (*domain.Student, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceStudents, domain.OpWrite); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	branch, err := resolveCreateBranch(ctx, s.resolver, s.branches, caller, req.BranchID)
	if err != nil {
		return nil, err
	}
	var branchID *string
	if branch != nil {
		branchID = &branch.ID
	}
	counselorID := req.CounselorID
	if caller.Role == domain.RoleCounselor {
		id := caller.ID
		counselorID = &id
	}

	student := &domain.Student{
		TenantFields:   domain.NewTenantFields(branchID, now()),
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		PassportNumber: req.PassportNumber,
		Nationality:    req.Nationality,
		Status:         domain.StudentStatusActive,
		CounselorID:    counselorID,
		LeadID:         req.LeadID,
	}
	created, err := s.students.Create(ctx, student)
	if err != nil {
		return nil, err
	}

	if req.LeadID != nil {
		if err := s.markLeadConverted(ctx, caller, *req.LeadID); err != nil {
			var notFound *domain.NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	s.recorder.Record(ctx, domain.AuditCreate, "student", created.ID,
		governance.EntityBranch(created, caller), map[string]any{
			"first_name":      req.FirstName,
			"last_name":       req.LastName,
			"email":           req.Email,
			"phone":           strVal(req.Phone),
			"passport_number": strVal(req.PassportNumber),
			"nationality":     strVal(req.Nationality),
			"lead_id":         strVal(req.LeadID),
		})
	return created, nil
}

func (s *StudentService) markLeadConverted(ctx context.Context, caller *domain.User, leadID string) error {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		return err
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, lead, false) {
		return domain.ErrNotFound("lead %s not found", leadID)
	}
	if lead.Status == domain.LeadStatusConverted {
		return nil
	}
	lead.Status = domain.LeadStatusConverted
	lead.Touch(now())
	if err := s.leads.Update(ctx, lead); err != nil {
		return err
	}
	s.recorder.Record(ctx, domain.AuditUpdate, "lead", lead.ID,
		governance.EntityBranch(lead, caller), map[string]any{"status": string(domain.LeadStatusConverted)})
	return nil
}

// Get returns a single student when it is visible to the caller.
func (s *StudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceStudents, domain.OpRead); err != nil {
		return nil, err
	}
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, student, false) {
		return nil, domain.ErrNotFound("student %s not found", id)
	}
	return student, nil
}

// List returns the students visible to the caller.
func (s *StudentService) List(ctx context.Context, page domain.PageRequest, includeDeleted bool) ([]domain.Student, int64, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceStudents, domain.OpRead); err != nil {
		return nil, 0, err
	}
	if err := requireComplianceRead(caller, includeDeleted); err != nil {
		return nil, 0, err
	}

	return s.students.List(ctx, domain.VisibilityFilter{
		Scope:          s.resolver.Resolve(ctx, caller),
		OwnerID:        security.OwnerNarrowing(caller),
		IncludeDeleted: includeDeleted,
		Page:           page,
	})
}

// Update patches a visible student after asserting branch access.
func (s *StudentService) Update(ctx context.Context, id string, req domain.UpdateStudentRequest) (*domain.Student, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceStudents, domain.OpWrite); err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, student, false) {
		return nil, domain.ErrNotFound("student %s not found", id)
	}
	branch, err := rowBranch(ctx, s.branches, student)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertBranchAccess(ctx, caller, branch, "you do not have access to this student's branch"); err != nil {
		return nil, err
	}

	if student.IsAnonymized && req.TouchesPersonalData() {
		return nil, domain.ErrValidation("student %s is anonymized; personal data cannot be modified", id)
	}

	changes := map[string]any{}
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
		changes["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
		changes["last_name"] = *req.LastName
	}
	if req.Email != nil {
		student.Email = *req.Email
		changes["email"] = *req.Email
	}
	if req.Phone != nil {
		student.Phone = req.Phone
		changes["phone"] = *req.Phone
	}
	if req.PassportNumber != nil {
		student.PassportNumber = req.PassportNumber
		changes["passport_number"] = *req.PassportNumber
	}
	if req.Nationality != nil {
		student.Nationality = req.Nationality
		changes["nationality"] = *req.Nationality
	}
	if req.Status != nil {
		student.Status = *req.Status
		changes["status"] = string(*req.Status)
	}
	if req.CounselorID != nil {
		student.CounselorID = req.CounselorID
		changes["counselor_id"] = *req.CounselorID
	}
	student.Touch(now())

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditUpdate, "student", student.ID,
		governance.EntityBranch(student, caller), changes)
	return student, nil
}

// SoftDelete marks a visible student deleted. Idempotent.
func (s *StudentService) SoftDelete(ctx context.Context, id string) error {
	caller, err := security.Caller(ctx)
	if err != nil {
		return err
	}
	if err := domain.RequirePermission(caller, domain.ResourceStudents, domain.OpWrite); err != nil {
		return err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if student.IsDeleted {
		return nil
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, student, false) {
		return domain.ErrNotFound("student %s not found", id)
	}
	branch, err := rowBranch(ctx, s.branches, student)
	if err != nil {
		return err
	}
	if err := s.resolver.AssertBranchAccess(ctx, caller, branch, "you do not have access to this student's branch"); err != nil {
		return err
	}

	student.SoftDelete(now())
	if err := s.students.Update(ctx, student); err != nil {
		return err
	}
	s.recorder.Record(ctx, domain.AuditDelete, "student", student.ID,
		governance.EntityBranch(student, caller), nil)
	return nil
}

// Anonymize irreversibly clears the student's personal fields. Compliance
// operation; a second call is a no-op.
func (s *StudentService) Anonymize(ctx context.Context, id string) (*domain.Student, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceCompliance, domain.OpWrite); err != nil {
		return nil, err
	}

	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !student.Anonymize(now()) {
		return student, nil
	}
	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditAnonymize, "student", student.ID,
		governance.EntityBranch(student, caller), nil)
	return student, nil
}
