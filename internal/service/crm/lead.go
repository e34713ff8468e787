package crm

import (
	"context"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
)

// LeadService implements lead operations on top of the authorization core.
type LeadService struct {
	leads    domain.LeadRepository
	branches domain.BranchRepository
	resolver *security.BranchResolver
	recorder *governance.Recorder
}

// NewLeadService creates a new LeadService.
func NewLeadService(leads domain.LeadRepository, branches domain.BranchRepository, resolver *security.BranchResolver, recorder *governance.Recorder) *LeadService {
	return &LeadService{leads: leads, branches: branches, resolver: resolver, recorder: recorder}
}

// Create validates the target branch against the caller's scope and persists
// a new lead. Counselors always own the leads they create.
func (s *LeadService) Create(ctx context.Context, req domain.CreateLeadRequest) (*domain.Lead, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceLeads, domain.OpWrite); err != nil {
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

	lead := &domain.Lead{
		TenantFields: domain.NewTenantFields(branchID, now()),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Notes:        req.Notes,
		Status:       domain.LeadStatusNew,
		CounselorID:  counselorID,
	}
	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, domain.AuditCreate, "lead", created.ID,
		governance.EntityBranch(created, caller), map[string]any{
			"first_name": req.FirstName,
			"last_name":  req.LastName,
			"email":      req.Email,
			"phone":      strVal(req.Phone),
			"notes":      strVal(req.Notes),
		})
	return created, nil
}

// Get returns a single lead when it is visible to the caller; hidden rows
// surface as not found.
func (s *LeadService) Get(ctx context.Context, id string) (*domain.Lead, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceLeads, domain.OpRead); err != nil {
		return nil, err
	}
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, lead, false) {
		return nil, domain.ErrNotFound("lead %s not found", id)
	}
	return lead, nil
}

// List returns the leads visible to the caller. includeDeleted requires the
// compliance read permission.
func (s *LeadService) List(ctx context.Context, page domain.PageRequest, includeDeleted bool) ([]domain.Lead, int64, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceLeads, domain.OpRead); err != nil {
		return nil, 0, err
	}
	if err := requireComplianceRead(caller, includeDeleted); err != nil {
		return nil, 0, err
	}

	return s.leads.List(ctx, domain.VisibilityFilter{
		Scope:          s.resolver.Resolve(ctx, caller),
		OwnerID:        security.OwnerNarrowing(caller),
		IncludeDeleted: includeDeleted,
		Page:           page,
	})
}

// Update patches a visible lead after asserting branch access. Personal
// fields of an anonymized lead can no longer be written.
func (s *LeadService) Update(ctx context.Context, id string, req domain.UpdateLeadRequest) (*domain.Lead, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceLeads, domain.OpWrite); err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, lead, false) {
		return nil, domain.ErrNotFound("lead %s not found", id)
	}

	branch, err := rowBranch(ctx, s.branches, lead)
	if err != nil {
		return nil, err
	}
	if err := s.resolver.AssertBranchAccess(ctx, caller, branch, "you do not have access to this lead's branch"); err != nil {
		return nil, err
	}

	if lead.IsAnonymized && req.TouchesPersonalData() {
		return nil, domain.ErrValidation("lead %s is anonymized; personal data cannot be modified", id)
	}

	changes := map[string]any{}
	if req.FirstName != nil {
		lead.FirstName = *req.FirstName
		changes["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		lead.LastName = *req.LastName
		changes["last_name"] = *req.LastName
	}
	if req.Email != nil {
		lead.Email = *req.Email
		changes["email"] = *req.Email
	}
	if req.Phone != nil {
		lead.Phone = req.Phone
		changes["phone"] = *req.Phone
	}
	if req.Notes != nil {
		lead.Notes = req.Notes
		changes["notes"] = *req.Notes
	}
	if req.Status != nil {
		lead.Status = *req.Status
		changes["status"] = string(*req.Status)
	}
	if req.CounselorID != nil {
		lead.CounselorID = req.CounselorID
		changes["counselor_id"] = *req.CounselorID
	}
	lead.Touch(now())

	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditUpdate, "lead", lead.ID,
		governance.EntityBranch(lead, caller), changes)
	return lead, nil
}

// SoftDelete marks a visible lead deleted. Idempotent: deleting an already
// deleted lead changes nothing.
func (s *LeadService) SoftDelete(ctx context.Context, id string) error {
	caller, err := security.Caller(ctx)
	if err != nil {
		return err
	}
	if err := domain.RequirePermission(caller, domain.ResourceLeads, domain.OpWrite); err != nil {
		return err
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if lead.IsDeleted {
		return nil
	}
	if !visibleToCaller(ctx, s.resolver, s.branches, caller, lead, false) {
		return domain.ErrNotFound("lead %s not found", id)
	}
	branch, err := rowBranch(ctx, s.branches, lead)
	if err != nil {
		return err
	}
	if err := s.resolver.AssertBranchAccess(ctx, caller, branch, "you do not have access to this lead's branch"); err != nil {
		return err
	}

	lead.SoftDelete(now())
	if err := s.leads.Update(ctx, lead); err != nil {
		return err
	}
	s.recorder.Record(ctx, domain.AuditDelete, "lead", lead.ID,
		governance.EntityBranch(lead, caller), nil)
	return nil
}

// Anonymize irreversibly clears the lead's personal fields. Compliance
// operation; a second call is a no-op.
func (s *LeadService) Anonymize(ctx context.Context, id string) (*domain.Lead, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceCompliance, domain.OpWrite); err != nil {
		return nil, err
	}

	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lead.Anonymize(now()) {
		return lead, nil
	}
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditAnonymize, "lead", lead.ID,
		governance.EntityBranch(lead, caller), nil)
	return lead, nil
}
