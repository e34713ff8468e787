// Package directory implements branch directory management.
package directory

import (
	"context"
	"time"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
)

// BranchService manages branch records. Branch visibility follows the
// caller's resolved scope like any tenant data; writes are reserved for
// super admins via the permission table.
type BranchService struct {
	branches domain.BranchRepository
	resolver *security.BranchResolver
	recorder *governance.Recorder
}

// NewBranchService creates a new BranchService.
func NewBranchService(branches domain.BranchRepository, resolver *security.BranchResolver, recorder *governance.Recorder) *BranchService {
	return &BranchService{branches: branches, resolver: resolver, recorder: recorder}
}

// List returns the branches inside the caller's scope.
func (s *BranchService) List(ctx context.Context, page domain.PageRequest) ([]domain.Branch, int64, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceBranches, domain.OpRead); err != nil {
		return nil, 0, err
	}
	return s.branches.List(ctx, s.resolver.Resolve(ctx, caller), page)
}

// Get returns one branch when it falls inside the caller's scope.
func (s *BranchService) Get(ctx context.Context, id string) (*domain.Branch, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceBranches, domain.OpRead); err != nil {
		return nil, err
	}
	b, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.inScope(ctx, caller, b) {
		return nil, domain.ErrNotFound("branch %s not found", id)
	}
	return b, nil
}

func (s *BranchService) inScope(ctx context.Context, caller *domain.User, b *domain.Branch) bool {
	scope := s.resolver.Resolve(ctx, caller)
	switch scope.Kind {
	case domain.ScopeGlobal:
		return true
	case domain.ScopeBranch:
		return b.ID == scope.BranchID
	case domain.ScopeCountry:
		return b.Country == scope.Country
	default:
		return false
	}
}

// Create opens a new branch.
func (s *BranchService) Create(ctx context.Context, req domain.CreateBranchRequest) (*domain.Branch, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceBranches, domain.OpWrite); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := &domain.Branch{
		Code:        req.Code,
		Name:        req.Name,
		Country:     req.Country,
		Currency:    req.Currency,
		Timezone:    req.Timezone,
		IsHQ:        req.IsHQ,
		OpeningTime: "09:00",
		ClosingTime: "18:00",
		IsActive:    true,
	}
	if b.Currency == "" {
		b.Currency = "GBP"
	}
	if b.Timezone == "" {
		b.Timezone = "UTC"
	}
	if req.OpeningTime != nil {
		b.OpeningTime = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		b.ClosingTime = *req.ClosingTime
	}

	created, err := s.branches.Create(ctx, b)
	if err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditCreate, "branch", created.ID, &created.ID,
		map[string]any{"code": req.Code, "name": req.Name, "country": req.Country})
	return created, nil
}

// Update patches a branch.
func (s *BranchService) Update(ctx context.Context, id string, req domain.UpdateBranchRequest) (*domain.Branch, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceBranches, domain.OpWrite); err != nil {
		return nil, err
	}

	b, err := s.branches.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Name != nil {
		b.Name = *req.Name
		changes["name"] = *req.Name
	}
	if req.Currency != nil {
		b.Currency = *req.Currency
		changes["currency"] = *req.Currency
	}
	if req.Timezone != nil {
		b.Timezone = *req.Timezone
		changes["timezone"] = *req.Timezone
	}
	if req.OpeningTime != nil {
		b.OpeningTime = *req.OpeningTime
		changes["opening_time"] = *req.OpeningTime
	}
	if req.ClosingTime != nil {
		b.ClosingTime = *req.ClosingTime
		changes["closing_time"] = *req.ClosingTime
	}
	if req.IsActive != nil {
		b.IsActive = *req.IsActive
		changes["is_active"] = *req.IsActive
	}
	b.UpdatedAt = time.Now().UTC()

	if err := s.branches.Update(ctx, b); err != nil {
		return nil, err
	}
	s.recorder.Record(ctx, domain.AuditUpdate, "branch", b.ID, &b.ID, changes)
	return b, nil
}
