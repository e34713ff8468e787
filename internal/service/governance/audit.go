package governance

import (
	"context"

	"visacrm/internal/domain"
	"visacrm/internal/service/security"
)

// AuditService provides read access to the audit log.
type AuditService struct {
	repo domain.AuditRepository
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo domain.AuditRepository) *AuditService {
	return &AuditService{repo: repo}
}

// List returns a filtered, paginated view of the audit log. Restricted to
// HQ compliance roles via the permission table.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	caller, err := security.Caller(ctx)
	if err != nil {
		return nil, 0, err
	}
	if err := domain.RequirePermission(caller, domain.ResourceAuditLogs, domain.OpRead); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, filter)
}
