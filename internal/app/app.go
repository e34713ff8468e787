// Package app provides application-level wiring and dependency injection
// for the CRM backend following hexagonal architecture.
package app

import (
	"database/sql"
	"log/slog"

	"visacrm/internal/config"
	"visacrm/internal/db/repository"
	"visacrm/internal/domain"
	"visacrm/internal/service/compliance"
	"visacrm/internal/service/crm"
	"visacrm/internal/service/directory"
	"visacrm/internal/service/governance"
	"visacrm/internal/service/security"
)

// Deps holds the external dependencies that main() must provide.
// These are things the app package cannot (or should not) create itself:
// database handles, config, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// Services groups all service pointers that the API handler and router need.
type Services struct {
	Branch  *directory.BranchService
	Lead    *crm.LeadService
	Student *crm.StudentService
	Audit   *governance.AuditService
	Sweeper *compliance.Sweeper
}

// App holds the fully-wired application: services, the scope resolver, and
// the repositories needed for router setup (UserRepo for auth middleware).
type App struct {
	Services Services
	Resolver *security.BranchResolver
	Users    domain.UserRepository
	Branches domain.BranchRepository
}

// New wires all repositories and services from the provided deps.
func New(deps Deps) *App {
	// === Repositories (write-pool) ===
	branchRepo := repository.NewBranchRepo(deps.WriteDB)
	leadRepo := repository.NewLeadRepo(deps.WriteDB)
	studentRepo := repository.NewStudentRepo(deps.WriteDB)
	auditRepo := repository.NewAuditRepo(deps.WriteDB)
	userRepo := repository.NewUserRepo(deps.WriteDB)

	// === Repositories (read-pool) ===
	// Audit listing is the one heavy read path; keep it off the single
	// write connection.
	auditReadRepo := repository.NewAuditRepo(deps.ReadDB)

	// === Security ===
	resolver := security.NewBranchResolver(branchRepo, deps.Logger.With("component", "resolver"))
	recorder := governance.NewRecorder(auditRepo, deps.Logger.With("component", "audit"))

	// === Services ===
	branchSvc := directory.NewBranchService(branchRepo, resolver, recorder)
	leadSvc := crm.NewLeadService(leadRepo, branchRepo, resolver, recorder)
	studentSvc := crm.NewStudentService(studentRepo, leadRepo, branchRepo, resolver, recorder)
	auditSvc := governance.NewAuditService(auditReadRepo)

	retention := compliance.RetentionConfig{
		LeadWindow:    deps.Cfg.LeadRetention(),
		StudentWindow: deps.Cfg.StudentRetention(),
		BatchSize:     compliance.DefaultRetentionConfig().BatchSize,
	}
	sweeper := compliance.NewSweeper(leadRepo, studentRepo, recorder, retention, deps.Logger.With("component", "retention"))

	return &App{
		Services: Services{
			Branch:  branchSvc,
			Lead:    leadSvc,
			Student: studentSvc,
			Audit:   auditSvc,
			Sweeper: sweeper,
		},
		Resolver: resolver,
		Users:    userRepo,
		Branches: branchRepo,
	}
}
