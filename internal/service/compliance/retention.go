// Package compliance implements the GDPR retention sweep: rows that stayed
// soft-deleted past their retention window are anonymized in place.
package compliance

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"visacrm/internal/domain"
	"visacrm/internal/service/governance"
)

// RetentionConfig holds per-entity retention windows.
type RetentionConfig struct {
	LeadWindow    time.Duration // default 730 days
	StudentWindow time.Duration // default 2555 days
	BatchSize     int           // rows per entity per sweep run
}

// DefaultRetentionConfig mirrors the retention policy of the original
// deployment: two years for leads, seven for students.
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		LeadWindow:    730 * 24 * time.Hour,
		StudentWindow: 2555 * 24 * time.Hour,
		BatchSize:     500,
	}
}

// SweepResult counts the rows anonymized in one run.
type SweepResult struct {
	Leads    int `json:"leads"`
	Students int `json:"students"`
}

// Sweeper finds retention-expired rows and anonymizes them.
type Sweeper struct {
	leads    domain.LeadRepository
	students domain.StudentRepository
	recorder *governance.Recorder
	cfg      RetentionConfig
	logger   *slog.Logger
}

// NewSweeper creates a retention sweeper.
func NewSweeper(leads domain.LeadRepository, students domain.StudentRepository, recorder *governance.Recorder, cfg RetentionConfig, logger *slog.Logger) *Sweeper {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultRetentionConfig().BatchSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{leads: leads, students: students, recorder: recorder, cfg: cfg, logger: logger}
}

// Sweep anonymizes every row soft-deleted before its retention cutoff.
// Each row is a single atomic update; a failing row is logged and skipped so
// one bad record cannot stall the sweep.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	leads, err := s.leads.ListRetentionDue(ctx, now.Add(-s.cfg.LeadWindow), s.cfg.BatchSize)
	if err != nil {
		return result, err
	}
	for i := range leads {
		lead := &leads[i]
		if !lead.Anonymize(now) {
			continue
		}
		if err := s.leads.Update(ctx, lead); err != nil {
			s.logger.Error("retention sweep: lead anonymize failed", "lead_id", lead.ID, "error", err)
			continue
		}
		s.recorder.Record(ctx, domain.AuditAnonymize, "lead", lead.ID, lead.BranchID, nil)
		result.Leads++
	}

	students, err := s.students.ListRetentionDue(ctx, now.Add(-s.cfg.StudentWindow), s.cfg.BatchSize)
	if err != nil {
		return result, err
	}
	for i := range students {
		student := &students[i]
		if !student.Anonymize(now) {
			continue
		}
		if err := s.students.Update(ctx, student); err != nil {
			s.logger.Error("retention sweep: student anonymize failed", "student_id", student.ID, "error", err)
			continue
		}
		s.recorder.Record(ctx, domain.AuditAnonymize, "student", student.ID, student.BranchID, nil)
		result.Students++
	}

	s.logger.Info("retention sweep complete", "leads", result.Leads, "students", result.Students)
	return result, nil
}

// Schedule starts a cron schedule running the sweep. The returned cron must
// be stopped on shutdown.
func (s *Sweeper) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.Sweep(ctx, time.Now().UTC()); err != nil {
			s.logger.Error("scheduled retention sweep failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
