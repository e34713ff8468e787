package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"visacrm/internal/domain"
)

// SeedFile is the YAML document consumed by Seed. Branches are created
// before users so user branch references resolve by code.
type SeedFile struct {
	Branches []SeedBranch `yaml:"branches"`
	Users    []SeedUser   `yaml:"users"`
}

// SeedBranch describes one branch fixture.
type SeedBranch struct {
	Code        string `yaml:"code"`
	Name        string `yaml:"name"`
	Country     string `yaml:"country"`
	Currency    string `yaml:"currency"`
	Timezone    string `yaml:"timezone"`
	IsHQ        bool   `yaml:"is_hq"`
	OpeningTime string `yaml:"opening_time"`
	ClosingTime string `yaml:"closing_time"`
}

// SeedUser describes one staff user fixture. BranchCode references a branch
// from the same file (or one already in the database).
type SeedUser struct {
	Email       string `yaml:"email"`
	FirstName   string `yaml:"first_name"`
	LastName    string `yaml:"last_name"`
	Role        string `yaml:"role"`
	IsSuperuser bool   `yaml:"is_superuser"`
	BranchCode  string `yaml:"branch_code"`
}

// Seed loads branch and user fixtures from a YAML file. Idempotent: rows
// whose unique key (branch code, user email) already exists are skipped.
func Seed(ctx context.Context, a *App, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	now := time.Now().UTC()

	branchIDs := make(map[string]string, len(file.Branches))
	for _, sb := range file.Branches {
		existing, err := a.Branches.GetByCode(ctx, sb.Code)
		if err == nil {
			branchIDs[sb.Code] = existing.ID
			continue
		}
		var notFound *domain.NotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("lookup branch %s: %w", sb.Code, err)
		}

		b := &domain.Branch{
			ID:          domain.NewID(),
			Code:        sb.Code,
			Name:        sb.Name,
			Country:     sb.Country,
			Currency:    orDefault(sb.Currency, "GBP"),
			Timezone:    orDefault(sb.Timezone, "UTC"),
			IsHQ:        sb.IsHQ,
			OpeningTime: orDefault(sb.OpeningTime, "09:00"),
			ClosingTime: orDefault(sb.ClosingTime, "18:00"),
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		created, err := a.Branches.Create(ctx, b)
		if err != nil {
			return fmt.Errorf("create branch %s: %w", sb.Code, err)
		}
		branchIDs[sb.Code] = created.ID
	}

	for _, su := range file.Users {
		if _, err := a.Users.GetByEmail(ctx, su.Email); err == nil {
			continue
		} else {
			var notFound *domain.NotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("lookup user %s: %w", su.Email, err)
			}
		}

		role := domain.Role(su.Role)
		if !role.Valid() {
			return fmt.Errorf("user %s: unknown role %q", su.Email, su.Role)
		}

		u := &domain.User{
			ID:          domain.NewID(),
			Email:       su.Email,
			FirstName:   su.FirstName,
			LastName:    su.LastName,
			Role:        role,
			IsSuperuser: su.IsSuperuser,
			IsActive:    true,
		}
		if su.BranchCode != "" {
			id, ok := branchIDs[su.BranchCode]
			if !ok {
				b, err := a.Branches.GetByCode(ctx, su.BranchCode)
				if err != nil {
					return fmt.Errorf("user %s: branch code %q: %w", su.Email, su.BranchCode, err)
				}
				id = b.ID
			}
			u.BranchID = &id
		}
		if _, err := a.Users.Create(ctx, u); err != nil {
			return fmt.Errorf("create user %s: %w", su.Email, err)
		}
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
