// Package repository implements domain repository interfaces using SQLite.
package repository

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"visacrm/internal/domain"
)

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func mapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Message: "resource not found"}
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return &domain.ConflictError{Message: "resource already exists"}
	}
	return err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

// scopePredicate compiles a BranchScope into a WHERE fragment over a tenant
// table's branch_id column, so row filtering happens in SQL. The returned
// fragment always evaluates to a boolean; ScopeNone compiles to a constant
// false so callers need no special case.
func scopePredicate(scope domain.BranchScope, column string) (string, []any) {
	switch scope.Kind {
	case domain.ScopeGlobal:
		return "1 = 1", nil
	case domain.ScopeBranch:
		return column + " = ?", []any{scope.BranchID}
	case domain.ScopeCountry:
		return column + " IN (SELECT id FROM branches WHERE country = ?)", []any{scope.Country}
	default:
		return "1 = 0", nil
	}
}

// visibilityPredicate compiles the full VisibilityFilter (scope, soft-delete
// exclusion, ownership narrowing) for a tenant table.
func visibilityPredicate(f domain.VisibilityFilter, ownerColumn string) (string, []any) {
	clause, args := scopePredicate(f.Scope, "branch_id")
	if !f.IncludeDeleted {
		clause += " AND is_deleted = 0"
	}
	if f.OwnerID != nil && ownerColumn != "" {
		clause += " AND " + ownerColumn + " = ?"
		args = append(args, *f.OwnerID)
	}
	return clause, args
}
