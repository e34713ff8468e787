package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"visacrm/internal/domain"
)

type AuditRepo struct {
	db *sql.DB
}

func NewAuditRepo(db *sql.DB) *AuditRepo {
	return &AuditRepo{db: db}
}

var _ domain.AuditRepository = (*AuditRepo)(nil)

func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	if e.ID == "" {
		e.ID = domain.NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	changes := "{}"
	if len(e.Changes) > 0 {
		raw, err := json.Marshal(e.Changes)
		if err == nil {
			changes = string(raw)
		}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, actor_id, actor_email, action, entity_type,
			entity_id, branch_id, request_id, changes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, nullString(e.ActorID), e.ActorEmail, string(e.Action), e.EntityType,
		e.EntityID, nullString(e.BranchID), e.RequestID, changes, e.CreatedAt)
	return mapDBError(err)
}

func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	clause := "1 = 1"
	var args []any
	if filter.ActorEmail != nil {
		clause += " AND actor_email = ?"
		args = append(args, *filter.ActorEmail)
	}
	if filter.Action != nil {
		clause += " AND action = ?"
		args = append(args, string(*filter.Action))
	}
	if filter.EntityType != nil {
		clause += " AND entity_type = ?"
		args = append(args, *filter.EntityType)
	}
	if filter.BranchID != nil {
		clause += " AND branch_id = ?"
		args = append(args, *filter.BranchID)
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_logs WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, actor_id, actor_email, action, entity_type, entity_id,
			branch_id, request_id, changes, created_at
		FROM audit_logs WHERE `+clause+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var actorID, branchID sql.NullString
		var action, changes string
		if err := rows.Scan(&e.ID, &actorID, &e.ActorEmail, &action, &e.EntityType,
			&e.EntityID, &branchID, &e.RequestID, &changes, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		e.ActorID = stringPtr(actorID)
		e.BranchID = stringPtr(branchID)
		e.Action = domain.AuditAction(action)
		e.CreatedAt = e.CreatedAt.UTC()
		if changes != "" {
			_ = json.Unmarshal([]byte(changes), &e.Changes)
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
