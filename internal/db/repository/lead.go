package repository

import (
	"context"
	"database/sql"
	"time"

	"visacrm/internal/domain"
)

const leadColumns = `id, branch_id, is_deleted, deleted_at, is_anonymized,
	anonymized_at, created_at, updated_at, first_name, last_name, email,
	phone, notes, status, counselor_id`

type LeadRepo struct {
	db *sql.DB
}

func NewLeadRepo(db *sql.DB) *LeadRepo {
	return &LeadRepo{db: db}
}

var _ domain.LeadRepository = (*LeadRepo)(nil)

func (r *LeadRepo) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leads (id, branch_id, is_deleted, deleted_at, is_anonymized,
			anonymized_at, created_at, updated_at, first_name, last_name, email,
			phone, notes, status, counselor_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, nullString(l.BranchID), boolToInt(l.IsDeleted), nullTime(l.DeletedAt),
		boolToInt(l.IsAnonymized), nullTime(l.AnonymizedAt), l.CreatedAt, l.UpdatedAt,
		l.FirstName, l.LastName, l.Email, nullString(l.Phone), nullString(l.Notes),
		string(l.Status), nullString(l.CounselorID))
	if err != nil {
		return nil, mapDBError(err)
	}
	return l, nil
}

func (r *LeadRepo) GetByID(ctx context.Context, id string) (*domain.Lead, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

func (r *LeadRepo) List(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Lead, int64, error) {
	clause, args := visibilityPredicate(filter, "counselor_id")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM leads WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE `+clause+
			` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		leads = append(leads, *l)
	}
	return leads, total, rows.Err()
}

func (r *LeadRepo) Update(ctx context.Context, l *domain.Lead) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE leads SET branch_id = ?, is_deleted = ?, deleted_at = ?,
			is_anonymized = ?, anonymized_at = ?, updated_at = ?,
			first_name = ?, last_name = ?, email = ?, phone = ?, notes = ?,
			status = ?, counselor_id = ?
		WHERE id = ?`,
		nullString(l.BranchID), boolToInt(l.IsDeleted), nullTime(l.DeletedAt),
		boolToInt(l.IsAnonymized), nullTime(l.AnonymizedAt), l.UpdatedAt,
		l.FirstName, l.LastName, l.Email, nullString(l.Phone), nullString(l.Notes),
		string(l.Status), nullString(l.CounselorID), l.ID)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return domain.ErrNotFound("lead %s not found", l.ID)
	}
	return err
}

func (r *LeadRepo) ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Lead, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads
		 WHERE is_deleted = 1 AND is_anonymized = 0
		   AND deleted_at IS NOT NULL AND deleted_at < ?
		 ORDER BY deleted_at LIMIT ?`,
		cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *l)
	}
	return leads, rows.Err()
}

func scanLead(row rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var branchID, phone, notes, counselorID sql.NullString
	var deletedAt, anonymizedAt sql.NullTime
	var isDeleted, isAnonymized int64
	var status string
	err := row.Scan(&l.ID, &branchID, &isDeleted, &deletedAt, &isAnonymized,
		&anonymizedAt, &l.CreatedAt, &l.UpdatedAt, &l.FirstName, &l.LastName,
		&l.Email, &phone, &notes, &status, &counselorID)
	if err != nil {
		return nil, mapDBError(err)
	}
	l.BranchID = stringPtr(branchID)
	l.IsDeleted = isDeleted != 0
	l.DeletedAt = timePtr(deletedAt)
	l.IsAnonymized = isAnonymized != 0
	l.AnonymizedAt = timePtr(anonymizedAt)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	l.Phone = stringPtr(phone)
	l.Notes = stringPtr(notes)
	l.Status = domain.LeadStatus(status)
	l.CounselorID = stringPtr(counselorID)
	return &l, nil
}
