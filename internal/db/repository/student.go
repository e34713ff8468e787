package repository

import (
	"context"
	"database/sql"
	"time"

	"visacrm/internal/domain"
)

const studentColumns = `id, branch_id, is_deleted, deleted_at, is_anonymized,
	anonymized_at, created_at, updated_at, first_name, last_name, email,
	phone, passport_number, nationality, status, counselor_id, lead_id`

type StudentRepo struct {
	db *sql.DB
}

func NewStudentRepo(db *sql.DB) *StudentRepo {
	return &StudentRepo{db: db}
}

var _ domain.StudentRepository = (*StudentRepo)(nil)

func (r *StudentRepo) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO students (id, branch_id, is_deleted, deleted_at, is_anonymized,
			anonymized_at, created_at, updated_at, first_name, last_name, email,
			phone, passport_number, nationality, status, counselor_id, lead_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, nullString(s.BranchID), boolToInt(s.IsDeleted), nullTime(s.DeletedAt),
		boolToInt(s.IsAnonymized), nullTime(s.AnonymizedAt), s.CreatedAt, s.UpdatedAt,
		s.FirstName, s.LastName, s.Email, nullString(s.Phone),
		nullString(s.PassportNumber), nullString(s.Nationality), string(s.Status),
		nullString(s.CounselorID), nullString(s.LeadID))
	if err != nil {
		return nil, mapDBError(err)
	}
	return s, nil
}

func (r *StudentRepo) GetByID(ctx context.Context, id string) (*domain.Student, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE id = ?`, id)
	return scanStudent(row)
}

func (r *StudentRepo) List(ctx context.Context, filter domain.VisibilityFilter) ([]domain.Student, int64, error) {
	clause, args := visibilityPredicate(filter, "counselor_id")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM students WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE `+clause+
			` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, filter.Page.Limit(), filter.Page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	return students, total, rows.Err()
}

func (r *StudentRepo) Update(ctx context.Context, s *domain.Student) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET branch_id = ?, is_deleted = ?, deleted_at = ?,
			is_anonymized = ?, anonymized_at = ?, updated_at = ?,
			first_name = ?, last_name = ?, email = ?, phone = ?,
			passport_number = ?, nationality = ?, status = ?, counselor_id = ?,
			lead_id = ?
		WHERE id = ?`,
		nullString(s.BranchID), boolToInt(s.IsDeleted), nullTime(s.DeletedAt),
		boolToInt(s.IsAnonymized), nullTime(s.AnonymizedAt), s.UpdatedAt,
		s.FirstName, s.LastName, s.Email, nullString(s.Phone),
		nullString(s.PassportNumber), nullString(s.Nationality), string(s.Status),
		nullString(s.CounselorID), nullString(s.LeadID), s.ID)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return domain.ErrNotFound("student %s not found", s.ID)
	}
	return err
}

func (r *StudentRepo) ListRetentionDue(ctx context.Context, cutoff time.Time, limit int) ([]domain.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students
		 WHERE is_deleted = 1 AND is_anonymized = 0
		   AND deleted_at IS NOT NULL AND deleted_at < ?
		 ORDER BY deleted_at LIMIT ?`,
		cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []domain.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func scanStudent(row rowScanner) (*domain.Student, error) {
	var s domain.Student
	var branchID, phone, passport, nationality, counselorID, leadID sql.NullString
	var deletedAt, anonymizedAt sql.NullTime
	var isDeleted, isAnonymized int64
	var status string
	err := row.Scan(&s.ID, &branchID, &isDeleted, &deletedAt, &isAnonymized,
		&anonymizedAt, &s.CreatedAt, &s.UpdatedAt, &s.FirstName, &s.LastName,
		&s.Email, &phone, &passport, &nationality, &status, &counselorID, &leadID)
	if err != nil {
		return nil, mapDBError(err)
	}
	s.BranchID = stringPtr(branchID)
	s.IsDeleted = isDeleted != 0
	s.DeletedAt = timePtr(deletedAt)
	s.IsAnonymized = isAnonymized != 0
	s.AnonymizedAt = timePtr(anonymizedAt)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	s.Phone = stringPtr(phone)
	s.PassportNumber = stringPtr(passport)
	s.Nationality = stringPtr(nationality)
	s.Status = domain.StudentStatus(status)
	s.CounselorID = stringPtr(counselorID)
	s.LeadID = stringPtr(leadID)
	return &s, nil
}
