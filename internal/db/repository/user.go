package repository

import (
	"context"
	"database/sql"
	"time"

	"visacrm/internal/domain"
)

const userColumns = `id, email, first_name, last_name, role, is_superuser,
	is_active, branch_id, created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	if u.ID == "" {
		u.ID = domain.NewID()
	}
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, first_name, last_name, role, is_superuser,
			is_active, branch_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FirstName, u.LastName, string(u.Role),
		boolToInt(u.IsSuperuser), boolToInt(u.IsActive), nullString(u.BranchID), now, now)
	if err != nil {
		return nil, mapDBError(err)
	}
	return u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (r *UserRepo) List(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.User, int64, error) {
	clause, args := scopePredicate(scope, "branch_id")

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+clause+
			` ORDER BY email LIMIT ? OFFSET ?`,
		append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var role string
	var isSuperuser, isActive int64
	var branchID sql.NullString
	var createdAt, updatedAt time.Time
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &role,
		&isSuperuser, &isActive, &branchID, &createdAt, &updatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	u.Role = domain.Role(role)
	u.IsSuperuser = isSuperuser != 0
	u.IsActive = isActive != 0
	u.BranchID = stringPtr(branchID)
	return &u, nil
}
