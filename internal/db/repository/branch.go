package repository

import (
	"context"
	"database/sql"
	"time"

	"visacrm/internal/domain"
)

const branchColumns = `id, code, name, country, currency, timezone, is_hq,
	opening_time, closing_time, is_active, created_at, updated_at`

type BranchRepo struct {
	db *sql.DB
}

func NewBranchRepo(db *sql.DB) *BranchRepo {
	return &BranchRepo{db: db}
}

var _ domain.BranchRepository = (*BranchRepo)(nil)

func (r *BranchRepo) Create(ctx context.Context, b *domain.Branch) (*domain.Branch, error) {
	now := time.Now().UTC()
	b.ID = domain.NewID()
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO branches (id, code, name, country, currency, timezone, is_hq,
			opening_time, closing_time, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Code, b.Name, b.Country, b.Currency, b.Timezone, boolToInt(b.IsHQ),
		b.OpeningTime, b.ClosingTime, boolToInt(b.IsActive), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return b, nil
}

func (r *BranchRepo) GetByID(ctx context.Context, id string) (*domain.Branch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE id = ?`, id)
	return scanBranch(row)
}

func (r *BranchRepo) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+branchColumns+` FROM branches WHERE code = ?`, code)
	return scanBranch(row)
}

func (r *BranchRepo) List(ctx context.Context, scope domain.BranchScope, page domain.PageRequest) ([]domain.Branch, int64, error) {
	// The branches table filters on its own columns: a branch scope matches
	// the row's id, a country scope the row's country.
	var clause string
	var args []any
	switch scope.Kind {
	case domain.ScopeGlobal:
		clause = "1 = 1"
	case domain.ScopeBranch:
		clause, args = "id = ?", []any{scope.BranchID}
	case domain.ScopeCountry:
		clause, args = "country = ?", []any{scope.Country}
	default:
		clause = "1 = 0"
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM branches WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + branchColumns + ` FROM branches WHERE ` + clause +
		` ORDER BY code LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, page.Limit(), page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var branches []domain.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, *b)
	}
	return branches, total, rows.Err()
}

func (r *BranchRepo) Update(ctx context.Context, b *domain.Branch) error {
	b.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		UPDATE branches SET code = ?, name = ?, country = ?, currency = ?,
			timezone = ?, is_hq = ?, opening_time = ?, closing_time = ?,
			is_active = ?, updated_at = ?
		WHERE id = ?`,
		b.Code, b.Name, b.Country, b.Currency, b.Timezone, boolToInt(b.IsHQ),
		b.OpeningTime, b.ClosingTime, boolToInt(b.IsActive), b.UpdatedAt, b.ID)
	if err != nil {
		return mapDBError(err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return domain.ErrNotFound("branch %s not found", b.ID)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBranch(row rowScanner) (*domain.Branch, error) {
	var b domain.Branch
	var isHQ, isActive int64
	err := row.Scan(&b.ID, &b.Code, &b.Name, &b.Country, &b.Currency, &b.Timezone,
		&isHQ, &b.OpeningTime, &b.ClosingTime, &isActive, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	b.IsHQ = isHQ != 0
	b.IsActive = isActive != 0
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return &b, nil
}
