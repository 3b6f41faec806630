package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const upgradeColumns = `id, user_id, package_id, from_role, to_role, status, note, reviewed_by, reviewed_at, created_at`

// UpgradeRequestPostgres is a PostgreSQL implementation of repository.UpgradeRequestRepository.
type UpgradeRequestPostgres struct {
	db *sql.DB
}

func NewUpgradeRequestPostgres(db *sql.DB) *UpgradeRequestPostgres {
	return &UpgradeRequestPostgres{db: db}
}

var _ repository.UpgradeRequestRepository = (*UpgradeRequestPostgres)(nil)

func scanUpgrade(s rowScanner) (*model.UpgradeRequest, error) {
	var u model.UpgradeRequest
	var from, to, status string
	var reviewedAt sql.NullTime
	if err := s.Scan(&u.ID, &u.UserID, &u.PackageID, &from, &to, &status, &u.Note, &u.ReviewedBy,
		&reviewedAt, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.FromRole = model.Role(from)
	u.ToRole = model.Role(to)
	u.Status = model.ReviewStatus(status)
	u.ReviewedAt = timePtr(reviewedAt)
	return &u, nil
}

func (r *UpgradeRequestPostgres) Create(ctx context.Context, u *model.UpgradeRequest) (*model.UpgradeRequest, error) {
	const q = `
		INSERT INTO upgrade_requests (id, user_id, package_id, from_role, to_role, status, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + upgradeColumns
	stored, err := scanUpgrade(r.db.QueryRowContext(ctx, q,
		u.ID, u.UserID, u.PackageID, string(u.FromRole), string(u.ToRole), string(u.Status), u.Note, u.CreatedAt))
	return stored, mapWriteErr(err)
}

func (r *UpgradeRequestPostgres) FindByID(ctx context.Context, id string) (*model.UpgradeRequest, error) {
	q := `SELECT ` + upgradeColumns + ` FROM upgrade_requests WHERE id = $1`
	v, err := scanUpgrade(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

func (r *UpgradeRequestPostgres) FindPendingByUser(ctx context.Context, userID string) (*model.UpgradeRequest, error) {
	q := `SELECT ` + upgradeColumns + ` FROM upgrade_requests WHERE user_id = $1 AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`
	return scanUpgrade(r.db.QueryRowContext(ctx, q, userID))
}

func (r *UpgradeRequestPostgres) List(ctx context.Context, status model.ReviewStatus, pq repository.PageQuery) (*repository.PageResult[model.UpgradeRequest], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM upgrade_requests WHERE ($1::text = '' OR status = $1)`, string(status)).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + upgradeColumns + ` FROM upgrade_requests WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, string(status), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.UpgradeRequest, 0)
	for rows.Next() {
		u, err := scanUpgrade(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.UpgradeRequest]{Items: items, Total: total}, nil
}

func (r *UpgradeRequestPostgres) UpdateStatus(ctx context.Context, id string, u repository.ReviewUpdate) error {
	const q = `
		UPDATE upgrade_requests SET status = $3, reviewed_by = $4, note = $5, reviewed_at = $6
		WHERE id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, q, id, string(u.From), string(u.To), u.ReviewedBy, u.Note, u.At)
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
