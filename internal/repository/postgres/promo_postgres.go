package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const promoColumns = `id, title, description, package_id, discount_percent, valid_from, valid_until, image_url, created_at`

// PromoPostgres is a PostgreSQL implementation of repository.PromoRepository.
type PromoPostgres struct {
	db *sql.DB
}

// NewPromoPostgres creates a new PromoPostgres repository.
func NewPromoPostgres(db *sql.DB) *PromoPostgres {
	return &PromoPostgres{db: db}
}

var _ repository.PromoRepository = (*PromoPostgres)(nil)

func scanPromo(s rowScanner) (*model.Promo, error) {
	var p model.Promo
	var from, until sql.NullTime
	if err := s.Scan(&p.ID, &p.Title, &p.Description, &p.PackageID, &p.DiscountPercent,
		&from, &until, &p.ImageURL, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ValidFrom = timeOrZero(from)
	p.ValidUntil = timeOrZero(until)
	return &p, nil
}

func (r *PromoPostgres) Create(ctx context.Context, p *model.Promo) (*model.Promo, error) {
	const q = `
		INSERT INTO promos (id, title, description, package_id, discount_percent, valid_from, valid_until, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + promoColumns
	return scanPromo(r.db.QueryRowContext(ctx, q,
		p.ID, p.Title, p.Description, p.PackageID, p.DiscountPercent,
		nullTime(p.ValidFrom), nullTime(p.ValidUntil), p.ImageURL, p.CreatedAt,
	))
}

func (r *PromoPostgres) FindByID(ctx context.Context, id string) (*model.Promo, error) {
	q := `SELECT ` + promoColumns + ` FROM promos WHERE id = $1`
	v, err := scanPromo(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

// List returns promos newest first. Validity is not filtered here.
func (r *PromoPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Promo], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM promos`).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + promoColumns + ` FROM promos ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, q, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Promo, 0)
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Promo]{Items: items, Total: total}, nil
}

func (r *PromoPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM promos WHERE id = $1`, id)
	return err
}
