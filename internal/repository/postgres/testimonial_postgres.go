package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const testimonialColumns = `id, user_id, name, package_id, rating, content, status, created_at`

// TestimonialPostgres is a PostgreSQL implementation of repository.TestimonialRepository.
type TestimonialPostgres struct {
	db *sql.DB
}

func NewTestimonialPostgres(db *sql.DB) *TestimonialPostgres {
	return &TestimonialPostgres{db: db}
}

var _ repository.TestimonialRepository = (*TestimonialPostgres)(nil)

func scanTestimonial(s rowScanner) (*model.Testimonial, error) {
	var t model.Testimonial
	var status string
	if err := s.Scan(&t.ID, &t.UserID, &t.Name, &t.PackageID, &t.Rating, &t.Content, &status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Status = model.ReviewStatus(status)
	return &t, nil
}

func (r *TestimonialPostgres) Create(ctx context.Context, t *model.Testimonial) (*model.Testimonial, error) {
	const q = `
		INSERT INTO testimonials (id, user_id, name, package_id, rating, content, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + testimonialColumns
	return scanTestimonial(r.db.QueryRowContext(ctx, q,
		t.ID, t.UserID, t.Name, t.PackageID, t.Rating, t.Content, string(t.Status), t.CreatedAt))
}

func (r *TestimonialPostgres) FindByID(ctx context.Context, id string) (*model.Testimonial, error) {
	q := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE id = $1`
	v, err := scanTestimonial(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

func (r *TestimonialPostgres) List(ctx context.Context, status model.ReviewStatus, pq repository.PageQuery) (*repository.PageResult[model.Testimonial], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM testimonials WHERE ($1::text = '' OR status = $1)`, string(status)).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + testimonialColumns + ` FROM testimonials WHERE ($1::text = '' OR status = $1)
		ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, string(status), pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Testimonial, 0)
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Testimonial]{Items: items, Total: total}, nil
}

// UpdateStatus moves a testimonial from one status to another; sql.ErrNoRows if it already moved.
func (r *TestimonialPostgres) UpdateStatus(ctx context.Context, id string, from, to model.ReviewStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE testimonials SET status = $3 WHERE id = $1 AND status = $2`, id, string(from), string(to))
	if err != nil {
		return err
	}
	return affectedOrNoRows(res)
}
