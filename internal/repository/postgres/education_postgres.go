package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const educationColumns = `id, title, category, content, video_url, order_index, created_at`

// EducationPostgres is a PostgreSQL implementation of repository.EducationRepository.
type EducationPostgres struct {
	db *sql.DB
}

func NewEducationPostgres(db *sql.DB) *EducationPostgres {
	return &EducationPostgres{db: db}
}

var _ repository.EducationRepository = (*EducationPostgres)(nil)

func scanEducation(s rowScanner) (*model.Education, error) {
	var e model.Education
	if err := s.Scan(&e.ID, &e.Title, &e.Category, &e.Content, &e.VideoURL, &e.OrderIndex, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EducationPostgres) Create(ctx context.Context, e *model.Education) (*model.Education, error) {
	const q = `
		INSERT INTO educations (id, title, category, content, video_url, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + educationColumns
	return scanEducation(r.db.QueryRowContext(ctx, q,
		e.ID, e.Title, e.Category, e.Content, e.VideoURL, e.OrderIndex, e.CreatedAt))
}

func (r *EducationPostgres) FindByID(ctx context.Context, id string) (*model.Education, error) {
	q := `SELECT ` + educationColumns + ` FROM educations WHERE id = $1`
	v, err := scanEducation(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

// List returns education content in display order, optionally for a single category.
func (r *EducationPostgres) List(ctx context.Context, category string, pq repository.PageQuery) (*repository.PageResult[model.Education], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM educations WHERE ($1::text = '' OR category = $1)`, category).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + educationColumns + ` FROM educations WHERE ($1::text = '' OR category = $1)
		ORDER BY order_index ASC, created_at ASC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, category, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Education, 0)
	for rows.Next() {
		e, err := scanEducation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Education]{Items: items, Total: total}, nil
}

func (r *EducationPostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM educations WHERE id = $1`, id)
	return err
}
