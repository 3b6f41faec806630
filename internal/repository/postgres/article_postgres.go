package postgres

import (
	"context"
	"database/sql"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const articleColumns = `id, title, slug, excerpt, content, cover_url, author, published, published_at, created_at`

// ArticlePostgres is a PostgreSQL implementation of repository.ArticleRepository.
type ArticlePostgres struct {
	db *sql.DB
}

func NewArticlePostgres(db *sql.DB) *ArticlePostgres {
	return &ArticlePostgres{db: db}
}

var _ repository.ArticleRepository = (*ArticlePostgres)(nil)

func scanArticle(s rowScanner) (*model.Article, error) {
	var a model.Article
	var publishedAt sql.NullTime
	if err := s.Scan(&a.ID, &a.Title, &a.Slug, &a.Excerpt, &a.Content, &a.CoverURL, &a.Author,
		&a.Published, &publishedAt, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.PublishedAt = timePtr(publishedAt)
	return &a, nil
}

func (r *ArticlePostgres) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	const q = `
		INSERT INTO articles (id, title, slug, excerpt, content, cover_url, author, published, published_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + articleColumns
	stored, err := scanArticle(r.db.QueryRowContext(ctx, q,
		a.ID, a.Title, a.Slug, a.Excerpt, a.Content, a.CoverURL, a.Author,
		a.Published, nullTimePtr(a.PublishedAt), a.CreatedAt))
	return stored, mapWriteErr(err)
}

func (r *ArticlePostgres) FindByID(ctx context.Context, id string) (*model.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	v, err := scanArticle(r.db.QueryRowContext(ctx, q, id))
	return v, mapReadErr(err)
}

func (r *ArticlePostgres) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE slug = $1`
	return scanArticle(r.db.QueryRowContext(ctx, q, slug))
}

// List returns articles, latest publication first.
func (r *ArticlePostgres) List(ctx context.Context, publishedOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Article], error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE ($1::boolean = FALSE OR published = TRUE)`, publishedOnly).Scan(&total); err != nil {
		return nil, err
	}
	q := `SELECT ` + articleColumns + ` FROM articles WHERE ($1::boolean = FALSE OR published = TRUE)
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, publishedOnly, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Article]{Items: items, Total: total}, nil
}

func (r *ArticlePostgres) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	return err
}
