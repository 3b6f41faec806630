package repository

import (
	"context"

	"umrahportal/internal/model"
)

// PackageFilter narrows package listings. Zero values mean "any".
type PackageFilter struct {
	Category   model.PackageCategory
	Featured   bool
	ActiveOnly bool
}

// PackageRepository persists travel packages.
type PackageRepository interface {
	Create(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error)
	Update(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error)
	FindByID(ctx context.Context, id string) (*model.TravelPackage, error)
	FindBySlug(ctx context.Context, slug string) (*model.TravelPackage, error)
	List(ctx context.Context, f PackageFilter, pq PageQuery) (*PageResult[model.TravelPackage], error)
	Delete(ctx context.Context, id string) error
}

// PromoRepository persists promos. Validity windows are evaluated by callers.
type PromoRepository interface {
	Create(ctx context.Context, p *model.Promo) (*model.Promo, error)
	FindByID(ctx context.Context, id string) (*model.Promo, error)
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Promo], error)
	Delete(ctx context.Context, id string) error
}

// EducationRepository persists education content ordered by OrderIndex.
type EducationRepository interface {
	Create(ctx context.Context, e *model.Education) (*model.Education, error)
	FindByID(ctx context.Context, id string) (*model.Education, error)
	List(ctx context.Context, category string, pq PageQuery) (*PageResult[model.Education], error)
	Delete(ctx context.Context, id string) error
}

// ArticleRepository persists articles.
type ArticleRepository interface {
	Create(ctx context.Context, a *model.Article) (*model.Article, error)
	FindByID(ctx context.Context, id string) (*model.Article, error)
	FindBySlug(ctx context.Context, slug string) (*model.Article, error)
	List(ctx context.Context, publishedOnly bool, pq PageQuery) (*PageResult[model.Article], error)
	Delete(ctx context.Context, id string) error
}

// TestimonialRepository persists testimonials.
type TestimonialRepository interface {
	Create(ctx context.Context, t *model.Testimonial) (*model.Testimonial, error)
	FindByID(ctx context.Context, id string) (*model.Testimonial, error)
	// List filters by status; an empty status lists all.
	List(ctx context.Context, status model.ReviewStatus, pq PageQuery) (*PageResult[model.Testimonial], error)
	// UpdateStatus changes the status only if the row is still in from.
	UpdateStatus(ctx context.Context, id string, from, to model.ReviewStatus) error
}
