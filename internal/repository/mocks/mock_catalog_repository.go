package mocks

import (
	"context"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockPackageRepository struct {
	mock.Mock
}

func (m *MockPackageRepository) Create(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.TravelPackage) *model.TravelPackage); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) Update(ctx context.Context, p *model.TravelPackage) (*model.TravelPackage, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.TravelPackage) *model.TravelPackage); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) FindByID(ctx context.Context, id string) (*model.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) FindBySlug(ctx context.Context, slug string) (*model.TravelPackage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockPackageRepository) List(ctx context.Context, f repository.PackageFilter, pq repository.PageQuery) (*repository.PageResult[model.TravelPackage], error) {
	args := m.Called(ctx, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.TravelPackage]), args.Error(1)
}

func (m *MockPackageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPromoRepository struct {
	mock.Mock
}

func (m *MockPromoRepository) Create(ctx context.Context, p *model.Promo) (*model.Promo, error) {
	args := m.Called(ctx, p)
	if f, ok := args.Get(0).(func(context.Context, *model.Promo) *model.Promo); ok {
		return f(ctx, p), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promo), args.Error(1)
}

func (m *MockPromoRepository) FindByID(ctx context.Context, id string) (*model.Promo, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promo), args.Error(1)
}

func (m *MockPromoRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Promo], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Promo]), args.Error(1)
}

func (m *MockPromoRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEducationRepository struct {
	mock.Mock
}

func (m *MockEducationRepository) Create(ctx context.Context, e *model.Education) (*model.Education, error) {
	args := m.Called(ctx, e)
	if f, ok := args.Get(0).(func(context.Context, *model.Education) *model.Education); ok {
		return f(ctx, e), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Education), args.Error(1)
}

func (m *MockEducationRepository) FindByID(ctx context.Context, id string) (*model.Education, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Education), args.Error(1)
}

func (m *MockEducationRepository) List(ctx context.Context, category string, pq repository.PageQuery) (*repository.PageResult[model.Education], error) {
	args := m.Called(ctx, category, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Education]), args.Error(1)
}

func (m *MockEducationRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) Create(ctx context.Context, a *model.Article) (*model.Article, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(context.Context, *model.Article) *model.Article); ok {
		return f(ctx, a), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id string) (*model.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockArticleRepository) List(ctx context.Context, publishedOnly bool, pq repository.PageQuery) (*repository.PageResult[model.Article], error) {
	args := m.Called(ctx, publishedOnly, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Article]), args.Error(1)
}

func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTestimonialRepository struct {
	mock.Mock
}

func (m *MockTestimonialRepository) Create(ctx context.Context, t *model.Testimonial) (*model.Testimonial, error) {
	args := m.Called(ctx, t)
	if f, ok := args.Get(0).(func(context.Context, *model.Testimonial) *model.Testimonial); ok {
		return f(ctx, t), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Testimonial), args.Error(1)
}

func (m *MockTestimonialRepository) FindByID(ctx context.Context, id string) (*model.Testimonial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Testimonial), args.Error(1)
}

func (m *MockTestimonialRepository) List(ctx context.Context, status model.ReviewStatus, pq repository.PageQuery) (*repository.PageResult[model.Testimonial], error) {
	args := m.Called(ctx, status, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Testimonial]), args.Error(1)
}

func (m *MockTestimonialRepository) UpdateStatus(ctx context.Context, id string, from, to model.ReviewStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
