package mocks

import (
	"context"
	"io"

	"umrahportal/internal/model"
	"umrahportal/internal/service"
	"umrahportal/internal/storage"

	"github.com/stretchr/testify/mock"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListPackages(ctx context.Context, q service.PackageQuery) (*service.ListResult[model.TravelPackage], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.TravelPackage]), args.Error(1)
}

func (m *MockCatalogService) GetPackage(ctx context.Context, idOrSlug string) (*model.TravelPackage, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockCatalogService) CreatePackage(ctx context.Context, p model.TravelPackage) (*model.TravelPackage, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockCatalogService) UpdatePackage(ctx context.Context, id string, p model.TravelPackage) (*model.TravelPackage, error) {
	args := m.Called(ctx, id, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TravelPackage), args.Error(1)
}

func (m *MockCatalogService) DeletePackage(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListPromos(ctx context.Context, activeOnly bool, limit, offset int) (*service.ListResult[model.Promo], error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Promo]), args.Error(1)
}

func (m *MockCatalogService) CreatePromo(ctx context.Context, p model.Promo) (*model.Promo, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Promo), args.Error(1)
}

func (m *MockCatalogService) DeletePromo(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalogService) ListEducation(ctx context.Context, category string, limit, offset int) (*service.ListResult[model.Education], error) {
	args := m.Called(ctx, category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Education]), args.Error(1)
}

func (m *MockCatalogService) GetEducation(ctx context.Context, id string) (*model.Education, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Education), args.Error(1)
}

func (m *MockCatalogService) CreateEducation(ctx context.Context, e model.Education) (*model.Education, error) {
	args := m.Called(ctx, e)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Education), args.Error(1)
}

func (m *MockCatalogService) ListArticles(ctx context.Context, limit, offset int) (*service.ListResult[model.Article], error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Article]), args.Error(1)
}

func (m *MockCatalogService) GetArticle(ctx context.Context, slug string) (*model.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockCatalogService) CreateArticle(ctx context.Context, a model.Article) (*model.Article, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Article), args.Error(1)
}

func (m *MockCatalogService) ListTestimonials(ctx context.Context, status model.ReviewStatus, limit, offset int) (*service.ListResult[model.Testimonial], error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Testimonial]), args.Error(1)
}

func (m *MockCatalogService) SubmitTestimonial(ctx context.Context, actor service.Actor, t model.Testimonial) (*model.Testimonial, error) {
	args := m.Called(ctx, actor, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Testimonial), args.Error(1)
}

func (m *MockCatalogService) ReviewTestimonial(ctx context.Context, id string, in service.ReviewInput) (*model.Testimonial, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Testimonial), args.Error(1)
}

func (m *MockCatalogService) UploadImage(ctx context.Context, kind string, r io.Reader, filename, contentType string, size int64) (*service.UploadedImage, error) {
	args := m.Called(ctx, kind, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadedImage), args.Error(1)
}

func (m *MockCatalogService) OpenMedia(ctx context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, storage.ObjectInfo{}, args.Error(2)
	}
	return args.Get(0).(io.ReadCloser), args.Get(1).(storage.ObjectInfo), args.Error(2)
}
