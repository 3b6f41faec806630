package mocks

import (
	"context"

	"umrahportal/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockItineraryRepository struct {
	mock.Mock
}

func (m *MockItineraryRepository) Create(ctx context.Context, it *model.Itinerary) (*model.Itinerary, error) {
	args := m.Called(ctx, it)
	if f, ok := args.Get(0).(func(context.Context, *model.Itinerary) *model.Itinerary); ok {
		return f(ctx, it), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) FindByID(ctx context.Context, id string) (*model.Itinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) ListByPackage(ctx context.Context, packageID string) ([]model.Itinerary, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) ListByPackages(ctx context.Context, packageIDs []string) ([]model.Itinerary, error) {
	args := m.Called(ctx, packageIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Itinerary), args.Error(1)
}

func (m *MockItineraryRepository) UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
