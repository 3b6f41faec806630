package mocks

import (
	"context"

	"umrahportal/internal/model"
	"umrahportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockItineraryService struct {
	mock.Mock
}

func (m *MockItineraryService) ListForPackage(ctx context.Context, idOrSlug string) ([]model.Itinerary, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Itinerary), args.Error(1)
}

func (m *MockItineraryService) Get(ctx context.Context, id string) (*model.Itinerary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Itinerary), args.Error(1)
}

func (m *MockItineraryService) Create(ctx context.Context, it model.Itinerary) (*model.Itinerary, error) {
	args := m.Called(ctx, it)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Itinerary), args.Error(1)
}

func (m *MockItineraryService) UpdateStatus(ctx context.Context, id string, status model.ItineraryStatus) (*model.Itinerary, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Itinerary), args.Error(1)
}

func (m *MockItineraryService) MyItineraries(ctx context.Context, actor service.Actor) ([]model.Itinerary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Itinerary), args.Error(1)
}
