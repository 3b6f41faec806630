package mocks

import (
	"context"

	"umrahportal/internal/model"
	"umrahportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) Me(ctx context.Context, actor service.Actor) (*model.User, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockProfileService) GetProfile(ctx context.Context, actor service.Actor) (*service.ProfileView, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileView), args.Error(1)
}

func (m *MockProfileService) UpdateProfile(ctx context.Context, actor service.Actor, p model.Profile) (*service.ProfileView, error) {
	args := m.Called(ctx, actor, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileView), args.Error(1)
}

func (m *MockProfileService) Completeness(ctx context.Context, actor service.Actor) (*service.Completeness, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Completeness), args.Error(1)
}
