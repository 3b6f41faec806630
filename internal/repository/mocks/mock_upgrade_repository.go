package mocks

import (
	"context"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockUpgradeRequestRepository struct {
	mock.Mock
}

func (m *MockUpgradeRequestRepository) Create(ctx context.Context, r *model.UpgradeRequest) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, r)
	if f, ok := args.Get(0).(func(context.Context, *model.UpgradeRequest) *model.UpgradeRequest); ok {
		return f(ctx, r), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}

func (m *MockUpgradeRequestRepository) FindByID(ctx context.Context, id string) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}

func (m *MockUpgradeRequestRepository) FindPendingByUser(ctx context.Context, userID string) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}

func (m *MockUpgradeRequestRepository) List(ctx context.Context, status model.ReviewStatus, pq repository.PageQuery) (*repository.PageResult[model.UpgradeRequest], error) {
	args := m.Called(ctx, status, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.UpgradeRequest]), args.Error(1)
}

func (m *MockUpgradeRequestRepository) UpdateStatus(ctx context.Context, id string, u repository.ReviewUpdate) error {
	args := m.Called(ctx, id, u)
	return args.Error(0)
}
