package mocks

import (
	"context"

	"umrahportal/internal/model"
	"umrahportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUpgradeService struct {
	mock.Mock
}

func (m *MockUpgradeService) AutoUpgradeAlumni(ctx context.Context, userID string) (*service.UpgradeResult, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpgradeResult), args.Error(1)
}

func (m *MockUpgradeService) CheckUpgrade(ctx context.Context, actor service.Actor) (*service.UpgradeResult, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UpgradeResult), args.Error(1)
}

func (m *MockUpgradeService) RequestUpgrade(ctx context.Context, actor service.Actor, packageID, note string) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, actor, packageID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}

func (m *MockUpgradeService) ReviewUpgrade(ctx context.Context, id string, in service.ReviewInput) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}

func (m *MockUpgradeService) ListUpgradeRequests(ctx context.Context, status model.ReviewStatus, limit, offset int) (*service.ListResult[model.UpgradeRequest], error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.UpgradeRequest]), args.Error(1)
}

func (m *MockUpgradeService) PendingRequest(ctx context.Context, userID string) (*model.UpgradeRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UpgradeRequest), args.Error(1)
}
