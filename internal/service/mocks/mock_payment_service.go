package mocks

import (
	"context"

	"umrahportal/internal/gateway"
	"umrahportal/internal/model"
	"umrahportal/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) SubmitPayment(ctx context.Context, actor service.Actor, in service.SubmitPaymentInput) (*model.Payment, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) StartGatewayPayment(ctx context.Context, actor service.Actor, packageID string) (*service.GatewayCheckout, error) {
	args := m.Called(ctx, actor, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.GatewayCheckout), args.Error(1)
}

func (m *MockPaymentService) ListMyPayments(ctx context.Context, actor service.Actor) ([]model.Payment, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, status model.ReviewStatus, limit, offset int) (*service.ListResult[model.Payment], error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListResult[model.Payment]), args.Error(1)
}

func (m *MockPaymentService) GetPayment(ctx context.Context, actor service.Actor, id string) (*model.Payment, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) ReviewPayment(ctx context.Context, id string, in service.ReviewInput) (*model.Payment, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Payment), args.Error(1)
}

func (m *MockPaymentService) HandleNotification(ctx context.Context, n gateway.Notification) (*service.NotificationResult, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.NotificationResult), args.Error(1)
}

func (m *MockPaymentService) ReconcilePending(ctx context.Context, limit int) (*service.ReconcileResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResult), args.Error(1)
}
