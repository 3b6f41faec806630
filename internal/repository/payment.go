package repository

import (
	"context"
	"time"

	"umrahportal/internal/model"
)

// ReviewUpdate describes a guarded status change made by a reviewer or the gateway.
type ReviewUpdate struct {
	From       model.ReviewStatus
	To         model.ReviewStatus
	ReviewedBy string
	Note       string
	At         time.Time
}

// PaymentRepository persists payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *model.Payment) (*model.Payment, error)
	FindByID(ctx context.Context, id string) (*model.Payment, error)
	FindByOrderID(ctx context.Context, orderID string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Payment, error)
	// List filters by status; an empty status lists all.
	List(ctx context.Context, status model.ReviewStatus, pq PageQuery) (*PageResult[model.Payment], error)
	// ListPendingByMethod returns pending payments of one method, oldest first.
	ListPendingByMethod(ctx context.Context, method model.PaymentMethod, limit int) ([]model.Payment, error)
	// UpdateStatus applies u only if the row is still in u.From; otherwise sql.ErrNoRows.
	UpdateStatus(ctx context.Context, id string, u ReviewUpdate) error
	UpdateGatewayStatus(ctx context.Context, id string, gatewayStatus string) error
}
