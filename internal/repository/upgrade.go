package repository

import (
	"context"

	"umrahportal/internal/model"
)

// UpgradeRequestRepository persists role upgrade requests.
type UpgradeRequestRepository interface {
	Create(ctx context.Context, r *model.UpgradeRequest) (*model.UpgradeRequest, error)
	FindByID(ctx context.Context, id string) (*model.UpgradeRequest, error)
	// FindPendingByUser returns sql.ErrNoRows when the user has no pending request.
	FindPendingByUser(ctx context.Context, userID string) (*model.UpgradeRequest, error)
	List(ctx context.Context, status model.ReviewStatus, pq PageQuery) (*PageResult[model.UpgradeRequest], error)
	UpdateStatus(ctx context.Context, id string, u ReviewUpdate) error
}
