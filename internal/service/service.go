// Package service holds the portal use cases. Services validate input, enforce
// role rules and status transitions, and translate repository errors.
package service

import (
	"time"

	"umrahportal/internal/model"
	"umrahportal/internal/repository"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// now is the service clock. Tests replace it.
var now = func() time.Time { return time.Now().UTC() }

// Actor is the caller as identified by the upstream auth proxy.
type Actor struct {
	UserID string
	Email  string
	Role   model.Role
}

// IsAdmin reports whether the actor may use admin operations.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// ListResult is the service-level DTO for paginated listings.
type ListResult[T any] struct {
	Items []T `json:"data"`
	Total int `json:"total"`
}

// ReviewInput is an admin decision on a pending record.
type ReviewInput struct {
	Approve  bool
	Reviewer string
	Note     string
}

func (in ReviewInput) target() model.ReviewStatus {
	if in.Approve {
		return model.StatusApproved
	}
	return model.StatusRejected
}

func page(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

func fromPage[T any](res *repository.PageResult[T]) *ListResult[T] {
	return &ListResult[T]{Items: res.Items, Total: res.Total}
}

// paginate slices items the way LIMIT/OFFSET would.
func paginate[T any](items []T, pq repository.PageQuery) []T {
	if pq.Offset >= len(items) {
		return []T{}
	}
	end := pq.Offset + pq.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[pq.Offset:end]
}
