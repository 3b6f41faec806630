package repository

import (
	"context"

	"umrahportal/internal/model"
)

// UserRepository persists portal accounts and their pilgrim profiles.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, p model.Profile) (*model.User, error)
	// UpdateRole moves a user from one role to another. It returns sql.ErrNoRows
	// when the user does not exist or no longer holds from.
	UpdateRole(ctx context.Context, id string, from, to model.Role) error
	ListByRole(ctx context.Context, role model.Role, pq PageQuery) (*PageResult[model.User], error)
}
