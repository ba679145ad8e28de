package repository

import (
	"context"

	"roomly/pkg/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindAll(ctx context.Context) ([]*model.User, error)
	// EnsureProfile inserts profile when no user with its id exists, and
	// otherwise only refreshes last_login_at. created reports an insert.
	EnsureProfile(ctx context.Context, profile *model.User) (user *model.User, created bool, err error)
	UpdateDisplayName(ctx context.Context, id, displayName string) (*model.User, error)
	// IncrementBalance applies delta atomically and returns the new balance.
	IncrementBalance(ctx context.Context, id string, delta int64) (int64, error)
}
