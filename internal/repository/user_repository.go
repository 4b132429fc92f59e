package repository

import (
	"context"

	"newswire/internal/domain/entity"
)

type UserRepository interface {
	// FindByUsername retrieves a user by username.
	// Returns (nil, nil) if no such user exists.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	// Create inserts a new user with a hashed password and assigns the id.
	// Returns entity.ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, user *entity.User) error
}
