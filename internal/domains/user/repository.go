package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for users
type Repository interface {
	// Create inserts the user. Errors: ErrUsernameTaken
	Create(ctx context.Context, u *User) (*User, error)

	// FindByID / FindByUsername return ErrUserNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}
