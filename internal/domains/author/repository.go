package author

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for the Author collection.
// Implementations: memory, PostgreSQL, MongoDB.
type Repository interface {
	// Create inserts a new author and returns it with ID and timestamps.
	// Errors: ErrDuplicateName when the store already holds that name
	Create(ctx context.Context, a *Author) (*Author, error)

	// GetByID / GetByName return ErrAuthorNotFound if absent
	GetByID(ctx context.Context, id uuid.UUID) (*Author, error)
	GetByName(ctx context.Context, name string) (*Author, error)

	// List returns every author in insertion order
	List(ctx context.Context) ([]Author, error)

	Count(ctx context.Context) (int64, error)

	// UpdateBorn sets born on the author and returns the updated record.
	// Returns: ErrAuthorNotFound if absent
	UpdateBorn(ctx context.Context, id uuid.UUID, born int) (*Author, error)
}

// BookCounter is the part of the book store the author service needs for
// the derived bookCount field.
type BookCounter interface {
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}
