package author

import (
	"context"

	"github.com/google/uuid"
)

// Service defines business operations on authors.
type Service interface {
	// Create persists a new author without a uniqueness pre-check.
	// Errors: ValidationError (short name, store-level duplicate), PersistenceFailure
	Create(ctx context.Context, req CreateAuthorRequest) (*Author, error)

	// FindOrCreate returns the author named name, creating it when absent.
	// A create that loses a concurrent race re-reads the winner.
	// Errors: PersistenceFailure when the author cannot be created
	FindOrCreate(ctx context.Context, name string) (*Author, error)

	// GetByName returns (nil, nil) when no author has that name
	GetByName(ctx context.Context, name string) (*Author, error)

	List(ctx context.Context) ([]Author, error)
	Count(ctx context.Context) (int, error)

	// EditBorn requires an authenticated user. Unknown name returns (nil, nil).
	EditBorn(ctx context.Context, req EditAuthorRequest) (*Author, error)

	// BookCount is the live number of books referencing the author
	BookCount(ctx context.Context, authorID uuid.UUID) (int, error)
}
