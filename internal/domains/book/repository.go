package book

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List. Zero value lists every book.
type Filter struct {
	AuthorID *uuid.UUID
	Genre    string
}

// Repository defines data access for the Book collection.
// Every returned Book has Author populated.
type Repository interface {
	// Create inserts the book. Errors: ErrDuplicateTitle
	Create(ctx context.Context, b *Book) (*Book, error)

	// GetByID returns ErrBookNotFound if absent
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)

	ExistsByTitle(ctx context.Context, title string) (bool, error)

	// List returns matching books in insertion order
	List(ctx context.Context, filter Filter) ([]Book, error)

	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}
