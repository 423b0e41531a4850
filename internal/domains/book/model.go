package book

import (
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/author"
)

// Book represents the core Book entity. Books are immutable after creation.
// Author is populated by every read path; AuthorID is what is stored.
type Book struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	Published int       `json:"published" db:"published"`
	Genres    []string  `json:"genres" db:"genres"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`

	Author *author.Author `json:"author,omitempty" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Constants for validation
const (
	MinTitleLength = 5
	MaxTitleLength = 500

	// AllGenres is the genre filter meaning "no genre filter"
	AllGenres = "all genres"
)
