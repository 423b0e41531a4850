package author

import (
	"time"

	"github.com/google/uuid"
)

// Author represents the core Author entity.
// Born is nil until set through editAuthor or addAuthor.
type Author struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
	Born *int      `json:"born,omitempty" db:"born"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Constants for validation
const (
	MinNameLength = 4
	MaxNameLength = 255
)
