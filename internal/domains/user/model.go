package user

import (
	"time"

	"github.com/google/uuid"
)

// User is an API account. Users carry no password of their own; login is
// checked against the shared credential policy.
type User struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Username      string    `json:"username" db:"username"`
	FavoriteGenre string    `json:"favorite_genre" db:"favorite_genre"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Token is the result of a successful login
type Token struct {
	Value string `json:"value"`
}

// Constants for validation
const (
	MinUsernameLength = 3
	MaxUsernameLength = 100
	MaxGenreLength    = 100
)

// ReasonUsernameTaken is the details reason on a duplicate username
const ReasonUsernameTaken = "USERNAME_TAKEN"
