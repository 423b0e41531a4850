package user

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateUserRequest - createUser(username, favoriteGenre)
type CreateUserRequest struct {
	Username      string `json:"username"`
	FavoriteGenre string `json:"favoriteGenre"`
}

// Normalize trims surrounding whitespace in place
func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.FavoriteGenre = strings.TrimSpace(r.FavoriteGenre)
}

func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username,
			validation.Required.Error("username is required"),
			validation.RuneLength(MinUsernameLength, MaxUsernameLength).Error("username must be 3-100 characters"),
		),
		validation.Field(&r.FavoriteGenre,
			validation.Required.Error("favorite genre is required"),
			validation.RuneLength(1, MaxGenreLength),
		),
	)
}

// LoginRequest - login(username, password)
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
