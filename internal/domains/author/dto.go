package author

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateAuthorRequest - addAuthor(name, born?)
type CreateAuthorRequest struct {
	Name string `json:"name"`
	Born *int   `json:"born,omitempty"`
}

func (r CreateAuthorRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			validation.RuneLength(MinNameLength, MaxNameLength).Error("name must be 4-255 characters"),
		),
	)
}

// EditAuthorRequest - editAuthor(name, born)
type EditAuthorRequest struct {
	Name string `json:"name"`
	Born int    `json:"born"`
}

// NormalizeName trims surrounding whitespace; names are otherwise compared exactly.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
