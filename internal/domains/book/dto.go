package book

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/domains/author"
)

// ListBooksRequest - allBooks(authorName?, genre?)
type ListBooksRequest struct {
	AuthorName *string
	Genre      *string
}

// GenreFilter returns the genre to filter on, or "" when the request
// means every genre.
func (r ListBooksRequest) GenreFilter() string {
	if r.Genre == nil {
		return ""
	}
	g := strings.TrimSpace(*r.Genre)
	if strings.EqualFold(g, AllGenres) {
		return ""
	}
	return g
}

// AuthorFilter returns the trimmed author name and whether one was given
func (r ListBooksRequest) AuthorFilter() (string, bool) {
	if r.AuthorName == nil {
		return "", false
	}
	return author.NormalizeName(*r.AuthorName), true
}

// AddBookRequest - addBook(title, authorName, published, genres)
type AddBookRequest struct {
	Title      string   `json:"title"`
	AuthorName string   `json:"authorName"`
	Published  int      `json:"published"`
	Genres     []string `json:"genres"`
}

// Normalize trims title, author name and genres in place
func (r *AddBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.AuthorName = author.NormalizeName(r.AuthorName)
	genres := make([]string, 0, len(r.Genres))
	for _, g := range r.Genres {
		genres = append(genres, strings.TrimSpace(g))
	}
	r.Genres = genres
}

// Validate checks the shape rules. Title uniqueness needs the store and
// is checked by the service.
func (r AddBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.RuneLength(MinTitleLength, MaxTitleLength).Error("title must be at least 5 characters"),
		),
		validation.Field(&r.AuthorName,
			validation.Required.Error("author name is required"),
			validation.RuneLength(author.MinNameLength, author.MaxNameLength).Error("author name must be at least 4 characters"),
		),
		validation.Field(&r.Genres,
			validation.Each(validation.Required.Error("genre must not be empty")),
		),
	)
}
