package graphql

import (
	"context"

	graphqlgo "github.com/graph-gophers/graphql-go"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
)

type AuthorResolver struct {
	a       *author.Author
	authors author.Service
}

func (r *AuthorResolver) ID() graphqlgo.ID {
	return graphqlgo.ID(r.a.ID.String())
}

func (r *AuthorResolver) Name() string {
	return r.a.Name
}

func (r *AuthorResolver) Born() *int32 {
	if r.a.Born == nil {
		return nil
	}
	born := int32(*r.a.Born)
	return &born
}

// BookCount is computed on every read
func (r *AuthorResolver) BookCount(ctx context.Context) (int32, error) {
	total, err := r.authors.BookCount(ctx, r.a.ID)
	if err != nil {
		return 0, resolverError(err)
	}
	return int32(total), nil
}

type BookResolver struct {
	b       *book.Book
	authors author.Service
}

func (r *BookResolver) ID() graphqlgo.ID {
	return graphqlgo.ID(r.b.ID.String())
}

func (r *BookResolver) Title() string {
	return r.b.Title
}

func (r *BookResolver) Published() int32 {
	return int32(r.b.Published)
}

// Author is always populated by the store; a bare id falls back to the
// id alone so the non-null field still resolves.
func (r *BookResolver) Author() *AuthorResolver {
	a := r.b.Author
	if a == nil {
		a = &author.Author{ID: r.b.AuthorID}
	}
	return &AuthorResolver{a: a, authors: r.authors}
}

func (r *BookResolver) Genres() []string {
	if r.b.Genres == nil {
		return []string{}
	}
	return r.b.Genres
}

type UserResolver struct {
	u *user.User
}

func (r *UserResolver) ID() graphqlgo.ID {
	return graphqlgo.ID(r.u.ID.String())
}

func (r *UserResolver) Username() string {
	return r.u.Username
}

func (r *UserResolver) FavoriteGenre() string {
	return r.u.FavoriteGenre
}

type TokenResolver struct {
	t *user.Token
}

func (r *TokenResolver) Value() string {
	return r.t.Value
}
