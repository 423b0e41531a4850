package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	authorrepo "library-backend/internal/domains/author/repository"
	authorsvc "library-backend/internal/domains/author/service"
	"library-backend/internal/domains/book"
	bookrepo "library-backend/internal/domains/book/repository"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
)

type recordingSink struct {
	mu    sync.Mutex
	books []*book.Book
}

func (r *recordingSink) BookAdded(_ context.Context, b *book.Book) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = append(r.books, b)
}

type harness struct {
	authors author.Service
	books   book.Service
	sink    *recordingSink
}

func newHarness() *harness {
	authorStore := authorrepo.NewMemoryRepository()
	bookStore := bookrepo.NewMemoryRepository(authorStore)
	authors := authorsvc.NewAuthorService(authorStore, bookStore)
	sink := &recordingSink{}
	return &harness{
		authors: authors,
		books:   NewBookService(bookStore, authors, sink),
		sink:    sink,
	}
}

func authenticated() context.Context {
	return authctx.WithUser(context.Background(), &user.User{ID: uuid.New(), Username: "mluukkai"})
}

func strPtr(s string) *string { return &s }

func (h *harness) mustAdd(t *testing.T, title, authorName string, genres ...string) *book.Book {
	t.Helper()
	b, err := h.books.Add(authenticated(), book.AddBookRequest{
		Title: title, AuthorName: authorName, Published: 2000, Genres: genres,
	})
	require.NoError(t, err)
	return b
}

func TestBookService_AddScenario(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()

	_, err := h.authors.Create(ctx, author.CreateAuthorRequest{Name: "Jane Doe", Born: func() *int { v := 1975; return &v }()})
	require.NoError(t, err)

	b, err := h.books.Add(authenticated(), book.AddBookRequest{
		Title: "Valid Title", AuthorName: "Jane Doe", Published: 2020, Genres: []string{"x"},
	})
	require.NoError(t, err)
	require.NotNil(t, b.Author)
	assert.Equal(t, "Jane Doe", b.Author.Name)
	assert.Equal(t, 1975, *b.Author.Born)

	n, err := h.authors.BookCount(ctx, b.Author.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.Len(t, h.sink.books, 1)
	assert.Equal(t, b.ID, h.sink.books[0].ID)
}

func TestBookService_AddCreatesUnknownAuthorOnce(t *testing.T) {
	t.Parallel()

	h := newHarness()
	ctx := context.Background()

	first := h.mustAdd(t, "Selvä johtolanka", "Reijo Mäki", "crime")
	second := h.mustAdd(t, "Pimeyden tango", "Reijo Mäki", "crime")

	assert.Equal(t, first.Author.ID, second.Author.ID)
	assert.Nil(t, first.Author.Born)

	total, err := h.authors.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestBookService_AddRequiresAuthentication(t *testing.T) {
	t.Parallel()

	h := newHarness()

	_, err := h.books.Add(context.Background(), book.AddBookRequest{
		Title: "Valid Title", AuthorName: "Jane Doe", Published: 2020, Genres: []string{"x"},
	})
	require.ErrorIs(t, err, errs.ErrAuthRequired)

	books, err := h.books.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, books)
	authors, err := h.authors.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, authors)
	assert.Empty(t, h.sink.books)
}

func TestBookService_AddValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         book.AddBookRequest
		wantDetails []string
	}{
		{
			name:        "short title",
			req:         book.AddBookRequest{Title: "Abcd", AuthorName: "Jane Doe", Published: 2020},
			wantDetails: []string{"title"},
		},
		{
			name:        "short author name",
			req:         book.AddBookRequest{Title: "Valid Title", AuthorName: "Joe", Published: 2020},
			wantDetails: []string{"authorName"},
		},
		{
			name:        "duplicate title",
			req:         book.AddBookRequest{Title: "Clean Code", AuthorName: "Jane Doe", Published: 2020},
			wantDetails: []string{"title"},
		},
		{
			name:        "duplicate title and short author",
			req:         book.AddBookRequest{Title: "Clean Code", AuthorName: "Joe", Published: 2020},
			wantDetails: []string{"authorName", "title"},
		},
		{
			name:        "empty genre",
			req:         book.AddBookRequest{Title: "Valid Title", AuthorName: "Jane Doe", Published: 2020, Genres: []string{"x", " "}},
			wantDetails: []string{"genres"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness()
			h.mustAdd(t, "Clean Code", "Robert Martin", "refactoring")

			_, err := h.books.Add(authenticated(), tt.req)
			require.Error(t, err)

			var e *errs.Error
			require.True(t, errors.As(err, &e))
			assert.Equal(t, errs.KindValidation, e.Kind)
			assert.Len(t, e.Details, len(tt.wantDetails))
			for _, field := range tt.wantDetails {
				assert.Contains(t, e.Details, field)
			}

			total, err := h.books.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, total)

			authors, err := h.authors.Count(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, authors)
		})
	}
}

func TestBookService_List(t *testing.T) {
	t.Parallel()

	h := newHarness()
	h.mustAdd(t, "Clean Code", "Robert Martin", "refactoring")
	h.mustAdd(t, "Agile software development", "Robert Martin", "agile", "patterns", "design")
	h.mustAdd(t, "Refactoring, edition 2", "Martin Fowler", "refactoring")
	h.mustAdd(t, "Crime and punishment", "Fyodor Dostoevsky", "classic", "crime")

	tests := []struct {
		name string
		req  book.ListBooksRequest
		want []string
	}{
		{
			name: "all",
			want: []string{"Clean Code", "Agile software development", "Refactoring, edition 2", "Crime and punishment"},
		},
		{
			name: "by author",
			req:  book.ListBooksRequest{AuthorName: strPtr("Robert Martin")},
			want: []string{"Clean Code", "Agile software development"},
		},
		{
			name: "by genre",
			req:  book.ListBooksRequest{Genre: strPtr("refactoring")},
			want: []string{"Clean Code", "Refactoring, edition 2"},
		},
		{
			name: "author and genre",
			req:  book.ListBooksRequest{AuthorName: strPtr("Robert Martin"), Genre: strPtr("refactoring")},
			want: []string{"Clean Code"},
		},
		{
			name: "all genres sentinel",
			req:  book.ListBooksRequest{Genre: strPtr("All Genres")},
			want: []string{"Clean Code", "Agile software development", "Refactoring, edition 2", "Crime and punishment"},
		},
		{
			name: "unknown author is empty",
			req:  book.ListBooksRequest{AuthorName: strPtr("Nobody Here")},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books, err := h.books.List(context.Background(), tt.req)
			require.NoError(t, err)

			got := make([]string, 0, len(books))
			for _, b := range books {
				require.NotNil(t, b.Author)
				got = append(got, b.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
