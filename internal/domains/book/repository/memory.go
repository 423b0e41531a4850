package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
)

// memoryRepository stores books in insertion order and populates authors
// from the author store on every read.
type memoryRepository struct {
	mu      sync.RWMutex
	books   []*book.Book
	byID    map[uuid.UUID]*book.Book
	byTitle map[string]struct{}

	authors author.Repository
}

// NewMemoryRepository returns an empty in-memory book store
func NewMemoryRepository(authors author.Repository) book.Repository {
	return &memoryRepository{
		byID:    make(map[uuid.UUID]*book.Book),
		byTitle: make(map[string]struct{}),
		authors: authors,
	}
}

func (r *memoryRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byTitle[b.Title]; exists {
		return nil, book.ErrDuplicateTitle
	}

	created := &book.Book{
		ID:        b.ID,
		Title:     b.Title,
		Published: b.Published,
		Genres:    slices.Clone(b.Genres),
		AuthorID:  b.AuthorID,
		CreatedAt: time.Now().UTC(),
	}
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}

	r.books = append(r.books, created)
	r.byID[created.ID] = created
	r.byTitle[created.Title] = struct{}{}

	return clone(created), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	r.mu.RLock()
	b, ok := r.byID[id]
	var found *book.Book
	if ok {
		found = clone(b)
	}
	r.mu.RUnlock()

	if !ok {
		return nil, book.ErrBookNotFound
	}
	if err := r.populate(ctx, found, map[uuid.UUID]*author.Author{}); err != nil {
		return nil, err
	}
	return found, nil
}

func (r *memoryRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.byTitle[title]
	return exists, nil
}

func (r *memoryRepository) List(ctx context.Context, filter book.Filter) ([]book.Book, error) {
	r.mu.RLock()
	matched := make([]*book.Book, 0, len(r.books))
	for _, b := range r.books {
		if matches(b, filter) {
			matched = append(matched, clone(b))
		}
	}
	r.mu.RUnlock()

	seen := make(map[uuid.UUID]*author.Author)
	books := make([]book.Book, 0, len(matched))
	for _, b := range matched {
		if err := r.populate(ctx, b, seen); err != nil {
			return nil, err
		}
		books = append(books, *b)
	}
	return books, nil
}

func (r *memoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.books)), nil
}

func (r *memoryRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, b := range r.books {
		if b.AuthorID == authorID {
			total++
		}
	}
	return total, nil
}

// populate resolves b.Author, memoizing lookups in seen
func (r *memoryRepository) populate(ctx context.Context, b *book.Book, seen map[uuid.UUID]*author.Author) error {
	if a, ok := seen[b.AuthorID]; ok {
		b.Author = a
		return nil
	}

	a, err := r.authors.GetByID(ctx, b.AuthorID)
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return fmt.Errorf("book %s references missing author %s: %w", b.ID, b.AuthorID, err)
		}
		return fmt.Errorf("failed to populate author: %w", err)
	}
	seen[b.AuthorID] = a
	b.Author = a
	return nil
}

func matches(b *book.Book, filter book.Filter) bool {
	if filter.AuthorID != nil && b.AuthorID != *filter.AuthorID {
		return false
	}
	if filter.Genre != "" && !slices.Contains(b.Genres, filter.Genre) {
		return false
	}
	return true
}

func clone(b *book.Book) *book.Book {
	c := *b
	c.Genres = slices.Clone(b.Genres)
	return &c
}
