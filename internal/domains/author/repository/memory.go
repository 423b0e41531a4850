package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/author"
)

// memoryRepository keeps authors in insertion order behind a RWMutex.
// Name uniqueness is enforced under the write lock.
type memoryRepository struct {
	mu      sync.RWMutex
	authors []*author.Author
	byID    map[uuid.UUID]*author.Author
	byName  map[string]*author.Author
}

// NewMemoryRepository returns an empty in-memory author store
func NewMemoryRepository() author.Repository {
	return &memoryRepository{
		byID:   make(map[uuid.UUID]*author.Author),
		byName: make(map[string]*author.Author),
	}
}

func (r *memoryRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[a.Name]; exists {
		return nil, author.ErrDuplicateName
	}

	created := &author.Author{
		ID:        a.ID,
		Name:      a.Name,
		Born:      copyInt(a.Born),
		CreatedAt: time.Now().UTC(),
	}
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}

	r.authors = append(r.authors, created)
	r.byID[created.ID] = created
	r.byName[created.Name] = created

	return clone(created), nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return clone(a), nil
}

func (r *memoryRepository) GetByName(ctx context.Context, name string) (*author.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	return clone(a), nil
}

func (r *memoryRepository) List(ctx context.Context) ([]author.Author, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	authors := make([]author.Author, 0, len(r.authors))
	for _, a := range r.authors {
		authors = append(authors, *clone(a))
	}
	return authors, nil
}

func (r *memoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.authors)), nil
}

func (r *memoryRepository) UpdateBorn(ctx context.Context, id uuid.UUID, born int) (*author.Author, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	a.Born = &born
	return clone(a), nil
}

func clone(a *author.Author) *author.Author {
	c := *a
	c.Born = copyInt(a.Born)
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
