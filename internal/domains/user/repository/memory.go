package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/user"
)

type memoryRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*user.User
	byUsername map[string]*user.User
}

// NewMemoryRepository returns an empty in-memory user store
func NewMemoryRepository() user.Repository {
	return &memoryRepository{
		byID:       make(map[uuid.UUID]*user.User),
		byUsername: make(map[string]*user.User),
	}
}

func (r *memoryRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[u.Username]; taken {
		return nil, user.ErrUsernameTaken
	}

	created := *u
	if created.ID == uuid.Nil {
		created.ID = uuid.New()
	}
	created.CreatedAt = time.Now().UTC()

	r.byID[created.ID] = &created
	r.byUsername[created.Username] = &created

	out := created
	return &out, nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *memoryRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byUsername[username]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	out := *u
	return &out, nil
}
