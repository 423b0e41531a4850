package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/metrics"
	"library-backend/pkg/cache"
)

const cacheName = "users"

// cachedRepository decorates a user.Repository with a read-through cache on
// FindByID, the lookup every authenticated request makes. Users are never
// mutated, so entries only expire. Concurrent misses for one id share a
// single store read.
type cachedRepository struct {
	user.Repository

	cache   cache.Cache
	ttl     time.Duration
	metrics *metrics.Metrics
	group   singleflight.Group
}

func NewCachedRepository(next user.Repository, c cache.Cache, ttl time.Duration, m *metrics.Metrics) user.Repository {
	return &cachedRepository{
		Repository: next,
		cache:      c,
		ttl:        ttl,
		metrics:    m,
	}
}

func cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (r *cachedRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := cacheKey(id)

	var cached user.User
	found, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		// cache trouble degrades to a store read
		log.Warn().Err(err).Str("key", key).Msg("[CACHE] Get failed")
	}
	r.metrics.CacheLookup(cacheName, found)
	if found {
		return &cached, nil
	}

	v, err, _ := r.group.Do(key, func() (interface{}, error) {
		u, err := r.Repository.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := r.cache.Set(ctx, key, u, r.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("[CACHE] Set failed")
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u := *v.(*user.User)
	return &u, nil
}
