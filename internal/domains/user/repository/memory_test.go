package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/user"
)

func TestMemoryRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, &user.User{Username: "mluukkai", FavoriteGenre: "refactoring"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	_, err = repo.Create(ctx, &user.User{Username: "mluukkai", FavoriteGenre: "crime"})
	require.ErrorIs(t, err, user.ErrUsernameTaken)

	byID, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, byID)

	byName, err := repo.FindByUsername(ctx, "mluukkai")
	require.NoError(t, err)
	assert.Equal(t, "refactoring", byName.FavoriteGenre)

	_, err = repo.FindByUsername(ctx, "nobody")
	require.ErrorIs(t, err, user.ErrUserNotFound)
	_, err = repo.FindByID(ctx, uuid.New())
	require.ErrorIs(t, err, user.ErrUserNotFound)
}
