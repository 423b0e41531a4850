package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
)

func intPtr(v int) *int { return &v }

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, &author.Author{Name: "Robert Martin", Born: intPtr(1952)})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	byID, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, byID)

	byName, err := repo.GetByName(ctx, "Robert Martin")
	require.NoError(t, err)
	require.Equal(t, created.ID, byName.ID)
	require.Equal(t, 1952, *byName.Born)

	_, err = repo.GetByName(ctx, "Nobody Here")
	require.ErrorIs(t, err, author.ErrAuthorNotFound)

	_, err = repo.GetByID(ctx, uuid.New())
	require.ErrorIs(t, err, author.ErrAuthorNotFound)
}

func TestMemoryRepository_DuplicateName(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Create(ctx, &author.Author{Name: "Martin Fowler"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &author.Author{Name: "Martin Fowler", Born: intPtr(1963)})
	require.ErrorIs(t, err, author.ErrDuplicateName)

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
}

func TestMemoryRepository_ListKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	names := []string{"Sandi Metz", "Fyodor Dostoevsky", "Joshua Kerievsky"}
	for _, name := range names {
		_, err := repo.Create(ctx, &author.Author{Name: name})
		require.NoError(t, err)
	}

	authors, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, authors, len(names))
	for i, a := range authors {
		require.Equal(t, names[i], a.Name)
	}
}

func TestMemoryRepository_UpdateBorn(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewMemoryRepository()

	created, err := repo.Create(ctx, &author.Author{Name: "Sandi Metz"})
	require.NoError(t, err)
	require.Nil(t, created.Born)

	updated, err := repo.UpdateBorn(ctx, created.ID, 1953)
	require.NoError(t, err)
	require.Equal(t, 1953, *updated.Born)

	// returned values are copies
	*updated.Born = 1900
	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, 1953, *again.Born)

	_, err = repo.UpdateBorn(ctx, uuid.New(), 1990)
	require.ErrorIs(t, err, author.ErrAuthorNotFound)
}
