package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/author/repository"
	"library-backend/internal/domains/user"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
)

type bookCounterStub map[uuid.UUID]int64

func (b bookCounterStub) CountByAuthor(_ context.Context, id uuid.UUID) (int64, error) {
	return b[id], nil
}

// racingRepository simulates a concurrent writer that creates the author
// between our lookup and our insert.
type racingRepository struct {
	author.Repository
	lookups int
	winner  *author.Author
}

func (r *racingRepository) GetByName(ctx context.Context, name string) (*author.Author, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, author.ErrAuthorNotFound
	}
	return r.winner, nil
}

func (r *racingRepository) Create(context.Context, *author.Author) (*author.Author, error) {
	return nil, author.ErrDuplicateName
}

func authenticated() context.Context {
	return authctx.WithUser(context.Background(), &user.User{ID: uuid.New(), Username: "mluukkai"})
}

func intPtr(v int) *int { return &v }

func TestAuthorService_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		req      author.CreateAuthorRequest
		wantKind errs.Kind
		wantArg  string
	}{
		{name: "ok", req: author.CreateAuthorRequest{Name: "Jane Doe", Born: intPtr(1975)}},
		{name: "name too short", req: author.CreateAuthorRequest{Name: "Joe"}, wantKind: errs.KindValidation, wantArg: "name"},
		{name: "blank name", req: author.CreateAuthorRequest{Name: "   "}, wantKind: errs.KindValidation, wantArg: "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewAuthorService(repository.NewMemoryRepository(), bookCounterStub{})
			got, err := svc.Create(context.Background(), tt.req)

			if tt.wantKind != "" {
				require.Error(t, err)
				var e *errs.Error
				require.True(t, errors.As(err, &e))
				assert.Equal(t, tt.wantKind, e.Kind)
				assert.Equal(t, tt.wantArg, e.Argument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Jane Doe", got.Name)
			assert.Equal(t, 1975, *got.Born)
		})
	}
}

func TestAuthorService_CreateDuplicateIsValidationError(t *testing.T) {
	t.Parallel()

	svc := NewAuthorService(repository.NewMemoryRepository(), bookCounterStub{})
	_, err := svc.Create(context.Background(), author.CreateAuthorRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), author.CreateAuthorRequest{Name: "Jane Doe"})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestAuthorService_FindOrCreate(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := repository.NewMemoryRepository()
	svc := NewAuthorService(repo, bookCounterStub{})

	first, err := svc.FindOrCreate(ctx, "Reijo Mäki")
	require.NoError(t, err)
	assert.Nil(t, first.Born)

	second, err := svc.FindOrCreate(ctx, "Reijo Mäki")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	total, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = svc.FindOrCreate(ctx, "Al")
	require.ErrorIs(t, err, errs.ErrPersistence)
}

func TestAuthorService_FindOrCreateReadsRaceWinner(t *testing.T) {
	t.Parallel()

	winner := &author.Author{ID: uuid.New(), Name: "Reijo Mäki"}
	svc := NewAuthorService(&racingRepository{winner: winner}, bookCounterStub{})

	got, err := svc.FindOrCreate(context.Background(), "Reijo Mäki")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, got.ID)
}

func TestAuthorService_EditBorn(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepository()
	svc := NewAuthorService(repo, bookCounterStub{})
	_, err := svc.Create(context.Background(), author.CreateAuthorRequest{Name: "Reijo Mäki"})
	require.NoError(t, err)

	t.Run("anonymous", func(t *testing.T) {
		_, err := svc.EditBorn(context.Background(), author.EditAuthorRequest{Name: "Reijo Mäki", Born: 1958})
		require.ErrorIs(t, err, errs.ErrAuthRequired)

		a, err := svc.GetByName(context.Background(), "Reijo Mäki")
		require.NoError(t, err)
		assert.Nil(t, a.Born)
	})

	t.Run("unknown name returns nil", func(t *testing.T) {
		got, err := svc.EditBorn(authenticated(), author.EditAuthorRequest{Name: "Nobody Here", Born: 1958})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ok", func(t *testing.T) {
		got, err := svc.EditBorn(authenticated(), author.EditAuthorRequest{Name: "Reijo Mäki", Born: 1958})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 1958, *got.Born)
	})
}

func TestAuthorService_BookCount(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	svc := NewAuthorService(repository.NewMemoryRepository(), bookCounterStub{id: 3})

	n, err := svc.BookCount(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = svc.BookCount(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, n)
}
