package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
)

var columns = []string{"id", "name", "born", "created_at"}

func TestPostgresRepository_Create(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dbErr   error
		wantErr error
	}{
		{name: "ok"},
		{name: "duplicate name", dbErr: &pgconn.PgError{Code: "23505", ConstraintName: "authors_name_key"}, wantErr: author.ErrDuplicateName},
		{name: "other failure", dbErr: errors.New("connection reset")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			id := uuid.New()
			born := 1952
			now := time.Now().UTC()

			expected := mock.ExpectQuery(`INSERT INTO authors`).
				WithArgs(pgxmock.AnyArg(), "Robert Martin", &born, pgxmock.AnyArg())
			if tt.dbErr != nil {
				expected.WillReturnError(tt.dbErr)
			} else {
				expected.WillReturnRows(pgxmock.NewRows(columns).AddRow(id, "Robert Martin", &born, now))
			}

			repo := NewPostgresRepository(mock)
			got, err := repo.Create(context.Background(), &author.Author{Name: "Robert Martin", Born: &born})

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.dbErr != nil:
				require.Error(t, err)
				require.NotErrorIs(t, err, author.ErrDuplicateName)
			default:
				require.NoError(t, err)
				require.Equal(t, id, got.ID)
				require.Equal(t, 1952, *got.Born)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresRepository_GetByName(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, name, born, created_at FROM authors WHERE name = \$1`).
		WithArgs("Sandi Metz").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(id, "Sandi Metz", (*int)(nil), time.Now()))
	mock.ExpectQuery(`SELECT id, name, born, created_at FROM authors WHERE name = \$1`).
		WithArgs("Nobody Here").
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)

	got, err := repo.GetByName(context.Background(), "Sandi Metz")
	require.NoError(t, err)
	require.Equal(t, id, got.ID)
	require.Nil(t, got.Born)

	_, err = repo.GetByName(context.Background(), "Nobody Here")
	require.ErrorIs(t, err, author.ErrAuthorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_ListAndCount(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	born := 1821
	mock.ExpectQuery(`FROM authors ORDER BY seq`).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow(uuid.New(), "Robert Martin", (*int)(nil), time.Now()).
			AddRow(uuid.New(), "Fyodor Dostoevsky", &born, time.Now()))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM authors`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(2)))

	repo := NewPostgresRepository(mock)

	authors, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, authors, 2)
	require.Equal(t, "Robert Martin", authors[0].Name)
	require.Equal(t, 1821, *authors[1].Born)

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, total)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_UpdateBorn(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	born := 1958
	mock.ExpectQuery(`UPDATE authors`).
		WithArgs(1958, id).
		WillReturnRows(pgxmock.NewRows(columns).AddRow(id, "Reijo Mäki", &born, time.Now()))
	mock.ExpectQuery(`UPDATE authors`).
		WithArgs(1958, pgxmock.AnyArg()).
		WillReturnError(pgx.ErrNoRows)

	repo := NewPostgresRepository(mock)

	got, err := repo.UpdateBorn(context.Background(), id, 1958)
	require.NoError(t, err)
	require.Equal(t, 1958, *got.Born)

	_, err = repo.UpdateBorn(context.Background(), uuid.New(), 1958)
	require.ErrorIs(t, err, author.ErrAuthorNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
