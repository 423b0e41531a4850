package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/user"
	"library-backend/internal/infrastructure/database"
)

// postgresRepository is the concrete user.Repository over pgx
type postgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository returns the interface, not the concrete type
func NewPostgresRepository(db database.DBTX) user.Repository {
	return &postgresRepository{db: db}
}

// ========================================
// BASIC CRUD OPERATIONS
// ========================================

// Create inserts the user; users_username_key turns duplicates into ErrUsernameTaken
func (r *postgresRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	query := `
        INSERT INTO users (id, username, favorite_genre, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING id, username, favorite_genre, created_at
    `

	id := u.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var created user.User
	err := r.db.QueryRow(ctx, query, id, u.Username, u.FavoriteGenre, time.Now().UTC()).Scan(
		&created.ID,
		&created.Username,
		&created.FavoriteGenre,
		&created.CreatedAt,
	)
	if err != nil {
		if _, ok := database.UniqueViolationOn(err); ok {
			return nil, user.ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, `SELECT id, username, favorite_genre, created_at FROM users WHERE id = $1`, id)
}

func (r *postgresRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, `SELECT id, username, favorite_genre, created_at FROM users WHERE username = $1`, username)
}

func (r *postgresRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	var u user.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID,
		&u.Username,
		&u.FavoriteGenre,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &u, nil
}
