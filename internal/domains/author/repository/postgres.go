package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/author"
	"library-backend/internal/infrastructure/database"
)

// postgresRepository implements author.Repository over pgx
type postgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository creates a new author repository instance
func NewPostgresRepository(db database.DBTX) author.Repository {
	return &postgresRepository{db: db}
}

const authorColumns = `id, name, born, created_at`

// Create inserts a new author. The authors_name_key constraint makes
// duplicate names fail with ErrDuplicateName.
func (r *postgresRepository) Create(ctx context.Context, a *author.Author) (*author.Author, error) {
	query := `
        INSERT INTO authors (id, name, born, created_at)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + authorColumns

	id := a.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var created author.Author
	err := r.db.QueryRow(ctx, query, id, a.Name, a.Born, time.Now().UTC()).Scan(
		&created.ID,
		&created.Name,
		&created.Born,
		&created.CreatedAt,
	)
	if err != nil {
		if _, ok := database.UniqueViolationOn(err); ok {
			return nil, author.ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create author: %w", err)
	}

	return &created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *postgresRepository) GetByName(ctx context.Context, name string) (*author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors WHERE name = $1`
	return r.getOne(ctx, query, name)
}

func (r *postgresRepository) getOne(ctx context.Context, query string, arg any) (*author.Author, error) {
	var a author.Author
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Name,
		&a.Born,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &a, nil
}

// List returns authors in insertion order
func (r *postgresRepository) List(ctx context.Context) ([]author.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query authors: %w", err)
	}
	defer rows.Close()

	authors := make([]author.Author, 0)
	for rows.Next() {
		var a author.Author
		if err := rows.Scan(&a.ID, &a.Name, &a.Born, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan author: %w", err)
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating authors: %w", err)
	}

	return authors, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM authors`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count authors: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) UpdateBorn(ctx context.Context, id uuid.UUID, born int) (*author.Author, error) {
	query := `
        UPDATE authors
        SET born = $1
        WHERE id = $2
        RETURNING ` + authorColumns

	var updated author.Author
	err := r.db.QueryRow(ctx, query, born, id).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Born,
		&updated.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, author.ErrAuthorNotFound
		}
		return nil, fmt.Errorf("failed to update author: %w", err)
	}

	return &updated, nil
}
