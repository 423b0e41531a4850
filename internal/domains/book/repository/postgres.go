package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/database"
)

// postgresRepository - raw SQL over pgx, authors joined on read
type postgresRepository struct {
	db database.DBTX
}

// NewPostgresRepository - Constructor
func NewPostgresRepository(db database.DBTX) book.Repository {
	return &postgresRepository{db: db}
}

const selectBooks = `
        SELECT
            b.id, b.title, b.published, b.genres, b.author_id, b.created_at,
            a.id, a.name, a.born, a.created_at
        FROM books b
        JOIN authors a ON a.id = b.author_id`

// Create inserts the book; books_title_key makes duplicates ErrDuplicateTitle
func (r *postgresRepository) Create(ctx context.Context, b *book.Book) (*book.Book, error) {
	query := `
        INSERT INTO books (id, title, published, genres, author_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`

	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	genres := b.Genres
	if genres == nil {
		genres = []string{}
	}

	created := &book.Book{
		Title:     b.Title,
		Published: b.Published,
		Genres:    genres,
		AuthorID:  b.AuthorID,
	}
	err := r.db.QueryRow(ctx, query, id, b.Title, b.Published, genres, b.AuthorID, time.Now().UTC()).
		Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		if _, ok := database.UniqueViolationOn(err); ok {
			return nil, book.ErrDuplicateTitle
		}
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*book.Book, error) {
	row := r.db.QueryRow(ctx, selectBooks+` WHERE b.id = $1`, id)

	b, err := scanBook(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, book.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM books WHERE title = $1)`, title).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check title: %w", err)
	}
	return exists, nil
}

// List - books matching filter, insertion order
func (r *postgresRepository) List(ctx context.Context, filter book.Filter) ([]book.Book, error) {
	whereClause, args := buildWhereClause(filter)
	query := selectBooks + whereClause + ` ORDER BY b.seq`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := make([]book.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count books: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count books by author: %w", err)
	}
	return total, nil
}

// ============================================
// HELPER METHODS
// ============================================

func buildWhereClause(filter book.Filter) (string, []any) {
	var conditions []string
	var args []any
	argIndex := 1

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("b.author_id = $%d", argIndex))
		args = append(args, *filter.AuthorID)
		argIndex++
	}

	if filter.Genre != "" {
		conditions = append(conditions, fmt.Sprintf("$%d = ANY(b.genres)", argIndex))
		args = append(args, filter.Genre)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanBook(row pgx.Row) (*book.Book, error) {
	var (
		b book.Book
		a author.Author
	)
	err := row.Scan(
		&b.ID, &b.Title, &b.Published, &b.Genres, &b.AuthorID, &b.CreatedAt,
		&a.ID, &a.Name, &a.Born, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.Genres == nil {
		b.Genres = []string{}
	}
	b.Author = &a
	return &b, nil
}
