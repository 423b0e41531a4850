package service

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
)

// BookService - Implements book.Service
type BookService struct {
	repo    book.Repository
	authors author.Service
	events  book.EventSink
}

// NewBookService - Constructor with DI. events may be nil.
func NewBookService(repo book.Repository, authors author.Service, events book.EventSink) book.Service {
	if events == nil {
		events = book.MultiSink(nil)
	}
	return &BookService{
		repo:    repo,
		authors: authors,
		events:  events,
	}
}

func (s *BookService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errs.Internal("failed to count books", err)
	}
	return int(total), nil
}

// List - allBooks filter resolution
func (s *BookService) List(ctx context.Context, req book.ListBooksRequest) ([]book.Book, error) {
	filter := book.Filter{Genre: req.GenreFilter()}

	if name, ok := req.AuthorFilter(); ok {
		a, err := s.authors.GetByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if a == nil {
			return []book.Book{}, nil
		}
		filter.AuthorID = &a.ID
	}

	books, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, errs.Internal("failed to list books", err)
	}
	return books, nil
}

// Add - addBook. The steps are not atomic; store-level unique constraints
// turn a lost race into a validation error.
func (s *BookService) Add(ctx context.Context, req book.AddBookRequest) (*book.Book, error) {
	// ====================================
	// STEP 1: Authentication, before any store access
	// ====================================
	if _, err := authctx.RequireUser(ctx); err != nil {
		return nil, err
	}

	// ====================================
	// STEP 2: Combined validation
	// ====================================
	req.Normalize()
	if verr := s.validateNewBook(ctx, req); verr != nil {
		return nil, verr
	}

	// ====================================
	// STEP 3-4: Find or create the author; its id is canonical
	// ====================================
	a, err := s.authors.FindOrCreate(ctx, req.AuthorName)
	if err != nil {
		return nil, err
	}

	// ====================================
	// STEP 5: Persist
	// ====================================
	created, err := s.repo.Create(ctx, &book.Book{
		Title:     req.Title,
		Published: req.Published,
		Genres:    req.Genres,
		AuthorID:  a.ID,
	})
	if err != nil {
		if errors.Is(err, book.ErrDuplicateTitle) {
			return nil, errs.Validation("title", req.Title, "title must be unique",
				map[string]string{"title": "title must be unique"})
		}
		return nil, errs.Persistence("failed to create book", "title", req.Title, err)
	}

	// ====================================
	// STEP 6: Re-read with author populated
	// ====================================
	populated, err := s.repo.GetByID(ctx, created.ID)
	if err != nil {
		return nil, errs.Internal("failed to load created book", err)
	}

	log.Info().
		Str("book_id", populated.ID.String()).
		Str("title", populated.Title).
		Str("author", populated.Author.Name).
		Msg("book added")

	// ====================================
	// STEP 7: Notify, fire-and-forget
	// ====================================
	s.events.BookAdded(ctx, populated)

	return populated, nil
}

// validateNewBook merges shape rules and the title existence check into
// one ValidationError listing every failing argument.
func (s *BookService) validateNewBook(ctx context.Context, req book.AddBookRequest) error {
	fieldErrs := validation.Errors{}
	if err := req.Validate(); err != nil {
		var shaped validation.Errors
		if !errors.As(err, &shaped) {
			return errs.Validation("", nil, err.Error(), nil)
		}
		for field, fe := range shaped {
			fieldErrs[field] = fe
		}
	}

	if _, bad := fieldErrs["title"]; !bad {
		exists, err := s.repo.ExistsByTitle(ctx, req.Title)
		if err != nil {
			return errs.Internal("failed to check title", err)
		}
		if exists {
			fieldErrs["title"] = errors.New("title must be unique")
		}
	}

	if len(fieldErrs) == 0 {
		return nil
	}
	return errs.FromValidation(fieldErrs, map[string]any{
		"title":      req.Title,
		"authorName": req.AuthorName,
		"genres":     req.Genres,
	})
}
