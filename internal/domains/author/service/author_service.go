package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/author"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
)

// authorService implements author.Service
type authorService struct {
	repo  author.Repository
	books author.BookCounter
}

// NewAuthorService creates a new author service instance.
// books is consulted only for the derived bookCount field.
func NewAuthorService(repo author.Repository, books author.BookCounter) author.Service {
	return &authorService{
		repo:  repo,
		books: books,
	}
}

func (s *authorService) Create(ctx context.Context, req author.CreateAuthorRequest) (*author.Author, error) {
	req.Name = author.NormalizeName(req.Name)
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err, map[string]any{"name": req.Name})
	}

	created, err := s.repo.Create(ctx, &author.Author{Name: req.Name, Born: req.Born})
	if err != nil {
		if errors.Is(err, author.ErrDuplicateName) {
			return nil, errs.Validation("name", req.Name, "author name must be unique", nil)
		}
		return nil, errs.Persistence("failed to create author", "name", req.Name, err)
	}

	log.Info().Str("author_id", created.ID.String()).Str("name", created.Name).Msg("author created")
	return created, nil
}

// FindOrCreate is the only path that creates authors implicitly.
func (s *authorService) FindOrCreate(ctx context.Context, name string) (*author.Author, error) {
	name = author.NormalizeName(name)

	// ====================================
	// STEP 1: Existing author wins
	// ====================================
	existing, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, author.ErrAuthorNotFound) {
		return nil, errs.Internal("failed to look up author", err)
	}

	// ====================================
	// STEP 2: Create; born stays unset
	// ====================================
	if verr := (author.CreateAuthorRequest{Name: name}).Validate(); verr != nil {
		return nil, errs.Persistence("failed to create author", "authorName", name, verr)
	}

	created, err := s.repo.Create(ctx, &author.Author{Name: name})
	if err == nil {
		log.Info().Str("author_id", created.ID.String()).Str("name", created.Name).Msg("author created implicitly")
		return created, nil
	}
	if !errors.Is(err, author.ErrDuplicateName) {
		return nil, errs.Persistence("failed to create author", "authorName", name, err)
	}

	// ====================================
	// STEP 3: Lost a concurrent create, read the winner
	// ====================================
	winner, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, errs.Persistence("failed to create author", "authorName", name, err)
	}
	return winner, nil
}

func (s *authorService) GetByName(ctx context.Context, name string) (*author.Author, error) {
	a, err := s.repo.GetByName(ctx, author.NormalizeName(name))
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return nil, nil
		}
		return nil, errs.Internal("failed to look up author", err)
	}
	return a, nil
}

func (s *authorService) List(ctx context.Context) ([]author.Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, errs.Internal("failed to list authors", err)
	}
	return authors, nil
}

func (s *authorService) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return 0, errs.Internal("failed to count authors", err)
	}
	return int(total), nil
}

func (s *authorService) EditBorn(ctx context.Context, req author.EditAuthorRequest) (*author.Author, error) {
	if _, err := authctx.RequireUser(ctx); err != nil {
		return nil, err
	}

	existing, err := s.GetByName(ctx, req.Name)
	if err != nil || existing == nil {
		return nil, err
	}

	updated, err := s.repo.UpdateBorn(ctx, existing.ID, req.Born)
	if err != nil {
		if errors.Is(err, author.ErrAuthorNotFound) {
			return nil, nil
		}
		return nil, errs.Persistence("failed to update author", "name", req.Name, err)
	}

	log.Info().Str("author_id", updated.ID.String()).Int("born", req.Born).Msg("author born updated")
	return updated, nil
}

func (s *authorService) BookCount(ctx context.Context, authorID uuid.UUID) (int, error) {
	total, err := s.books.CountByAuthor(ctx, authorID)
	if err != nil {
		return 0, errs.Internal("failed to count books", err)
	}
	return int(total), nil
}
