package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/pkg/logger"
)

// CatalogStatsHandler logs a periodic snapshot of catalog size
type CatalogStatsHandler struct {
	books   book.Service
	authors author.Service
}

func NewCatalogStatsHandler(books book.Service, authors author.Service) *CatalogStatsHandler {
	return &CatalogStatsHandler{
		books:   books,
		authors: authors,
	}
}

func (h *CatalogStatsHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	books, err := h.books.Count(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	authors, err := h.authors.Count(ctx)
	if err != nil {
		return fmt.Errorf("count authors: %w", err)
	}

	logger.Info("Catalog stats", map[string]interface{}{
		"books":   books,
		"authors": authors,
	})
	return nil
}
