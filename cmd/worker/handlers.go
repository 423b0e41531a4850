package main

import (
	"github.com/hibiken/asynq"

	"library-backend/internal/domains/book/job"
	"library-backend/internal/infrastructure/queue"
	"library-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	bookAdded    *job.BookAddedRelayHandler
	catalogStats *job.CatalogStatsHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		bookAdded:    job.NewBookAddedRelayHandler(c.Hub),
		catalogStats: job.NewCatalogStatsHandler(c.BookService, c.AuthorService),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeBookAdded, h.bookAdded.ProcessTask)
	mux.HandleFunc(queue.TypeCatalogStats, h.catalogStats.ProcessTask)
}
