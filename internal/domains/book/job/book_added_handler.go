// Package job holds the asynq handlers run by cmd/worker for the catalog.
package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/notifier"
	"library-backend/internal/infrastructure/pubsub"
)

// BookAddedRelayHandler moves queued book events onto the shared hub, where
// every API instance's bookAdded subscribers pick them up.
type BookAddedRelayHandler struct {
	hub pubsub.Hub
}

func NewBookAddedRelayHandler(hub pubsub.Hub) *BookAddedRelayHandler {
	return &BookAddedRelayHandler{hub: hub}
}

func (h *BookAddedRelayHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	b, err := notifier.DecodeBook(t.Payload())
	if err != nil {
		// retrying cannot fix a malformed payload
		return fmt.Errorf("decode book: %v: %w", err, asynq.SkipRetry)
	}

	if err := h.hub.Publish(ctx, notifier.TopicBookAdded, t.Payload()); err != nil {
		return fmt.Errorf("publish %s: %w", notifier.TopicBookAdded, err)
	}

	log.Info().
		Str("book_id", b.ID.String()).
		Str("title", b.Title).
		Msg("Relayed book added event")
	return nil
}
