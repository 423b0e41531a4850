package graphql

import (
	"context"

	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/notifier"
	"library-backend/internal/shared/errs"
)

// BookAdded streams every book published after the subscription starts.
// The channel closes when ctx ends or the hub shuts down.
func (r *Resolver) BookAdded(ctx context.Context) (<-chan *BookResolver, error) {
	payloads, err := r.hub.Subscribe(ctx, notifier.TopicBookAdded)
	if err != nil {
		return nil, errs.Internal("subscription unavailable", err)
	}

	r.metrics.SubscriptionOpened()
	out := make(chan *BookResolver)

	go func() {
		defer close(out)
		defer r.metrics.SubscriptionClosed()

		for {
			select {
			case <-ctx.Done():
				return
			case payload, ok := <-payloads:
				if !ok {
					return
				}
				b, err := notifier.DecodeBook(payload)
				if err != nil {
					log.Warn().Err(err).Msg("dropping undecodable bookAdded payload")
					continue
				}
				select {
				case out <- r.book(b):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
