package notifier

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/author"
	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/pubsub"
	"library-backend/internal/shared/metrics"
)

type failingHub struct {
	pubsub.Hub
	calls int
}

func (f *failingHub) Publish(context.Context, string, []byte) error {
	f.calls++
	return errors.New("broker down")
}

func sampleBook() *book.Book {
	born := 1958
	authorID := uuid.New()
	return &book.Book{
		ID:        uuid.New(),
		Title:     "Selvä johtolanka",
		Published: 1993,
		Genres:    []string{"crime"},
		AuthorID:  authorID,
		Author:    &author.Author{ID: authorID, Name: "Reijo Mäki", Born: &born},
	}
}

func TestHubNotifier_PublishesBook(t *testing.T) {
	t.Parallel()

	hub := pubsub.NewMemoryHub()
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := hub.Subscribe(ctx, TopicBookAdded)
	require.NoError(t, err)

	n := NewHubNotifier(hub, nil)

	// a cancelled request context must not stop the publish
	reqCtx, reqCancel := context.WithCancel(context.Background())
	b := sampleBook()
	n.BookAdded(reqCtx, b)
	reqCancel()

	select {
	case payload := <-events:
		got, err := DecodeBook(payload)
		require.NoError(t, err)
		assert.Equal(t, b.ID, got.ID)
		assert.Equal(t, b.Genres, got.Genres)
		require.NotNil(t, got.Author)
		assert.Equal(t, "Reijo Mäki", got.Author.Name)
		assert.Equal(t, 1958, *got.Author.Born)
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
	n.Wait()
}

func TestHubNotifier_FailureIsSwallowed(t *testing.T) {
	t.Parallel()

	hub := &failingHub{}
	m := metrics.New()
	n := NewHubNotifier(hub, m)

	assert.NotPanics(t, func() { n.BookAdded(context.Background(), sampleBook()) })
	n.Wait()
	assert.Equal(t, 1, hub.calls)
}
