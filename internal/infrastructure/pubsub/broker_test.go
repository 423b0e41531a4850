package pubsub

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startContainer runs image and returns host:port for the exposed port.
// Skips when Docker is unavailable.
func startContainer(t *testing.T, image, port string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{port},
			WaitingFor:   wait.ForListeningPort(nat.Port(port)),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	mapped, err := c.MappedPort(ctx, nat.Port(port))
	require.NoError(t, err)

	return fmt.Sprintf("%s:%s", host, mapped.Port())
}

// exerciseHub checks the broadcast contract every Hub implementation shares
func exerciseHub(t *testing.T, hub Hub) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	require.NoError(t, hub.HealthCheck(ctx))

	subCtx, unsubscribe := context.WithCancel(ctx)
	first, err := hub.Subscribe(subCtx, "BOOK_ADDED")
	require.NoError(t, err)
	second, err := hub.Subscribe(ctx, "BOOK_ADDED")
	require.NoError(t, err)
	other, err := hub.Subscribe(ctx, "OTHER")
	require.NoError(t, err)

	require.NoError(t, hub.Publish(ctx, "BOOK_ADDED", []byte(`{"title":"Clean Code"}`)))
	assert.JSONEq(t, `{"title":"Clean Code"}`, string(receive(t, first)))
	assert.JSONEq(t, `{"title":"Clean Code"}`, string(receive(t, second)))

	select {
	case payload := <-other:
		t.Fatalf("unexpected payload on other topic: %s", payload)
	case <-time.After(200 * time.Millisecond):
	}

	unsubscribe()
	requireClosed(t, first)

	require.NoError(t, hub.Close())
	requireClosed(t, second)
	assert.ErrorIs(t, hub.Publish(ctx, "BOOK_ADDED", []byte(`{}`)), ErrClosed)
	_, err = hub.Subscribe(ctx, "BOOK_ADDED")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRedisHub(t *testing.T) {
	addr := startContainer(t, "redis:7-alpine", "6379/tcp")

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	exerciseHub(t, NewRedisHub(client, "library.test."))
}

func TestNATSHub(t *testing.T) {
	addr := startContainer(t, "nats:2-alpine", "4222/tcp")

	hub, err := NewNATSHub(NATSConfig{
		URL:           "nats://" + addr,
		ClientName:    "library-test",
		MaxReconnects: 1,
		ReconnectWait: 100 * time.Millisecond,
		SubjectPrefix: "library.test.",
	})
	require.NoError(t, err)

	exerciseHub(t, hub)
}
