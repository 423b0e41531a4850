package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/config"
	"library-backend/internal/domains/book/notifier"
)

func TestNew_MemoryDrivers(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Cleanup()

	assert.Nil(t, c.DB)
	assert.Nil(t, c.Mongo)
	assert.Nil(t, c.AsynqClient)
	assert.NotNil(t, c.GraphQLHandler)
	assert.IsType(t, &notifier.HubNotifier{}, c.events)

	health := c.HealthCheck(context.Background())
	assert.Contains(t, health, "store")
	assert.Contains(t, health, "cache")
	assert.Contains(t, health, "hub")
	for name, err := range health {
		assert.NoError(t, err, name)
	}
}

func TestCleanup_PartialGraph(t *testing.T) {
	c := &Container{Config: &config.Config{}}
	assert.NotPanics(t, c.Cleanup)
}
