// cmd/worker/startup.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/pkg/container"
)

// startServices checks every component and starts the health endpoint
func startServices(c *container.Container) error {
	log.Info().Str("app", c.Config.App.Name).Msg("============ Library Worker Starting ============")

	if err := checkAll(context.Background(), c); err != nil {
		return err
	}

	go startHealthCheckServer(c)
	return nil
}

// checkAll fails on the first unhealthy component, in name order
func checkAll(ctx context.Context, c *container.Container) error {
	results := c.HealthCheck(ctx)

	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := results[name]; err != nil {
			log.Error().Err(err).Str("component", name).Msg("Health check failed")
			return fmt.Errorf("%s failed: %w", name, err)
		}
		log.Info().Str("component", name).Msg("Health check OK")
	}
	return nil
}

// startHealthCheckServer serves /health, /ready and /metrics
func startHealthCheckServer(c *container.Container) {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", c.HealthHandler())
	router.GET("/ready", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "READY"})
	})
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	addr := ":" + c.Config.Queue.HealthPort
	log.Info().Str("addr", addr).Msg("[Health] Starting health check server")
	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("[Health] Failed to start")
	}
}
