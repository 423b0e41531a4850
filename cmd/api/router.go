package main

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(c.Config.Server.AllowedOrigins),
		middleware.Metrics(c.Metrics),
	)

	router.GET("/health", c.HealthHandler())
	router.GET("/metrics", gin.WrapH(c.Metrics.Handler()))

	setupGraphQLRoutes(router, c)

	return router
}

// ========================================
// GRAPHQL ROUTES
// ========================================
func setupGraphQLRoutes(router *gin.Engine, c *container.Container) {
	gql := router.Group("/graphql", middleware.Authenticate(c.UserService))
	{
		gql.POST("", c.GraphQLHandler.Post)
		gql.GET("", c.GraphQLHandler.Get)
	}
}
