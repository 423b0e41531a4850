package response

import (
	"github.com/gin-gonic/gin"

	"library-backend/internal/shared/errs"
)

// GraphQLError is one entry of a GraphQL "errors" array
type GraphQLError struct {
	Message    string                 `json:"message"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// GraphQLErrors is a response carrying errors and no data
type GraphQLErrors struct {
	Errors []GraphQLError `json:"errors"`
}

// Error writes err as a GraphQL-shaped body and aborts the chain
func Error(c *gin.Context, statusCode int, err *errs.Error) {
	c.AbortWithStatusJSON(statusCode, GraphQLErrors{
		Errors: []GraphQLError{{
			Message:    err.Error(),
			Extensions: err.Extensions(),
		}},
	})
}

// Health is the /health body
type Health struct {
	Status     string            `json:"status"`
	Version    string            `json:"version,omitempty"`
	Components map[string]string `json:"components"`
}

// HealthStatus writes the aggregated health; 503 when any component failed
func HealthStatus(c *gin.Context, version string, components map[string]error) {
	body := Health{
		Status:     "ok",
		Version:    version,
		Components: make(map[string]string, len(components)),
	}
	status := 200
	for name, err := range components {
		if err != nil {
			body.Components[name] = err.Error()
			body.Status = "degraded"
			status = 503
			continue
		}
		body.Components[name] = "ok"
	}
	c.JSON(status, body)
}
