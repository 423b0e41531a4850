package graphql

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	graphqlgo "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-transport-ws/graphqlws"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/errs"
	"library-backend/internal/shared/metrics"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

// Request is the GraphQL-over-HTTP body
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type readOnlyKey struct{}

// withReadOnly marks ctx as coming from a transport that must not mutate
func withReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey{}, true)
}

// writable rejects mutations arriving over GET
func writable(ctx context.Context) error {
	if ro, _ := ctx.Value(readOnlyKey{}).(bool); ro {
		return errs.Validation("", nil, "mutations must be sent with POST", nil)
	}
	return nil
}

// Handler serves /graphql: POST executes any operation, GET executes
// queries only, a GET websocket upgrade speaks graphql-ws for subscriptions.
type Handler struct {
	schema  *graphqlgo.Schema
	metrics *metrics.Metrics
	ws      http.HandlerFunc
}

// NewHandler builds the transport. users authenticates websocket
// connections from their upgrade request, as the HTTP auth guard does.
func NewHandler(schema *graphqlgo.Schema, users user.Service, m *metrics.Metrics) *Handler {
	h := &Handler{
		schema:  schema,
		metrics: m,
	}

	notWebsocket := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "websocket subprotocol graphql-ws required", http.StatusBadRequest)
	})

	h.ws = graphqlws.NewHandlerFunc(schema, notWebsocket,
		graphqlws.WithContextGenerator(graphqlws.ContextGeneratorFunc(
			func(ctx context.Context, r *http.Request) (context.Context, error) {
				authed, err := middleware.ContextWithUser(ctx, users, r.Header.Get("Authorization"))
				if err != nil {
					log.Warn().Str("ip", r.RemoteAddr).Msg("rejected websocket bearer token")
					return nil, err
				}
				return authed, nil
			},
		)),
	)
	return h
}

// Post executes a JSON body
func (h *Handler) Post(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest,
			errs.Validation("", nil, "request body must be a GraphQL JSON object", nil))
		return
	}
	h.execute(c, req)
}

// Get upgrades to graphql-ws or executes from the query string
func (h *Handler) Get(c *gin.Context) {
	if websocket.IsWebSocketUpgrade(c.Request) {
		h.ws.ServeHTTP(c.Writer, c.Request)
		return
	}

	req := Request{
		Query:         c.Query("query"),
		OperationName: c.Query("operationName"),
	}
	if raw := c.Query("variables"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
			response.Error(c, http.StatusBadRequest,
				errs.Validation("variables", raw, "variables must be a JSON object", nil))
			return
		}
	}
	c.Request = c.Request.WithContext(withReadOnly(c.Request.Context()))
	h.execute(c, req)
}

func (h *Handler) execute(c *gin.Context, req Request) {
	if strings.TrimSpace(req.Query) == "" {
		response.Error(c, http.StatusBadRequest, errs.Validation("query", nil, "query is required", nil))
		return
	}

	start := time.Now()
	result := h.schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)

	outcome := "ok"
	if len(result.Errors) > 0 {
		outcome = "error"
	}
	h.metrics.ObserveOperation("request", outcome, time.Since(start))

	c.JSON(http.StatusOK, result)
}
