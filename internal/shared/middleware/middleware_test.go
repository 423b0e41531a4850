package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"BEARER  abc ", "abc", true},
		{"Bearer ", "", false},
		{"Basic dXNlcg==", "", false},
		{"", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := BearerToken(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey))
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "req-42", w.Body.String())
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"allowed origin", []string{"http://app.local"}, http.MethodGet, "http://app.local", http.StatusOK, "http://app.local"},
		{"other origin", []string{"http://app.local"}, http.MethodGet, "http://evil.local", http.StatusOK, ""},
		{"wildcard", []string{"*"}, http.MethodGet, "http://any.local", http.StatusOK, "http://any.local"},
		{"preflight", []string{"*"}, http.MethodOptions, "http://any.local", http.StatusNoContent, "http://any.local"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(CORS(tt.allowed))
			r.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusTeapot) })

			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newEngine(RequestID(), Recovery())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")
}

type stubUsers struct {
	user.Service
	authenticate func(token string) (*user.User, error)
}

func (s stubUsers) Authenticate(_ context.Context, token string) (*user.User, error) {
	return s.authenticate(token)
}

func TestAuthenticate(t *testing.T) {
	users := stubUsers{authenticate: func(token string) (*user.User, error) {
		switch token {
		case "good":
			return &user.User{Username: "mluukkai"}, nil
		case "store-down":
			return nil, errs.Internal("failed to look up user", errors.New("connection refused"))
		default:
			return nil, errs.AuthenticationFailed(errors.New("signature is invalid"))
		}
	}}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Authenticate(users))
	r.GET("/", func(c *gin.Context) {
		if u := authctx.CurrentUser(c.Request.Context()); u != nil {
			c.String(http.StatusOK, u.Username)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
		notBody    string
	}{
		{"no header", "", http.StatusOK, "anonymous", ""},
		{"valid token", "Bearer good", http.StatusOK, "mluukkai", ""},
		{"bad token", "Bearer forged", http.StatusUnauthorized, "AUTHENTICATION_FAILED", ""},
		{"store failure", "Bearer store-down", http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			if tt.notBody != "" {
				assert.NotContains(t, w.Body.String(), tt.notBody)
			}
		})
	}
}
