package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/authctx"
	"library-backend/internal/shared/errs"
	"library-backend/internal/shared/response"
)

const bearerScheme = "bearer "

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively; anything else is no credential.
func BearerToken(header string) (string, bool) {
	if len(header) < len(bearerScheme) || !strings.EqualFold(header[:len(bearerScheme)], bearerScheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerScheme):])
	return token, token != ""
}

// ContextWithUser resolves the Authorization header value into the
// request's current user. No credential yields ctx unchanged; a bad token
// yields AuthenticationFailed.
func ContextWithUser(ctx context.Context, users user.Service, header string) (context.Context, error) {
	token, ok := BearerToken(header)
	if !ok {
		return ctx, nil
	}

	u, err := users.Authenticate(ctx, token)
	if err != nil {
		return ctx, err
	}
	return authctx.WithUser(ctx, u), nil
}

// Authenticate is the auth guard in front of /graphql. It never rejects
// anonymous requests; resolvers decide what needs a user.
func Authenticate(users user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := ContextWithUser(c.Request.Context(), users, c.GetHeader("Authorization"))
		if err != nil {
			var e *errs.Error
			if !errors.As(err, &e) {
				e = errs.Internal("failed to authenticate request", err)
			}

			if e.Kind != errs.KindAuthenticationFailed {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Str("error", e.Cause()).
					Msg("authentication lookup failed")
				response.Error(c, http.StatusInternalServerError, errs.Internal("internal server error", e))
				return
			}

			log.Warn().
				Str("request_id", c.GetString(RequestIDKey)).
				Str("ip", c.ClientIP()).
				Msg("rejected bearer token")
			response.Error(c, http.StatusUnauthorized, e)
			return
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
