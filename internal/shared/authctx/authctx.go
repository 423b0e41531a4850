package authctx

import (
	"context"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/errs"
)

type currentUserKey struct{}

// WithUser attaches the request's current user. A nil user means the request is anonymous.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, currentUserKey{}, u)
}

// CurrentUser returns the user attached by the auth guard, or nil.
func CurrentUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(currentUserKey{}).(*user.User)
	return u
}

// RequireUser fails with AuthenticationRequired when the request is anonymous.
func RequireUser(ctx context.Context) (*user.User, error) {
	u := CurrentUser(ctx)
	if u == nil {
		return nil, errs.AuthenticationRequired()
	}
	return u, nil
}
