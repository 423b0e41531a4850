package authctx

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/errs"
)

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	require.Nil(t, CurrentUser(context.Background()))

	u := &user.User{ID: uuid.New(), Username: "mluukkai"}
	ctx := WithUser(context.Background(), u)
	require.Same(t, u, CurrentUser(ctx))

	got, err := RequireUser(ctx)
	require.NoError(t, err)
	require.Same(t, u, got)
}

func TestRequireUser_Anonymous(t *testing.T) {
	t.Parallel()

	_, err := RequireUser(WithUser(context.Background(), nil))
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrAuthRequired))
	require.Equal(t, errs.KindAuthenticationRequired, errs.KindOf(err))
}
