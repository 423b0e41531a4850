package user

import "context"

// Service defines account and authentication operations
type Service interface {
	// Create registers a user.
	// Errors: ValidationError (shape, USERNAME_TAKEN), PersistenceFailure
	Create(ctx context.Context, req CreateUserRequest) (*User, error)

	// Login issues a token. Unknown user and wrong password fail identically
	// with InvalidCredentials.
	Login(ctx context.Context, req LoginRequest) (*Token, error)

	// Authenticate resolves a bearer token to its user. A valid token whose
	// user no longer exists yields (nil, nil).
	// Errors: AuthenticationFailed
	Authenticate(ctx context.Context, token string) (*User, error)
}
