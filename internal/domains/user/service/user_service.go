package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user"
	"library-backend/internal/shared/errs"
	"library-backend/pkg/jwt"
)

// userService implements user.Service
type userService struct {
	repo         user.Repository
	tokens       *jwt.Manager
	passwordHash []byte
	compare      func(hash, password []byte) error
}

// HashSharedPassword bcrypt-hashes the shared login password once at startup
func HashSharedPassword(password string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash shared password: %w", err)
	}
	return hash, nil
}

// NewUserService injects the repository, the token manager and the bcrypt
// hash of the shared credential
func NewUserService(repo user.Repository, tokens *jwt.Manager, passwordHash []byte) user.Service {
	return &userService{
		repo:         repo,
		tokens:       tokens,
		passwordHash: passwordHash,
		compare:      bcrypt.CompareHashAndPassword,
	}
}

// ========================================
// ACCOUNTS
// ========================================

func (s *userService) Create(ctx context.Context, req user.CreateUserRequest) (*user.User, error) {
	// 1. VALIDATE INPUT
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, errs.FromValidation(err, map[string]any{
			"username":      req.Username,
			"favoriteGenre": req.FavoriteGenre,
		})
	}

	// 2. PERSIST; the store's unique constraint decides "taken"
	created, err := s.repo.Create(ctx, &user.User{
		Username:      req.Username,
		FavoriteGenre: req.FavoriteGenre,
	})
	if err != nil {
		if errors.Is(err, user.ErrUsernameTaken) {
			return nil, errs.Validation("username", req.Username, "username already exists",
				map[string]string{"reason": user.ReasonUsernameTaken})
		}
		return nil, errs.Persistence("creating the user failed", "username", req.Username, err)
	}

	log.Info().Str("user_id", created.ID.String()).Str("username", created.Username).Msg("user created")
	return created, nil
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.Token, error) {
	// 1. FIND USER
	u, err := s.repo.FindByUsername(ctx, req.Username)
	found := err == nil
	if err != nil && !errors.Is(err, user.ErrUserNotFound) {
		return nil, errs.Internal("failed to look up user", err)
	}

	// 2. VERIFY PASSWORD; the compare runs for unknown users too so both
	// failures cost the same
	passwordOK := s.compare(s.passwordHash, []byte(req.Password)) == nil
	if !found || !passwordOK {
		return nil, errs.InvalidCredentials()
	}

	// 3. ISSUE TOKEN {username, id}
	signed, err := s.tokens.Generate(u.Username, u.ID.String())
	if err != nil {
		return nil, errs.Internal("failed to issue token", err)
	}

	log.Debug().Str("user_id", u.ID.String()).Msg("user logged in")
	return &user.Token{Value: signed}, nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (*user.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, errs.AuthenticationFailed(err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, errs.AuthenticationFailed(err)
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, errs.Internal("failed to look up user", err)
	}
	return u, nil
}
