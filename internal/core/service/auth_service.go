package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// AuthService implements login and admin-gated user management against the
// user directory. It mimics a managed identity provider's contract closely
// enough to exercise the rest of the application.
type AuthService struct {
	directory ports.UserDirectory
	codec     ports.TokenCodec
	tokenTTL  time.Duration

	// insecureDevMode accepts any non-empty password for known accounts.
	// It must be enabled explicitly through configuration; the production
	// default is bcrypt verification against the stored hash.
	insecureDevMode bool

	log zerolog.Logger
}

// NewAuthService builds an AuthService. A non-positive tokenTTL falls back to
// 24 hours, matching the identity provider being mocked.
func NewAuthService(
	directory ports.UserDirectory,
	codec ports.TokenCodec,
	tokenTTL time.Duration,
	insecureDevMode bool,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if insecureDevMode {
		log.Warn().Msg("insecure dev mode enabled: any non-empty password is accepted")
	}
	return &AuthService{
		directory:       directory,
		codec:           codec,
		tokenTTL:        tokenTTL,
		insecureDevMode: insecureDevMode,
		log:             log,
	}
}

// Login authenticates by username or email and mints a session token carrying
// a snapshot of the user's role set. Unknown accounts and rejected passwords
// both surface as ErrInvalidCredentials so the response does not reveal which
// part failed.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.lookup(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.Active || !s.passwordAccepted(user, password) {
		return nil, domain.ErrInvalidCredentials
	}

	token, claims, err := s.codec.Issue(user, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")

	return &ports.LoginResult{
		AccessToken: token,
		ExpiresIn:   int64(claims.ExpiresAt.Sub(claims.IssuedAt).Seconds()),
		User:        user,
	}, nil
}

// CreateUser adds an account to the directory. Role authorization happens at
// the route declaration; the service only applies the default role set.
func (s *AuthService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Username == "" || input.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(input.Roles) == 0 {
		input.Roles = []string{domain.RoleUser}
	}

	user, err := s.directory.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Strs("roles", user.Roles).Msg("user created")
	return user, nil
}

// ListUsers returns every directory account.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.directory.ListAll(ctx)
}

// lookup resolves a login identifier to an account. Identifiers containing
// "@" are tried as email first, everything else as username; the other field
// is used as a fallback so both always work.
func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.User, error) {
	if strings.Contains(identifier, "@") {
		user, err := s.directory.FindByEmail(ctx, identifier)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return s.directory.FindByUsername(ctx, identifier)
	}

	user, err := s.directory.FindByUsername(ctx, identifier)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	return s.directory.FindByEmail(ctx, identifier)
}

func (s *AuthService) passwordAccepted(user *domain.User, password string) bool {
	if s.insecureDevMode {
		return password != ""
	}
	if user.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
