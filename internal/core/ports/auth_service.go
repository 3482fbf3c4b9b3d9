package ports

import (
	"context"
	"time"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// Claims is the decoded, verified payload of a session token. Roles is a
// snapshot of the user's role set at issuance time; later role changes do not
// affect already-issued tokens.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec mints and verifies signed, self-contained session tokens.
//
// Verify distinguishes failure kinds so the boundary layer can report why a
// token was rejected: domain.ErrInvalidSignature, domain.ErrTokenExpired, or
// domain.ErrTokenMalformed.
type TokenCodec interface {
	Issue(user *domain.User, ttl time.Duration) (string, *Claims, error)
	Verify(token string) (*Claims, error)
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresIn   int64 // seconds until expiry
	User        *domain.User
}

// AuthService implements login and the admin-gated user management operations.
type AuthService interface {
	// Login authenticates by username or email. It fails with
	// domain.ErrInvalidCredentials on unknown accounts or rejected passwords.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
