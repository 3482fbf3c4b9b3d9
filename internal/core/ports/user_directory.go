package ports

import (
	"context"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// CreateUserInput carries the data needed to create a directory account.
type CreateUserInput struct {
	Username string
	Email    string
	Roles    []string
	Password string
}

// UserDirectory is the account store the auth core resolves identities
// against. Create must reject duplicate usernames or emails with
// domain.ErrUserExists; lookups return domain.ErrUserNotFound.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
}
