// Package directory provides the in-memory user store backing the local
// identity-provider mock. Accounts live for the process lifetime; the only
// mutation is the admin-gated create operation.
package directory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// MemoryDirectory implements ports.UserDirectory with a mutex-guarded map.
// Reads take the read lock; Create serializes writers so the username and
// email uniqueness invariants hold under concurrent calls.
type MemoryDirectory struct {
	mu    sync.RWMutex
	users map[string]*domain.User // keyed by id
	seq   int
}

// NewMemoryDirectory returns an empty directory.
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{users: make(map[string]*domain.User)}
}

// SeedAccount describes one default account created at startup.
type SeedAccount struct {
	Username string
	Email    string
	Roles    []string
	Password string
}

// DefaultSeed returns the three development accounts the console ships with.
// The passwords only matter when insecure dev mode is off.
func DefaultSeed() []SeedAccount {
	return []SeedAccount{
		{Username: "admin", Email: "admin@aquifer.local", Roles: []string{domain.RoleAdmin, domain.RoleUser}, Password: "admin"},
		{Username: "user", Email: "user@aquifer.local", Roles: []string{domain.RoleUser}, Password: "user"},
		{Username: "analyst", Email: "analyst@aquifer.local", Roles: []string{domain.RoleAnalyst, domain.RoleUser}, Password: "analyst"},
	}
}

// Seed creates the given accounts, failing on the first conflict.
func (d *MemoryDirectory) Seed(ctx context.Context, accounts []SeedAccount) error {
	for _, a := range accounts {
		_, err := d.Create(ctx, ports.CreateUserInput{
			Username: a.Username,
			Email:    a.Email,
			Roles:    a.Roles,
			Password: a.Password,
		})
		if err != nil {
			return fmt.Errorf("seed user %q: %w", a.Username, err)
		}
	}
	return nil
}

func (d *MemoryDirectory) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *MemoryDirectory) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (d *MemoryDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if u, ok := d.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

// Create inserts a new account. The uniqueness check and the insertion happen
// under one write lock, so concurrent creates with the same username yield
// exactly one success and one ErrUserExists.
func (d *MemoryDirectory) Create(_ context.Context, input ports.CreateUserInput) (*domain.User, error) {
	var hash string
	if input.Password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hash = string(h)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if u.Username == input.Username || (input.Email != "" && u.Email == input.Email) {
			return nil, domain.ErrUserExists
		}
	}

	d.seq++
	user := &domain.User{
		ID:           fmt.Sprintf("dev-user-%d", d.seq),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Roles:        append([]string(nil), input.Roles...),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	d.users[user.ID] = user
	return cloneUser(user), nil
}

func (d *MemoryDirectory) ListAll(_ context.Context) ([]*domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*domain.User, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, cloneUser(u))
	}
	// Stable listing order regardless of map iteration.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Username < out[j].Username
	})
	return out, nil
}

// cloneUser copies the record so callers can never mutate directory state.
func cloneUser(u *domain.User) *domain.User {
	clone := *u
	clone.Roles = append([]string(nil), u.Roles...)
	return &clone
}
