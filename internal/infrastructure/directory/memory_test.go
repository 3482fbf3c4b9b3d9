package directory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

func seededDirectory(t *testing.T) *MemoryDirectory {
	t.Helper()
	d := NewMemoryDirectory()
	if err := d.Seed(context.Background(), DefaultSeed()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	return d
}

func TestMemoryDirectory_SeedAndLookup(t *testing.T) {
	d := seededDirectory(t)
	ctx := context.Background()

	admin, err := d.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if admin.ID != "dev-user-1" {
		t.Fatalf("unexpected admin id: %q", admin.ID)
	}
	if !admin.HasRole(domain.RoleAdmin) || !admin.HasRole(domain.RoleUser) {
		t.Fatalf("unexpected admin roles: %v", admin.Roles)
	}
	if !admin.Active {
		t.Fatalf("seeded accounts must be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("admin")); err != nil {
		t.Fatalf("seed password not hashed correctly: %v", err)
	}

	byEmail, err := d.FindByEmail(ctx, "analyst@aquifer.local")
	if err != nil {
		t.Fatalf("find by email: %v", err)
	}
	if byEmail.Username != "analyst" {
		t.Fatalf("email lookup resolved wrong account: %+v", byEmail)
	}

	byID, err := d.FindByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if byID.Username != "admin" {
		t.Fatalf("id lookup resolved wrong account: %+v", byID)
	}

	if _, err := d.FindByUsername(ctx, "nobody"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := d.FindByID(ctx, "dev-user-999"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestMemoryDirectory_CreateAssignsSequentialIDs(t *testing.T) {
	d := seededDirectory(t)

	user, err := d.Create(context.Background(), ports.CreateUserInput{
		Username: "newbie",
		Email:    "newbie@aquifer.local",
		Roles:    []string{domain.RoleUser},
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.ID != "dev-user-4" {
		t.Fatalf("expected dev-user-4 after three seeds, got %q", user.ID)
	}
}

func TestMemoryDirectory_DuplicateRejected(t *testing.T) {
	d := seededDirectory(t)
	ctx := context.Background()

	if _, err := d.Create(ctx, ports.CreateUserInput{Username: "admin", Email: "other@aquifer.local"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate username, got %v", err)
	}
	if _, err := d.Create(ctx, ports.CreateUserInput{Username: "other", Email: "admin@aquifer.local"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists for duplicate email, got %v", err)
	}
}

func TestMemoryDirectory_ConcurrentCreateSameUsername(t *testing.T) {
	d := NewMemoryDirectory()
	ctx := context.Background()

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = d.Create(ctx, ports.CreateUserInput{
				Username: "racer",
				Email:    "racer@aquifer.local",
			})
		}(i)
	}
	wg.Wait()

	var successes, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, domain.ErrUserExists):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != attempts-1 {
		t.Fatalf("expected exactly one winner, got %d successes / %d conflicts", successes, conflicts)
	}
}

func TestMemoryDirectory_ListAllOrdered(t *testing.T) {
	d := seededDirectory(t)

	users, err := d.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 seeded users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		prev, cur := users[i-1], users[i]
		if cur.CreatedAt.Before(prev.CreatedAt) {
			t.Fatalf("listing not ordered by creation time: %q before %q", prev.Username, cur.Username)
		}
	}
}

func TestMemoryDirectory_ReturnsClones(t *testing.T) {
	d := seededDirectory(t)
	ctx := context.Background()

	first, err := d.FindByUsername(ctx, "user")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	first.Roles[0] = domain.RoleAdmin
	first.Active = false

	second, err := d.FindByUsername(ctx, "user")
	if err != nil {
		t.Fatalf("find failed: %v", err)
	}
	if second.Roles[0] != domain.RoleUser || !second.Active {
		t.Fatalf("caller mutation leaked into directory state: %+v", second)
	}
}
