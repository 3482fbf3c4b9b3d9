package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
	"github.com/aquiferlab/aquifer-console/internal/core/service"
)

type fakeDirectory struct {
	users map[string]*domain.User
}

func (d *fakeDirectory) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := d.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (d *fakeDirectory) FindByUsername(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (d *fakeDirectory) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, domain.ErrUserNotFound
}

func (d *fakeDirectory) Create(_ context.Context, _ ports.CreateUserInput) (*domain.User, error) {
	return nil, domain.ErrUserExists
}

func (d *fakeDirectory) ListAll(_ context.Context) ([]*domain.User, error) {
	return nil, nil
}

func authFixture(t *testing.T) (*service.TokenCodec, *fakeDirectory, *domain.User) {
	t.Helper()
	codec := service.NewTokenCodec([]byte("middleware-test-secret"))
	user := &domain.User{
		ID:       "dev-user-2",
		Username: "user",
		Email:    "user@aquifer.local",
		Roles:    []string{domain.RoleUser},
		Active:   true,
	}
	dir := &fakeDirectory{users: map[string]*domain.User{user.ID: user}}
	return codec, dir, user
}

func echoContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func passthrough(c echo.Context) error { return c.NoContent(http.StatusOK) }

func TestAuth_ValidTokenSetsIdentity(t *testing.T) {
	codec, dir, user := authFixture(t)
	token, _, err := codec.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	c, _ := echoContext("Bearer " + token)
	called := false
	handler := Auth(codec, dir)(func(c echo.Context) error {
		called = true
		identity := IdentityFromContext(c)
		if identity == nil || identity.ID != user.ID {
			t.Fatalf("identity missing from context: %+v", identity)
		}
		claims := ClaimsFromContext(c)
		if claims == nil || claims.Subject != user.ID {
			t.Fatalf("claims missing from context: %+v", claims)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
	if !called {
		t.Fatalf("next handler was not invoked")
	}
}

func TestAuth_RoleSnapshotWinsOverDirectory(t *testing.T) {
	codec, dir, user := authFixture(t)
	token, _, err := codec.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Roles change in the directory after issuance; the token snapshot governs.
	dir.users[user.ID] = &domain.User{
		ID:       user.ID,
		Username: user.Username,
		Roles:    []string{domain.RoleAdmin},
		Active:   true,
	}

	c, _ := echoContext("Bearer " + token)
	handler := Auth(codec, dir)(func(c echo.Context) error {
		identity := IdentityFromContext(c)
		if identity.HasRole(domain.RoleAdmin) {
			t.Fatalf("directory role leaked past the token snapshot: %v", identity.Roles)
		}
		if !identity.HasRole(domain.RoleUser) {
			t.Fatalf("snapshot roles lost: %v", identity.Roles)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("middleware failed: %v", err)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	codec, dir, _ := authFixture(t)
	c, _ := echoContext("")
	err := Auth(codec, dir)(passthrough)(c)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuth_NonBearerScheme(t *testing.T) {
	codec, dir, _ := authFixture(t)
	c, _ := echoContext("Basic dXNlcjpwdw==")
	err := Auth(codec, dir)(passthrough)(c)
	if !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	codec, dir, user := authFixture(t)
	token, _, err := codec.Issue(user, -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	c, _ := echoContext("Bearer " + token)
	if err := Auth(codec, dir)(passthrough)(c); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestAuth_ForeignSignature(t *testing.T) {
	codec, dir, user := authFixture(t)
	foreign := service.NewTokenCodec([]byte("some-other-secret"))
	token, _, err := foreign.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	c, _ := echoContext("Bearer " + token)
	if err := Auth(codec, dir)(passthrough)(c); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestAuth_UnknownSubject(t *testing.T) {
	codec, dir, _ := authFixture(t)
	ghost := &domain.User{ID: "dev-user-404", Username: "ghost", Roles: []string{domain.RoleUser}, Active: true}
	token, _, err := codec.Issue(ghost, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	c, _ := echoContext("Bearer " + token)
	if err := Auth(codec, dir)(passthrough)(c); !errors.Is(err, domain.ErrUnknownSubject) {
		t.Fatalf("expected ErrUnknownSubject, got %v", err)
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	codec, dir, _ := authFixture(t)
	c, _ := echoContext("")
	called := false
	handler := OptionalAuth(codec, dir)(func(c echo.Context) error {
		called = true
		if IdentityFromContext(c) != nil {
			t.Fatalf("anonymous request must not carry an identity")
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("optional auth failed: %v", err)
	}
	if !called {
		t.Fatalf("next handler was not invoked")
	}
}

func TestOptionalAuth_BadTokenStillFails(t *testing.T) {
	codec, dir, _ := authFixture(t)
	c, _ := echoContext("Bearer garbage")
	err := OptionalAuth(codec, dir)(passthrough)(c)
	if !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("a supplied bad token must not be downgraded to anonymous, got %v", err)
	}
}

func TestOptionalAuth_ValidTokenResolvesIdentity(t *testing.T) {
	codec, dir, user := authFixture(t)
	token, _, err := codec.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	c, _ := echoContext("Bearer " + token)
	handler := OptionalAuth(codec, dir)(func(c echo.Context) error {
		if identity := IdentityFromContext(c); identity == nil || identity.ID != user.ID {
			t.Fatalf("identity not resolved: %+v", identity)
		}
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("optional auth failed: %v", err)
	}
}
