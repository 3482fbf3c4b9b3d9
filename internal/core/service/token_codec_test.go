package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		ID:       "dev-user-3",
		Username: "analyst",
		Email:    "analyst@aquifer.local",
		Roles:    []string{domain.RoleAnalyst, domain.RoleUser},
		Active:   true,
	}
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))
	user := testUser()

	for _, ttl := range []time.Duration{time.Second, time.Hour, 24 * time.Hour} {
		token, issued, err := codec.Issue(user, ttl)
		if err != nil {
			t.Fatalf("issue failed for ttl %v: %v", ttl, err)
		}
		if token == "" {
			t.Fatalf("expected non-empty token")
		}

		claims, err := codec.Verify(token)
		if err != nil {
			t.Fatalf("verify failed for ttl %v: %v", ttl, err)
		}
		if claims.Subject != user.ID {
			t.Fatalf("subject mismatch: got %q, want %q", claims.Subject, user.ID)
		}
		if claims.Username != user.Username || claims.Email != user.Email {
			t.Fatalf("identity fields mismatch: %+v", claims)
		}
		if len(claims.Roles) != 2 || claims.Roles[0] != domain.RoleAnalyst || claims.Roles[1] != domain.RoleUser {
			t.Fatalf("role snapshot mismatch: %v", claims.Roles)
		}
		// The wire format stores unix seconds.
		if claims.ExpiresAt.Unix() != issued.ExpiresAt.Unix() {
			t.Fatalf("expiry mismatch: got %v, want %v", claims.ExpiresAt, issued.ExpiresAt)
		}
	}
}

func TestTokenCodec_RolesAreSnapshot(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))
	user := testUser()

	token, _, err := codec.Issue(user, time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Mutating the user after issuance must not change the token.
	user.Roles[0] = domain.RoleAdmin

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if claims.Roles[0] != domain.RoleAnalyst {
		t.Fatalf("token roles changed after issuance: %v", claims.Roles)
	}
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))

	token, _, err := codec.Issue(testUser(), -time.Minute)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Zero ttl expires as soon as the clock moves past the issue instant.
	token, _, err = codec.Issue(testUser(), 0)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := codec.Verify(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired for zero ttl, got %v", err)
	}
}

func TestTokenCodec_TamperedPayload(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))
	token, _, err := codec.Issue(testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}

	// Rewrite the payload with elevated roles but keep the original signature.
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	body["roles"] = []string{domain.RoleAdmin}
	forged, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	if _, err := codec.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for forged payload, got %v", err)
	}
}

func TestTokenCodec_TamperedSignature(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))
	token, _, err := codec.Issue(testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Flip the last signature byte.
	last := token[len(token)-1]
	flipped := byte('A')
	if last == 'A' {
		flipped = 'B'
	}
	tampered := token[:len(token)-1] + string(flipped)

	if _, err := codec.Verify(tampered); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for tampered signature, got %v", err)
	}
}

func TestTokenCodec_WrongSecret(t *testing.T) {
	token, _, err := NewTokenCodec([]byte("secret-a")).Issue(testUser(), time.Hour)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewTokenCodec([]byte("secret-b")).Verify(token); !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature across secrets, got %v", err)
	}
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))
	for _, tok := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		if _, err := codec.Verify(tok); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", tok, err)
		}
	}
}

func TestTokenCodec_RejectsUnsignedAlg(t *testing.T) {
	codec := NewTokenCodec([]byte("secret"))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   "dev-user-1",
		"roles": []string{domain.RoleAdmin},
		"exp":   time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build unsigned token: %v", err)
	}

	if _, err := codec.Verify(unsigned); err == nil {
		t.Fatalf("expected rejection of alg=none token")
	}
}
