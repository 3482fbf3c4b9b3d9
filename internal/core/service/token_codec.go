package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// tokenUseAccess marks tokens minted by Issue as access tokens.
const tokenUseAccess = "access"

// sessionClaims is the wire shape of a session token payload. Field order and
// encoding are fixed by the jwt library, so signing and verification always
// operate on byte-identical input.
type sessionClaims struct {
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles"`
	TokenUse string   `json:"token_use"`
	jwt.RegisteredClaims
}

// TokenCodec mints and verifies HS256-signed session tokens. The signing
// secret is injected at construction and never rotated for the process
// lifetime; rotating it invalidates every previously issued token.
type TokenCodec struct {
	secret []byte
}

// NewTokenCodec returns a codec bound to the given signing secret.
func NewTokenCodec(secret []byte) *TokenCodec {
	return &TokenCodec{secret: secret}
}

// Issue mints a token for the user with the given ttl. The subject is the
// user's stable id; the role set is a snapshot taken now. The exact ttl is
// honoured, so a non-positive ttl yields an already-expired token.
func (c *TokenCodec) Issue(user *domain.User, ttl time.Duration) (string, *ports.Claims, error) {
	now := time.Now().UTC()
	expires := now.Add(ttl)

	claims := sessionClaims{
		Username: user.Username,
		Email:    user.Email,
		Roles:    append([]string(nil), user.Roles...),
		TokenUse: tokenUseAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return signed, &ports.Claims{
		Subject:   user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Roles:     claims.Roles,
		IssuedAt:  now,
		ExpiresAt: expires,
	}, nil
}

// Verify parses the token, recomputes the HMAC over the received payload
// (compared in constant time by the jwt library), and checks expiry. The
// signing method is pinned to HS256 so an attacker cannot downgrade the
// algorithm via the token header.
func (c *TokenCodec) Verify(token string) (*ports.Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, mapTokenError(err)
	}
	if !parsed.Valid {
		return nil, domain.ErrInvalidSignature
	}
	if claims.ExpiresAt == nil {
		// exp is mandatory in this codec; a signed token without one is not
		// something Issue ever produced.
		return nil, domain.ErrTokenMalformed
	}

	out := &ports.Claims{
		Subject:   claims.Subject,
		Username:  claims.Username,
		Email:     claims.Email,
		Roles:     claims.Roles,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

// mapTokenError translates jwt library failures into the domain taxonomy.
// Signature failures win over expiry: a tampered token must never be reported
// as merely expired.
func mapTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return domain.ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
