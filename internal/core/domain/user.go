package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleAnalyst = "analyst"
	RoleUser    = "user"
)

// User models an account in the local identity directory.
// Roles is a flat set of tags; authorization is set membership, not hierarchy.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	Active       bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasRole reports whether the user carries the given role tag.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user's role set intersects allowed.
func (u *User) HasAnyRole(allowed ...string) bool {
	for _, r := range allowed {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}
