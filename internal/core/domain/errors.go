package domain

import "errors"

// Authentication and authorization errors. Each one maps to exactly one HTTP
// status and machine-readable code in the API error handler; token
// verification failures are kept distinct so the boundary never has to guess
// why a bearer token was rejected.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidSignature   = errors.New("token signature invalid")
	ErrUnknownSubject     = errors.New("token subject unknown")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrForbidden          = errors.New("access forbidden")
)

// Directory errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidInput = errors.New("invalid input")
)

// Domain entity errors.
var (
	ErrModelNotFound      = errors.New("model not found")
	ErrSimulationNotFound = errors.New("simulation not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
)
