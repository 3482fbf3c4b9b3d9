package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/aquiferlab/aquifer-console/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors. Error is
// a stable machine-readable code; Message is human-readable text. Internal
// state and stack traces are never exposed.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps each entry of the domain error taxonomy to a fixed HTTP status
//     code and a stable error code.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, errorResponse{Error: code, Message: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, httpCode(he.Code), fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials", "invalid username or password"
	case errors.Is(err, domain.ErrTokenMalformed):
		return http.StatusUnauthorized, "token_malformed", "token could not be decoded"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, "token_expired", "token has expired"
	case errors.Is(err, domain.ErrInvalidSignature):
		return http.StatusUnauthorized, "invalid_signature", "token signature verification failed"
	case errors.Is(err, domain.ErrUnknownSubject):
		return http.StatusUnauthorized, "unknown_subject", "token subject is not a known user"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized", "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden", "insufficient role for this resource"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user_exists", "username or email already exists"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "bad_request", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "not_found", "user not found"
	case errors.Is(err, domain.ErrModelNotFound):
		return http.StatusNotFound, "not_found", "model not found"
	case errors.Is(err, domain.ErrSimulationNotFound):
		return http.StatusNotFound, "not_found", "simulation not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "invalid_transition", err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal", "internal server error"
}

// httpCode derives a stable code for plain echo HTTP errors.
func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	default:
		return "error"
	}
}
