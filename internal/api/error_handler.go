package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/core/domain"
)

const retryAfterSeconds = "5"

type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler maps domain errors to status codes and renders
// {"error": "<message>"}. Unexpected errors are logged and answered with a
// generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, detail(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, domain.ErrInvalidToken.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, domain.ErrVideoNotFound):
		return http.StatusNotFound, "video not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists with this email"
	case errors.Is(err, domain.ErrProvisioningInProgress):
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
		return http.StatusServiceUnavailable, "account creation for this email is already in progress, retry later"
	case errors.Is(err, domain.ErrNotification):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("notification failed")
		return http.StatusBadGateway, "account created but notification failed"
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// detail strips wrap prefixes and returns what follows the sentinel, e.g.
// "add user: invalid input: email is required" -> "email is required".
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error()
	i := strings.LastIndex(msg, marker)
	if i < 0 {
		return marker
	}
	rest := strings.TrimPrefix(msg[i+len(marker):], ":")
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return marker
	}
	return rest
}
