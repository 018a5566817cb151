package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/api/metrics"
	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
	"github.com/borgir/video-archive/internal/core/service"
)

const principalKey = "principal"

// Authenticate verifies the bearer token and stores the caller's
// domain.Principal on the context. Every verification failure gets the same
// response; only the log tells expired tokens from bad ones.
func Authenticate(tokens ports.TokenService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				metrics.TokenVerificationsTotal.WithLabelValues("missing").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			claims, err := tokens.Verify(raw)
			if err != nil {
				result := "invalid"
				if service.IsExpired(err) {
					result = "expired"
				}
				metrics.TokenVerificationsTotal.WithLabelValues(result).Inc()
				log.Debug().
					Err(err).
					Str("result", result).
					Str("path", c.Path()).
					Msg("token rejected")
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrInvalidToken.Error())
			}

			metrics.TokenVerificationsTotal.WithLabelValues("valid").Inc()
			SetPrincipal(c, domain.PrincipalFromClaims(claims))
			return next(c)
		}
	}
}

// SetPrincipal attaches p to the request context.
func SetPrincipal(c echo.Context, p domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal set by Authenticate.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	if !ok || p.Subject == "" {
		return domain.Principal{}, false
	}
	return p, true
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
