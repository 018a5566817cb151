package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/borgir/video-archive/internal/api/metrics"
	"github.com/borgir/video-archive/internal/core/domain"
)

// RequireRole lets the request through only when the authenticated
// principal holds one of roles. It must run after Authenticate.
func RequireRole(roles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := PrincipalFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
			}
			if _, ok := allowed[p.Role]; !ok {
				metrics.AccessDeniedTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error())
			}
			return next(c)
		}
	}
}
