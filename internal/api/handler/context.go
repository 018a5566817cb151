package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/borgir/video-archive/internal/api/middleware"
	"github.com/borgir/video-archive/internal/core/domain"
)

// ctxPrincipal returns the caller set by the Authenticate middleware. A
// handler mounted without it fails closed.
func ctxPrincipal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthenticated
	}
	return p, nil
}
