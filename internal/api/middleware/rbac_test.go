package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/borgir/video-archive/internal/core/domain"
)

func runRBAC(t *testing.T, p *domain.Principal, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		SetPrincipal(c, *p)
	}

	if err := RequireRole(domain.RoleAdmin)(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireRole_Allows(t *testing.T) {
	called := false
	rec := runRBAC(t, &domain.Principal{Subject: domain.AdminSubject, Role: domain.RoleAdmin}, func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireRole_Forbids(t *testing.T) {
	rec := runRBAC(t, &domain.Principal{Subject: "u1", Role: domain.RoleUser}, func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_NoPrincipal(t *testing.T) {
	rec := runRBAC(t, nil, func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
