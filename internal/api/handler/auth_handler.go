package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/borgir/video-archive/internal/api/metrics"
	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// loginRequest is not validated: empty fields are rejected by the service as
// invalid credentials, like any other failed login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"    validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

type userResponse struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Login exchanges a username and password for a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("unknown", "invalid_credentials").Inc()
		} else {
			metrics.LoginsTotal.WithLabelValues("unknown", "error").Inc()
		}
		return err
	}

	kind := "user"
	message := "Login successful"
	if _, ok := res.Identity.(domain.AdminIdentity); ok {
		kind = "admin"
		message = "Admin login successfully"
	}
	metrics.LoginsTotal.WithLabelValues(kind, "success").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Message:   message,
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User: userResponse{
			UserID:   res.Identity.Subject(),
			Username: res.Identity.Username(),
			Email:    res.Email,
			Role:     res.Identity.Role().String(),
		},
	})
}

// ResetPassword replaces the password of an existing account.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Username and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetPassword(c.Request().Context(), req.Username, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			metrics.PasswordResetsTotal.WithLabelValues("not_found").Inc()
		case errors.Is(err, domain.ErrInvalidInput):
			metrics.PasswordResetsTotal.WithLabelValues("invalid").Inc()
		default:
			metrics.PasswordResetsTotal.WithLabelValues("error").Inc()
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Password reset successful"})
}
