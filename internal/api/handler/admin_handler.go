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

type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type addUserRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
}

// accountResponse never carries the password hash.
type accountResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type addUserResponse struct {
	Message string          `json:"message"`
	User    accountResponse `json:"user"`
}

func toAccountResponse(u *domain.User) accountResponse {
	return accountResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ListUsers returns every stored account.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   accountResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.adminService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]accountResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toAccountResponse(u))
	}
	return c.JSON(http.StatusOK, out)
}

// AddUser provisions an account and emails its temporary password.
//
// @Summary      Add user
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addUserRequest  true  "New account"
// @Success      201   {object}  addUserResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/admin/users [post]
func (h *AdminHandler) AddUser(c echo.Context) error {
	var req addUserRequest
	if err := c.Bind(&req); err != nil {
		metrics.UsersProvisionedTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.UsersProvisionedTotal.WithLabelValues("invalid").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.adminService.AddUser(c.Request().Context(), ports.AddUserInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		metrics.UsersProvisionedTotal.WithLabelValues(provisionResult(err)).Inc()
		return err
	}

	metrics.UsersProvisionedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, addUserResponse{
		Message: "User created and password sent via email.",
		User:    toAccountResponse(created),
	})
}

func provisionResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "conflict"
	case errors.Is(err, domain.ErrProvisioningInProgress):
		return "in_progress"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, domain.ErrNotification):
		return "notify_failed"
	default:
		return "error"
	}
}
