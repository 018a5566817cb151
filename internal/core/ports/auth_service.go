package ports

import (
	"context"
	"time"

	"github.com/borgir/video-archive/internal/core/domain"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  domain.Identity
	// Email is empty for the configured administrator.
	Email string
}

// AuthService covers login and password reset.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	ResetPassword(ctx context.Context, username, newPassword string) error
}

// AddUserInput carries the admin-supplied fields for a new account.
type AddUserInput struct {
	Username string
	Email    string
}

// AdminService covers account provisioning.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*domain.User, error)
	AddUser(ctx context.Context, input AddUserInput) (*domain.User, error)
}
