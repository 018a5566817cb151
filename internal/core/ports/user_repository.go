package ports

import (
	"context"

	"github.com/borgir/video-archive/internal/core/domain"
)

// UserRepository is the credential store. Implementations must refuse to
// persist a user that still carries a staged raw password and must enforce
// email uniqueness atomically on Insert.
type UserRepository interface {
	// FindByUsername returns domain.ErrUserNotFound when no record matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	// FindByEmail returns domain.ErrUserNotFound when no record matches.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Insert returns domain.ErrUserExists when the email is already taken.
	Insert(ctx context.Context, user *domain.User) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}
