package ports

import (
	"context"
	"time"

	"github.com/borgir/video-archive/internal/core/domain"
)

// PasswordHasher is the one-way password primitive.
type PasswordHasher interface {
	Hash(raw string) (string, error)
	// Verify reports whether raw matches hash. Malformed hashes yield false.
	Verify(raw, hash string) bool
}

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	Issue(identity domain.Identity) (string, *domain.Claims, error)
	// Verify returns an error wrapping domain.ErrInvalidToken on any failure.
	Verify(token string) (*domain.Claims, error)
}

// Notifier delivers a temporary password to a newly provisioned account.
type Notifier interface {
	SendTemporaryPassword(ctx context.Context, to, username, password string) error
}

// ProvisioningGuard serialises concurrent provisioning attempts for the
// same email. It is an optimisation only; the store's unique index is
// authoritative.
type ProvisioningGuard interface {
	// Acquire reports whether the lock was taken and returns the token
	// that must be handed back to Release.
	Acquire(ctx context.Context, email string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the lock only if it is still held under token.
	Release(ctx context.Context, email, token string) error
}
