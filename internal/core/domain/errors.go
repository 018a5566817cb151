package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidRole        = errors.New("invalid role")

	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	// ErrProvisioningInProgress means another request holds the
	// provisioning lock for the same email and no record exists yet.
	ErrProvisioningInProgress = errors.New("provisioning already in progress")

	// ErrUnhashedPassword is returned by repositories asked to persist a
	// user whose staged raw password was never hashed.
	ErrUnhashedPassword = errors.New("password must be hashed before persistence")

	ErrMissingSigningKey = errors.New("token signing key is not configured")
	ErrNotification      = errors.New("notification delivery failed")

	ErrVideoNotFound = errors.New("video not found")
)
