package domain

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of authorization roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts a raw role value into a Role. Unknown values are
// rejected instead of being treated as a lesser role.
func ParseRole(s string) (Role, error) {
	switch Role(strings.TrimSpace(s)) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
}

func (r Role) String() string { return string(r) }

// User models a stored account. The built-in administrator is not a User.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// pendingPassword holds a raw password until the credential store
	// hashes it. It is never serialised.
	pendingPassword *string
}

// SetPassword stages a raw password. The credential store replaces it with
// a hash before the record is written.
func (u *User) SetPassword(raw string) {
	u.pendingPassword = &raw
}

// PendingPassword returns the staged raw password, if any.
func (u *User) PendingPassword() (string, bool) {
	if u.pendingPassword == nil {
		return "", false
	}
	return *u.pendingPassword, true
}

// ApplyPasswordHash stores hash and discards the staged raw password.
func (u *User) ApplyPasswordHash(hash string) {
	u.PasswordHash = hash
	u.pendingPassword = nil
}
