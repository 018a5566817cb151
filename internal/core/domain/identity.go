package domain

import "time"

// AdminSubject is the fixed subject of the configured administrator.
const AdminSubject = "admin"

// Identity is the outcome of a successful login. It is either the
// configured administrator or a stored user; the two never share storage.
type Identity interface {
	Subject() string
	Username() string
	Role() Role
	identity()
}

// AdminIdentity is the process-wide administrator held in configuration.
type AdminIdentity struct {
	Name string
}

func (a AdminIdentity) Subject() string  { return AdminSubject }
func (a AdminIdentity) Username() string { return a.Name }
func (a AdminIdentity) Role() Role       { return RoleAdmin }
func (AdminIdentity) identity()          {}

// StoredIdentity wraps an account found in the credential store.
type StoredIdentity struct {
	User *User
}

func (s StoredIdentity) Subject() string  { return s.User.ID }
func (s StoredIdentity) Username() string { return s.User.Username }
func (s StoredIdentity) Role() Role       { return s.User.Role }
func (StoredIdentity) identity()          {}

// Claims is the verified content of a bearer token.
type Claims struct {
	ID        string
	Subject   string
	Username  string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Principal is the caller identity attached to a request after its token
// has been verified.
type Principal struct {
	Subject  string
	Username string
	Role     Role
}

// PrincipalFromClaims derives the request identity from verified claims.
func PrincipalFromClaims(c *Claims) Principal {
	return Principal{Subject: c.Subject, Username: c.Username, Role: c.Role}
}

// IsAdmin reports whether the principal carries the admin role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
