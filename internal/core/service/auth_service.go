package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

// AdminCredentials is the configured administrator login. An empty
// username or password disables administrator login.
type AdminCredentials struct {
	Username string
	Password string
}

func (a AdminCredentials) matches(username, password string) bool {
	if a.Username == "" || a.Password == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username))
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password))
	return userOK&passOK == 1
}

// AuthService implements login and password reset.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	admin  AdminCredentials
	log    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	admin AdminCredentials,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, admin: admin, log: log}
}

// Login resolves credentials to the configured administrator first and to a
// stored user otherwise. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	if s.admin.matches(username, password) {
		identity := domain.AdminIdentity{Name: s.admin.Username}
		result, err := s.issue(identity, "")
		if err != nil {
			return nil, err
		}
		s.log.Info().Str("subject", domain.AdminSubject).Msg("admin login")
		return result, nil
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Str("username", username).Msg("login rejected: unknown username")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Debug().Str("user_id", user.ID).Msg("login rejected: password mismatch")
		return nil, domain.ErrInvalidCredentials
	}

	result, err := s.issue(domain.StoredIdentity{User: user}, user.Email)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user login")
	return result, nil
}

// ResetPassword overwrites the password of the account named username.
// The caller is not required to prove ownership of the account, and tokens
// issued before the reset stay valid until they expire.
func (s *AuthService) ResetPassword(ctx context.Context, username, newPassword string) error {
	if strings.TrimSpace(username) == "" || newPassword == "" {
		return fmt.Errorf("reset password: %w: username and new password are required", domain.ErrInvalidInput)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("reset password: find user: %w", err)
	}

	user.SetPassword(newPassword)
	if _, err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("reset password: save user: %w", err)
	}

	s.log.Warn().Str("user_id", user.ID).Msg("password reset without proof of identity")
	return nil
}

func (s *AuthService) issue(identity domain.Identity, email string) (*ports.LoginResult, error) {
	token, claims, err := s.tokens.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("login: issue token: %w", err)
	}
	return &ports.LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt,
		Identity:  identity,
		Email:     email,
	}, nil
}
