package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

const provisioningGuardTTL = 30 * time.Second

// PasswordGenerator produces a temporary password of the given length.
type PasswordGenerator func(length int) (string, error)

type AdminService struct {
	users    ports.UserRepository
	notifier ports.Notifier
	guard    ports.ProvisioningGuard
	generate PasswordGenerator
	log      zerolog.Logger
}

// NewAdminService returns an AdminService. guard may be nil.
func NewAdminService(
	users ports.UserRepository,
	notifier ports.Notifier,
	guard ports.ProvisioningGuard,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		notifier: notifier,
		guard:    guard,
		generate: GenerateTemporaryPassword,
		log:      log,
	}
}

// ListUsers returns every stored account. The administrator is not included.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// AddUser creates an account with a generated temporary password and mails
// it to the new user.
//
// If the notification fails the account is kept: the created user is
// returned together with an error wrapping domain.ErrNotification.
func (s *AdminService) AddUser(ctx context.Context, in ports.AddUserInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("add user: %w: username and email are required", domain.ErrInvalidInput)
	}

	// 1. In-flight guard. Errors here only cost us the optimisation.
	contended := false
	if s.guard != nil {
		token, acquired, err := s.guard.Acquire(ctx, email, provisioningGuardTTL)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("provisioning guard unavailable, continuing")
		case !acquired:
			contended = true
		default:
			defer func() {
				if err := s.guard.Release(context.WithoutCancel(ctx), email, token); err != nil {
					s.log.Warn().Err(err).Msg("failed to release provisioning guard")
				}
			}()
		}
	}

	// 2. Early duplicate check; the unique index on insert is authoritative.
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("add user: find by email: %w", err)
	}

	// Someone else is provisioning this address and nothing is stored yet.
	if contended {
		return nil, domain.ErrProvisioningInProgress
	}

	// 3. Temporary password.
	password, err := s.generate(DefaultTemporaryPasswordLength)
	if err != nil {
		return nil, fmt.Errorf("add user: %w", err)
	}

	// 4. Persist; the credential store hashes the staged password.
	user := &domain.User{Username: username, Email: email, Role: domain.RoleUser}
	user.SetPassword(password)

	created, err := s.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("add user: insert: %w", err)
	}

	// 5. Deliver the password.
	if err := s.notifier.SendTemporaryPassword(ctx, created.Email, created.Username, password); err != nil {
		s.log.Error().Err(err).Str("user_id", created.ID).Msg("account created but notification failed")
		return created, fmt.Errorf("%w: %w", domain.ErrNotification, err)
	}

	s.log.Info().Str("user_id", created.ID).Str("username", created.Username).Msg("user provisioned")
	return created, nil
}
