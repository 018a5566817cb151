package service

import (
	"context"
	"fmt"

	"github.com/borgir/video-archive/internal/core/domain"
	"github.com/borgir/video-archive/internal/core/ports"
)

// CredentialStore wraps a UserRepository so that every write hashes a
// staged raw password before it reaches storage. Reads pass through.
type CredentialStore struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
}

func NewCredentialStore(repo ports.UserRepository, hasher ports.PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher}
}

func (s *CredentialStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.FindByUsername(ctx, username)
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *CredentialStore) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Insert requires a staged password; a new account is never stored without one.
func (s *CredentialStore) Insert(ctx context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := user.PendingPassword(); !ok {
		return nil, fmt.Errorf("insert user: %w: password is required", domain.ErrInvalidInput)
	}
	if err := s.hashPending(user); err != nil {
		return nil, err
	}
	return s.repo.Insert(ctx, user)
}

// Save re-hashes the password only when a new one was staged.
func (s *CredentialStore) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := s.hashPending(user); err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, user)
}

func (s *CredentialStore) hashPending(user *domain.User) error {
	raw, ok := user.PendingPassword()
	if !ok {
		return nil
	}
	hash, err := s.hasher.Hash(raw)
	if err != nil {
		return err
	}
	user.ApplyPasswordHash(hash)
	return nil
}
