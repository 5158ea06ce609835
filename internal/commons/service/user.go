package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/internal/commons/store"
	"github.com/commonsapp/commons/pkg/cryptox"
	"github.com/commonsapp/commons/pkg/idx"
)

var (
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidPlatformRole = errors.New("invalid platform role")
	ErrWeakPassword        = errors.New("password too short")
	ErrEmailTaken          = errors.New("email already registered")
)

const minPasswordLength = 12

// UserService covers user lookup and the admin user-creation surface.
type UserService struct {
	Store store.Store
}

func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}

// ListUsers returns all users, newest first.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// CreateUser creates a user with the given platform role. Password policy is
// deliberately minimal: length only, no composition rules.
func (s *UserService) CreateUser(ctx context.Context, email, displayName, password string, role domain.PlatformRole) (domain.User, error) {
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, ErrInvalidEmail
	}
	if !role.Valid() {
		return domain.User{}, ErrInvalidPlatformRole
	}
	if len(password) < minPasswordLength {
		return domain.User{}, ErrWeakPassword
	}

	if _, err := s.Store.Users().GetUserByEmail(ctx, email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, fmt.Errorf("failed to check email: %w", err)
	}

	passHash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := idx.New().String()
	err = s.Store.Users().CreateUser(ctx, domain.User{
		ID:           userID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passHash,
		PlatformRole: role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return s.Store.Users().GetUserByID(ctx, userID)
}
