package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/commonsapp/commons/internal/commons/domain"
	"github.com/commonsapp/commons/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// BootstrapService creates the first superadmin on an empty system. Once any
// user exists the endpoint is permanently closed.
type BootstrapService struct {
	Users *UserService
	Token string // pre-configured bootstrap token; empty disables the check
}

func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	empty, err := s.Users.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !empty, nil
}

func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, displayName, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	bootstrapped, err := s.IsBootstrapped(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to check bootstrap state: %w", err)
	}
	if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return domain.User{}, ErrBootstrapAlready
	}

	if s.Token != "" && token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return domain.User{}, ErrBootstrapUnauthorized
	}

	user, err := s.Users.CreateUser(ctx, email, displayName, password, domain.RoleSuperadmin)
	if err != nil {
		return domain.User{}, err
	}

	l.Info("system bootstrapped", slog.String("admin_user_id", user.ID))
	return user, nil
}
