package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// UserService implements account management.
type UserService struct {
	users  ports.UserRepository
	logger zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, email string) ([]*domain.User, error) {
	if email = normalizeEmail(email); email != "" {
		user, err := s.users.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return []*domain.User{}, nil
			}
			return nil, err
		}
		return []*domain.User{user}, nil
	}
	return s.users.List(ctx)
}

// UpdateUser changes an account's email or password. The account holder and
// admins may do so.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch, actor *domain.Actor) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwnerOrAdmin(actor, user) {
		return nil, domain.ErrUnauthorizedAccess
	}

	if patch.Email != nil {
		email := normalizeEmail(*patch.Email)
		if email == "" {
			return nil, domain.ErrInvalidInput
		}
		if email != user.Email {
			taken, err := s.users.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
			if taken != nil {
				return nil, domain.ErrEmailInUse
			}
			user.Email = email
		}
	}
	if patch.Password != nil {
		if *patch.Password == "" {
			return nil, domain.ErrInvalidInput
		}
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("actor_id", actor.ID).Msg("user updated")
	return user, nil
}

// RemoveUser deletes an account together with its reports and reviews.
func (s *UserService) RemoveUser(ctx context.Context, id string, actor *domain.Actor) error {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.IsOwnerOrAdmin(actor, user) {
		return domain.ErrUnauthorizedAccess
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info().Str("user_id", user.ID).Str("actor_id", actor.ID).Msg("user removed")
	return nil
}

// SetAdmin grants or revokes administrator rights. Admins only.
func (s *UserService) SetAdmin(ctx context.Context, id string, isAdmin bool, actor *domain.Actor) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsAdmin(actor) {
		return nil, domain.ErrUnauthorizedAccess
	}

	user.IsAdmin = isAdmin
	user.UpdatedAt = s.now()
	if err := s.users.SetAdmin(ctx, user.ID, isAdmin, user.UpdatedAt); err != nil {
		return nil, err
	}

	s.logger.Warn().Str("user_id", user.ID).Str("actor_id", actor.ID).Bool("admin", isAdmin).Msg("admin rights changed")
	return user, nil
}
