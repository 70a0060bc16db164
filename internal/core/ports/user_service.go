package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// UserService defines account management use cases.
type UserService interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	// ListUsers returns every account, or only the one matching email when
	// email is non-empty.
	ListUsers(ctx context.Context, email string) ([]*domain.User, error)
	UpdateUser(ctx context.Context, id string, patch domain.UserPatch, actor *domain.Actor) (*domain.User, error)
	RemoveUser(ctx context.Context, id string, actor *domain.Actor) error
	SetAdmin(ctx context.Context, id string, isAdmin bool, actor *domain.Actor) (*domain.User, error)
}
