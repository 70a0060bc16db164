package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (string, *domain.User, error)
	SignOut(ctx context.Context, token string) error
	// ResolveActor turns a bearer token into the caller's current identity.
	ResolveActor(ctx context.Context, token string) (*domain.Actor, error)
}
