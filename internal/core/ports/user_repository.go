package ports

import (
	"context"
	"time"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence operations for accounts.
type UserRepository interface {
	// Create returns domain.ErrEmailInUse when the email is taken.
	Create(ctx context.Context, u *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Update writes the email, password and timestamps of u. Admin rights
	// are left untouched.
	Update(ctx context.Context, u *domain.User) error
	// SetAdmin changes only the admin flag and updated_at.
	SetAdmin(ctx context.Context, id string, isAdmin bool, at time.Time) error
	// Delete removes the account, its reports (with their reviews) and the
	// reviews it authored.
	Delete(ctx context.Context, id string) error
}
