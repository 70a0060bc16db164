package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// ReviewRepository defines persistence operations for reviews. Reads
// populate Author.
type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ListByReport(ctx context.Context, reportID string) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
	// Update follows the same optimistic version rule as ReportRepository.Update.
	Update(ctx context.Context, r *domain.Review) error
	// Delete returns the number of rows removed.
	Delete(ctx context.Context, id string) (int64, error)
}
