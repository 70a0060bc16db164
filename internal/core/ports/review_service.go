package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// CreateReviewInput carries the body of a new review.
type CreateReviewInput struct {
	Content string
	Rating  int
}

// ReviewService defines review use cases. Where a reportID is accepted, an
// empty value skips the "review belongs to report" check.
type ReviewService interface {
	CreateReview(ctx context.Context, reportID string, input CreateReviewInput, author *domain.Actor) (*domain.ReviewView, error)
	ListReviewsForReport(ctx context.Context, reportID string, actor *domain.Actor) ([]domain.ReviewView, error)
	ListReviewsByUser(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReviewView, error)
	GetReview(ctx context.Context, id string, actor *domain.Actor) (*domain.ReviewView, error)
	UpdateReview(ctx context.Context, reportID, id string, patch domain.ReviewPatch, actor *domain.Actor) (*domain.ReviewView, error)
	DeleteReview(ctx context.Context, reportID, id string, actor *domain.Actor) error
}
