package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// ReviewService implements review use cases.
type ReviewService struct {
	reviews ports.ReviewRepository
	reports ports.ReportRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewReviewService(reviews ports.ReviewRepository, reports ports.ReportRepository, logger zerolog.Logger) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		reports: reports,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateReview records author's review of a report they can see and do not own.
func (s *ReviewService) CreateReview(ctx context.Context, reportID string, input ports.CreateReviewInput, author *domain.Actor) (*domain.ReviewView, error) {
	if author == nil {
		return nil, domain.ErrUnauthorizedAccess
	}
	report, err := s.visibleReport(ctx, reportID, author)
	if err != nil {
		return nil, err
	}
	// the ban is evaluated against the report's owner, not the viewer
	if domain.IsOwner(author, report) {
		return nil, domain.ErrSelfReview
	}
	if !domain.ValidRating(input.Rating) {
		return nil, domain.ErrInvalidRating
	}

	now := s.now()
	review := &domain.Review{
		ID:        uuid.NewString(),
		Content:   input.Content,
		Rating:    input.Rating,
		UserID:    author.ID,
		ReportID:  report.ID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		s.logger.Error().Err(err).Str("report_id", report.ID).Msg("failed to create review")
		return nil, err
	}

	s.logger.Info().Str("review_id", review.ID).Str("report_id", report.ID).Str("user_id", author.ID).Msg("review created")

	// fetch back to resolve the author
	created, err := s.reviews.FindByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	v := domain.ProjectReview(created)
	return &v, nil
}

// ListReviewsForReport lists the reviews of a report visible to actor.
func (s *ReviewService) ListReviewsForReport(ctx context.Context, reportID string, actor *domain.Actor) ([]domain.ReviewView, error) {
	if _, err := s.visibleReport(ctx, reportID, actor); err != nil {
		return nil, err
	}
	rows, err := s.reviews.ListByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return projectReviews(rows), nil
}

// ListReviewsByUser lists the reviews written by one user on reports actor
// may see.
func (s *ReviewService) ListReviewsByUser(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReviewView, error) {
	rows, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	visible := make(map[string]bool)
	out := make([]domain.ReviewView, 0, len(rows))
	for i := range rows {
		reportID := rows[i].ReportID
		ok, seen := visible[reportID]
		if !seen {
			_, err := s.visibleReport(ctx, reportID, actor)
			switch {
			case err == nil:
				ok = true
			case errors.Is(err, domain.ErrNotFound):
				ok = false
			default:
				return nil, err
			}
			visible[reportID] = ok
		}
		if ok {
			out = append(out, domain.ProjectReview(&rows[i]))
		}
	}
	return out, nil
}

// GetReview returns a review whose report actor may see. Reviews of hidden
// reports are reported as missing.
func (s *ReviewService) GetReview(ctx context.Context, id string, actor *domain.Actor) (*domain.ReviewView, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.visibleReport(ctx, review.ReportID, actor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, err
	}
	v := domain.ProjectReview(review)
	return &v, nil
}

// UpdateReview applies the author's changes.
func (s *ReviewService) UpdateReview(ctx context.Context, reportID, id string, patch domain.ReviewPatch, actor *domain.Actor) (*domain.ReviewView, error) {
	review, err := s.authored(ctx, reportID, id, actor)
	if err != nil {
		return nil, err
	}
	if patch.Rating != nil && !domain.ValidRating(*patch.Rating) {
		return nil, domain.ErrInvalidRating
	}

	patch.Apply(review)
	review.UpdatedAt = s.now()
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info().Str("review_id", review.ID).Str("user_id", actor.ID).Msg("review updated")
	v := domain.ProjectReview(review)
	return &v, nil
}

// DeleteReview removes a review. Only its author may do so.
func (s *ReviewService) DeleteReview(ctx context.Context, reportID, id string, actor *domain.Actor) error {
	review, err := s.authored(ctx, reportID, id, actor)
	if err != nil {
		return err
	}

	n, err := s.reviews.Delete(ctx, review.ID)
	if err != nil {
		return err
	}
	// the row vanished between the checks and the delete
	if n == 0 {
		return domain.ErrReviewNotDeleted
	}

	s.logger.Info().Str("review_id", review.ID).Str("user_id", actor.ID).Msg("review deleted")
	return nil
}

// authored loads a review for a write by actor, checking it belongs to
// reportID when one is given.
func (s *ReviewService) authored(ctx context.Context, reportID, id string, actor *domain.Actor) (*domain.Review, error) {
	if reportID != "" {
		if _, err := s.reports.FindByID(ctx, reportID); err != nil {
			return nil, err
		}
	}
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reportID != "" && review.ReportID != reportID {
		return nil, domain.ErrReviewNotFound
	}
	if !domain.IsOwner(actor, review) {
		return nil, domain.ErrUnauthorizedAccess
	}
	return review, nil
}

// visibleReport applies the report visibility rule for actor.
func (s *ReviewService) visibleReport(ctx context.Context, reportID string, actor *domain.Actor) (*domain.Report, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if _, ok := domain.ProjectReport(report, actor); !ok {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

func projectReviews(rows []domain.Review) []domain.ReviewView {
	out := make([]domain.ReviewView, len(rows))
	for i := range rows {
		out[i] = domain.ProjectReview(&rows[i])
	}
	return out
}
