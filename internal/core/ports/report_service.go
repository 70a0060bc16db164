package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// CreateReportInput carries the fields of a new listing.
type CreateReportInput struct {
	Price   int64
	Make    string
	Model   string
	Year    int
	Mileage int64
	Lat     float64
	Lng     float64
}

// ReportService defines the report lifecycle and estimate use cases. A nil
// actor is an anonymous caller.
type ReportService interface {
	CreateReport(ctx context.Context, input CreateReportInput, owner *domain.Actor) (*domain.ReportView, error)
	ListReports(ctx context.Context, actor *domain.Actor) ([]domain.ReportView, error)
	GetReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error)
	UpdateReport(ctx context.Context, id string, patch domain.ReportPatch, actor *domain.Actor) (*domain.ReportView, error)
	DeleteReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error)
	ApproveReport(ctx context.Context, id string, approved bool, actor *domain.Actor) (*domain.ReportView, error)
	ListUserReports(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReportView, error)
	Estimate(ctx context.Context, criteria domain.EstimateCriteria) (*domain.Estimate, error)
}
