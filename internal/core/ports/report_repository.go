package ports

import (
	"context"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// ReportRepository defines persistence operations for reports.
//
// Reads return reports with Owner and Reviews populated.
type ReportRepository interface {
	Create(ctx context.Context, r *domain.Report) error
	// FindByID returns domain.ErrReportNotFound when no row matches.
	FindByID(ctx context.Context, id string) (*domain.Report, error)
	List(ctx context.Context, filter domain.ReportFilter) ([]*domain.Report, error)
	// Update writes r only if the stored version still equals r.Version, then
	// increments r.Version. A mismatch yields domain.ErrStaleWrite.
	Update(ctx context.Context, r *domain.Report) error
	// Delete removes the report and its reviews.
	Delete(ctx context.Context, id string) error
	// Estimate averages the price of the comparables selected by c.
	Estimate(ctx context.Context, c domain.EstimateCriteria) (*domain.Estimate, error)
}
