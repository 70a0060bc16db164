package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

// ReportService implements the report lifecycle and the price estimate.
type ReportService struct {
	reports ports.ReportRepository
	users   ports.UserRepository
	logger  zerolog.Logger
	now     func() time.Time
}

func NewReportService(reports ports.ReportRepository, users ports.UserRepository, logger zerolog.Logger) *ReportService {
	return &ReportService{
		reports: reports,
		users:   users,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateReport stores a new, unapproved report owned by owner.
func (s *ReportService) CreateReport(ctx context.Context, input ports.CreateReportInput, owner *domain.Actor) (*domain.ReportView, error) {
	if owner == nil {
		return nil, domain.ErrUnauthorizedAccess
	}
	user, err := s.users.FindByID(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	report := &domain.Report{
		ID:        uuid.NewString(),
		Price:     input.Price,
		Make:      domain.NormalizeName(input.Make),
		Model:     domain.NormalizeName(input.Model),
		Year:      input.Year,
		Mileage:   input.Mileage,
		Location:  domain.Coordinates{Lat: input.Lat, Lng: input.Lng},
		Approved:  false,
		UserID:    user.ID,
		Owner:     user,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create report")
		return nil, err
	}

	s.logger.Info().Str("report_id", report.ID).Str("user_id", user.ID).Msg("report created")
	return s.view(report, owner)
}

// ListReports returns every report to admins and only approved reports, in
// their public shape, to everyone else.
func (s *ReportService) ListReports(ctx context.Context, actor *domain.Actor) ([]domain.ReportView, error) {
	if domain.IsAdmin(actor) {
		rows, err := s.reports.List(ctx, domain.ReportFilter{})
		if err != nil {
			return nil, err
		}
		return projectAll(rows, actor), nil
	}

	rows, err := s.reports.List(ctx, domain.ReportFilter{ApprovedOnly: true})
	if err != nil {
		return nil, err
	}
	// listings never elevate owners; their private view is per report
	return projectAll(rows, nil), nil
}

// GetReport returns the report shaped for actor. Unapproved reports are
// reported as missing to anyone but their owner and admins.
func (s *ReportService) GetReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.view(report, actor)
}

// UpdateReport applies an owner's partial update.
func (s *ReportService) UpdateReport(ctx context.Context, id string, patch domain.ReportPatch, actor *domain.Actor) (*domain.ReportView, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwner(actor, report) {
		return nil, domain.ErrUnauthorizedAccess
	}
	if patch.Empty() {
		return s.view(report, actor)
	}

	patch.Apply(report)
	report.UpdatedAt = s.now()
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info().Str("report_id", report.ID).Str("user_id", actor.ID).Msg("report updated")
	return s.view(report, actor)
}

// DeleteReport removes a report and its reviews. Owners and admins only.
func (s *ReportService) DeleteReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsOwnerOrAdmin(actor, report) {
		return nil, domain.ErrUnauthorizedAccess
	}

	snapshot, err := s.view(report, actor)
	if err != nil {
		return nil, err
	}
	if err := s.reports.Delete(ctx, report.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("report_id", report.ID).Str("actor_id", actor.ID).Bool("admin", actor.IsAdmin).Msg("report deleted")
	return snapshot, nil
}

// ApproveReport sets the approval flag. Admins only.
func (s *ReportService) ApproveReport(ctx context.Context, id string, approved bool, actor *domain.Actor) (*domain.ReportView, error) {
	report, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.IsAdmin(actor) {
		return nil, domain.ErrUnauthorizedAccess
	}

	report.Approved = approved
	report.UpdatedAt = s.now()
	if err := s.reports.Update(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info().Str("report_id", report.ID).Bool("approved", approved).Msg("report approval changed")
	return s.view(report, actor)
}

// ListUserReports returns the reports of one seller as actor may see them.
func (s *ReportService) ListUserReports(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReportView, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	privileged := domain.IsAdmin(actor) || (actor != nil && actor.ID == userID)
	rows, err := s.reports.List(ctx, domain.ReportFilter{UserID: userID, ApprovedOnly: !privileged})
	if err != nil {
		return nil, err
	}
	return projectAll(rows, actor), nil
}

// Estimate averages the price of up to three approved comparables. An
// estimate with no comparables has a nil Price and is not an error.
func (s *ReportService) Estimate(ctx context.Context, criteria domain.EstimateCriteria) (*domain.Estimate, error) {
	c := criteria.Normalized()
	if !c.Complete() {
		return &domain.Estimate{}, nil
	}

	est, err := s.reports.Estimate(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("make", c.Make).Str("model", c.Model).Msg("estimate query failed")
		return nil, err
	}

	s.logger.Debug().Str("make", c.Make).Str("model", c.Model).Int("comparables", est.Comparables).Msg("estimate computed")
	return est, nil
}

// load fetches a report for a write path. A report whose owner no longer
// resolves is treated as missing.
func (s *ReportService) load(ctx context.Context, id string) (*domain.Report, error) {
	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !report.HasOwner() {
		return nil, domain.ErrReportNotFound
	}
	return report, nil
}

func (s *ReportService) view(report *domain.Report, actor *domain.Actor) (*domain.ReportView, error) {
	v, ok := domain.ProjectReport(report, actor)
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return &v, nil
}

func projectAll(rows []*domain.Report, viewer *domain.Actor) []domain.ReportView {
	out := make([]domain.ReportView, 0, len(rows))
	for _, r := range rows {
		if v, ok := domain.ProjectReport(r, viewer); ok {
			out = append(out, v)
		}
	}
	return out
}
