package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

type stubAuthService struct {
	signUpFn  func(ctx context.Context, email, password string) (*domain.User, error)
	signInFn  func(ctx context.Context, email, password string) (string, *domain.User, error)
	signOutFn func(ctx context.Context, token string) error
}

func (s *stubAuthService) SignUp(ctx context.Context, email, password string) (*domain.User, error) {
	return s.signUpFn(ctx, email, password)
}

func (s *stubAuthService) SignIn(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.signInFn(ctx, email, password)
}

func (s *stubAuthService) SignOut(ctx context.Context, token string) error {
	return s.signOutFn(ctx, token)
}

func (s *stubAuthService) ResolveActor(context.Context, string) (*domain.Actor, error) {
	return nil, domain.ErrInvalidToken
}

type stubUserService struct {
	getFn      func(ctx context.Context, id string) (*domain.User, error)
	listFn     func(ctx context.Context, email string) ([]*domain.User, error)
	updateFn   func(ctx context.Context, id string, patch domain.UserPatch, actor *domain.Actor) (*domain.User, error)
	removeFn   func(ctx context.Context, id string, actor *domain.Actor) error
	setAdminFn func(ctx context.Context, id string, isAdmin bool, actor *domain.Actor) (*domain.User, error)
}

func (s *stubUserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getFn(ctx, id)
}

func (s *stubUserService) ListUsers(ctx context.Context, email string) ([]*domain.User, error) {
	return s.listFn(ctx, email)
}

func (s *stubUserService) UpdateUser(ctx context.Context, id string, patch domain.UserPatch, actor *domain.Actor) (*domain.User, error) {
	return s.updateFn(ctx, id, patch, actor)
}

func (s *stubUserService) RemoveUser(ctx context.Context, id string, actor *domain.Actor) error {
	return s.removeFn(ctx, id, actor)
}

func (s *stubUserService) SetAdmin(ctx context.Context, id string, isAdmin bool, actor *domain.Actor) (*domain.User, error) {
	return s.setAdminFn(ctx, id, isAdmin, actor)
}

type stubReportService struct {
	createFn   func(ctx context.Context, input ports.CreateReportInput, owner *domain.Actor) (*domain.ReportView, error)
	listFn     func(ctx context.Context, actor *domain.Actor) ([]domain.ReportView, error)
	getFn      func(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error)
	updateFn   func(ctx context.Context, id string, patch domain.ReportPatch, actor *domain.Actor) (*domain.ReportView, error)
	deleteFn   func(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error)
	approveFn  func(ctx context.Context, id string, approved bool, actor *domain.Actor) (*domain.ReportView, error)
	byUserFn   func(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReportView, error)
	estimateFn func(ctx context.Context, criteria domain.EstimateCriteria) (*domain.Estimate, error)
}

func (s *stubReportService) CreateReport(ctx context.Context, input ports.CreateReportInput, owner *domain.Actor) (*domain.ReportView, error) {
	return s.createFn(ctx, input, owner)
}

func (s *stubReportService) ListReports(ctx context.Context, actor *domain.Actor) ([]domain.ReportView, error) {
	return s.listFn(ctx, actor)
}

func (s *stubReportService) GetReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error) {
	return s.getFn(ctx, id, actor)
}

func (s *stubReportService) UpdateReport(ctx context.Context, id string, patch domain.ReportPatch, actor *domain.Actor) (*domain.ReportView, error) {
	return s.updateFn(ctx, id, patch, actor)
}

func (s *stubReportService) DeleteReport(ctx context.Context, id string, actor *domain.Actor) (*domain.ReportView, error) {
	return s.deleteFn(ctx, id, actor)
}

func (s *stubReportService) ApproveReport(ctx context.Context, id string, approved bool, actor *domain.Actor) (*domain.ReportView, error) {
	return s.approveFn(ctx, id, approved, actor)
}

func (s *stubReportService) ListUserReports(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReportView, error) {
	return s.byUserFn(ctx, userID, actor)
}

func (s *stubReportService) Estimate(ctx context.Context, criteria domain.EstimateCriteria) (*domain.Estimate, error) {
	return s.estimateFn(ctx, criteria)
}

type stubReviewService struct {
	createFn func(ctx context.Context, reportID string, input ports.CreateReviewInput, author *domain.Actor) (*domain.ReviewView, error)
	listFn   func(ctx context.Context, reportID string, actor *domain.Actor) ([]domain.ReviewView, error)
	byUserFn func(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReviewView, error)
	getFn    func(ctx context.Context, id string, actor *domain.Actor) (*domain.ReviewView, error)
	updateFn func(ctx context.Context, reportID, id string, patch domain.ReviewPatch, actor *domain.Actor) (*domain.ReviewView, error)
	deleteFn func(ctx context.Context, reportID, id string, actor *domain.Actor) error
}

func (s *stubReviewService) CreateReview(ctx context.Context, reportID string, input ports.CreateReviewInput, author *domain.Actor) (*domain.ReviewView, error) {
	return s.createFn(ctx, reportID, input, author)
}

func (s *stubReviewService) ListReviewsForReport(ctx context.Context, reportID string, actor *domain.Actor) ([]domain.ReviewView, error) {
	return s.listFn(ctx, reportID, actor)
}

func (s *stubReviewService) ListReviewsByUser(ctx context.Context, userID string, actor *domain.Actor) ([]domain.ReviewView, error) {
	return s.byUserFn(ctx, userID, actor)
}

func (s *stubReviewService) GetReview(ctx context.Context, id string, actor *domain.Actor) (*domain.ReviewView, error) {
	return s.getFn(ctx, id, actor)
}

func (s *stubReviewService) UpdateReview(ctx context.Context, reportID, id string, patch domain.ReviewPatch, actor *domain.Actor) (*domain.ReviewView, error) {
	return s.updateFn(ctx, reportID, id, patch, actor)
}

func (s *stubReviewService) DeleteReview(ctx context.Context, reportID, id string, actor *domain.Actor) error {
	return s.deleteFn(ctx, reportID, id, actor)
}

// newContext builds an echo context for target, with path params and an
// optional caller already resolved.
func newContext(t *testing.T, method, target string, body io.Reader, caller *domain.Actor, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)

	if caller != nil {
		c.Set("actor", caller)
		c.Set("token", "token-"+caller.ID)
	}
	return c, rec
}

// httpCode returns the status carried by an echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}

func ptr[T any](v T) *T { return &v }
