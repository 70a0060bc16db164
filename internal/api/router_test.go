package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/api/handler"
	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

type stubAuth struct{ ports.AuthService }

func (stubAuth) ResolveActor(_ context.Context, token string) (*domain.Actor, error) {
	switch token {
	case "alice-token":
		return &domain.Actor{ID: "alice"}, nil
	case "admin-token":
		return &domain.Actor{ID: "root", IsAdmin: true}, nil
	}
	return nil, domain.ErrInvalidToken
}

type stubUsers struct{ ports.UserService }

func (stubUsers) ListUsers(context.Context, string) ([]*domain.User, error) {
	return []*domain.User{{ID: "root", IsAdmin: true}}, nil
}

type stubReports struct{ ports.ReportService }

func (stubReports) Estimate(context.Context, domain.EstimateCriteria) (*domain.Estimate, error) {
	return &domain.Estimate{}, nil
}

func (stubReports) GetReport(context.Context, string, *domain.Actor) (*domain.ReportView, error) {
	return nil, domain.ErrReportNotFound
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Auth:    stubAuth{},
		Users:   stubUsers{},
		Reports: stubReports{},
		HealthChecks: []handler.Check{
			{Name: "store", Ping: func(context.Context) error { return nil }},
		},
		Registry: prometheus.NewRegistry(),
		Logger:   zerolog.Nop(),
	})
}

func TestRouter(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		target   string
		token    string
		body     string
		wantCode int
	}{
		{"liveness", http.MethodGet, "/health", "", "", http.StatusOK},
		{"readiness", http.MethodGet, "/health/ready", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"estimate is not a report id", http.MethodGet, "/reports/estimate?make=a", "", "", http.StatusOK},
		{"missing report", http.MethodGet, "/reports/r1", "", "", http.StatusNotFound},
		{"create requires auth", http.MethodPost, "/reports", "", `{}`, http.StatusUnauthorized},
		{"rejected token", http.MethodGet, "/reports/r1", "forged", "", http.StatusUnauthorized},
		{"user list anonymous", http.MethodGet, "/users", "", "", http.StatusUnauthorized},
		{"user list non admin", http.MethodGet, "/users", "alice-token", "", http.StatusUnauthorized},
		{"user list admin", http.MethodGet, "/users", "admin-token", "", http.StatusOK},
		{"signout requires auth", http.MethodPost, "/auth/signout", "", "", http.StatusUnauthorized},
		{"unknown route", http.MethodGet, "/nowhere", "", "", http.StatusNotFound},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}
}
