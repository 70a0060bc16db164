package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/carvalue/marketplace-api/internal/core/domain"
	"github.com/carvalue/marketplace-api/internal/core/ports"
)

func TestReviewHandler_Create_Success(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubReviewService{
		createFn: func(_ context.Context, reportID string, in ports.CreateReviewInput, author *domain.Actor) (*domain.ReviewView, error) {
			if reportID != "r1" || author.ID != "bob" || in.Rating != 5 || in.Content != "honest seller" {
				t.Fatalf("unexpected args %q %+v %+v", reportID, in, author)
			}
			return &domain.ReviewView{
				ID:        "v1",
				Content:   in.Content,
				Rating:    in.Rating,
				Author:    &domain.UserRef{ID: author.ID, Email: "bob@example.com"},
				ReportID:  reportID,
				CreatedAt: created,
			}, nil
		},
	}
	h := NewReviewHandler(stub)

	body := strings.NewReader(`{"content":"honest seller","rating":5}`)
	c, rec := newContext(t, http.MethodPost, "/reports/r1/reviews", body, &domain.Actor{ID: "bob"}, "id", "r1")

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp reviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.User == nil || resp.User.Email != "bob@example.com" || resp.Report == nil || resp.Report.ID != "r1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if resp.CreatedAt == nil || !resp.CreatedAt.Equal(created) {
		t.Fatalf("unexpected created_at: %v", resp.CreatedAt)
	}
}

func TestReviewHandler_Create_Validation(t *testing.T) {
	cases := map[string]string{
		"rating too low":  `{"content":"meh","rating":0}`,
		"rating too high": `{"content":"wow","rating":6}`,
		"missing rating":  `{"content":"wow"}`,
		"missing content": `{"rating":3}`,
		"blank content":   `{"content":"  ","rating":3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			h := NewReviewHandler(&stubReviewService{})
			c, _ := newContext(t, http.MethodPost, "/reports/r1/reviews", strings.NewReader(body), &domain.Actor{ID: "bob"}, "id", "r1")

			if err := h.Create(c); httpCode(err) != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestReviewHandler_Create_SelfReview(t *testing.T) {
	stub := &stubReviewService{
		createFn: func(context.Context, string, ports.CreateReviewInput, *domain.Actor) (*domain.ReviewView, error) {
			return nil, domain.ErrSelfReview
		},
	}
	h := NewReviewHandler(stub)

	body := strings.NewReader(`{"content":"my own car","rating":5}`)
	c, _ := newContext(t, http.MethodPost, "/reports/r1/reviews", body, &domain.Actor{ID: "alice"}, "id", "r1")

	if err := h.Create(c); !errors.Is(err, domain.ErrSelfReview) {
		t.Fatalf("expected ErrSelfReview, got %v", err)
	}
}

func TestReviewHandler_Update_UsesReportScope(t *testing.T) {
	stub := &stubReviewService{
		updateFn: func(_ context.Context, reportID, id string, patch domain.ReviewPatch, _ *domain.Actor) (*domain.ReviewView, error) {
			if reportID != "r1" || id != "v1" {
				t.Fatalf("unexpected scope %q/%q", reportID, id)
			}
			if patch.Rating == nil || *patch.Rating != 2 || patch.Content != nil {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			return &domain.ReviewView{ID: id, Rating: *patch.Rating, ReportID: reportID}, nil
		},
	}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodPatch, "/reports/r1/reviews/v1", strings.NewReader(`{"rating":2}`), &domain.Actor{ID: "bob"}, "id", "r1", "rid", "v1")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReviewHandler_Delete(t *testing.T) {
	stub := &stubReviewService{
		deleteFn: func(_ context.Context, reportID, id string, actor *domain.Actor) error {
			if actor.ID != "bob" {
				return domain.ErrUnauthorizedAccess
			}
			return nil
		},
	}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodDelete, "/reports/r1/reviews/v1", nil, &domain.Actor{ID: "bob"}, "id", "r1", "rid", "v1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newContext(t, http.MethodDelete, "/reports/r1/reviews/v1", nil, &domain.Actor{ID: "mallory"}, "id", "r1", "rid", "v1")
	if err := h.Delete(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized kind, got %v", err)
	}
}

func TestReviewHandler_Get_NotFound(t *testing.T) {
	stub := &stubReviewService{
		getFn: func(context.Context, string, *domain.Actor) (*domain.ReviewView, error) {
			return nil, domain.ErrReviewNotFound
		},
	}
	h := NewReviewHandler(stub)

	c, _ := newContext(t, http.MethodGet, "/reviews/v9", nil, nil, "id", "v9")

	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestReviewHandler_ListForReport(t *testing.T) {
	stub := &stubReviewService{
		listFn: func(_ context.Context, reportID string, _ *domain.Actor) ([]domain.ReviewView, error) {
			return []domain.ReviewView{
				{ID: "v1", Rating: 5, ReportID: reportID},
				{ID: "v2", Rating: 3, ReportID: reportID},
			}, nil
		},
	}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodGet, "/reports/r1/reviews", nil, nil, "id", "r1")

	if err := h.ListForReport(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []reviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[1].ID != "v2" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestReviewHandler_Get_PassesCaller(t *testing.T) {
	stub := &stubReviewService{
		getFn: func(_ context.Context, id string, actor *domain.Actor) (*domain.ReviewView, error) {
			if actor == nil || actor.ID != "seller" {
				return nil, domain.ErrReviewNotFound
			}
			return &domain.ReviewView{ID: id, Rating: 4, ReportID: "r-pending"}, nil
		},
	}
	h := NewReviewHandler(stub)

	c, rec := newContext(t, http.MethodGet, "/reviews/v1", nil, &domain.Actor{ID: "seller"}, "id", "v1")
	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	c, _ = newContext(t, http.MethodGet, "/reviews/v1", nil, nil, "id", "v1")
	if err := h.Get(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found kind for anonymous caller, got %v", err)
	}
}
