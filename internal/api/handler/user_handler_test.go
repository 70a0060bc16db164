package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

func TestUserHandler_List_FiltersByEmail(t *testing.T) {
	users := &stubUserService{
		listFn: func(_ context.Context, email string) ([]*domain.User, error) {
			if email != "alice@example.com" {
				t.Fatalf("unexpected email filter %q", email)
			}
			return []*domain.User{{ID: "alice", Email: email}}, nil
		},
	}
	h := NewUserHandler(users, &stubReportService{}, &stubReviewService{})

	c, rec := newContext(t, http.MethodGet, "/users?email=alice@example.com", nil, &domain.Actor{ID: "root", IsAdmin: true})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_List_EmptyIsArray(t *testing.T) {
	users := &stubUserService{
		listFn: func(context.Context, string) ([]*domain.User, error) { return nil, nil },
	}
	h := NewUserHandler(users, &stubReportService{}, &stubReviewService{})

	c, rec := newContext(t, http.MethodGet, "/users?email=nobody@example.com", nil, &domain.Actor{ID: "root", IsAdmin: true})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Fatalf("expected empty array, got %s", body)
	}
}

func TestUserHandler_Update_PassesPatch(t *testing.T) {
	users := &stubUserService{
		updateFn: func(_ context.Context, id string, patch domain.UserPatch, actor *domain.Actor) (*domain.User, error) {
			if id != "alice" || actor.ID != "alice" {
				t.Fatalf("unexpected target %q by %+v", id, actor)
			}
			if patch.Email == nil || *patch.Email != "new@example.com" || patch.Password != nil {
				t.Fatalf("unexpected patch: %+v", patch)
			}
			return &domain.User{ID: id, Email: *patch.Email}, nil
		},
	}
	h := NewUserHandler(users, &stubReportService{}, &stubReviewService{})

	body := strings.NewReader(`{"email":"new@example.com"}`)
	c, rec := newContext(t, http.MethodPatch, "/users/alice", body, &domain.Actor{ID: "alice"}, "id", "alice")

	if err := h.Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestUserHandler_Update_InvalidEmail(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, &stubReportService{}, &stubReviewService{})

	body := strings.NewReader(`{"email":"nope"}`)
	c, _ := newContext(t, http.MethodPatch, "/users/alice", body, &domain.Actor{ID: "alice"}, "id", "alice")

	if err := h.Update(c); httpCode(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestUserHandler_Remove(t *testing.T) {
	users := &stubUserService{
		removeFn: func(_ context.Context, id string, _ *domain.Actor) error {
			if id != "bob" {
				return domain.ErrUserNotFound
			}
			return nil
		},
	}
	h := NewUserHandler(users, &stubReportService{}, &stubReviewService{})

	c, rec := newContext(t, http.MethodDelete, "/users/bob", nil, &domain.Actor{ID: "bob"}, "id", "bob")
	if err := h.Remove(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}

	c, _ = newContext(t, http.MethodDelete, "/users/ghost", nil, &domain.Actor{ID: "bob"}, "id", "ghost")
	if err := h.Remove(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found kind, got %v", err)
	}
}

func TestUserHandler_SetAdmin(t *testing.T) {
	users := &stubUserService{
		setAdminFn: func(_ context.Context, id string, isAdmin bool, _ *domain.Actor) (*domain.User, error) {
			return &domain.User{ID: id, IsAdmin: isAdmin}, nil
		},
	}
	h := NewUserHandler(users, &stubReportService{}, &stubReviewService{})

	c, rec := newContext(t, http.MethodPatch, "/users/bob/admin", strings.NewReader(`{"admin":true}`), &domain.Actor{ID: "root", IsAdmin: true}, "id", "bob")

	if err := h.SetAdmin(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !resp.Admin {
		t.Fatalf("expected admin=true, got %+v", resp)
	}
}

func TestUserHandler_Reports(t *testing.T) {
	reports := &stubReportService{
		byUserFn: func(_ context.Context, userID string, actor *domain.Actor) ([]domain.ReportView, error) {
			if userID != "alice" || actor != nil {
				t.Fatalf("unexpected args %q %+v", userID, actor)
			}
			return []domain.ReportView{{Kind: domain.ViewPublic, ID: "r1"}}, nil
		},
	}
	h := NewUserHandler(&stubUserService{}, reports, &stubReviewService{})

	c, rec := newContext(t, http.MethodGet, "/users/alice/reports", nil, nil, "id", "alice")

	if err := h.Reports(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []reportResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "r1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestUserHandler_Reviews(t *testing.T) {
	reviews := &stubReviewService{
		byUserFn: func(_ context.Context, userID string, actor *domain.Actor) ([]domain.ReviewView, error) {
			if actor == nil || actor.ID != "alice" {
				t.Fatalf("expected caller alice, got %+v", actor)
			}
			return []domain.ReviewView{{
				ID:       "v1",
				Rating:   4,
				Author:   &domain.UserRef{ID: userID, Email: "bob@example.com"},
				ReportID: "r1",
			}}, nil
		},
	}
	h := NewUserHandler(&stubUserService{}, &stubReportService{}, reviews)

	c, rec := newContext(t, http.MethodGet, "/users/bob/reviews", nil, &domain.Actor{ID: "alice"}, "id", "bob")

	if err := h.Reviews(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []reviewResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp[0].User == nil || resp[0].User.ID != "bob" || resp[0].Report.ID != "r1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
