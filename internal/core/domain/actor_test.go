package domain

import (
	"errors"
	"testing"
)

func TestAuthorizationPredicates(t *testing.T) {
	report := &Report{UserID: "seller"}
	orphan := &Report{}

	seller := &Actor{ID: "seller"}
	buyer := &Actor{ID: "buyer"}
	admin := &Actor{ID: "root", IsAdmin: true}

	if !IsOwner(seller, report) || IsOwner(buyer, report) || IsOwner(nil, report) {
		t.Fatalf("IsOwner mismatch")
	}
	if IsOwner(&Actor{}, orphan) {
		t.Fatalf("empty ids must not match")
	}
	if !IsAdmin(admin) || IsAdmin(seller) || IsAdmin(nil) {
		t.Fatalf("IsAdmin mismatch")
	}
	if !IsOwnerOrAdmin(admin, report) || !IsOwnerOrAdmin(seller, report) || IsOwnerOrAdmin(buyer, report) {
		t.Fatalf("IsOwnerOrAdmin mismatch")
	}
	if !IsOwner(seller, &User{ID: "seller"}) {
		t.Fatalf("user should own its account")
	}
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		err  error
		kind error
	}{
		{ErrReportNotFound, ErrNotFound},
		{ErrUnauthorizedAccess, ErrUnauthorized},
		{ErrSelfReview, ErrBadRequest},
		{ErrReviewNotDeleted, ErrBadRequest},
		{ErrStaleWrite, ErrConflict},
	}
	for _, tt := range tests {
		if !errors.Is(tt.err, tt.kind) {
			t.Fatalf("%v should be of kind %v", tt.err, tt.kind)
		}
	}
}
