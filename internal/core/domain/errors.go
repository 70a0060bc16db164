package domain

import "errors"

// Error kinds. Every error returned by the core services wraps exactly one of
// these, so transports can map them without knowing the concrete error.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("conflict")
)

// Error is a business error carrying its kind and a short user-facing message.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

var (
	ErrReportNotFound = newError(ErrNotFound, "report not found")
	ErrReviewNotFound = newError(ErrNotFound, "review not found")
	ErrUserNotFound   = newError(ErrNotFound, "user not found")

	ErrUnauthorizedAccess = newError(ErrUnauthorized, "unauthorized access")
	ErrInvalidToken       = newError(ErrUnauthorized, "invalid token")

	ErrSelfReview       = newError(ErrBadRequest, "you cannot review your own report")
	ErrReviewNotDeleted = newError(ErrBadRequest, "review could not be deleted")
	ErrInvalidRating    = newError(ErrBadRequest, "rating must be between 1 and 5")
	ErrEmailInUse       = newError(ErrBadRequest, "email already in use")
	ErrBadPassword      = newError(ErrBadRequest, "bad password")
	ErrUnknownEmail     = newError(ErrBadRequest, "user not found")
	ErrInvalidInput     = newError(ErrBadRequest, "invalid input")

	ErrStaleWrite = newError(ErrConflict, "resource was modified concurrently, retry")
)
