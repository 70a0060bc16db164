package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's review of a seller's report.
type Review struct {
	ID        string
	Content   string
	Rating    int
	UserID    string
	ReportID  string
	Author    *User
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy returns the author's id.
func (r *Review) OwnedBy() string { return r.UserID }

// ValidRating reports whether n is an allowed star rating.
func ValidRating(n int) bool {
	return n >= MinRating && n <= MaxRating
}

// ReviewPatch carries the author-mutable fields.
type ReviewPatch struct {
	Content *string
	Rating  *int
}

// Apply copies the set fields onto r.
func (p ReviewPatch) Apply(r *Review) {
	if p.Content != nil {
		r.Content = *p.Content
	}
	if p.Rating != nil {
		r.Rating = *p.Rating
	}
}
