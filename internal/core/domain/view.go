package domain

import "time"

// ViewKind tags which projection of a report a viewer receives.
type ViewKind string

const (
	ViewAdmin  ViewKind = "admin"
	ViewOwner  ViewKind = "owner"
	ViewPublic ViewKind = "public"
)

// Privileged reports whether the view exposes approval state and full
// nested data.
func (k ViewKind) Privileged() bool {
	return k == ViewAdmin || k == ViewOwner
}

// UserRef identifies a user inside a projection. IsAdmin is only set for
// privileged views.
type UserRef struct {
	ID      string
	Email   string
	IsAdmin *bool
}

// ReviewView is a review as embedded in, or listed under, a report.
// Author and ReportID are omitted from public report embeddings.
type ReviewView struct {
	ID        string
	Content   string
	Rating    int
	Author    *UserRef
	ReportID  string
	CreatedAt time.Time
}

// ReportView is the role-shaped projection of a report row.
type ReportView struct {
	Kind      ViewKind
	ID        string
	Price     int64
	Make      string
	Model     string
	Year      int
	Mileage   int64
	Location  Coordinates
	Owner     UserRef
	Approved  *bool // nil in the public view
	Reviews   []ReviewView
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReportViewKind decides which projection viewer gets for r, and whether r
// is visible at all. Unapproved reports are invisible to everyone but their
// owner and admins, so hidden rows look exactly like missing ones.
func ReportViewKind(r *Report, viewer *Actor) (ViewKind, bool) {
	switch {
	case IsAdmin(viewer):
		return ViewAdmin, true
	case IsOwner(viewer, r):
		return ViewOwner, true
	case r.Approved:
		return ViewPublic, true
	default:
		return "", false
	}
}

// ProjectReport renders r for viewer. The second result is false when the
// viewer may not see r. Reports whose owner reference did not resolve are
// never visible.
func ProjectReport(r *Report, viewer *Actor) (ReportView, bool) {
	if r == nil || !r.HasOwner() {
		return ReportView{}, false
	}
	kind, ok := ReportViewKind(r, viewer)
	if !ok {
		return ReportView{}, false
	}
	return projectAs(r, kind), true
}

func projectAs(r *Report, kind ViewKind) ReportView {
	v := ReportView{
		Kind:      kind,
		ID:        r.ID,
		Price:     r.Price,
		Make:      r.Make,
		Model:     r.Model,
		Year:      r.Year,
		Mileage:   r.Mileage,
		Location:  r.Location,
		Owner:     UserRef{ID: r.Owner.ID, Email: r.Owner.Email},
		Reviews:   make([]ReviewView, 0, len(r.Reviews)),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if kind.Privileged() {
		approved := r.Approved
		v.Approved = &approved
		isAdmin := r.Owner.IsAdmin
		v.Owner.IsAdmin = &isAdmin
	}
	for i := range r.Reviews {
		rv := &r.Reviews[i]
		if kind.Privileged() {
			v.Reviews = append(v.Reviews, ProjectReview(rv))
			continue
		}
		v.Reviews = append(v.Reviews, ReviewView{ID: rv.ID, Content: rv.Content, Rating: rv.Rating})
	}
	return v
}

// ProjectReview renders a review with its author and report identity.
func ProjectReview(r *Review) ReviewView {
	v := ReviewView{
		ID:        r.ID,
		Content:   r.Content,
		Rating:    r.Rating,
		ReportID:  r.ReportID,
		CreatedAt: r.CreatedAt,
	}
	if r.Author != nil {
		v.Author = &UserRef{ID: r.Author.ID, Email: r.Author.Email}
	} else if r.UserID != "" {
		v.Author = &UserRef{ID: r.UserID}
	}
	return v
}
