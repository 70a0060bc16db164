package domain

import (
	"strings"
	"time"
)

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Report is a vehicle listing owned by a seller.
//
// Owner and Reviews are populated by repositories on reads; writes only use
// UserID.
type Report struct {
	ID        string
	Price     int64
	Make      string
	Model     string
	Year      int
	Mileage   int64
	Location  Coordinates
	Approved  bool
	UserID    string
	Owner     *User
	Reviews   []Review
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OwnedBy returns the seller's id.
func (r *Report) OwnedBy() string { return r.UserID }

// HasOwner reports whether the owner reference was resolved.
func (r *Report) HasOwner() bool {
	return r.UserID != "" && r.Owner != nil && r.Owner.ID == r.UserID
}

// ReportPatch carries the owner-mutable fields. Nil means "leave unchanged".
type ReportPatch struct {
	Price   *int64
	Make    *string
	Model   *string
	Year    *int
	Mileage *int64
	Lat     *float64
	Lng     *float64
}

// Empty reports whether the patch changes nothing.
func (p ReportPatch) Empty() bool {
	return p.Price == nil && p.Make == nil && p.Model == nil && p.Year == nil &&
		p.Mileage == nil && p.Lat == nil && p.Lng == nil
}

// Apply copies the set fields onto r.
func (p ReportPatch) Apply(r *Report) {
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.Make != nil {
		r.Make = NormalizeName(*p.Make)
	}
	if p.Model != nil {
		r.Model = NormalizeName(*p.Model)
	}
	if p.Year != nil {
		r.Year = *p.Year
	}
	if p.Mileage != nil {
		r.Mileage = *p.Mileage
	}
	if p.Lat != nil {
		r.Location.Lat = *p.Lat
	}
	if p.Lng != nil {
		r.Location.Lng = *p.Lng
	}
}

// NormalizeName lower-cases and trims a make or model so comparisons used by
// the estimate are case-insensitive.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	ApprovedOnly bool
	UserID       string // empty = any owner
}
