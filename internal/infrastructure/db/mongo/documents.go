package mongo

import (
	"time"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// Persistence shapes. Owner, Reviews and Author are only filled by $lookup
// stages and are never written.

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	IsAdmin      bool      `bson:"is_admin"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type reportDoc struct {
	ID        string             `bson:"_id"`
	Price     int64              `bson:"price"`
	Make      string             `bson:"make"`
	Model     string             `bson:"model"`
	Year      int                `bson:"year"`
	Mileage   int64              `bson:"mileage"`
	Location  domain.Coordinates `bson:"location"`
	Approved  bool               `bson:"approved"`
	UserID    string             `bson:"user_id"`
	Version   int64              `bson:"version"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`

	Owner   *userDoc    `bson:"owner,omitempty"`
	Reviews []reviewDoc `bson:"reviews,omitempty"`
}

type reviewDoc struct {
	ID        string    `bson:"_id"`
	Content   string    `bson:"content"`
	Rating    int       `bson:"rating"`
	UserID    string    `bson:"user_id"`
	ReportID  string    `bson:"report_id"`
	Version   int64     `bson:"version"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`

	Author *userDoc `bson:"author,omitempty"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		ID:           u.ID,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		IsAdmin:      u.IsAdmin,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d *userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsAdmin:      d.IsAdmin,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func toReportDoc(r *domain.Report) reportDoc {
	return reportDoc{
		ID:        r.ID,
		Price:     r.Price,
		Make:      r.Make,
		Model:     r.Model,
		Year:      r.Year,
		Mileage:   r.Mileage,
		Location:  r.Location,
		Approved:  r.Approved,
		UserID:    r.UserID,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *reportDoc) toDomain() *domain.Report {
	r := &domain.Report{
		ID:        d.ID,
		Price:     d.Price,
		Make:      d.Make,
		Model:     d.Model,
		Year:      d.Year,
		Mileage:   d.Mileage,
		Location:  d.Location,
		Approved:  d.Approved,
		UserID:    d.UserID,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
		Reviews:   make([]domain.Review, 0, len(d.Reviews)),
	}
	if d.Owner != nil {
		r.Owner = d.Owner.toDomain()
	}
	for i := range d.Reviews {
		r.Reviews = append(r.Reviews, *d.Reviews[i].toDomain())
	}
	return r
}

func toReviewDoc(r *domain.Review) reviewDoc {
	return reviewDoc{
		ID:        r.ID,
		Content:   r.Content,
		Rating:    r.Rating,
		UserID:    r.UserID,
		ReportID:  r.ReportID,
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *reviewDoc) toDomain() *domain.Review {
	r := &domain.Review{
		ID:        d.ID,
		Content:   d.Content,
		Rating:    d.Rating,
		UserID:    d.UserID,
		ReportID:  d.ReportID,
		Version:   d.Version,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.Author != nil {
		r.Author = d.Author.toDomain()
	}
	return r
}
