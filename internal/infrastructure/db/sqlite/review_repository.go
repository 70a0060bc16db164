package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

const reviewSelect = `SELECT v.id, v.content, v.rating, v.user_id, v.report_id, v.version, v.created_at, v.updated_at,
       u.id, u.email, u.password_hash, u.is_admin, u.created_at, u.updated_at
  FROM reviews v
  LEFT JOIN users u ON u.id = v.user_id`

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(s *Store) *ReviewRepository {
	return &ReviewRepository{db: s.db}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reviews (id, content, rating, user_id, report_id, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rv.ID, rv.Content, rv.Rating, rv.UserID, rv.ReportID, rv.Version,
		toMillis(rv.CreatedAt), toMillis(rv.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	rows, err := queryReviews(ctx, r.db, ` WHERE v.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return &rows[0], nil
}

func (r *ReviewRepository) ListByReport(ctx context.Context, reportID string) ([]domain.Review, error) {
	return queryReviews(ctx, r.db, ` WHERE v.report_id = ? ORDER BY v.created_at, v.id`, reportID)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return queryReviews(ctx, r.db, ` WHERE v.user_id = ? ORDER BY v.created_at, v.id`, userID)
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE reviews SET content = ?, rating = ?, updated_at = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		rv.Content, rv.Rating, toMillis(rv.UpdatedAt), rv.ID, rv.Version,
	)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return missingOrStale(ctx, r.db, "reviews", rv.ID, domain.ErrReviewNotFound)
	}
	rv.Version++
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete review: %w", err)
	}
	return res.RowsAffected()
}

func queryReviews(ctx context.Context, db *sql.DB, tail string, args ...any) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, reviewSelect+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Review, 0)
	for rows.Next() {
		var (
			rv                   domain.Review
			createdAt, updatedAt int64
			author               nullUser
		)
		dest := append([]any{
			&rv.ID, &rv.Content, &rv.Rating, &rv.UserID, &rv.ReportID, &rv.Version, &createdAt, &updatedAt,
		}, author.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		rv.CreatedAt = fromMillis(createdAt)
		rv.UpdatedAt = fromMillis(updatedAt)
		rv.Author = author.toDomain()
		out = append(out, rv)
	}
	return out, rows.Err()
}

// missingOrStale tells apart a vanished row from a version mismatch after a
// conditional update touched nothing.
func missingOrStale(ctx context.Context, db *sql.DB, table, id string, notFound error) error {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("count %s: %w", table, err)
	}
	if n == 0 {
		return notFound
	}
	return domain.ErrStaleWrite
}
