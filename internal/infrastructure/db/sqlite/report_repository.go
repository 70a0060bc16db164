package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

const reportSelect = `SELECT r.id, r.price, r.make, r.model, r.year, r.mileage, r.lat, r.lng, r.approved,
       r.user_id, r.version, r.created_at, r.updated_at,
       u.id, u.email, u.password_hash, u.is_admin, u.created_at, u.updated_at
  FROM reports r
  LEFT JOIN users u ON u.id = r.user_id`

// estimateQuery averages the price of the comparables: the approved reports
// within the year and coordinate windows at or below the target mileage,
// farthest mileage first.
const estimateQuery = `SELECT AVG(price), COUNT(*) FROM (
    SELECT price FROM reports
     WHERE approved = 1
       AND make = ? AND model = ?
       AND year BETWEEN ? AND ?
       AND mileage <= ?
       AND lat BETWEEN ? AND ?
       AND lng BETWEEN ? AND ?
     ORDER BY ABS(mileage - ?) DESC, created_at ASC, id ASC
     LIMIT ?
)`

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{db: s.db}
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (id, price, make, model, year, mileage, lat, lng, approved, user_id, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.ID, rep.Price, rep.Make, rep.Model, rep.Year, rep.Mileage, rep.Location.Lat, rep.Location.Lng,
		rep.Approved, rep.UserID, rep.Version, toMillis(rep.CreatedAt), toMillis(rep.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	rows, err := r.query(ctx, ` WHERE r.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return rows[0], nil
}

func (r *ReportRepository) List(ctx context.Context, filter domain.ReportFilter) ([]*domain.Report, error) {
	var (
		where []string
		args  []any
	)
	if filter.ApprovedOnly {
		where = append(where, `r.approved = 1`)
	}
	if filter.UserID != "" {
		where = append(where, `r.user_id = ?`)
		args = append(args, filter.UserID)
	}

	tail := ``
	if len(where) > 0 {
		tail = ` WHERE ` + strings.Join(where, ` AND `)
	}
	return r.query(ctx, tail+` ORDER BY r.created_at, r.id`, args...)
}

func (r *ReportRepository) Update(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE reports
		    SET price = ?, make = ?, model = ?, year = ?, mileage = ?, lat = ?, lng = ?,
		        approved = ?, updated_at = ?, version = version + 1
		  WHERE id = ? AND version = ?`,
		rep.Price, rep.Make, rep.Model, rep.Year, rep.Mileage, rep.Location.Lat, rep.Location.Lng,
		rep.Approved, toMillis(rep.UpdatedAt), rep.ID, rep.Version,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return missingOrStale(ctx, r.db, "reports", rep.ID, domain.ErrReportNotFound)
	}
	rep.Version++
	return nil
}

// Delete removes the report. Its reviews go with it through the foreign key.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

func (r *ReportRepository) Estimate(ctx context.Context, c domain.EstimateCriteria) (*domain.Estimate, error) {
	if !c.Complete() {
		return &domain.Estimate{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	win := domain.EstimateDegreeWindow
	var (
		avg   sql.NullFloat64
		count int
	)
	err := r.db.QueryRowContext(ctx, estimateQuery,
		c.Make, c.Model,
		*c.Year-domain.EstimateYearWindow, *c.Year+domain.EstimateYearWindow,
		*c.Mileage,
		*c.Lat-win, *c.Lat+win,
		*c.Lng-win, *c.Lng+win,
		*c.Mileage,
		domain.EstimateSampleSize,
	).Scan(&avg, &count)
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	if !avg.Valid || count == 0 {
		return &domain.Estimate{}, nil
	}
	price := avg.Float64
	return &domain.Estimate{Price: &price, Comparables: count}, nil
}

func (r *ReportRepository) query(ctx context.Context, tail string, args ...any) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, reportSelect+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Report, 0)
	byID := make(map[string]*domain.Report)
	for rows.Next() {
		var (
			rep                  domain.Report
			createdAt, updatedAt int64
			owner                nullUser
		)
		dest := append([]any{
			&rep.ID, &rep.Price, &rep.Make, &rep.Model, &rep.Year, &rep.Mileage,
			&rep.Location.Lat, &rep.Location.Lng, &rep.Approved,
			&rep.UserID, &rep.Version, &createdAt, &updatedAt,
		}, owner.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		rep.CreatedAt = fromMillis(createdAt)
		rep.UpdatedAt = fromMillis(updatedAt)
		rep.Owner = owner.toDomain()
		rep.Reviews = []domain.Review{}
		out = append(out, &rep)
		byID[rep.ID] = &rep
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if len(out) == 0 {
		return out, nil
	}
	if err := r.attachReviews(ctx, byID); err != nil {
		return nil, err
	}
	return out, nil
}

// attachReviews loads the reviews of every report in one query.
func (r *ReportRepository) attachReviews(ctx context.Context, byID map[string]*domain.Report) error {
	ids := make([]any, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	reviews, err := queryReviews(ctx, r.db,
		` WHERE v.report_id IN (`+placeholders(len(ids))+`) ORDER BY v.created_at, v.id`, ids...)
	if err != nil {
		return err
	}
	for _, rv := range reviews {
		if rep, ok := byID[rv.ReportID]; ok {
			rep.Reviews = append(rep.Reviews, rv)
		}
	}
	return nil
}
