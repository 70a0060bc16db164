package service

import (
	"context"
	"sort"
	"time"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	users   map[string]*domain.User
	reports map[string]*domain.Report
	reviews map[string]*domain.Review
	seq     int
}

func newMemStore() *memStore {
	return &memStore{
		users:   make(map[string]*domain.User),
		reports: make(map[string]*domain.Report),
		reviews: make(map[string]*domain.Review),
	}
}

func (m *memStore) tick() time.Time {
	m.seq++
	return time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
}

func (m *memStore) addUser(id string, admin bool) *domain.User {
	u := &domain.User{ID: id, Email: id + "@example.com", IsAdmin: admin, CreatedAt: m.tick()}
	m.users[id] = u
	return u
}

func (m *memStore) addReport(r domain.Report) *domain.Report {
	if r.Version == 0 {
		r.Version = 1
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.tick()
	}
	m.reports[r.ID] = &r
	return &r
}

func (m *memStore) addReview(r domain.Review) *domain.Review {
	if r.Version == 0 {
		r.Version = 1
	}
	m.reviews[r.ID] = &r
	return &r
}

func (m *memStore) hydrateReview(r *domain.Review) domain.Review {
	clone := *r
	if u, ok := m.users[r.UserID]; ok {
		uc := *u
		clone.Author = &uc
	}
	return clone
}

func (m *memStore) hydrateReport(r *domain.Report) *domain.Report {
	clone := *r
	clone.Owner = nil
	if u, ok := m.users[r.UserID]; ok {
		uc := *u
		clone.Owner = &uc
	}
	clone.Reviews = nil
	for _, rv := range m.sortedReviews() {
		if rv.ReportID == r.ID {
			clone.Reviews = append(clone.Reviews, m.hydrateReview(rv))
		}
	}
	return &clone
}

func (m *memStore) sortedReports() []*domain.Report {
	out := make([]*domain.Report, 0, len(m.reports))
	for _, r := range m.reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memStore) sortedReviews() []*domain.Review {
	out := make([]*domain.Review, 0, len(m.reviews))
	for _, r := range m.reviews {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	store     *memStore
	createErr error
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.store.users {
		if existing.Email == u.Email {
			return domain.ErrEmailInUse
		}
	}
	clone := *u
	r.store.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.store.users))
	for _, u := range r.store.users {
		clone := *u
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	stored, ok := r.store.users[u.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	clone := *u
	clone.IsAdmin = stored.IsAdmin
	r.store.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) SetAdmin(_ context.Context, id string, isAdmin bool, at time.Time) error {
	stored, ok := r.store.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	stored.IsAdmin = isAdmin
	stored.UpdatedAt = at
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.store.users, id)
	for rid, rep := range r.store.reports {
		if rep.UserID == id {
			delete(r.store.reports, rid)
			for vid, rv := range r.store.reviews {
				if rv.ReportID == rid {
					delete(r.store.reviews, vid)
				}
			}
		}
	}
	for vid, rv := range r.store.reviews {
		if rv.UserID == id {
			delete(r.store.reviews, vid)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Reports
// ---------------------------------------------------------------------------

type stubReportRepo struct {
	store       *memStore
	lastFilter  domain.ReportFilter
	estimateHit int
	updates     int
}

func (r *stubReportRepo) Create(_ context.Context, rep *domain.Report) error {
	clone := *rep
	clone.Owner = nil
	clone.Reviews = nil
	r.store.reports[rep.ID] = &clone
	return nil
}

func (r *stubReportRepo) FindByID(_ context.Context, id string) (*domain.Report, error) {
	rep, ok := r.store.reports[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return r.store.hydrateReport(rep), nil
}

func (r *stubReportRepo) List(_ context.Context, filter domain.ReportFilter) ([]*domain.Report, error) {
	r.lastFilter = filter
	var out []*domain.Report
	for _, rep := range r.store.sortedReports() {
		if filter.ApprovedOnly && !rep.Approved {
			continue
		}
		if filter.UserID != "" && rep.UserID != filter.UserID {
			continue
		}
		out = append(out, r.store.hydrateReport(rep))
	}
	return out, nil
}

func (r *stubReportRepo) Update(_ context.Context, rep *domain.Report) error {
	stored, ok := r.store.reports[rep.ID]
	if !ok {
		return domain.ErrReportNotFound
	}
	if stored.Version != rep.Version {
		return domain.ErrStaleWrite
	}
	r.updates++
	rep.Version++
	clone := *rep
	clone.Owner = nil
	clone.Reviews = nil
	r.store.reports[rep.ID] = &clone
	return nil
}

func (r *stubReportRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.store.reports[id]; !ok {
		return domain.ErrReportNotFound
	}
	delete(r.store.reports, id)
	for vid, rv := range r.store.reviews {
		if rv.ReportID == id {
			delete(r.store.reviews, vid)
		}
	}
	return nil
}

// Estimate mirrors the store query: filter, order by distance from the
// target mileage descending, keep three, average.
func (r *stubReportRepo) Estimate(_ context.Context, c domain.EstimateCriteria) (*domain.Estimate, error) {
	r.estimateHit++
	var rows []*domain.Report
	for _, rep := range r.store.reports {
		if c.Matches(rep) {
			rows = append(rows, rep)
		}
	}
	dist := func(rep *domain.Report) int64 {
		d := rep.Mileage - *c.Mileage
		if d < 0 {
			return -d
		}
		return d
	}
	sort.Slice(rows, func(i, j int) bool {
		if di, dj := dist(rows[i]), dist(rows[j]); di != dj {
			return di > dj
		}
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID < rows[j].ID
	})
	if len(rows) > domain.EstimateSampleSize {
		rows = rows[:domain.EstimateSampleSize]
	}
	if len(rows) == 0 {
		return &domain.Estimate{}, nil
	}
	var sum float64
	for _, rep := range rows {
		sum += float64(rep.Price)
	}
	avg := sum / float64(len(rows))
	return &domain.Estimate{Price: &avg, Comparables: len(rows)}, nil
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

type stubReviewRepo struct {
	store *memStore
	// vanish makes Delete report zero affected rows.
	vanish bool
}

func (r *stubReviewRepo) Create(_ context.Context, rv *domain.Review) error {
	clone := *rv
	clone.Author = nil
	r.store.reviews[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, id string) (*domain.Review, error) {
	rv, ok := r.store.reviews[id]
	if !ok {
		return nil, domain.ErrReviewNotFound
	}
	h := r.store.hydrateReview(rv)
	return &h, nil
}

func (r *stubReviewRepo) ListByReport(_ context.Context, reportID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range r.store.sortedReviews() {
		if rv.ReportID == reportID {
			out = append(out, r.store.hydrateReview(rv))
		}
	}
	return out, nil
}

func (r *stubReviewRepo) ListByUser(_ context.Context, userID string) ([]domain.Review, error) {
	var out []domain.Review
	for _, rv := range r.store.sortedReviews() {
		if rv.UserID == userID {
			out = append(out, r.store.hydrateReview(rv))
		}
	}
	return out, nil
}

func (r *stubReviewRepo) Update(_ context.Context, rv *domain.Review) error {
	stored, ok := r.store.reviews[rv.ID]
	if !ok {
		return domain.ErrReviewNotFound
	}
	if stored.Version != rv.Version {
		return domain.ErrStaleWrite
	}
	rv.Version++
	clone := *rv
	clone.Author = nil
	r.store.reviews[rv.ID] = &clone
	return nil
}

func (r *stubReviewRepo) Delete(_ context.Context, id string) (int64, error) {
	if r.vanish {
		return 0, nil
	}
	if _, ok := r.store.reviews[id]; !ok {
		return 0, nil
	}
	delete(r.store.reviews, id)
	return 1, nil
}

// ---------------------------------------------------------------------------
// Token revocation
// ---------------------------------------------------------------------------

type stubRevoker struct {
	revoked map[string]time.Time
	err     error
}

func newStubRevoker() *stubRevoker {
	return &stubRevoker{revoked: make(map[string]time.Time)}
}

func (r *stubRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	if r.err != nil {
		return r.err
	}
	r.revoked[tokenID] = until
	return nil
}

func (r *stubRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	_, ok := r.revoked[tokenID]
	return ok, nil
}

func ptr[T any](v T) *T { return &v }
