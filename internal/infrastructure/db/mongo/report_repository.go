package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

type ReportRepository struct {
	col     *mongo.Collection
	reviews *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{
		col:     db.Collection(collectionReports),
		reviews: db.Collection(collectionReviews),
	}
}

// Create inserts a new report document.
func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toReportDoc(rep)); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// FindByID retrieves a report with its owner and reviews.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*domain.Report, error) {
	rows, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrReportNotFound
	}
	return rows[0], nil
}

func (r *ReportRepository) List(ctx context.Context, filter domain.ReportFilter) ([]*domain.Report, error) {
	return r.aggregate(ctx, reportFilter(filter))
}

// Update replaces the mutable fields when the stored version matches.
func (r *ReportRepository) Update(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "price", Value: rep.Price},
		{Key: "make", Value: rep.Make},
		{Key: "model", Value: rep.Model},
		{Key: "year", Value: rep.Year},
		{Key: "mileage", Value: rep.Mileage},
		{Key: "location", Value: rep.Location},
		{Key: "approved", Value: rep.Approved},
		{Key: "updated_at", Value: rep.UpdatedAt},
		{Key: "version", Value: rep.Version + 1},
	}}}

	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: rep.ID}, {Key: "version", Value: rep.Version}}, update)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	if res.MatchedCount == 0 {
		return missingOrStale(ctx, r.col, rep.ID, domain.ErrReportNotFound)
	}
	rep.Version++
	return nil
}

// Delete removes the report's reviews, then the report.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return deleteReportCascade(ctx, r.col, r.reviews, id)
}

type deleter interface {
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// deleteReportCascade never leaves reviews pointing at a removed report:
// a failure after the first step leaves the report in place.
func deleteReportCascade(ctx context.Context, reports, reviews deleter, id string) error {
	if _, err := reviews.DeleteMany(ctx, bson.D{{Key: "report_id", Value: id}}); err != nil {
		return fmt.Errorf("delete report reviews: %w", err)
	}
	res, err := reports.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrReportNotFound
	}
	return nil
}

// Estimate runs the comparable selection as an aggregation.
func (r *ReportRepository) Estimate(ctx context.Context, c domain.EstimateCriteria) (*domain.Estimate, error) {
	if !c.Complete() {
		return &domain.Estimate{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, estimatePipeline(c))
	if err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}
	defer cur.Close(ctx)

	var out []struct {
		Price float64 `bson:"price"`
		Count int     `bson:"count"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode estimate: %w", err)
	}
	if len(out) == 0 || out[0].Count == 0 {
		return &domain.Estimate{}, nil
	}
	price := out[0].Price
	return &domain.Estimate{Price: &price, Comparables: out[0].Count}, nil
}

func (r *ReportRepository) aggregate(ctx context.Context, filter bson.D) ([]*domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, reportsPipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}

	out := make([]*domain.Report, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

// missingOrStale tells apart a vanished document from a version mismatch
// after a conditional update matched nothing.
func missingOrStale(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	n, err := col.CountDocuments(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("count %s: %w", col.Name(), err)
	}
	if n == 0 {
		return notFound
	}
	return domain.ErrStaleWrite
}
