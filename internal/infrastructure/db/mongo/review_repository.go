package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{col: db.Collection(collectionReviews)}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toReviewDoc(rv)); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	rows, err := r.aggregate(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, domain.ErrReviewNotFound
	}
	return &rows[0], nil
}

func (r *ReviewRepository) ListByReport(ctx context.Context, reportID string) ([]domain.Review, error) {
	return r.aggregate(ctx, bson.D{{Key: "report_id", Value: reportID}})
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	return r.aggregate(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: rv.Content},
		{Key: "rating", Value: rv.Rating},
		{Key: "updated_at", Value: rv.UpdatedAt},
		{Key: "version", Value: rv.Version + 1},
	}}}

	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: rv.ID}, {Key: "version", Value: rv.Version}}, update)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if res.MatchedCount == 0 {
		return missingOrStale(ctx, r.col, rv.ID, domain.ErrReviewNotFound)
	}
	rv.Version++
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, fmt.Errorf("delete review: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *ReviewRepository) aggregate(ctx context.Context, filter bson.D) ([]domain.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, reviewsPipeline(filter))
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reviewDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reviews: %w", err)
	}

	out := make([]domain.Review, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}
