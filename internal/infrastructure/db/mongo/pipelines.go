package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carvalue/marketplace-api/internal/core/domain"
)

// authorStages joins a review's author into "author".
func authorStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
	}
}

// reviewsPipeline selects reviews matching filter, oldest first, with authors.
func reviewsPipeline(filter bson.D) mongo.Pipeline {
	p := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	return append(p, authorStages()...)
}

// reportsPipeline selects reports matching filter and hydrates the owner and
// the reviews with their authors.
func reportsPipeline(filter bson.D) mongo.Pipeline {
	nested := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{
			{Key: "$eq", Value: bson.A{"$report_id", "$$rid"}},
		}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
	}
	nested = append(nested, authorStages()...)

	return mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionUsers},
			{Key: "localField", Value: "user_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "owner"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$owner"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: collectionReviews},
			{Key: "let", Value: bson.D{{Key: "rid", Value: "$_id"}}},
			{Key: "pipeline", Value: nested},
			{Key: "as", Value: "reviews"},
		}}},
	}
}

// reportFilter translates a listing filter into a $match document.
func reportFilter(f domain.ReportFilter) bson.D {
	filter := bson.D{}
	if f.ApprovedOnly {
		filter = append(filter, bson.E{Key: "approved", Value: true})
	}
	if f.UserID != "" {
		filter = append(filter, bson.E{Key: "user_id", Value: f.UserID})
	}
	return filter
}

// estimatePipeline selects the comparables for c and averages their price.
// c must be complete.
func estimatePipeline(c domain.EstimateCriteria) mongo.Pipeline {
	year, mileage, lat, lng := *c.Year, *c.Mileage, *c.Lat, *c.Lng
	win := domain.EstimateDegreeWindow

	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "approved", Value: true},
			{Key: "make", Value: c.Make},
			{Key: "model", Value: c.Model},
			{Key: "year", Value: bson.D{{Key: "$gte", Value: year - domain.EstimateYearWindow}, {Key: "$lte", Value: year + domain.EstimateYearWindow}}},
			{Key: "mileage", Value: bson.D{{Key: "$lte", Value: mileage}}},
			{Key: "location.lat", Value: bson.D{{Key: "$gte", Value: lat - win}, {Key: "$lte", Value: lat + win}}},
			{Key: "location.lng", Value: bson.D{{Key: "$gte", Value: lng - win}, {Key: "$lte", Value: lng + win}}},
		}}},
		{{Key: "$addFields", Value: bson.D{
			{Key: "mileage_gap", Value: bson.D{{Key: "$abs", Value: bson.D{
				{Key: "$subtract", Value: bson.A{"$mileage", mileage}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "mileage_gap", Value: -1},
			{Key: "created_at", Value: 1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: domain.EstimateSampleSize}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "price", Value: bson.D{{Key: "$avg", Value: "$price"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
}
