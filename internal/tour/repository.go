// AngelaMos | 2026
// repository.go

package tour

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/crud"
	"github.com/carterperez-dev/tourbook/internal/query"
)

const collectionName = "tours"

// Earth radii used to convert a surface distance to radians for
// $centerSphere queries.
const (
	earthRadiusMiles = 3963.2
	earthRadiusKm    = 6378.1
)

// Meter multipliers for $geoNear output.
const (
	metersToMiles = 0.000621371
	metersToKm    = 0.001
)

type Stats struct {
	Difficulty string  `bson:"_id"        json:"difficulty"`
	NumTours   int     `bson:"numTours"   json:"numTours"`
	NumRatings int     `bson:"numRatings" json:"numRatings"`
	AvgRating  float64 `bson:"avgRating"  json:"avgRating"`
	AvgPrice   float64 `bson:"avgPrice"   json:"avgPrice"`
	MinPrice   float64 `bson:"minPrice"   json:"minPrice"`
	MaxPrice   float64 `bson:"maxPrice"   json:"maxPrice"`
}

type MonthlyPlanEntry struct {
	Month         int      `bson:"month"         json:"month"`
	NumTourStarts int      `bson:"numTourStarts" json:"numTourStarts"`
	Tours         []string `bson:"tours"         json:"tours"`
}

type Distance struct {
	ID       primitive.ObjectID `bson:"_id"      json:"id"`
	Name     string             `bson:"name"     json:"name"`
	Distance float64            `bson:"distance" json:"distance"`
}

type Repository interface {
	Find(ctx context.Context, opts query.Options) ([]Tour, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Tour, error)
	Insert(ctx context.Context, t *Tour) (*Tour, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*Tour, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateRatings(
		ctx context.Context,
		id primitive.ObjectID,
		average float64,
		quantity int,
	) error
	Stats(ctx context.Context) ([]Stats, error)
	MonthlyPlan(ctx context.Context, year int) ([]MonthlyPlanEntry, error)
	Within(ctx context.Context, lat, lng, radius float64) ([]Tour, error)
	Distances(
		ctx context.Context,
		lat, lng, multiplier float64,
	) ([]Distance, error)
	EnsureIndexes(ctx context.Context) error
}

// defaultScope keeps secret tours out of every default query.
var defaultScope = bson.M{"secretTour": bson.M{"$ne": true}}

type repository struct {
	*crud.Collection[Tour]
}

func NewRepository(db *core.Database) Repository {
	return &repository{
		Collection: crud.NewCollection[Tour](
			db.Collection(collectionName),
			defaultScope,
		),
	}
}

func (r *repository) Exists(
	ctx context.Context,
	id primitive.ObjectID,
) (bool, error) {
	n, err := r.Count(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateRatings writes the recomputed aggregate; it is unscoped so
// reviews on secret tours still keep their tour consistent.
func (r *repository) UpdateRatings(
	ctx context.Context,
	id primitive.ObjectID,
	average float64,
	quantity int,
) error {
	_, err := r.Mongo().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"ratingsAverage":  average,
			"ratingsQuantity": quantity,
		},
	})
	if err != nil {
		return core.MapMongoError(err, "update ratings")
	}

	return nil
}

func (r *repository) Stats(ctx context.Context) ([]Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"secretTour":     bson.M{"$ne": true},
			"ratingsAverage": bson.M{"$gte": 4.5},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        bson.M{"$toUpper": "$difficulty"},
			"numTours":   bson.M{"$sum": 1},
			"numRatings": bson.M{"$sum": "$ratingsQuantity"},
			"avgRating":  bson.M{"$avg": "$ratingsAverage"},
			"avgPrice":   bson.M{"$avg": "$price"},
			"minPrice":   bson.M{"$min": "$price"},
			"maxPrice":   bson.M{"$max": "$price"},
		}}},
		{{Key: "$sort", Value: bson.M{"avgPrice": 1}}},
	}

	cursor, err := r.Mongo().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, core.MapMongoError(err, "tour stats")
	}

	stats := make([]Stats, 0)
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, core.MapMongoError(err, "decode tour stats")
	}

	return stats, nil
}

func (r *repository) MonthlyPlan(
	ctx context.Context,
	year int,
) ([]MonthlyPlanEntry, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$startDates"}},
		{{Key: "$match", Value: bson.M{
			"secretTour": bson.M{"$ne": true},
			"startDates": bson.M{
				"$gte": primitive.NewDateTimeFromTime(yearStart(year)),
				"$lte": primitive.NewDateTimeFromTime(yearEnd(year)),
			},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           bson.M{"$month": "$startDates"},
			"numTourStarts": bson.M{"$sum": 1},
			"tours":         bson.M{"$push": "$name"},
		}}},
		{{Key: "$addFields", Value: bson.M{"month": "$_id"}}},
		{{Key: "$project", Value: bson.M{"_id": 0}}},
		{{Key: "$sort", Value: bson.M{"numTourStarts": -1}}},
		{{Key: "$limit", Value: 12}},
	}

	cursor, err := r.Mongo().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, core.MapMongoError(err, "monthly plan")
	}

	plan := make([]MonthlyPlanEntry, 0)
	if err := cursor.All(ctx, &plan); err != nil {
		return nil, core.MapMongoError(err, "decode monthly plan")
	}

	return plan, nil
}

// Within finds tours whose start location lies inside the sphere cap of
// the given radius (already converted to radians) around lat/lng.
func (r *repository) Within(
	ctx context.Context,
	lat, lng, radius float64,
) ([]Tour, error) {
	return r.Find(ctx, query.Options{
		Filter: bson.M{
			"startLocation": bson.M{
				"$geoWithin": bson.M{
					"$centerSphere": bson.A{bson.A{lng, lat}, radius},
				},
			},
		},
		Limit: 100,
		Page:  1,
	})
}

func (r *repository) Distances(
	ctx context.Context,
	lat, lng, multiplier float64,
) ([]Distance, error) {
	// $geoNear must be the first pipeline stage; the default scope is
	// pushed into its query document instead.
	pipeline := mongo.Pipeline{
		{{Key: "$geoNear", Value: bson.M{
			"near": bson.M{
				"type":        "Point",
				"coordinates": bson.A{lng, lat},
			},
			"distanceField":      "distance",
			"distanceMultiplier": multiplier,
			"query":              bson.M{"secretTour": bson.M{"$ne": true}},
		}}},
		{{Key: "$project", Value: bson.M{"distance": 1, "name": 1}}},
	}

	cursor, err := r.Mongo().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, core.MapMongoError(err, "tour distances")
	}

	distances := make([]Distance, 0)
	if err := cursor.All(ctx, &distances); err != nil {
		return nil, core.MapMongoError(err, "decode tour distances")
	}

	return distances, nil
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

func yearEnd(year int) time.Time {
	return time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Mongo().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "slug", Value: 1}},
		},
		{
			Keys: bson.D{
				{Key: "price", Value: 1},
				{Key: "ratingsAverage", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}},
		},
	})
	if err != nil {
		return core.MapMongoError(err, "ensure tour indexes")
	}

	return nil
}
