// AngelaMos | 2026
// repository.go

package review

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/crud"
	"github.com/carterperez-dev/tourbook/internal/query"
)

const collectionName = "reviews"

// RatingSummary is the aggregate the tour document mirrors.
type RatingSummary struct {
	Quantity int     `bson:"nRating"`
	Average  float64 `bson:"avgRating"`
}

type Repository interface {
	Find(ctx context.Context, opts query.Options) ([]Review, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Review, error)
	Insert(ctx context.Context, rev *Review) (*Review, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*Review, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	ListByTour(ctx context.Context, tourID primitive.ObjectID) ([]Review, error)
	RatingSummary(
		ctx context.Context,
		tourID primitive.ObjectID,
	) (*RatingSummary, error)
	EnsureIndexes(ctx context.Context) error
}

type repository struct {
	*crud.Collection[Review]
}

func NewRepository(db *core.Database) Repository {
	return &repository{
		Collection: crud.NewCollection[Review](
			db.Collection(collectionName),
			nil,
		),
	}
}

func (r *repository) ListByTour(
	ctx context.Context,
	tourID primitive.ObjectID,
) ([]Review, error) {
	return r.Find(ctx, query.Options{
		Filter: bson.M{"tour": tourID},
		Sort:   bson.D{{Key: "createdAt", Value: -1}},
		Page:   1,
		Limit:  100,
	})
}

// RatingSummary aggregates the remaining reviews of one tour. A nil
// summary means the tour has no reviews left.
func (r *repository) RatingSummary(
	ctx context.Context,
	tourID primitive.ObjectID,
) (*RatingSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"tour": tourID}}},
		{{Key: "$group", Value: bson.M{
			"_id":       "$tour",
			"nRating":   bson.M{"$sum": 1},
			"avgRating": bson.M{"$avg": "$rating"},
		}}},
	}

	cursor, err := r.Mongo().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, core.MapMongoError(err, "rating summary")
	}

	summaries := make([]RatingSummary, 0, 1)
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, core.MapMongoError(err, "decode rating summary")
	}

	if len(summaries) == 0 {
		return nil, nil
	}

	return &summaries[0], nil
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	// one review per user per tour
	_, err := r.Mongo().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "tour", Value: 1},
				{Key: "user", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		return core.MapMongoError(err, "ensure review indexes")
	}

	return nil
}
