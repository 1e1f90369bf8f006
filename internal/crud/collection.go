// AngelaMos | 2026
// collection.go

package crud

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/query"
)

// Repository is the persistence contract the generic handlers operate on.
type Repository[T any] interface {
	Find(ctx context.Context, opts query.Options) ([]T, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, doc *T) (*T, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Collection implements Repository over one mongo collection. The scope
// filter is merged into every read and match so rows like secret tours
// or deactivated users stay out of default results; Unscoped lifts it
// for internal callers.
type Collection[T any] struct {
	coll  *mongo.Collection
	scope bson.M
}

func NewCollection[T any](coll *mongo.Collection, scope bson.M) *Collection[T] {
	return &Collection[T]{coll: coll, scope: scope}
}

func (c *Collection[T]) Unscoped() *Collection[T] {
	return &Collection[T]{coll: c.coll}
}

func (c *Collection[T]) Mongo() *mongo.Collection {
	return c.coll
}

func (c *Collection[T]) scoped(filter bson.M) bson.M {
	if len(c.scope) == 0 {
		return filter
	}

	merged := make(bson.M, len(filter)+len(c.scope))
	for k, v := range filter {
		merged[k] = v
	}
	for k, v := range c.scope {
		merged[k] = v
	}
	return merged
}

func (c *Collection[T]) Find(
	ctx context.Context,
	opts query.Options,
) ([]T, error) {
	cursor, err := c.coll.Find(ctx, c.scoped(opts.Filter), opts.Find())
	if err != nil {
		return nil, core.MapMongoError(err, "find")
	}

	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, core.MapMongoError(err, "decode")
	}

	return docs, nil
}

func (c *Collection[T]) Count(
	ctx context.Context,
	filter bson.M,
) (int64, error) {
	total, err := c.coll.CountDocuments(ctx, c.scoped(filter))
	if err != nil {
		return 0, core.MapMongoError(err, "count")
	}

	return total, nil
}

func (c *Collection[T]) Get(
	ctx context.Context,
	id primitive.ObjectID,
) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, c.scoped(bson.M{"_id": id})).Decode(&doc)
	if err != nil {
		return nil, core.MapMongoError(err, "get")
	}

	return &doc, nil
}

func (c *Collection[T]) FindOne(
	ctx context.Context,
	filter bson.M,
) (*T, error) {
	var doc T
	err := c.coll.FindOne(ctx, c.scoped(filter)).Decode(&doc)
	if err != nil {
		return nil, core.MapMongoError(err, "find one")
	}

	return &doc, nil
}

func (c *Collection[T]) Insert(ctx context.Context, doc *T) (*T, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, core.MapMongoError(err, "insert")
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return doc, nil
	}

	// read back unscoped so hidden-by-default documents still return
	return c.Unscoped().Get(ctx, id)
}

func (c *Collection[T]) Update(
	ctx context.Context,
	id primitive.ObjectID,
	patch bson.M,
) (*T, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc T
	err := c.coll.FindOneAndUpdate(
		ctx,
		c.scoped(bson.M{"_id": id}),
		bson.M{"$set": patch},
		opts,
	).Decode(&doc)
	if err != nil {
		return nil, core.MapMongoError(err, "update")
	}

	return &doc, nil
}

func (c *Collection[T]) Delete(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	res, err := c.coll.DeleteOne(ctx, c.scoped(bson.M{"_id": id}))
	if err != nil {
		return core.MapMongoError(err, "delete")
	}

	if res.DeletedCount == 0 {
		return core.MapMongoError(mongo.ErrNoDocuments, "delete")
	}

	return nil
}
