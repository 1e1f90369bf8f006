// AngelaMos | 2026
// repository.go

package user

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

const collectionName = "users"

type Repository interface {
	Find(ctx context.Context, opts query.Options) ([]User, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	Insert(ctx context.Context, u *User) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (*User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error

	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByResetTokenHash(
		ctx context.Context,
		hash string,
		now time.Time,
	) (*User, error)
	UpdatePassword(
		ctx context.Context,
		id primitive.ObjectID,
		passwordHash string,
		changedAt time.Time,
	) error
	SetResetToken(
		ctx context.Context,
		id primitive.ObjectID,
		tokenHash string,
		expires time.Time,
	) error
	ClearResetToken(ctx context.Context, id primitive.ObjectID) error
	Deactivate(ctx context.Context, id primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// defaultScope hides soft-deleted users from every default query.
var defaultScope = bson.M{"active": bson.M{"$ne": false}}

type repository struct {
	*crud.Collection[User]
}

func NewRepository(db *core.Database) Repository {
	return &repository{
		Collection: crud.NewCollection[User](
			db.Collection(collectionName),
			defaultScope,
		),
	}
}

// Delete is the admin-initiated hard delete; it bypasses the active
// scope so deactivated accounts can still be removed.
func (r *repository) Delete(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	return r.Collection.Unscoped().Delete(ctx, id)
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	return r.FindOne(ctx, bson.M{"email": email})
}

func (r *repository) GetByResetTokenHash(
	ctx context.Context,
	hash string,
	now time.Time,
) (*User, error) {
	return r.FindOne(ctx, bson.M{
		"passwordResetToken":   hash,
		"passwordResetExpires": bson.M{"$gt": now},
	})
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id primitive.ObjectID,
	passwordHash string,
	changedAt time.Time,
) error {
	res, err := r.Mongo().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password":          passwordHash,
			"passwordChangedAt": changedAt,
		},
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
	if err != nil {
		return core.MapMongoError(err, "update password")
	}
	if res.MatchedCount == 0 {
		return core.MapMongoError(mongo.ErrNoDocuments, "update password")
	}

	return nil
}

func (r *repository) SetResetToken(
	ctx context.Context,
	id primitive.ObjectID,
	tokenHash string,
	expires time.Time,
) error {
	res, err := r.Mongo().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{
			"passwordResetToken":   tokenHash,
			"passwordResetExpires": expires,
		},
	})
	if err != nil {
		return core.MapMongoError(err, "set reset token")
	}
	if res.MatchedCount == 0 {
		return core.MapMongoError(mongo.ErrNoDocuments, "set reset token")
	}

	return nil
}

func (r *repository) ClearResetToken(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	_, err := r.Mongo().UpdateByID(ctx, id, bson.M{
		"$unset": bson.M{
			"passwordResetToken":   "",
			"passwordResetExpires": "",
		},
	})
	if err != nil {
		return core.MapMongoError(err, "clear reset token")
	}

	return nil
}

// Deactivate is the self-service soft delete; the document stays behind
// the active flag and drops out of default queries.
func (r *repository) Deactivate(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	res, err := r.Mongo().UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"active": false},
	})
	if err != nil {
		return core.MapMongoError(err, "deactivate user")
	}
	if res.MatchedCount == 0 {
		return core.MapMongoError(mongo.ErrNoDocuments, "deactivate user")
	}

	return nil
}

func (r *repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.Mongo().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "passwordResetToken", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	})
	if err != nil {
		return core.MapMongoError(err, "ensure user indexes")
	}

	return nil
}
