// AngelaMos | 2026
// service_test.go

package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
	"github.com/carterperez-dev/tourbook/internal/query"
)

type fakeReviewRepo struct {
	reviews map[primitive.ObjectID]*Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: map[primitive.ObjectID]*Review{}}
}

func (f *fakeReviewRepo) Find(
	_ context.Context,
	opts query.Options,
) ([]Review, error) {
	out := make([]Review, 0)
	for _, rev := range f.reviews {
		if tourID, ok := opts.Filter["tour"].(primitive.ObjectID); ok &&
			rev.Tour != tourID {
			continue
		}
		out = append(out, *rev)
	}
	return out, nil
}

func (f *fakeReviewRepo) Count(
	_ context.Context,
	_ bson.M,
) (int64, error) {
	return int64(len(f.reviews)), nil
}

func (f *fakeReviewRepo) Get(
	_ context.Context,
	id primitive.ObjectID,
) (*Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	clone := *rev
	return &clone, nil
}

func (f *fakeReviewRepo) Insert(
	_ context.Context,
	rev *Review,
) (*Review, error) {
	for _, existing := range f.reviews {
		if existing.Tour == rev.Tour && existing.User == rev.User {
			return nil, core.ErrDuplicateKey
		}
	}

	stored := *rev
	stored.ID = primitive.NewObjectID()
	f.reviews[stored.ID] = &stored

	clone := stored
	return &clone, nil
}

func (f *fakeReviewRepo) Update(
	_ context.Context,
	id primitive.ObjectID,
	patch bson.M,
) (*Review, error) {
	rev, ok := f.reviews[id]
	if !ok {
		return nil, core.ErrNotFound
	}

	if text, ok := patch["review"].(string); ok {
		rev.Review = text
	}
	if rating, ok := patch["rating"].(int); ok {
		rev.Rating = rating
	}

	clone := *rev
	return &clone, nil
}

func (f *fakeReviewRepo) Delete(
	_ context.Context,
	id primitive.ObjectID,
) error {
	if _, ok := f.reviews[id]; !ok {
		return core.ErrNotFound
	}
	delete(f.reviews, id)
	return nil
}

func (f *fakeReviewRepo) ListByTour(
	ctx context.Context,
	tourID primitive.ObjectID,
) ([]Review, error) {
	return f.Find(ctx, query.Options{Filter: bson.M{"tour": tourID}})
}

func (f *fakeReviewRepo) RatingSummary(
	_ context.Context,
	tourID primitive.ObjectID,
) (*RatingSummary, error) {
	var sum, count int
	for _, rev := range f.reviews {
		if rev.Tour == tourID {
			sum += rev.Rating
			count++
		}
	}

	if count == 0 {
		return nil, nil
	}

	return &RatingSummary{
		Quantity: count,
		Average:  float64(sum) / float64(count),
	}, nil
}

func (f *fakeReviewRepo) EnsureIndexes(_ context.Context) error {
	return nil
}

type fakeTourRatings struct {
	existing map[primitive.ObjectID]bool
	average  float64
	quantity int
	updates  int
}

func (f *fakeTourRatings) Exists(
	_ context.Context,
	id primitive.ObjectID,
) (bool, error) {
	return f.existing[id], nil
}

func (f *fakeTourRatings) UpdateRatings(
	_ context.Context,
	_ primitive.ObjectID,
	average float64,
	quantity int,
) error {
	f.average = average
	f.quantity = quantity
	f.updates++
	return nil
}

func newTestReviewService() (*Service, *fakeReviewRepo, *fakeTourRatings, primitive.ObjectID) {
	repo := newFakeReviewRepo()
	tourID := primitive.NewObjectID()
	tours := &fakeTourRatings{existing: map[primitive.ObjectID]bool{tourID: true}}

	return NewService(repo, tours), repo, tours, tourID
}

func TestCreateRecomputesRatings(t *testing.T) {
	svc, _, tours, tourID := newTestReviewService()
	ctx := context.Background()

	_, err := svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
		Review: "Great tour",
		Rating: 5,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
		Review: "Decent",
		Rating: 4,
	})
	require.NoError(t, err)

	assert.Equal(t, 4.5, tours.average)
	assert.Equal(t, 2, tours.quantity)
}

func TestCreateRoundsAverageToOneDecimal(t *testing.T) {
	svc, _, tours, tourID := newTestReviewService()
	ctx := context.Background()

	for _, rating := range []int{5, 4, 4} {
		_, err := svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
			Review: "a review",
			Rating: rating,
		})
		require.NoError(t, err)
	}

	// 13/3 = 4.333... rounds to 4.3
	assert.Equal(t, 4.3, tours.average)
	assert.Equal(t, 3, tours.quantity)
}

func TestCreateUnknownTour(t *testing.T) {
	svc, _, _, _ := newTestReviewService()

	_, err := svc.Create(
		context.Background(),
		primitive.NewObjectID(),
		primitive.NewObjectID(),
		CreateReviewRequest{Review: "lost", Rating: 3},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestCreateSecondReviewSameUserRejected(t *testing.T) {
	svc, _, _, tourID := newTestReviewService()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	_, err := svc.Create(ctx, tourID, userID, CreateReviewRequest{
		Review: "first",
		Rating: 5,
	})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tourID, userID, CreateReviewRequest{
		Review: "second",
		Rating: 1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDuplicateKey)
}

func TestUpdateRecomputesRatings(t *testing.T) {
	svc, _, tours, tourID := newTestReviewService()
	ctx := context.Background()

	created, err := svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
		Review: "ok",
		Rating: 2,
	})
	require.NoError(t, err)

	newRating := 5
	_, err = svc.Update(ctx, created.ID, UpdateReviewRequest{Rating: &newRating})
	require.NoError(t, err)

	assert.Equal(t, 5.0, tours.average)
	assert.Equal(t, 1, tours.quantity)
}

func TestDeleteLastReviewResetsDefaults(t *testing.T) {
	svc, _, tours, tourID := newTestReviewService()
	ctx := context.Background()

	created, err := svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
		Review: "only one",
		Rating: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	assert.Equal(t, 4.5, tours.average)
	assert.Equal(t, 0, tours.quantity)
}

func TestUpdateNothingToUpdate(t *testing.T) {
	svc, _, _, tourID := newTestReviewService()
	ctx := context.Background()

	created, err := svc.Create(ctx, tourID, primitive.NewObjectID(), CreateReviewRequest{
		Review: "ok",
		Rating: 3,
	})
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateReviewRequest{})
	require.Error(t, err)

	var appErr *core.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.StatusCode)
}
