// AngelaMos | 2026
// service.go

package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
)

const (
	defaultRatingsAverage  = 4.5
	defaultRatingsQuantity = 0
)

// TourRatings is the slice of the tour repository the review workflow
// needs: existence checks before create, rating writes after every
// mutation.
type TourRatings interface {
	Exists(ctx context.Context, id primitive.ObjectID) (bool, error)
	UpdateRatings(
		ctx context.Context,
		id primitive.ObjectID,
		average float64,
		quantity int,
	) error
}

type Service struct {
	repo  Repository
	tours TourRatings
}

func NewService(repo Repository, tours TourRatings) *Service {
	return &Service{repo: repo, tours: tours}
}

func (s *Service) Repo() Repository {
	return s.repo
}

func (s *Service) Get(
	ctx context.Context,
	id primitive.ObjectID,
) (*Review, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a review after confirming the tour exists, then
// refreshes the tour's rating aggregate.
func (s *Service) Create(
	ctx context.Context,
	tourID, userID primitive.ObjectID,
	req CreateReviewRequest,
) (*Review, error) {
	exists, err := s.tours.Exists(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("check tour: %w", err)
	}
	if !exists {
		return nil, core.NotFoundError("tour")
	}

	rev := &Review{
		Review:    req.Review,
		Rating:    req.Rating,
		CreatedAt: time.Now(),
		Tour:      tourID,
		User:      userID,
	}

	created, err := s.repo.Insert(ctx, rev)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, core.DuplicateError("review for this tour")
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}

	if err := s.RecomputeRatings(ctx, tourID); err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) Update(
	ctx context.Context,
	id primitive.ObjectID,
	req UpdateReviewRequest,
) (*Review, error) {
	patch := bson.M{}
	if req.Review != nil {
		patch["review"] = *req.Review
	}
	if req.Rating != nil {
		patch["rating"] = *req.Rating
	}
	if len(patch) == 0 {
		return nil, core.BadRequestError("nothing to update")
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	if err := s.RecomputeRatings(ctx, updated.Tour); err != nil {
		return nil, err
	}

	return updated, nil
}

func (s *Service) Delete(
	ctx context.Context,
	id primitive.ObjectID,
) error {
	rev, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	return s.RecomputeRatings(ctx, rev.Tour)
}

func (s *Service) ListByTour(
	ctx context.Context,
	tourID primitive.ObjectID,
) ([]Review, error) {
	return s.repo.ListByTour(ctx, tourID)
}

// RecomputeRatings rewrites the tour's ratingsAverage/ratingsQuantity
// from its remaining reviews. No reviews left resets the defaults.
func (s *Service) RecomputeRatings(
	ctx context.Context,
	tourID primitive.ObjectID,
) error {
	summary, err := s.repo.RatingSummary(ctx, tourID)
	if err != nil {
		return fmt.Errorf("rating summary: %w", err)
	}

	if summary == nil {
		return s.tours.UpdateRatings(
			ctx,
			tourID,
			defaultRatingsAverage,
			defaultRatingsQuantity,
		)
	}

	average := math.Round(summary.Average*10) / 10

	return s.tours.UpdateRatings(ctx, tourID, average, summary.Quantity)
}
