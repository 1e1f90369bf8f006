// AngelaMos | 2026
// service.go

package tour

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/carterperez-dev/tourbook/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Repo() Repository {
	return s.repo
}

// Slugify derives the URL slug from a tour name. The same name always
// yields the same slug.
func Slugify(name string) string {
	return slug.Make(name)
}

// BuildTour turns a validated create request into the stored document.
func (s *Service) BuildTour(req CreateTourRequest) (*Tour, error) {
	guides, err := parseGuideIDs(req.Guides)
	if err != nil {
		return nil, err
	}

	ratingsAverage := req.RatingsAverage
	if ratingsAverage == 0 {
		ratingsAverage = 4.5
	}

	t := &Tour{
		Name:            req.Name,
		Slug:            Slugify(req.Name),
		Duration:        req.Duration,
		MaxGroupSize:    req.MaxGroupSize,
		Difficulty:      req.Difficulty,
		RatingsAverage:  ratingsAverage,
		RatingsQuantity: 0,
		Price:           req.Price,
		PriceDiscount:   req.PriceDiscount,
		Summary:         req.Summary,
		Description:     req.Description,
		ImageCover:      req.ImageCover,
		Images:          req.Images,
		CreatedAt:       time.Now(),
		StartDates:      req.StartDates,
		SecretTour:      req.SecretTour,
		StartLocation:   locationFromRequest(req.StartLocation),
		Locations:       locationsFromRequests(req.Locations),
		Guides:          guides,
	}

	return t, nil
}

// BuildPatch turns a validated partial update into a $set document. A
// name write regenerates the slug; a priceDiscount write is checked
// against the effective price.
func (s *Service) BuildPatch(
	ctx context.Context,
	id primitive.ObjectID,
	req UpdateTourRequest,
) (bson.M, error) {
	patch := bson.M{}

	if req.Name != nil {
		patch["name"] = *req.Name
		patch["slug"] = Slugify(*req.Name)
	}
	if req.Duration != nil {
		patch["duration"] = *req.Duration
	}
	if req.MaxGroupSize != nil {
		patch["maxGroupSize"] = *req.MaxGroupSize
	}
	if req.Difficulty != nil {
		patch["difficulty"] = *req.Difficulty
	}
	if req.Price != nil {
		patch["price"] = *req.Price

		if req.PriceDiscount == nil {
			t, err := s.repo.Get(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("get tour: %w", err)
			}
			if t.PriceDiscount > 0 && t.PriceDiscount >= *req.Price {
				return nil, core.BadRequestError(
					"priceDiscount must be below the regular price",
				)
			}
		}
	}
	if req.PriceDiscount != nil {
		price, err := s.effectivePrice(ctx, id, req.Price)
		if err != nil {
			return nil, err
		}
		if *req.PriceDiscount >= price {
			return nil, core.BadRequestError(
				"priceDiscount must be below the regular price",
			)
		}
		patch["priceDiscount"] = *req.PriceDiscount
	}
	if req.Summary != nil {
		patch["summary"] = *req.Summary
	}
	if req.Description != nil {
		patch["description"] = *req.Description
	}
	if req.ImageCover != nil {
		patch["imageCover"] = *req.ImageCover
	}
	if req.Images != nil {
		patch["images"] = req.Images
	}
	if req.StartDates != nil {
		patch["startDates"] = req.StartDates
	}
	if req.SecretTour != nil {
		patch["secretTour"] = *req.SecretTour
	}
	if req.StartLocation != nil {
		patch["startLocation"] = locationFromRequest(req.StartLocation)
	}
	if req.Locations != nil {
		patch["locations"] = locationsFromRequests(req.Locations)
	}
	if req.Guides != nil {
		guides, err := parseGuideIDs(req.Guides)
		if err != nil {
			return nil, err
		}
		patch["guides"] = guides
	}

	if len(patch) == 0 {
		return nil, core.BadRequestError("nothing to update")
	}

	return patch, nil
}

func (s *Service) effectivePrice(
	ctx context.Context,
	id primitive.ObjectID,
	override *float64,
) (float64, error) {
	if override != nil {
		return *override, nil
	}

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("get tour: %w", err)
	}

	return t.Price, nil
}

func (s *Service) Stats(ctx context.Context) ([]Stats, error) {
	return s.repo.Stats(ctx)
}

func (s *Service) MonthlyPlan(
	ctx context.Context,
	year int,
) ([]MonthlyPlanEntry, error) {
	return s.repo.MonthlyPlan(ctx, year)
}

// ToursWithin returns tours starting inside the given surface distance
// around a point. The distance converts to radians using the earth
// radius matching the unit.
func (s *Service) ToursWithin(
	ctx context.Context,
	distance, lat, lng float64,
	unit string,
) ([]Tour, error) {
	radius, err := radiusFor(distance, unit)
	if err != nil {
		return nil, err
	}

	return s.repo.Within(ctx, lat, lng, radius)
}

func (s *Service) Distances(
	ctx context.Context,
	lat, lng float64,
	unit string,
) ([]Distance, error) {
	multiplier, err := multiplierFor(unit)
	if err != nil {
		return nil, err
	}

	return s.repo.Distances(ctx, lat, lng, multiplier)
}

func radiusFor(distance float64, unit string) (float64, error) {
	switch unit {
	case "mi":
		return distance / earthRadiusMiles, nil
	case "km":
		return distance / earthRadiusKm, nil
	}
	return 0, core.BadRequestError("unit must be mi or km")
}

func multiplierFor(unit string) (float64, error) {
	switch unit {
	case "mi":
		return metersToMiles, nil
	case "km":
		return metersToKm, nil
	}
	return 0, core.BadRequestError("unit must be mi or km")
}

func locationFromRequest(req *LocationRequest) *Location {
	if req == nil {
		return nil
	}
	return &Location{
		Type:        req.Type,
		Coordinates: req.Coordinates,
		Address:     req.Address,
		Description: req.Description,
		Day:         req.Day,
	}
}

func locationsFromRequests(reqs []LocationRequest) []Location {
	if reqs == nil {
		return nil
	}
	locations := make([]Location, 0, len(reqs))
	for i := range reqs {
		locations = append(locations, *locationFromRequest(&reqs[i]))
	}
	return locations
}

func parseGuideIDs(raw []string) ([]primitive.ObjectID, error) {
	if raw == nil {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, s := range raw {
		id, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			return nil, core.BadRequestError("invalid guide id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
