// AngelaMos | 2026
// entity.go

package tour

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// Location is a GeoJSON point with the descriptive fields shown on the
// tour page. Day is only meaningful for itinerary stops.
type Location struct {
	Type        string    `bson:"type"                  json:"type"`
	Coordinates []float64 `bson:"coordinates"           json:"coordinates"`
	Address     string    `bson:"address,omitempty"     json:"address,omitempty"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	Day         int       `bson:"day,omitempty"         json:"day,omitempty"`
}

type Tour struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty"           json:"id"`
	Name            string               `bson:"name"                    json:"name"`
	Slug            string               `bson:"slug"                    json:"slug"`
	Duration        int                  `bson:"duration"                json:"duration"`
	MaxGroupSize    int                  `bson:"maxGroupSize"            json:"maxGroupSize"`
	Difficulty      string               `bson:"difficulty"              json:"difficulty"`
	RatingsAverage  float64              `bson:"ratingsAverage"          json:"ratingsAverage"`
	RatingsQuantity int                  `bson:"ratingsQuantity"         json:"ratingsQuantity"`
	Price           float64              `bson:"price"                   json:"price"`
	PriceDiscount   float64              `bson:"priceDiscount,omitempty" json:"priceDiscount,omitempty"`
	Summary         string               `bson:"summary"                 json:"summary"`
	Description     string               `bson:"description,omitempty"   json:"description,omitempty"`
	ImageCover      string               `bson:"imageCover"              json:"imageCover"`
	Images          []string             `bson:"images,omitempty"        json:"images,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt"               json:"-"`
	StartDates      []time.Time          `bson:"startDates,omitempty"    json:"startDates,omitempty"`
	SecretTour      bool                 `bson:"secretTour"              json:"-"`
	StartLocation   *Location            `bson:"startLocation,omitempty" json:"startLocation,omitempty"`
	Locations       []Location           `bson:"locations,omitempty"     json:"locations,omitempty"`
	Guides          []primitive.ObjectID `bson:"guides,omitempty"        json:"guides,omitempty"`

	// Reviews is filled only by an explicit populate request.
	Reviews any `bson:"-" json:"reviews,omitempty"`
}

// MarshalJSON adds the derived durationWeeks field to the wire form.
func (t Tour) MarshalJSON() ([]byte, error) {
	type alias Tour
	return json.Marshal(struct {
		alias
		DurationWeeks float64 `json:"durationWeeks"`
	}{
		alias:         alias(t),
		DurationWeeks: float64(t.Duration) / 7,
	})
}
