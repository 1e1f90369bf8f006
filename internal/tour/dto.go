// AngelaMos | 2026
// dto.go

package tour

import (
	"time"
)

type LocationRequest struct {
	Type        string    `json:"type"                  validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates"           validate:"required,len=2"`
	Address     string    `json:"address,omitempty"`
	Description string    `json:"description,omitempty"`
	Day         int       `json:"day,omitempty"         validate:"omitempty,gte=1"`
}

type CreateTourRequest struct {
	Name            string           `json:"name"                      validate:"required,min=10,max=40"`
	Duration        int              `json:"duration"                  validate:"required,gte=1"`
	MaxGroupSize    int              `json:"maxGroupSize"              validate:"required,gte=1"`
	Difficulty      string           `json:"difficulty"                validate:"required,oneof=easy medium difficult"`
	Price           float64          `json:"price"                     validate:"required,gt=0"`
	PriceDiscount   float64          `json:"priceDiscount,omitempty"   validate:"omitempty,gt=0,ltfield=Price"`
	Summary         string           `json:"summary"                   validate:"required"`
	Description     string           `json:"description,omitempty"`
	ImageCover      string           `json:"imageCover"                validate:"required"`
	Images          []string         `json:"images,omitempty"`
	StartDates      []time.Time      `json:"startDates,omitempty"`
	SecretTour      bool             `json:"secretTour,omitempty"`
	StartLocation   *LocationRequest `json:"startLocation,omitempty"   validate:"omitempty"`
	Locations       []LocationRequest `json:"locations,omitempty"      validate:"omitempty,dive"`
	Guides          []string         `json:"guides,omitempty"          validate:"omitempty,dive,len=24,hexadecimal"`
	RatingsAverage  float64          `json:"ratingsAverage,omitempty"  validate:"omitempty,gte=1,lte=5"`
}

type UpdateTourRequest struct {
	Name          *string           `json:"name,omitempty"          validate:"omitempty,min=10,max=40"`
	Duration      *int              `json:"duration,omitempty"      validate:"omitempty,gte=1"`
	MaxGroupSize  *int              `json:"maxGroupSize,omitempty"  validate:"omitempty,gte=1"`
	Difficulty    *string           `json:"difficulty,omitempty"    validate:"omitempty,oneof=easy medium difficult"`
	Price         *float64          `json:"price,omitempty"         validate:"omitempty,gt=0"`
	PriceDiscount *float64          `json:"priceDiscount,omitempty" validate:"omitempty,gt=0"`
	Summary       *string           `json:"summary,omitempty"`
	Description   *string           `json:"description,omitempty"`
	ImageCover    *string           `json:"imageCover,omitempty"`
	Images        []string          `json:"images,omitempty"`
	StartDates    []time.Time       `json:"startDates,omitempty"`
	SecretTour    *bool             `json:"secretTour,omitempty"`
	StartLocation *LocationRequest  `json:"startLocation,omitempty"`
	Locations     []LocationRequest `json:"locations,omitempty"     validate:"omitempty,dive"`
	Guides        []string          `json:"guides,omitempty"        validate:"omitempty,dive,len=24,hexadecimal"`
}
