// AngelaMos | 2026
// dto.go

package review

type CreateReviewRequest struct {
	Review string `json:"review" validate:"required,min=1,max=2000"`
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
}

type UpdateReviewRequest struct {
	Review *string `json:"review,omitempty" validate:"omitempty,min=1,max=2000"`
	Rating *int    `json:"rating,omitempty" validate:"omitempty,gte=1,lte=5"`
}
