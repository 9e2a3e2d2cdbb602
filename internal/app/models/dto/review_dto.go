package dto

// ReviewRequest creates or replaces the caller's review of a book
type ReviewRequest struct {
	RatingValue int    `json:"ratingValue" validate:"required,min=1,max=5" binding:"required,min=1,max=5"`
	Description string `json:"description" validate:"required,notblank" binding:"required"`
}

// Review list sort labels
const (
	ReviewSortNewest  = "newest"
	ReviewSortHelpful = "helpful"
)

// ReviewFilterAll disables the star filter
const ReviewFilterAll = 0

// ReviewQuery selects a page of reviews. Rating 0 means all stars.
type ReviewQuery struct {
	Rating int    `form:"rating" validate:"omitempty,min=1,max=5"`
	Sort   string `form:"sort" validate:"omitempty,oneof=newest helpful"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}
