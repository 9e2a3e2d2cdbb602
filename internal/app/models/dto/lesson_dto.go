package dto

// LessonRequest is used for both create and update
type LessonRequest struct {
	Title    string `json:"title" validate:"required,notblank" binding:"required"`
	Content  string `json:"content" validate:"required,notblank" binding:"required"`
	VideoURL string `json:"videoUrl,omitempty" validate:"omitempty,url" binding:"omitempty,url"`
	Notes    string `json:"notes,omitempty"`
}
