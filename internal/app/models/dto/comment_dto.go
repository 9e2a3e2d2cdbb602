package dto

// CreateCommentRequest creates a top-level comment (ParentID nil) or a reply
type CreateCommentRequest struct {
	Content  string `json:"content" validate:"required,notblank" binding:"required"`
	ParentID *int64 `json:"parentId"`
}

// UpdateCommentRequest edits a comment's text
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank" binding:"required"`
}
