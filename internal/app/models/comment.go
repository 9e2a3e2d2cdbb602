package models

import "time"

// Comment on a lesson. Replies arrive already nested from the backend.
type Comment struct {
	CommentID int64     `json:"commentId"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	AuthorID  int64     `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	ParentID  *int64    `json:"parentId"`
	Replies   []Comment `json:"replies,omitempty"`
}
