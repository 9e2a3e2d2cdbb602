package dto

import "github.com/yigit/libraryhub/internal/app/models"

// CreateResourceRequest is the metadata step of a resource upload
type CreateResourceRequest struct {
	Title string              `json:"title" validate:"required,notblank" binding:"required"`
	Type  models.ResourceType `json:"type" validate:"required,oneof=VIDEO PDF DOCX SLIDE IMAGE" binding:"required,oneof=VIDEO PDF DOCX SLIDE IMAGE"`
}
