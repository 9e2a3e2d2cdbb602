package mockapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// Storage sub-directories per upload kind
const (
	videoDir = "videos"
	slideDir = "slides"
)

// ListResources lists the resources of a lesson, uploaded or not
func (h *Handlers) ListResources(c *gin.Context) {
	lessonID, okID := pathID(c, "id")
	if !okID {
		return
	}
	resources, err := h.store.Resources(lessonID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, resources)
}

// CreateResource records the metadata step of an upload
func (h *Handlers) CreateResource(c *gin.Context) {
	lessonID, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req dto.CreateResourceRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	resource, err := h.store.CreateResource(lessonID, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusCreated, resource)
}

// UploadVideo stores the binary of a VIDEO resource
func (h *Handlers) UploadVideo(c *gin.Context) {
	h.upload(c, true)
}

// UploadSlide stores the binary of any non-video resource
func (h *Handlers) UploadSlide(c *gin.Context) {
	h.upload(c, false)
}

func (h *Handlers) upload(c *gin.Context, video bool) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}

	resource, err := h.store.Resource(id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if (resource.Type == models.ResourceVideo) != video {
		middleware.HandleAPIError(c, fmt.Errorf("%w: resource %d is %s", apperrors.ErrBadRequest, id, resource.Type))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "file is required").WithField("file")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	dir := slideDir
	if video {
		dir = videoDir
	}
	url, err := h.files.SaveFile(fileHeader, dir)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	updated, previous, err := h.store.AttachFile(id, url)
	if err != nil {
		h.deleteFile(url)
		middleware.HandleAPIError(c, err)
		return
	}
	h.deleteFile(previous)

	h.logger.Info().Int64("resourceId", id).Str("url", url).Int64("size", fileHeader.Size).Msg("Resource uploaded")
	ok(c, http.StatusOK, updated)
}

// DeleteResource removes a resource and its file
func (h *Handlers) DeleteResource(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	removed, err := h.store.DeleteResource(id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.deleteFile(removed.URL)
	c.Status(http.StatusNoContent)
}

func (h *Handlers) deleteFile(url string) {
	if url == "" {
		return
	}
	if err := h.files.DeleteFile(url); err != nil {
		h.logger.Warn().Err(err).Str("url", url).Msg("Failed to delete stored file")
	}
}
