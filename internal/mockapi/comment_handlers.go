package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
)

// ListComments returns a lesson's comment thread, replies nested
func (h *Handlers) ListComments(c *gin.Context) {
	lessonID, okID := pathID(c, "id")
	if !okID {
		return
	}
	comments, err := h.store.Comments(lessonID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, comments)
}

// CreateComment posts a comment or a reply as the caller
func (h *Handlers) CreateComment(c *gin.Context) {
	lessonID, okID := pathID(c, "id")
	if !okID {
		return
	}
	userID, okCaller := caller(c)
	if !okCaller {
		return
	}
	var req dto.CreateCommentRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	author, err := h.store.User(userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	comment, err := h.store.CreateComment(lessonID, author, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusCreated, comment)
}

// UpdateComment edits a comment; only its author or an admin may
func (h *Handlers) UpdateComment(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if !h.canModifyComment(c, id) {
		return
	}
	var req dto.UpdateCommentRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	comment, err := h.store.UpdateComment(id, req.Content)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, comment)
}

// DeleteComment removes a comment with its replies
func (h *Handlers) DeleteComment(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	if !h.canModifyComment(c, id) {
		return
	}
	if err := h.store.DeleteComment(id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) canModifyComment(c *gin.Context, commentID int64) bool {
	userID, okCaller := caller(c)
	if !okCaller {
		return false
	}
	role, _ := middleware.RoleFromContext(c)
	if err := h.authz.ValidateCommentOwnership(userID, role, commentID); err != nil {
		middleware.HandleAPIError(c, err)
		return false
	}
	return true
}
