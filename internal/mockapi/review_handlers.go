package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
	"github.com/yigit/libraryhub/internal/pkg/helpers"
)

// ListReviews returns one page of a book's reviews
func (h *Handlers) ListReviews(c *gin.Context) {
	bookID, okID := pathID(c, "id")
	if !okID {
		return
	}
	var query dto.ReviewQuery
	if err := c.ShouldBindQuery(&query); err != nil || query.Rating < 0 || query.Rating > 5 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid review query").WithDetails("rating must be between 1 and 5")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	page, size := helpers.ParsePaginationParams(c)
	reviews := h.store.Reviews(bookID, query.Rating, query.Sort)
	ok(c, http.StatusOK, helpers.Paginate(reviews, page, size))
}

// SubmitReview creates or replaces the caller's review
func (h *Handlers) SubmitReview(c *gin.Context) {
	bookID, okID := pathID(c, "id")
	if !okID {
		return
	}
	userID, okCaller := caller(c)
	if !okCaller {
		return
	}
	var req dto.ReviewRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	student, err := h.store.User(userID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	review := h.store.PutReview(bookID, student, req)
	ok(c, http.StatusOK, review)
}

// DeleteReview removes the caller's review
func (h *Handlers) DeleteReview(c *gin.Context) {
	bookID, okID := pathID(c, "id")
	if !okID {
		return
	}
	userID, okCaller := caller(c)
	if !okCaller {
		return
	}
	if err := h.store.DeleteReview(bookID, userID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
