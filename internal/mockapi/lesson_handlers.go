package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/middleware"
)

// ListLessons lists the lessons of a chapter
func (h *Handlers) ListLessons(c *gin.Context) {
	chapterID, okID := pathID(c, "id")
	if !okID {
		return
	}
	lessons, err := h.store.LessonsByChapter(chapterID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, lessons)
}

// CreateLesson adds a lesson to a chapter
func (h *Handlers) CreateLesson(c *gin.Context) {
	chapterID, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req dto.LessonRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	lesson, err := h.store.CreateLesson(chapterID, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	h.logger.Info().Int64("lessonId", lesson.ID).Int64("chapterId", chapterID).Msg("Lesson created")
	ok(c, http.StatusCreated, lesson)
}

// GetLesson returns a lesson with its attachments
func (h *Handlers) GetLesson(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	lesson, err := h.store.Lesson(id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, lesson)
}

// UpdateLesson replaces a lesson's fields
func (h *Handlers) UpdateLesson(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	var req dto.LessonRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	lesson, err := h.store.UpdateLesson(id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	ok(c, http.StatusOK, lesson)
}

// DeleteLesson removes a lesson and the files of its resources
func (h *Handlers) DeleteLesson(c *gin.Context) {
	id, okID := pathID(c, "id")
	if !okID {
		return
	}
	removed, err := h.store.DeleteLesson(id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	for _, r := range removed {
		h.deleteFile(r.URL)
	}
	h.logger.Info().Int64("lessonId", id).Int("resources", len(removed)).Msg("Lesson deleted")
	c.Status(http.StatusNoContent)
}
