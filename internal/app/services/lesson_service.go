package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
)

// LessonService manages lessons inside chapters
type LessonService interface {
	ListByChapter(ctx context.Context, chapterID int64) ([]models.Lesson, error)
	Get(ctx context.Context, id int64) (*models.Lesson, error)
	Create(ctx context.Context, chapterID int64, req dto.LessonRequest) (*models.Lesson, error)
	Update(ctx context.Context, id int64, req dto.LessonRequest) (*models.Lesson, error)
	Delete(ctx context.Context, id int64) (*dto.SuccessResponse, error)
}

type lessonService struct {
	exec   Executor
	logger zerolog.Logger
}

// NewLessonService creates a new LessonService
func NewLessonService(exec Executor, logger zerolog.Logger) LessonService {
	return &lessonService{exec: exec, logger: logger}
}

func (s *lessonService) ListByChapter(ctx context.Context, chapterID int64) ([]models.Lesson, error) {
	var lessons []models.Lesson
	req := authRequest(http.MethodGet, idPath("/chapters/%d/lessons", chapterID), nil, "Could not load lessons")
	if err := s.exec.Do(ctx, req, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (s *lessonService) Get(ctx context.Context, id int64) (*models.Lesson, error) {
	var lesson models.Lesson
	req := authRequest(http.MethodGet, idPath("/lessons/%d", id), nil, "Could not load lesson")
	if err := s.exec.Do(ctx, req, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *lessonService) Create(ctx context.Context, chapterID int64, body dto.LessonRequest) (*models.Lesson, error) {
	var lesson models.Lesson
	req := authRequest(http.MethodPost, idPath("/chapters/%d/lessons", chapterID), body, "Could not create lesson")
	if err := s.exec.Do(ctx, req, &lesson); err != nil {
		return nil, err
	}
	s.logger.Debug().Int64("lessonId", lesson.ID).Int64("chapterId", chapterID).Msg("Lesson created")
	return &lesson, nil
}

func (s *lessonService) Update(ctx context.Context, id int64, body dto.LessonRequest) (*models.Lesson, error) {
	var lesson models.Lesson
	req := authRequest(http.MethodPut, idPath("/lessons/%d", id), body, "Could not save lesson")
	if err := s.exec.Do(ctx, req, &lesson); err != nil {
		return nil, err
	}
	if lesson.ID == 0 {
		lesson.ID = id
	}
	return &lesson, nil
}

// Delete returns {success: true} when the backend answers 204
func (s *lessonService) Delete(ctx context.Context, id int64) (*dto.SuccessResponse, error) {
	var out dto.SuccessResponse
	req := authRequest(http.MethodDelete, idPath("/lessons/%d", id), nil, "Could not delete lesson")
	if err := s.exec.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
