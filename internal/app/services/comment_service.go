package services

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
)

// CommentService reads and writes lesson comments. Top-level comments and
// replies share one endpoint and differ only by parentId.
type CommentService interface {
	List(ctx context.Context, lessonID int64) ([]models.Comment, error)
	Create(ctx context.Context, lessonID int64, content string, parentID *int64) (*models.Comment, error)
	Update(ctx context.Context, commentID int64, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID int64) (*dto.SuccessResponse, error)
}

type commentService struct {
	exec   Executor
	logger zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(exec Executor, logger zerolog.Logger) CommentService {
	return &commentService{exec: exec, logger: logger}
}

// List returns top-level comments with their replies already nested
func (s *commentService) List(ctx context.Context, lessonID int64) ([]models.Comment, error) {
	var comments []models.Comment
	req := authRequest(http.MethodGet, idPath("/lessons/%d/comments", lessonID), nil, "Could not load comments")
	if err := s.exec.Do(ctx, req, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *commentService) Create(ctx context.Context, lessonID int64, content string, parentID *int64) (*models.Comment, error) {
	body := dto.CreateCommentRequest{Content: content, ParentID: parentID}

	var comment models.Comment
	req := authRequest(http.MethodPost, idPath("/lessons/%d/comments", lessonID), body, "Could not post comment")
	if err := s.exec.Do(ctx, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentService) Update(ctx context.Context, commentID int64, content string) (*models.Comment, error) {
	var comment models.Comment
	req := authRequest(http.MethodPut, idPath("/comments/%d", commentID), dto.UpdateCommentRequest{Content: content}, "Could not update comment")
	if err := s.exec.Do(ctx, req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (s *commentService) Delete(ctx context.Context, commentID int64) (*dto.SuccessResponse, error) {
	var out dto.SuccessResponse
	req := authRequest(http.MethodDelete, idPath("/comments/%d", commentID), nil, "Could not delete comment")
	if err := s.exec.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
