package controllers

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

var errCommentRequired = errors.New("comment text is required")

// CommentThread backs the comment section of a lesson. At most one reply box is open.
type CommentThread struct {
	lessonID int64
	comments services.CommentService
	logger   zerolog.Logger

	mu      sync.Mutex
	items   []models.Comment
	replyTo *int64
}

// NewCommentThread creates the thread for a lesson
func NewCommentThread(lessonID int64, comments services.CommentService, logger zerolog.Logger) *CommentThread {
	return &CommentThread{lessonID: lessonID, comments: comments, logger: logger}
}

// Load fetches the thread; replies come back already nested
func (t *CommentThread) Load(ctx context.Context) error {
	items, err := t.comments.List(ctx, t.lessonID)
	if err != nil {
		t.logger.Warn().Err(err).Int64("lessonId", t.lessonID).Msg("Failed to load comments")
		return err
	}
	t.mu.Lock()
	t.items = items
	t.mu.Unlock()
	return nil
}

// Comments returns the loaded top-level comments
func (t *CommentThread) Comments() []models.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]models.Comment(nil), t.items...)
}

// OpenReply opens the reply box under a comment, closing any other one
func (t *CommentThread) OpenReply(commentID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := commentID
	t.replyTo = &id
}

// CloseReply closes the reply box
func (t *CommentThread) CloseReply() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.replyTo = nil
}

// ReplyTarget returns the comment whose reply box is open
func (t *CommentThread) ReplyTarget() (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.replyTo == nil {
		return 0, false
	}
	return *t.replyTo, true
}

// Post adds a top-level comment and reloads the thread
func (t *CommentThread) Post(ctx context.Context, content string) error {
	content, err := commentText(content)
	if err != nil {
		return err
	}
	if _, err := t.comments.Create(ctx, t.lessonID, content, nil); err != nil {
		return err
	}
	return t.Load(ctx)
}

// Reply answers the comment whose reply box is open, closes the box and reloads
func (t *CommentThread) Reply(ctx context.Context, content string) error {
	parentID, ok := t.ReplyTarget()
	if !ok {
		return apperrors.ErrNoReplyTarget
	}
	content, err := commentText(content)
	if err != nil {
		return err
	}
	if _, err := t.comments.Create(ctx, t.lessonID, content, &parentID); err != nil {
		return err
	}
	t.CloseReply()
	return t.Load(ctx)
}

// Edit changes a comment's text and reloads
func (t *CommentThread) Edit(ctx context.Context, commentID int64, content string) error {
	content, err := commentText(content)
	if err != nil {
		return err
	}
	if _, err := t.comments.Update(ctx, commentID, content); err != nil {
		return err
	}
	return t.Load(ctx)
}

// Delete removes a comment and reloads
func (t *CommentThread) Delete(ctx context.Context, commentID int64) error {
	if _, err := t.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	if target, ok := t.ReplyTarget(); ok && target == commentID {
		t.CloseReply()
	}
	return t.Load(ctx)
}

func commentText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", apperrors.NewValidationError("content", errCommentRequired)
	}
	return s, nil
}
