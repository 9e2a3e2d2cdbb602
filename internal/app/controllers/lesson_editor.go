package controllers

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/validation"
	"github.com/yigit/libraryhub/internal/pkg/video"
)

// EditorMode is how a lesson page is opened
type EditorMode string

const (
	ModeCreate EditorMode = "create"
	ModeEdit   EditorMode = "edit"
	ModeView   EditorMode = "view"
)

// PendingAttachment is a file picked in the form but not uploaded yet
type PendingAttachment struct {
	Title    string
	Type     models.ResourceType
	FileName string
	Reader   io.Reader
}

// SaveResult reports a save. Upload failures are listed in Warnings; they
// never undo the lesson save.
type SaveResult struct {
	Lesson   *models.Lesson
	Uploaded []models.Resource
	Warnings []string
}

// LessonEditor backs the lesson page for librarians (create and edit) and
// students (view only)
type LessonEditor struct {
	lessons   services.LessonService
	resources services.ResourceService
	logger    zerolog.Logger
	chapterID int64
	viewOnly  bool

	mu       sync.Mutex
	lessonID int64
	form     dto.LessonRequest
	pending  []PendingAttachment
	attached []models.Resource
}

// NewLessonEditor opens a lesson page. lessonID 0 creates a new lesson in chapterID.
func NewLessonEditor(chapterID, lessonID int64, viewOnly bool, lessons services.LessonService, resources services.ResourceService, logger zerolog.Logger) *LessonEditor {
	return &LessonEditor{
		lessons:   lessons,
		resources: resources,
		logger:    logger,
		chapterID: chapterID,
		lessonID:  lessonID,
		viewOnly:  viewOnly,
	}
}

// Mode derives the page mode from the lesson id and the view-only flag
func (e *LessonEditor) Mode() EditorMode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode()
}

func (e *LessonEditor) mode() EditorMode {
	switch {
	case e.lessonID == 0:
		return ModeCreate
	case e.viewOnly:
		return ModeView
	default:
		return ModeEdit
	}
}

// Load fills the form and resource list of an existing lesson
func (e *LessonEditor) Load(ctx context.Context) (*models.Lesson, error) {
	e.mu.Lock()
	id := e.lessonID
	e.mu.Unlock()
	if id == 0 {
		return nil, nil
	}

	lesson, err := e.lessons.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	resources := lesson.Attachments
	if list, err := e.resources.List(ctx, id); err != nil {
		e.logger.Warn().Err(err).Int64("lessonId", id).Msg("Failed to load lesson resources")
	} else {
		resources = list
	}

	e.mu.Lock()
	e.form = dto.LessonRequest{Title: lesson.Title, Content: lesson.Content, VideoURL: lesson.VideoURL, Notes: lesson.Notes}
	if lesson.ChapterID != 0 {
		e.chapterID = lesson.ChapterID
	}
	e.attached = resources
	e.mu.Unlock()
	return lesson, nil
}

// Form returns the current form values
func (e *LessonEditor) Form() dto.LessonRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// SetForm replaces the form values
func (e *LessonEditor) SetForm(form dto.LessonRequest) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode() == ModeView {
		return apperrors.ErrReadOnly
	}
	e.form = form
	return nil
}

// Attach queues a file for upload on the next save. Type and title default
// from the file name.
func (e *LessonEditor) Attach(a PendingAttachment) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode() == ModeView {
		return apperrors.ErrReadOnly
	}
	if a.Reader == nil {
		return apperrors.NewValidationError("file", fmt.Errorf("file is required"))
	}
	if a.Type == "" {
		a.Type = models.ResourceTypeFromFilename(a.FileName)
	}
	if !a.Type.Valid() {
		return apperrors.NewValidationError("type", fmt.Errorf("unknown resource type %q", a.Type))
	}
	if strings.TrimSpace(a.Title) == "" {
		a.Title = filepath.Base(a.FileName)
	}
	e.pending = append(e.pending, a)
	return nil
}

// Pending returns the queued attachments
func (e *LessonEditor) Pending() []PendingAttachment {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]PendingAttachment(nil), e.pending...)
}

// Resources returns the lesson's uploaded resources
func (e *LessonEditor) Resources() []models.Resource {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Resource(nil), e.attached...)
}

// Save creates or updates the lesson, then uploads queued attachments one by
// one. Each attachment is a metadata call followed by the binary upload; a
// failed attachment becomes a warning and the rest still go through.
func (e *LessonEditor) Save(ctx context.Context) (*SaveResult, error) {
	e.mu.Lock()
	mode := e.mode()
	form := e.form
	id, chapterID := e.lessonID, e.chapterID
	pending := e.pending
	e.mu.Unlock()

	if mode == ModeView {
		return nil, apperrors.ErrReadOnly
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	var (
		lesson *models.Lesson
		err    error
	)
	if mode == ModeCreate {
		lesson, err = e.lessons.Create(ctx, chapterID, form)
	} else {
		lesson, err = e.lessons.Update(ctx, id, form)
	}
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.lessonID = lesson.ID
	e.pending = nil
	e.mu.Unlock()

	result := &SaveResult{Lesson: lesson}
	for _, a := range pending {
		res, err := e.upload(ctx, lesson.ID, a)
		if err != nil {
			e.logger.Warn().Err(err).Int64("lessonId", lesson.ID).Str("file", a.FileName).Msg("Attachment upload failed")
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", a.Title, err))
			continue
		}
		result.Uploaded = append(result.Uploaded, *res)
	}

	e.mu.Lock()
	e.attached = append(e.attached, result.Uploaded...)
	e.mu.Unlock()
	return result, nil
}

func (e *LessonEditor) upload(ctx context.Context, lessonID int64, a PendingAttachment) (*models.Resource, error) {
	meta, err := e.resources.Create(ctx, lessonID, dto.CreateResourceRequest{Title: a.Title, Type: a.Type})
	if err != nil {
		return nil, err
	}
	uploaded, err := e.resources.Upload(ctx, meta.ID, a.Type, a.FileName, a.Reader)
	if err != nil {
		return nil, err
	}

	res := *meta
	if uploaded.URL != "" {
		res.URL = uploaded.URL
	}
	if res.LessonID == 0 {
		res.LessonID = lessonID
	}
	if res.Type == "" {
		res.Type = a.Type
	}
	return &res, nil
}

// RemoveResource deletes an uploaded resource
func (e *LessonEditor) RemoveResource(ctx context.Context, resourceID int64) error {
	if e.Mode() == ModeView {
		return apperrors.ErrReadOnly
	}
	if _, err := e.resources.Delete(ctx, resourceID); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	kept := e.attached[:0]
	for _, r := range e.attached {
		if r.ID != resourceID {
			kept = append(kept, r)
		}
	}
	e.attached = kept
	return nil
}

// Delete removes the lesson itself
func (e *LessonEditor) Delete(ctx context.Context) error {
	e.mu.Lock()
	mode, id := e.mode(), e.lessonID
	e.mu.Unlock()

	switch mode {
	case ModeView:
		return apperrors.ErrReadOnly
	case ModeCreate:
		return apperrors.ErrResourceNotFound
	}
	_, err := e.lessons.Delete(ctx, id)
	return err
}

// VideoPreview returns the embed for the form's video URL. Unrecognized
// providers give no preview.
func (e *LessonEditor) VideoPreview() (video.Embed, bool) {
	return video.Parse(e.Form().VideoURL)
}
