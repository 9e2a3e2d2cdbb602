package controllers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
	"github.com/yigit/libraryhub/internal/pkg/video"
)

func TestLessonEditorModes(t *testing.T) {
	l, r := &fakeLessons{}, &fakeResources{}
	assert.Equal(t, ModeCreate, NewLessonEditor(1, 0, false, l, r, logger.Nop()).Mode())
	assert.Equal(t, ModeEdit, NewLessonEditor(1, 5, false, l, r, logger.Nop()).Mode())
	assert.Equal(t, ModeView, NewLessonEditor(1, 5, true, l, r, logger.Nop()).Mode())
}

func TestLessonEditorViewOnlyRefusesChanges(t *testing.T) {
	l := &fakeLessons{lesson: &models.Lesson{ID: 5, Title: "Intro", Content: "Body"}}
	e := NewLessonEditor(1, 5, true, l, &fakeResources{}, logger.Nop())
	ctx := context.Background()

	_, err := e.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Intro", e.Form().Title)

	_, err = e.Save(ctx)
	assert.ErrorIs(t, err, apperrors.ErrReadOnly)
	assert.ErrorIs(t, e.SetForm(dto.LessonRequest{Title: "x"}), apperrors.ErrReadOnly)
	assert.ErrorIs(t, e.Attach(PendingAttachment{FileName: "a.pdf", Reader: strings.NewReader("")}), apperrors.ErrReadOnly)
	assert.ErrorIs(t, e.Delete(ctx), apperrors.ErrReadOnly)
	assert.Empty(t, l.updated)
}

func TestLessonEditorSaveRequiresTitleAndContent(t *testing.T) {
	l := &fakeLessons{}
	e := NewLessonEditor(1, 0, false, l, &fakeResources{}, logger.Nop())
	require.NoError(t, e.SetForm(dto.LessonRequest{Title: "  ", Content: "Body"}))

	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Empty(t, l.created)
}

func TestLessonEditorCreateUploadsSequentially(t *testing.T) {
	l, r := &fakeLessons{}, &fakeResources{failOn: "upload:broken.pdf"}
	e := NewLessonEditor(3, 0, false, l, r, logger.Nop())
	ctx := context.Background()

	require.NoError(t, e.SetForm(dto.LessonRequest{Title: "Intro", Content: "Body"}))
	require.NoError(t, e.Attach(PendingAttachment{FileName: "talk.mp4", Reader: strings.NewReader("v")}))
	require.NoError(t, e.Attach(PendingAttachment{FileName: "broken.pdf", Reader: strings.NewReader("p")}))
	require.NoError(t, e.Attach(PendingAttachment{Title: "Deck", FileName: "deck.pptx", Reader: strings.NewReader("s")}))

	res, err := e.Save(ctx)
	require.NoError(t, err, "upload failures do not fail the save")

	assert.Equal(t, int64(100), res.Lesson.ID)
	assert.Equal(t, []string{
		"create:talk.mp4", "upload:video:talk.mp4",
		"create:broken.pdf", "upload:slide:broken.pdf",
		"create:Deck", "upload:slide:deck.pptx",
	}, r.calls)
	require.Len(t, res.Uploaded, 2)
	assert.Equal(t, models.ResourceVideo, res.Uploaded[0].Type)
	assert.Equal(t, "/uploads/talk.mp4", res.Uploaded[0].URL)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "broken.pdf")

	assert.Equal(t, ModeEdit, e.Mode(), "a created lesson is edited on the next save")
	assert.Empty(t, e.Pending())
	assert.Len(t, e.Resources(), 2)

	_, err = e.Save(ctx)
	require.NoError(t, err)
	assert.Len(t, l.updated, 1)
}

func TestLessonEditorMetadataFailureSkipsUpload(t *testing.T) {
	r := &fakeResources{failOn: "create:notes.pdf"}
	e := NewLessonEditor(3, 0, false, &fakeLessons{}, r, logger.Nop())
	require.NoError(t, e.SetForm(dto.LessonRequest{Title: "Intro", Content: "Body"}))
	require.NoError(t, e.Attach(PendingAttachment{FileName: "notes.pdf", Reader: strings.NewReader("p")}))

	res, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"create:notes.pdf"}, r.calls)
	assert.Len(t, res.Warnings, 1)
}

func TestLessonEditorVideoPreview(t *testing.T) {
	e := NewLessonEditor(1, 0, false, &fakeLessons{}, &fakeResources{}, logger.Nop())

	require.NoError(t, e.SetForm(dto.LessonRequest{VideoURL: "https://youtu.be/dQw4w9WgXcQ"}))
	embed, ok := e.VideoPreview()
	require.True(t, ok)
	assert.Equal(t, video.ProviderYouTube, embed.Provider)

	require.NoError(t, e.SetForm(dto.LessonRequest{VideoURL: "https://example.com/clip.mp4"}))
	_, ok = e.VideoPreview()
	assert.False(t, ok)
}

func TestLessonEditorRemoveResource(t *testing.T) {
	l := &fakeLessons{lesson: &models.Lesson{ID: 5, Title: "Intro", Content: "Body"}}
	r := &fakeResources{resources: []models.Resource{{ID: 1}, {ID: 2}}}
	e := NewLessonEditor(1, 5, false, l, r, logger.Nop())
	ctx := context.Background()

	_, err := e.Load(ctx)
	require.NoError(t, err)
	require.NoError(t, e.RemoveResource(ctx, 1))
	assert.Equal(t, []models.Resource{{ID: 2}}, e.Resources())
}
