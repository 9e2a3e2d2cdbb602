package mockapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

func newTestStore(t *testing.T) (*Store, *models.User, int64) {
	t.Helper()
	s := NewStore()
	a, err := s.CreateAccount(dto.RegisterRequest{Username: "sam", FullName: "Sam", Email: "sam@x.dev", Password: "password123"}, models.RoleStudent, true)
	require.NoError(t, err)
	chapter := s.CreateChapter("Basics")
	lesson, err := s.CreateLesson(chapter.ID, dto.LessonRequest{Title: "Intro", Content: "Hi"})
	require.NoError(t, err)
	return s, &a.User, lesson.ID
}

func TestCreateAccountConflicts(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, err := s.CreateAccount(dto.RegisterRequest{Username: "SAM", Password: "password123"}, models.RoleStudent, false)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = s.CreateAccount(dto.RegisterRequest{Username: "other", Email: "Sam@X.dev", Password: "password123"}, models.RoleStudent, false)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestOTPLifecycle(t *testing.T) {
	s := NewStore()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	a, err := s.CreateAccount(dto.RegisterRequest{Username: "new", Password: "password123"}, models.RoleStudent, false)
	require.NoError(t, err)

	_, err = s.Authenticate("new", "password123")
	assert.ErrorIs(t, err, apperrors.ErrAccountNotVerified)

	code, err := s.IssueOTP(a.ID)
	require.NoError(t, err)
	assert.Len(t, code, 6)

	now = now.Add(OTPTTL + time.Second)
	_, err = s.VerifyOTP(a.ID, code)
	assert.ErrorIs(t, err, apperrors.ErrOTPMismatch)

	code, err = s.IssueOTP(a.ID)
	require.NoError(t, err)
	user, err := s.VerifyOTP(a.ID, code)
	require.NoError(t, err)
	assert.Equal(t, a.ID, user.ID)

	_, err = s.Authenticate("new", "password123")
	assert.NoError(t, err)

	_, err = s.IssueOTP(a.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestCommentTree(t *testing.T) {
	s, author, lessonID := newTestStore(t)

	top, err := s.CreateComment(lessonID, author, dto.CreateCommentRequest{Content: "q"})
	require.NoError(t, err)
	reply, err := s.CreateComment(lessonID, author, dto.CreateCommentRequest{Content: "a", ParentID: &top.CommentID})
	require.NoError(t, err)
	_, err = s.CreateComment(lessonID, author, dto.CreateCommentRequest{Content: "b", ParentID: &reply.CommentID})
	require.NoError(t, err)

	comments, err := s.Comments(lessonID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	require.Len(t, comments[0].Replies, 1)
	require.Len(t, comments[0].Replies[0].Replies, 1)

	missing := int64(999)
	_, err = s.CreateComment(lessonID, author, dto.CreateCommentRequest{Content: "x", ParentID: &missing})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	require.NoError(t, s.DeleteComment(top.CommentID))
	comments, err = s.Comments(lessonID)
	require.NoError(t, err)
	assert.Empty(t, comments)
	_, err = s.CommentAuthor(reply.CommentID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}

func TestReviewUpsertKeepsOnePerStudent(t *testing.T) {
	s, student, _ := newTestStore(t)

	s.PutReview(1, student, dto.ReviewRequest{RatingValue: 2, Description: "meh"})
	s.PutReview(1, student, dto.ReviewRequest{RatingValue: 5, Description: "better on reread"})

	reviews := s.Reviews(1, 0, dto.ReviewSortNewest)
	require.Len(t, reviews, 1)
	assert.Equal(t, 5, reviews[0].RatingValue)
	assert.Empty(t, s.Reviews(1, 2, ""))

	require.NoError(t, s.DeleteReview(1, student.ID))
	assert.ErrorIs(t, s.DeleteReview(1, student.ID), apperrors.ErrResourceNotFound)
}

func TestDeleteLessonReturnsResources(t *testing.T) {
	s, _, lessonID := newTestStore(t)

	r, err := s.CreateResource(lessonID, dto.CreateResourceRequest{Title: "Deck", Type: models.ResourceSlide})
	require.NoError(t, err)
	_, previous, err := s.AttachFile(r.ID, "/uploads/slides/a.pptx")
	require.NoError(t, err)
	assert.Empty(t, previous)

	lesson, err := s.Lesson(lessonID)
	require.NoError(t, err)
	require.Len(t, lesson.Attachments, 1)

	removed, err := s.DeleteLesson(lessonID)
	require.NoError(t, err)
	require.Len(t, removed, 1)
	assert.Equal(t, "/uploads/slides/a.pptx", removed[0].URL)

	_, err = s.Resource(r.ID)
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
