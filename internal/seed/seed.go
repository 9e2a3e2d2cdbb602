package seed

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/mockapi"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// DefaultPassword is the password of every seeded account
const DefaultPassword = "password123"

// DefaultBookID is the book the seeded review belongs to
const DefaultBookID = 1

// Seeded account usernames
const (
	AdminUsername     = "admin"
	LibrarianUsername = "librarian"
	StudentUsername   = "student"
)

// Result holds the ids created by CreateDefaultData
type Result struct {
	AdminID     int64
	LibrarianID int64
	StudentID   int64
	ChapterID   int64
	LessonID    int64
}

// CreateDefaultData fills an empty development store with verified accounts,
// one chapter with a lesson, a comment thread and a review.
func CreateDefaultData(store *mockapi.Store, lgr zerolog.Logger) (*Result, error) {
	lgr.Info().Msg("Creating default data (accounts, chapter, lesson)...")
	var finalErr error // collect errors without stopping the process
	res := &Result{}

	accounts := []struct {
		req  dto.RegisterRequest
		role models.RoleType
		id   *int64
	}{
		{dto.RegisterRequest{Username: AdminUsername, FullName: "Library Admin", Email: "admin@library.dev", Password: DefaultPassword}, models.RoleAdmin, &res.AdminID},
		{dto.RegisterRequest{Username: LibrarianUsername, FullName: "Lena Librarian", Email: "librarian@library.dev", Password: DefaultPassword}, models.RoleLibrarian, &res.LibrarianID},
		{dto.RegisterRequest{Username: StudentUsername, FullName: "Sam Student", Email: "student@library.dev", Password: DefaultPassword}, models.RoleStudent, &res.StudentID},
	}
	for _, a := range accounts {
		account, err := store.CreateAccount(a.req, a.role, true)
		if err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				lgr.Error().Err(err).Str("username", a.req.Username).Msg("Error creating default account")
			}
			finalErr = errors.Join(finalErr, err)
			continue
		}
		*a.id = account.ID
		lgr.Info().Str("username", account.Username).Str("role", string(account.Role)).Msg("Default account created")
	}

	chapter := store.CreateChapter("Getting Started")
	res.ChapterID = chapter.ID

	lesson, err := store.CreateLesson(chapter.ID, dto.LessonRequest{
		Title:    "Finding books in the catalogue",
		Content:  "Search by title, author or ISBN and filter by availability.",
		VideoURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default lesson")
		return res, errors.Join(finalErr, err)
	}
	res.LessonID = lesson.ID

	if res.StudentID > 0 {
		student, err := store.User(res.StudentID)
		if err == nil {
			var top *models.Comment
			top, err = store.CreateComment(lesson.ID, student, dto.CreateCommentRequest{Content: "Is there a way to save searches?"})
			if err == nil && res.LibrarianID > 0 {
				librarian, _ := store.User(res.LibrarianID)
				_, err = store.CreateComment(lesson.ID, librarian, dto.CreateCommentRequest{Content: "Yes, from the search page menu.", ParentID: &top.CommentID})
			}
		}
		if err != nil {
			lgr.Error().Err(err).Msg("Error creating default comments")
			finalErr = errors.Join(finalErr, err)
		} else {
			store.PutReview(DefaultBookID, student, dto.ReviewRequest{RatingValue: 5, Description: "Clear and practical."})
		}
	}

	if finalErr == nil {
		lgr.Info().Int64("chapterId", res.ChapterID).Int64("lessonId", res.LessonID).Msg("Default data created")
	}
	return res, finalErr
}
