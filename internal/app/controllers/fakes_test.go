package controllers

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/logger"
	"github.com/yigit/libraryhub/internal/session"
)

var errBackend = errors.New("backend unavailable")

func newStore() *session.Store {
	return session.NewStore(session.NewMemoryRepository(), session.Preferences{Theme: "light", Locale: "en"}, logger.Nop())
}

type notification struct {
	Level   NotificationLevel
	Message string
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []notification
}

func (n *recordingNotifier) Notify(level NotificationLevel, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, notification{level, message})
}

func (n *recordingNotifier) messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, it := range n.items {
		out = append(out, it.Message)
	}
	return out
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeAuth struct {
	loginResp   *dto.LoginResponse
	loginErr    error
	verifyResp  *dto.LoginResponse
	verifyErr   error
	verifyCalls int
	lastOTP     string
	register    *dto.RegisterResponse
	profile     *models.User
	profileErr  error
	logoutCalls int
	resendCalls int
}

func (f *fakeAuth) Login(_ context.Context, _ dto.LoginRequest) (*dto.LoginResponse, error) {
	return f.loginResp, f.loginErr
}

func (f *fakeAuth) Register(_ context.Context, _ dto.RegisterRequest) (*dto.RegisterResponse, error) {
	return f.register, nil
}

func (f *fakeAuth) VerifyOTP(_ context.Context, req dto.VerifyOTPRequest) (*dto.LoginResponse, error) {
	f.verifyCalls++
	f.lastOTP = req.OTP
	return f.verifyResp, f.verifyErr
}

func (f *fakeAuth) ResendOTP(_ context.Context, _ int64) error {
	f.resendCalls++
	return nil
}

func (f *fakeAuth) Profile(_ context.Context, _ int64) (*models.User, error) {
	return f.profile, f.profileErr
}

func (f *fakeAuth) Logout(_ context.Context) error {
	f.logoutCalls++
	return nil
}

// fakeReviews keeps reviews in memory and records the calls made
type fakeReviews struct {
	reviews   []models.Review
	calls     []string
	queries   []dto.ReviewQuery
	submitErr error
}

func (f *fakeReviews) filtered(rating int) []models.Review {
	var out []models.Review
	for _, r := range f.reviews {
		if rating == dto.ReviewFilterAll || r.RatingValue == rating {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeReviews) List(_ context.Context, _ int64, q dto.ReviewQuery) (*models.Page[models.Review], error) {
	f.calls = append(f.calls, "list")
	f.queries = append(f.queries, q)
	list := f.filtered(q.Rating)
	return &models.Page[models.Review]{PageList: list, TotalElements: int64(len(list)), TotalPages: 1, PageNumber: q.Page, PageSize: q.Size}, nil
}

func (f *fakeReviews) All(_ context.Context, _ int64) ([]models.Review, error) {
	f.calls = append(f.calls, "all")
	return append([]models.Review(nil), f.reviews...), nil
}

func (f *fakeReviews) Submit(_ context.Context, _ int64, req dto.ReviewRequest) (*models.Review, error) {
	f.calls = append(f.calls, "submit")
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	r := models.Review{StudentID: 1, RatingValue: req.RatingValue, Description: req.Description}
	kept := f.reviews[:0]
	for _, old := range f.reviews {
		if old.StudentID != r.StudentID {
			kept = append(kept, old)
		}
	}
	f.reviews = append(kept, r)
	return &r, nil
}

func (f *fakeReviews) Delete(_ context.Context, _ int64) (*dto.SuccessResponse, error) {
	f.calls = append(f.calls, "delete")
	kept := f.reviews[:0]
	for _, old := range f.reviews {
		if old.StudentID != 1 {
			kept = append(kept, old)
		}
	}
	f.reviews = kept
	return &dto.SuccessResponse{Success: true}, nil
}

func (f *fakeReviews) Stats(_ context.Context, _ int64) (models.RatingStats, error) {
	f.calls = append(f.calls, "stats")
	return models.ComputeRatingStats(f.reviews), nil
}

type fakeLessons struct {
	created   []dto.LessonRequest
	updated   []dto.LessonRequest
	lesson    *models.Lesson
	deleted   []int64
	createErr error
}

func (f *fakeLessons) ListByChapter(_ context.Context, _ int64) ([]models.Lesson, error) {
	return nil, nil
}

func (f *fakeLessons) Get(_ context.Context, id int64) (*models.Lesson, error) {
	if f.lesson == nil {
		return nil, errBackend
	}
	l := *f.lesson
	return &l, nil
}

func (f *fakeLessons) Create(_ context.Context, chapterID int64, req dto.LessonRequest) (*models.Lesson, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	return &models.Lesson{ID: 100, ChapterID: chapterID, Title: req.Title, Content: req.Content}, nil
}

func (f *fakeLessons) Update(_ context.Context, id int64, req dto.LessonRequest) (*models.Lesson, error) {
	f.updated = append(f.updated, req)
	return &models.Lesson{ID: id, Title: req.Title, Content: req.Content}, nil
}

func (f *fakeLessons) Delete(_ context.Context, id int64) (*dto.SuccessResponse, error) {
	f.deleted = append(f.deleted, id)
	return &dto.SuccessResponse{Success: true}, nil
}

type fakeResources struct {
	nextID    int64
	calls     []string
	failOn    string
	resources []models.Resource
}

func (f *fakeResources) List(_ context.Context, _ int64) ([]models.Resource, error) {
	return f.resources, nil
}

func (f *fakeResources) Create(_ context.Context, lessonID int64, meta dto.CreateResourceRequest) (*models.Resource, error) {
	f.calls = append(f.calls, "create:"+meta.Title)
	if f.failOn == "create:"+meta.Title {
		return nil, errBackend
	}
	f.nextID++
	return &models.Resource{ID: f.nextID, LessonID: lessonID, Title: meta.Title, Type: meta.Type}, nil
}

func (f *fakeResources) Upload(_ context.Context, id int64, t models.ResourceType, name string, r io.Reader) (*models.Resource, error) {
	f.calls = append(f.calls, "upload:"+t.UploadPath()+":"+name)
	if f.failOn == "upload:"+name {
		return nil, errBackend
	}
	_, _ = io.ReadAll(r)
	return &models.Resource{ID: id, URL: "/uploads/" + name}, nil
}

func (f *fakeResources) Delete(_ context.Context, id int64) (*dto.SuccessResponse, error) {
	f.calls = append(f.calls, "delete")
	return &dto.SuccessResponse{Success: true}, nil
}

type fakeComments struct {
	items   []models.Comment
	created []dto.CreateCommentRequest
	loads   int
}

func (f *fakeComments) List(_ context.Context, _ int64) ([]models.Comment, error) {
	f.loads++
	return f.items, nil
}

func (f *fakeComments) Create(_ context.Context, _ int64, content string, parentID *int64) (*models.Comment, error) {
	f.created = append(f.created, dto.CreateCommentRequest{Content: content, ParentID: parentID})
	c := models.Comment{CommentID: int64(len(f.created) + 10), Content: content, ParentID: parentID}
	if parentID == nil {
		f.items = append(f.items, c)
		return &c, nil
	}
	for i := range f.items {
		if f.items[i].CommentID == *parentID {
			f.items[i].Replies = append(f.items[i].Replies, c)
		}
	}
	return &c, nil
}

func (f *fakeComments) Update(_ context.Context, id int64, content string) (*models.Comment, error) {
	return &models.Comment{CommentID: id, Content: content}, nil
}

func (f *fakeComments) Delete(_ context.Context, _ int64) (*dto.SuccessResponse, error) {
	return &dto.SuccessResponse{Success: true}, nil
}
