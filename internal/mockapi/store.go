package mockapi

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/auth"
)

// OTPTTL is how long a verification code stays valid
const OTPTTL = 10 * time.Minute

// Account is a user row with its credentials
type Account struct {
	models.User
	PasswordHash string
	Verified     bool
}

type pendingOTP struct {
	code      string
	expiresAt time.Time
}

type storedComment struct {
	models.Comment
	lessonID int64
}

// Store is the in-memory database of the development backend. Safe for concurrent use.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	nextID int64

	accounts  map[int64]*Account
	otps      map[int64]pendingOTP
	chapters  map[int64]*models.Chapter
	lessons   map[int64]*models.Lesson
	comments  map[int64]*storedComment
	resources map[int64]*models.Resource
	// reviews[bookID][studentID]
	reviews map[int64]map[int64]models.Review
	// revoked refresh token ids
	revoked map[string]struct{}
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		now:       time.Now,
		accounts:  make(map[int64]*Account),
		otps:      make(map[int64]pendingOTP),
		chapters:  make(map[int64]*models.Chapter),
		lessons:   make(map[int64]*models.Lesson),
		comments:  make(map[int64]*storedComment),
		resources: make(map[int64]*models.Resource),
		reviews:   make(map[int64]map[int64]models.Review),
		revoked:   make(map[string]struct{}),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// --- accounts ---

// CreateAccount adds an account. Username and email must be unique.
func (s *Store) CreateAccount(req dto.RegisterRequest, role models.RoleType, verified bool) (*Account, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, req.Username) {
			return nil, fmt.Errorf("%w: username %s is taken", apperrors.ErrConflict, req.Username)
		}
		if req.Email != "" && strings.EqualFold(a.Email, req.Email) {
			return nil, fmt.Errorf("%w: email %s is already registered", apperrors.ErrConflict, req.Email)
		}
	}

	a := &Account{
		User: models.User{
			ID:       s.id(),
			Username: req.Username,
			FullName: req.FullName,
			Email:    req.Email,
			Role:     role,
		},
		PasswordHash: hash,
		Verified:     verified,
	}
	s.accounts[a.ID] = a
	copied := *a
	return &copied, nil
}

// Authenticate checks credentials and returns the account
func (s *Store) Authenticate(username, password string) (*Account, error) {
	s.mu.RLock()
	var found *Account
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			copied := *a
			found = &copied
			break
		}
	}
	s.mu.RUnlock()

	if found == nil || !auth.CheckPassword(found.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !found.Verified {
		return nil, apperrors.ErrAccountNotVerified
	}
	return found, nil
}

// User returns the public profile of an account
func (s *Store) User(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	u := a.User
	return &u, nil
}

// IssueOTP creates a fresh six-digit code for a pending account
func (s *Store) IssueOTP(userID int64) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID]
	if !ok {
		return "", apperrors.ErrResourceNotFound
	}
	if a.Verified {
		return "", fmt.Errorf("%w: account is already verified", apperrors.ErrConflict)
	}
	s.otps[userID] = pendingOTP{code: code, expiresAt: s.now().Add(OTPTTL)}
	return code, nil
}

// VerifyOTP marks the account verified when the code matches
func (s *Store) VerifyOTP(userID int64, code string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.otps[userID]
	if !ok || p.code != code || s.now().After(p.expiresAt) {
		return nil, apperrors.ErrOTPMismatch
	}
	a, ok := s.accounts[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	delete(s.otps, userID)
	a.Verified = true
	u := a.User
	return &u, nil
}

// RevokeRefresh marks a refresh token id unusable
func (s *Store) RevokeRefresh(tokenID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = struct{}{}
}

// RefreshRevoked reports whether a refresh token id was revoked
func (s *Store) RefreshRevoked(tokenID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[tokenID]
	return ok
}

// --- chapters and lessons ---

// CreateChapter adds a chapter
func (s *Store) CreateChapter(title string) models.Chapter {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &models.Chapter{ID: s.id(), Title: title}
	s.chapters[c.ID] = c
	return *c
}

// LessonsByChapter lists a chapter's lessons in creation order
func (s *Store) LessonsByChapter(chapterID int64) ([]models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.chapters[chapterID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := []models.Lesson{}
	for _, l := range s.lessons {
		if l.ChapterID == chapterID {
			out = append(out, s.lessonWithAttachments(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateLesson adds a lesson to a chapter
func (s *Store) CreateLesson(chapterID int64, req dto.LessonRequest) (*models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.chapters[chapterID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	l := &models.Lesson{
		ID:        s.id(),
		ChapterID: chapterID,
		Title:     req.Title,
		Content:   req.Content,
		VideoURL:  req.VideoURL,
		Notes:     req.Notes,
	}
	s.lessons[l.ID] = l
	out := *l
	return &out, nil
}

// Lesson returns a lesson with its uploaded resources
func (s *Store) Lesson(id int64) (*models.Lesson, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := s.lessonWithAttachments(l)
	return &out, nil
}

func (s *Store) lessonWithAttachments(l *models.Lesson) models.Lesson {
	out := *l
	out.Attachments = nil
	for _, r := range s.resources {
		if r.LessonID == l.ID && r.URL != "" {
			out.Attachments = append(out.Attachments, *r)
		}
	}
	sort.Slice(out.Attachments, func(i, j int) bool { return out.Attachments[i].ID < out.Attachments[j].ID })
	return out
}

// UpdateLesson replaces a lesson's editable fields
func (s *Store) UpdateLesson(id int64, req dto.LessonRequest) (*models.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lessons[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	l.Title, l.Content, l.VideoURL, l.Notes = req.Title, req.Content, req.VideoURL, req.Notes
	out := s.lessonWithAttachments(l)
	return &out, nil
}

// DeleteLesson removes a lesson with its comments and resources. The removed
// resources are returned so their files can be deleted.
func (s *Store) DeleteLesson(id int64) ([]models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[id]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	delete(s.lessons, id)
	for cid, c := range s.comments {
		if c.lessonID == id {
			delete(s.comments, cid)
		}
	}
	var removed []models.Resource
	for rid, r := range s.resources {
		if r.LessonID == id {
			removed = append(removed, *r)
			delete(s.resources, rid)
		}
	}
	return removed, nil
}

// --- comments ---

// Comments returns the lesson's top-level comments with replies nested, oldest first
func (s *Store) Comments(lessonID int64) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.lessons[lessonID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}

	var all []models.Comment
	for _, c := range s.comments {
		if c.lessonID == lessonID {
			all = append(all, c.Comment)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CommentID < all[j].CommentID })
	return nestComments(all, nil), nil
}

func nestComments(all []models.Comment, parent *int64) []models.Comment {
	out := []models.Comment{}
	for _, c := range all {
		if (parent == nil && c.ParentID == nil) || (parent != nil && c.ParentID != nil && *c.ParentID == *parent) {
			id := c.CommentID
			c.Replies = nestComments(all, &id)
			if len(c.Replies) == 0 {
				c.Replies = nil
			}
			out = append(out, c)
		}
	}
	return out
}

// CreateComment adds a comment or a reply. The parent must belong to the same lesson.
func (s *Store) CreateComment(lessonID int64, author *models.User, req dto.CreateCommentRequest) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[lessonID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	if req.ParentID != nil {
		parent, ok := s.comments[*req.ParentID]
		if !ok || parent.lessonID != lessonID {
			return nil, fmt.Errorf("%w: parent comment not found", apperrors.ErrBadRequest)
		}
	}

	c := &storedComment{
		lessonID: lessonID,
		Comment: models.Comment{
			CommentID: s.id(),
			Content:   req.Content,
			Author:    author.DisplayName(),
			AuthorID:  author.ID,
			CreatedAt: s.now().UTC(),
			ParentID:  req.ParentID,
		},
	}
	s.comments[c.CommentID] = c
	out := c.Comment
	return &out, nil
}

// CommentAuthor returns the author id of a comment
func (s *Store) CommentAuthor(id int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return 0, apperrors.ErrResourceNotFound
	}
	return c.AuthorID, nil
}

// UpdateComment changes a comment's text
func (s *Store) UpdateComment(id int64, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	c.Content = content
	out := c.Comment
	return &out, nil
}

// DeleteComment removes a comment and all replies below it
func (s *Store) DeleteComment(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return apperrors.ErrResourceNotFound
	}
	s.deleteCommentTree(id)
	return nil
}

func (s *Store) deleteCommentTree(id int64) {
	delete(s.comments, id)
	for cid, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == id {
			s.deleteCommentTree(cid)
		}
	}
}

// --- resources ---

// Resources lists a lesson's resources
func (s *Store) Resources(lessonID int64) ([]models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.lessons[lessonID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := []models.Resource{}
	for _, r := range s.resources {
		if r.LessonID == lessonID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CreateResource adds the metadata record of a resource
func (s *Store) CreateResource(lessonID int64, req dto.CreateResourceRequest) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lessons[lessonID]; !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	r := &models.Resource{ID: s.id(), LessonID: lessonID, Title: req.Title, Type: req.Type}
	s.resources[r.ID] = r
	out := *r
	return &out, nil
}

// Resource returns one resource
func (s *Store) Resource(id int64) (*models.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	out := *r
	return &out, nil
}

// AttachFile sets the URL of an uploaded binary and returns the previous one
func (s *Store) AttachFile(id int64, url string) (*models.Resource, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, "", apperrors.ErrResourceNotFound
	}
	previous := r.URL
	r.URL = url
	out := *r
	return &out, previous, nil
}

// DeleteResource removes a resource and returns it
func (s *Store) DeleteResource(id int64) (*models.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	delete(s.resources, id)
	return r, nil
}

// --- reviews ---

// Reviews lists a book's reviews, filtered by star value when rating is set.
// sort "helpful" orders by helpful count; anything else is newest first.
func (s *Store) Reviews(bookID int64, rating int, sortBy string) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Review{}
	for _, r := range s.reviews[bookID] {
		if rating == dto.ReviewFilterAll || r.RatingValue == rating {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if sortBy == dto.ReviewSortHelpful && out[i].HelpfulCount != out[j].HelpfulCount {
			return out[i].HelpfulCount > out[j].HelpfulCount
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].StudentID < out[j].StudentID
	})
	return out
}

// PutReview creates or replaces the student's review of a book
func (s *Store) PutReview(bookID int64, student *models.User, req dto.ReviewRequest) models.Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reviews[bookID] == nil {
		s.reviews[bookID] = make(map[int64]models.Review)
	}
	r := models.Review{
		StudentID:   student.ID,
		StudentName: student.DisplayName(),
		RatingValue: req.RatingValue,
		Description: req.Description,
		CreatedAt:   s.now().UTC(),
	}
	if old, ok := s.reviews[bookID][student.ID]; ok {
		r.HelpfulCount = old.HelpfulCount
	}
	s.reviews[bookID][student.ID] = r
	return r
}

// DeleteReview removes the student's review of a book
func (s *Store) DeleteReview(bookID, studentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[bookID][studentID]; !ok {
		return apperrors.ErrResourceNotFound
	}
	delete(s.reviews[bookID], studentID)
	return nil
}
