package controllers

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/app/services"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/validation"
)

// ReviewFilters are the star filters offered above the list; 0 shows everything
var ReviewFilters = []int{dto.ReviewFilterAll, 5, 4, 3}

// CurrentUserSource tells the panel who is looking at it
type CurrentUserSource interface {
	CurrentUser() *models.User
}

// ReviewController backs a book's review panel: the caller's own review,
// the rating stats and a filtered, sorted list
type ReviewController struct {
	bookID   int64
	reviews  services.ReviewService
	users    CurrentUserSource
	notifier Notifier
	logger   zerolog.Logger

	// OnChange is called with fresh stats after a review is created, updated or deleted
	OnChange func(models.RatingStats)

	mu       sync.Mutex
	filter   int
	sort     string
	pageSize int
	page     *models.Page[models.Review]
	stats    models.RatingStats
	own      *models.Review
}

// NewReviewController creates the panel for one book
func NewReviewController(bookID int64, reviews services.ReviewService, users CurrentUserSource, notifier Notifier, logger zerolog.Logger) *ReviewController {
	return &ReviewController{
		bookID:   bookID,
		reviews:  reviews,
		users:    users,
		notifier: notifierOrNop(notifier),
		logger:   logger,
		filter:   dto.ReviewFilterAll,
		sort:     dto.ReviewSortNewest,
		pageSize: services.DefaultReviewSize,
		stats:    models.ComputeRatingStats(nil),
	}
}

// Load reads the unfiltered list once to find the caller's own review and
// compute stats, then loads the first page with the current filter and sort
func (c *ReviewController) Load(ctx context.Context) error {
	all, err := c.reviews.All(ctx, c.bookID)
	if err != nil {
		return err
	}

	var own *models.Review
	if user := c.currentUser(); user != nil {
		for i := range all {
			if all[i].StudentID == user.ID {
				r := all[i]
				own = &r
				break
			}
		}
	}

	c.mu.Lock()
	c.own = own
	c.stats = models.ComputeRatingStats(all)
	c.mu.Unlock()

	return c.loadFirstPage(ctx)
}

// SetFilter switches the star filter (all, 5, 4 or 3) and reloads the first page
func (c *ReviewController) SetFilter(ctx context.Context, rating int) error {
	valid := false
	for _, f := range ReviewFilters {
		if rating == f {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.NewValidationError("rating", apperrors.ErrInvalidRating)
	}

	c.mu.Lock()
	c.filter = rating
	c.mu.Unlock()
	return c.loadFirstPage(ctx)
}

// SetSort switches between newest and helpful and reloads the first page
func (c *ReviewController) SetSort(ctx context.Context, sort string) error {
	if sort != dto.ReviewSortNewest && sort != dto.ReviewSortHelpful {
		return apperrors.NewValidationError("sort", apperrors.ErrBadRequest)
	}

	c.mu.Lock()
	c.sort = sort
	c.mu.Unlock()
	return c.loadFirstPage(ctx)
}

// LoadPage moves the list to another page
func (c *ReviewController) LoadPage(ctx context.Context, page int) error {
	return c.loadPage(ctx, page)
}

// Submit creates the caller's review, or replaces it if one exists.
// Rating and text are checked here, not while typing.
func (c *ReviewController) Submit(ctx context.Context, rating int, description string) error {
	if rating < validation.MinRating || rating > validation.MaxRating {
		return apperrors.NewValidationError("ratingValue", apperrors.ErrInvalidRating)
	}
	if strings.TrimSpace(description) == "" {
		return apperrors.NewValidationError("description", apperrors.ErrEmptyReview)
	}
	if c.currentUser() == nil {
		return apperrors.ErrNotAuthenticated
	}

	req := dto.ReviewRequest{RatingValue: rating, Description: strings.TrimSpace(description)}
	if err := validation.Struct(req); err != nil {
		return err
	}

	updating := c.OwnReview() != nil
	review, err := c.reviews.Submit(ctx, c.bookID, req)
	if err != nil {
		return err
	}
	if review.StudentID == 0 {
		review.StudentID = c.currentUser().ID
	}
	if review.RatingValue == 0 {
		review.RatingValue = req.RatingValue
		review.Description = req.Description
	}

	c.mu.Lock()
	c.own = review
	c.mu.Unlock()

	if updating {
		c.notifier.Notify(NotifySuccess, "Your review has been updated")
	} else {
		c.notifier.Notify(NotifySuccess, "Thanks for your review")
	}
	return c.refresh(ctx)
}

// Delete removes the caller's review
func (c *ReviewController) Delete(ctx context.Context) error {
	if c.OwnReview() == nil {
		return apperrors.ErrResourceNotFound
	}

	if _, err := c.reviews.Delete(ctx, c.bookID); err != nil {
		return err
	}

	c.mu.Lock()
	c.own = nil
	c.mu.Unlock()

	c.notifier.Notify(NotifySuccess, "Your review has been deleted")
	return c.refresh(ctx)
}

// refresh reloads stats, then the first page, then tells the parent view
func (c *ReviewController) refresh(ctx context.Context) error {
	stats, err := c.reviews.Stats(ctx, c.bookID)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.stats = stats
	c.mu.Unlock()

	if err := c.loadFirstPage(ctx); err != nil {
		return err
	}

	if c.OnChange != nil {
		c.OnChange(stats.Clone())
	}
	return nil
}

func (c *ReviewController) loadFirstPage(ctx context.Context) error {
	return c.loadPage(ctx, services.FirstPage)
}

func (c *ReviewController) loadPage(ctx context.Context, page int) error {
	c.mu.Lock()
	query := dto.ReviewQuery{Rating: c.filter, Sort: c.sort, Page: page, Size: c.pageSize}
	c.mu.Unlock()

	p, err := c.reviews.List(ctx, c.bookID, query)
	if err != nil {
		c.logger.Warn().Err(err).Int64("bookId", c.bookID).Msg("Failed to load reviews")
		return err
	}

	c.mu.Lock()
	c.page = p
	c.mu.Unlock()
	return nil
}

func (c *ReviewController) currentUser() *models.User {
	if c.users == nil {
		return nil
	}
	return c.users.CurrentUser()
}

// OwnReview returns the caller's review, or nil
func (c *ReviewController) OwnReview() *models.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.own == nil {
		return nil
	}
	r := *c.own
	return &r
}

// Stats returns the last loaded rating stats
func (c *ReviewController) Stats() models.RatingStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats.Clone()
}

// Page returns the displayed page, or nil before Load
func (c *ReviewController) Page() *models.Page[models.Review] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Filter returns the active star filter
func (c *ReviewController) Filter() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Sort returns the active sort label
func (c *ReviewController) Sort() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}
