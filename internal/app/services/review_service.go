package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
)

// Review paging defaults; pages are 1-based
const (
	FirstPage         = 1
	DefaultReviewSize = 10
	statsPageSize     = 100
)

// ReviewService reads and writes book ratings. Submitting again replaces the
// caller's previous review.
type ReviewService interface {
	List(ctx context.Context, bookID int64, query dto.ReviewQuery) (*models.Page[models.Review], error)
	All(ctx context.Context, bookID int64) ([]models.Review, error)
	Submit(ctx context.Context, bookID int64, req dto.ReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, bookID int64) (*dto.SuccessResponse, error)
	Stats(ctx context.Context, bookID int64) (models.RatingStats, error)
}

type reviewService struct {
	exec   Executor
	logger zerolog.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(exec Executor, logger zerolog.Logger) ReviewService {
	return &reviewService{exec: exec, logger: logger}
}

// List fetches one page. The sort label is passed through as-is; the backend
// does not promise to honor "helpful".
func (s *reviewService) List(ctx context.Context, bookID int64, query dto.ReviewQuery) (*models.Page[models.Review], error) {
	params := url.Values{}
	if query.Rating != dto.ReviewFilterAll {
		params.Set("rating", strconv.Itoa(query.Rating))
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	page := query.Page
	if page < FirstPage {
		page = FirstPage
	}
	size := query.Size
	if size <= 0 {
		size = DefaultReviewSize
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	req := authRequest(http.MethodGet, idPath("/books/%d/rating", bookID), nil, "Could not load reviews")
	req.Query = params

	var out models.Page[models.Review]
	if err := s.exec.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// All walks every page of the unfiltered list
func (s *reviewService) All(ctx context.Context, bookID int64) ([]models.Review, error) {
	var all []models.Review
	for page := FirstPage; ; page++ {
		p, err := s.List(ctx, bookID, dto.ReviewQuery{Page: page, Size: statsPageSize})
		if err != nil {
			return nil, err
		}
		all = append(all, p.PageList...)
		if len(p.PageList) == 0 || page >= p.TotalPages {
			return all, nil
		}
	}
}

// Submit creates or replaces the caller's review
func (s *reviewService) Submit(ctx context.Context, bookID int64, body dto.ReviewRequest) (*models.Review, error) {
	var review models.Review
	req := authRequest(http.MethodPost, idPath("/books/%d/rating", bookID), body, "Could not submit review")
	if err := s.exec.Do(ctx, req, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// Delete removes the caller's review of the book
func (s *reviewService) Delete(ctx context.Context, bookID int64) (*dto.SuccessResponse, error) {
	var out dto.SuccessResponse
	req := authRequest(http.MethodDelete, idPath("/books/%d/rating", bookID), nil, "Could not delete review")
	if err := s.exec.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Stats aggregates the full unfiltered list
func (s *reviewService) Stats(ctx context.Context, bookID int64) (models.RatingStats, error) {
	all, err := s.All(ctx, bookID)
	if err != nil {
		return models.RatingStats{}, err
	}
	return models.ComputeRatingStats(all), nil
}
