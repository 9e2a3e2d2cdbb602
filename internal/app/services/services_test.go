package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models"
	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apiclient"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

func newTestServices(t *testing.T, handler http.HandlerFunc) *Services {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := apiclient.New(apiclient.Options{
		BaseURL: srv.URL + "/api/v1/library",
		Tokens:  staticToken("tok"),
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return New(client, logger.Nop())
}

func decodeJSON(t *testing.T, r *http.Request) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestReviewSubmit(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/library/books/42/rating", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, map[string]interface{}{"ratingValue": float64(4), "description": "Good"}, decodeJSON(t, r))
		_, _ = io.WriteString(w, `{"data":{"studentId":7,"ratingValue":4,"description":"Good"}}`)
	})

	review, err := svc.Reviews.Submit(context.Background(), 42, dto.ReviewRequest{RatingValue: 4, Description: "Good"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), review.StudentID)
}

func TestReviewListQuery(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "5", q.Get("rating"))
		assert.Equal(t, "helpful", q.Get("sort"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		_, _ = io.WriteString(w, `{"data":{"pageList":[{"studentId":1,"ratingValue":5}],"totalElements":1,"totalPages":1,"pageNumber":1,"pageSize":10}}`)
	})

	page, err := svc.Reviews.List(context.Background(), 3, dto.ReviewQuery{Rating: 5, Sort: dto.ReviewSortHelpful})
	require.NoError(t, err)
	require.Len(t, page.PageList, 1)
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestReviewListAllStarsOmitsRating(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("rating"))
		assert.False(t, r.URL.Query().Has("sort"))
		_, _ = io.WriteString(w, `{"data":{"pageList":[]}}`)
	})

	_, err := svc.Reviews.List(context.Background(), 3, dto.ReviewQuery{Rating: dto.ReviewFilterAll})
	require.NoError(t, err)
}

func TestReviewStatsWalksAllPages(t *testing.T) {
	pages := map[string]string{
		"1": `{"data":{"pageList":[{"ratingValue":5},{"ratingValue":4}],"totalElements":3,"totalPages":2,"pageNumber":1}}`,
		"2": `{"data":{"pageList":[{"ratingValue":3}],"totalElements":3,"totalPages":2,"pageNumber":2}}`,
	}
	var calls int
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = io.WriteString(w, pages[r.URL.Query().Get("page")])
	})

	stats, err := svc.Reviews.Stats(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 4.0, stats.Average)
	assert.Equal(t, 1, stats.Distribution[5])
}

func TestDeletesReturnSuccessOnNoContent(t *testing.T) {
	var paths []string
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	ctx := context.Background()

	for _, del := range []func() (*dto.SuccessResponse, error){
		func() (*dto.SuccessResponse, error) { return svc.Lessons.Delete(ctx, 1) },
		func() (*dto.SuccessResponse, error) { return svc.Resources.Delete(ctx, 2) },
		func() (*dto.SuccessResponse, error) { return svc.Comments.Delete(ctx, 3) },
		func() (*dto.SuccessResponse, error) { return svc.Reviews.Delete(ctx, 4) },
	} {
		out, err := del()
		require.NoError(t, err)
		assert.True(t, out.Success)
	}
	assert.Equal(t, []string{
		"/api/v1/library/lessons/1",
		"/api/v1/library/resources/2",
		"/api/v1/library/comments/3",
		"/api/v1/library/books/4/rating",
	}, paths)
}

func TestCommentReply(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/library/lessons/3/comments", r.URL.Path)
		body := decodeJSON(t, r)
		assert.Equal(t, "Thanks", body["content"])
		assert.Equal(t, float64(7), body["parentId"])
		_, _ = io.WriteString(w, `{"data":{"commentId":8,"content":"Thanks","parentId":7}}`)
	})

	parent := int64(7)
	c, err := svc.Comments.Create(context.Background(), 3, "Thanks", &parent)
	require.NoError(t, err)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, int64(7), *c.ParentID)
}

func TestCommentTopLevelSendsNullParent(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		body := decodeJSON(t, r)
		v, ok := body["parentId"]
		assert.True(t, ok)
		assert.Nil(t, v)
		_, _ = io.WriteString(w, `{"data":{"commentId":9}}`)
	})

	_, err := svc.Comments.Create(context.Background(), 3, "Hello", nil)
	require.NoError(t, err)
}

func TestRegisterAcceptsBothShapes(t *testing.T) {
	for name, body := range map[string]string{
		"nested":    `{"data":{"userId":15,"email":"a@b.c"}}`,
		"top-level": `{"userId":15,"message":"OTP sent"}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Empty(t, r.Header.Get("Authorization"))
				_, _ = io.WriteString(w, body)
			})
			resp, err := svc.Auth.Register(context.Background(), dto.RegisterRequest{Username: "amy"})
			require.NoError(t, err)
			assert.Equal(t, int64(15), resp.UserID)
		})
	}
}

func TestRegisterWithoutUserID(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{}}`)
	})
	_, err := svc.Auth.Register(context.Background(), dto.RegisterRequest{})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestLoginFailureMessage(t *testing.T) {
	svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	_, err := svc.Auth.Login(context.Background(), dto.LoginRequest{Username: "a", Password: "b"})
	require.Error(t, err)
	assert.Equal(t, "Login failed", err.Error())
}

func TestResourceUploadPath(t *testing.T) {
	tests := []struct {
		resourceType models.ResourceType
		fileName     string
		wantPath     string
	}{
		{models.ResourceVideo, "intro.mp4", "/api/v1/library/resources/5/video"},
		{models.ResourcePDF, "notes.pdf", "/api/v1/library/resources/5/slide"},
		{models.ResourceImage, "cover.png", "/api/v1/library/resources/5/slide"},
	}
	for _, tt := range tests {
		t.Run(string(tt.resourceType), func(t *testing.T) {
			svc := newTestServices(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tt.wantPath, r.URL.Path)
				_, header, err := r.FormFile("file")
				require.NoError(t, err)
				assert.Equal(t, tt.fileName, header.Filename)
				_, _ = io.WriteString(w, `{"data":{"id":5,"url":"/uploads/x"}}`)
			})
			res, err := svc.Resources.Upload(context.Background(), 5, tt.resourceType, "/tmp/"+tt.fileName, strings.NewReader("bytes"))
			require.NoError(t, err)
			assert.Equal(t, "/uploads/x", res.URL)
		})
	}
}
