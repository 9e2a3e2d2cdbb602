package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
	"github.com/yigit/libraryhub/internal/pkg/logger"
)

type staticToken string

func (s staticToken) AccessToken() string { return string(s) }

type staticLocale string

func (s staticLocale) Locale() string { return string(s) }

type recordingHandler struct {
	calls  atomic.Int32
	status atomic.Int32
}

func (h *recordingHandler) HandleUnauthorized(_ context.Context, status int) {
	h.calls.Add(1)
	h.status.Store(int32(status))
}

func newTestClient(t *testing.T, handler http.HandlerFunc, token string, hook UnauthorizedHandler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{
		BaseURL:        srv.URL + "/api/v1/library",
		Tokens:         staticToken(token),
		OnUnauthorized: hook,
		Locale:         staticLocale("vi"),
		Logger:         logger.Nop(),
	})
	require.NoError(t, err)
	return c
}

func TestDoJSONAndEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/library/lessons/3/comments", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "vi", r.Header.Get("Accept-Language"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Thanks", body["content"])
		assert.Equal(t, float64(7), body["parentId"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"data":{"commentId":11,"content":"Thanks"}}`)
	}, "tok", nil)

	parent := int64(7)
	var out struct {
		CommentID int64  `json:"commentId"`
		Content   string `json:"content"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/lessons/3/comments",
		Body:   dto.CreateCommentRequest{Content: "Thanks", ParentID: &parent},
		Auth:   true,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(11), out.CommentID)
}

func TestDoWithoutEnvelopeAndQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "4", r.URL.Query().Get("rating"))
		_, _ = io.WriteString(w, `{"userId":5}`)
	}, "tok", nil)

	var out dto.RegisterResponse
	err := c.Do(context.Background(), Request{
		Method: http.MethodGet,
		Path:   "things",
		Query:  url.Values{"rating": {"4"}},
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(5), out.UserID)
}

func TestDoNoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, "tok", nil)

	var out dto.SuccessResponse
	err := c.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/lessons/9", Auth: true}, &out)
	require.NoError(t, err)
	assert.True(t, out.Success)
}

func TestDoErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		fallback string
		want     string
		wantIs   error
	}{
		{name: "top-level message", status: 404, body: `{"message":"Lesson not found"}`, want: "Lesson not found", wantIs: apperrors.ErrResourceNotFound},
		{name: "nested error detail", status: 409, body: `{"error":{"code":"RES_002","message":"Already reviewed"}}`, want: "Already reviewed", wantIs: apperrors.ErrConflict},
		{name: "error string", status: 400, body: `{"error":"bad input"}`, want: "bad input", wantIs: apperrors.ErrBadRequest},
		{name: "html body", status: 502, body: `<html>bad gateway</html>`, want: apperrors.DefaultMessage},
		{name: "empty body with fallback", status: 500, body: ``, fallback: "Could not save lesson", want: "Could not save lesson"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "", nil)

			err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x", FallbackMessage: tt.fallback}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Equal(t, tt.status, apperrors.StatusCode(err))
			if tt.wantIs != nil {
				assert.ErrorIs(t, err, tt.wantIs)
			}
		})
	}
}

func TestDoUnauthorizedHook(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		hook := &recordingHandler{}
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}, "stale", hook)

		err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/lessons/1", Auth: true}, nil)
		assert.ErrorIs(t, err, apperrors.ErrSessionExpired)
		assert.Equal(t, int32(1), hook.calls.Load())
		assert.Equal(t, int32(status), hook.status.Load())
	}
}

func TestDoUnauthorizedWithoutTokenDoesNotFireHook(t *testing.T) {
	hook := &recordingHandler{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
	}, "", hook)

	err := c.Do(context.Background(), Request{Method: http.MethodPost, Path: "/auth/login", Body: map[string]string{}}, nil)
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())
	assert.Equal(t, int32(0), hook.calls.Load())
}

func TestDoMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)

		assert.Equal(t, "deck.pdf", header.Filename)
		assert.Equal(t, "slides", string(data))
		assert.Equal(t, "Week 1", r.FormValue("title"))
		_, _ = io.WriteString(w, `{"data":{"id":4,"url":"/uploads/x.pdf"}}`)
	}, "tok", nil)

	var out struct {
		ID  int64  `json:"id"`
		URL string `json:"url"`
	}
	err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/resources/4/slide",
		File:   &FilePart{FileName: "deck.pdf", Reader: strings.NewReader("slides")},
		Fields: map[string]string{"title": "Week 1"},
		Auth:   true,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/x.pdf", out.URL)
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
