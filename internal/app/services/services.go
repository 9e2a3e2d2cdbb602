// Package services wraps every backend endpoint the client uses. Each service is
// an interface plus a struct that routes its calls through the shared executor,
// so the bearer token, error mapping and session checks happen in one place.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/libraryhub/internal/pkg/apiclient"
)

// Executor runs a single API request; *apiclient.Client implements it
type Executor interface {
	Do(ctx context.Context, req apiclient.Request, out interface{}) error
}

// Services groups the per-resource services
type Services struct {
	Auth      AuthService
	Lessons   LessonService
	Comments  CommentService
	Resources ResourceService
	Reviews   ReviewService
}

// New builds all services on top of one executor
func New(exec Executor, logger zerolog.Logger) *Services {
	return &Services{
		Auth:      NewAuthService(exec, logger),
		Lessons:   NewLessonService(exec, logger),
		Comments:  NewCommentService(exec, logger),
		Resources: NewResourceService(exec, logger),
		Reviews:   NewReviewService(exec, logger),
	}
}

func idPath(format string, ids ...int64) string {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func newRequest(method, path string, body interface{}, fallback string) apiclient.Request {
	return apiclient.Request{
		Method:          method,
		Path:            path,
		Body:            body,
		FallbackMessage: fallback,
	}
}

func authRequest(method, path string, body interface{}, fallback string) apiclient.Request {
	req := newRequest(method, path, body, fallback)
	req.Auth = true
	return req
}
