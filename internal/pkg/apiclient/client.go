// Package apiclient is the single request executor every backend call goes through.
// It attaches the bearer token, encodes JSON or multipart bodies, unwraps the
// {data: ...} envelope, turns non-2xx answers into *apperrors.APIError and
// reports rejected tokens to an UnauthorizedHandler.
package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// TokenSource supplies the current access token; empty means anonymous
type TokenSource interface {
	AccessToken() string
}

// UnauthorizedHandler is told when the backend rejects the token of an authenticated call
type UnauthorizedHandler interface {
	HandleUnauthorized(ctx context.Context, statusCode int)
}

// LocaleSource supplies the Accept-Language value; empty omits the header
type LocaleSource interface {
	Locale() string
}

// Options configures a Client
type Options struct {
	// BaseURL is origin + /api/v1/library
	BaseURL string
	// HTTPClient defaults to a client with a cookie jar so the refresh cookie round-trips
	HTTPClient *http.Client
	// Timeout applies only to the default HTTPClient; zero means no timeout
	Timeout        time.Duration
	Tokens         TokenSource
	OnUnauthorized UnauthorizedHandler
	Locale         LocaleSource
	Logger         zerolog.Logger
}

// Client executes requests against the library API. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized UnauthorizedHandler
	locale         LocaleSource
	logger         zerolog.Logger
}

// New creates a Client
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("apiclient: base URL is required")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("apiclient: failed to create cookie jar: %w", err)
		}
		httpClient = &http.Client{Jar: jar, Timeout: opts.Timeout}
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           httpClient,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
		locale:         opts.Locale,
		logger:         opts.Logger,
	}, nil
}

// BaseURL returns the API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do executes req and decodes the response payload into out (which may be nil).
// A 204 answer decodes nothing; if out is *dto.SuccessResponse it is set to {success: true}.
func (c *Client) Do(ctx context.Context, req Request, out interface{}) error {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return err
	}

	token := ""
	if req.Auth && c.tokens != nil {
		token = c.tokens.AccessToken()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("Accept", "application/json")
	if c.locale != nil {
		if lang := c.locale.Locale(); lang != "" {
			httpReq.Header.Set("Accept-Language", lang)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug().Err(err).Str("method", req.Method).Str("path", req.Path).Str("requestId", requestID).Msg("Request failed before a response")
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("requestId", requestID).
		Msg("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := decodeError(resp, req.FallbackMessage)
		if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && token != "" {
			c.logger.Warn().Int("status", resp.StatusCode).Str("path", req.Path).Msg("Access token rejected, ending session")
			if c.onUnauthorized != nil {
				c.onUnauthorized.HandleUnauthorized(ctx, resp.StatusCode)
			}
		}
		return apiErr
	}

	if resp.StatusCode == http.StatusNoContent {
		markSuccess(out)
		return nil
	}

	return decodeBody(resp.Body, req.Raw, out)
}
