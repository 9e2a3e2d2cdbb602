package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/yigit/libraryhub/internal/app/models/dto"
	"github.com/yigit/libraryhub/internal/pkg/apperrors"
)

// Request describes one API call
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "/lessons/3/comments"
	Path  string
	Query url.Values
	// Body is encoded as JSON when File is nil
	Body interface{}
	// File switches the body to multipart/form-data
	File *FilePart
	// Fields are extra multipart form fields
	Fields map[string]string
	// Auth attaches the bearer token when one is available
	Auth bool
	// Raw skips {data: ...} unwrapping
	Raw bool
	// FallbackMessage replaces apperrors.DefaultMessage when the error body has no message
	FallbackMessage string
}

// FilePart is a file streamed as a multipart field
type FilePart struct {
	// FieldName defaults to "file"
	FieldName   string
	FileName    string
	ContentType string
	Reader      io.Reader
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.File != nil:
		body, contentType = multipartBody(req.File, req.Fields)
	case req.Body != nil:
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(payload)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

// multipartBody streams the form through a pipe so large videos are not buffered
func multipartBody(file *FilePart, fields map[string]string) (io.Reader, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeMultipart(mw, file, fields)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeMultipart(mw *multipart.Writer, file *FilePart, fields map[string]string) error {
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}

	fieldName := file.FieldName
	if fieldName == "" {
		fieldName = "file"
	}
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(fieldName), escapeQuotes(file.FileName)))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, file.Reader)
	return err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// envelope is the {data: ...} wrapper
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func decodeBody(r io.Reader, raw bool, out interface{}) error {
	payload, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		markSuccess(out)
		return nil
	}
	if out == nil {
		return nil
	}

	if !raw {
		var env envelope
		if err := json.Unmarshal(payload, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
			payload = env.Data
		}
	}

	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody covers the message shapes the backend uses
type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

// decodeError never fails: an unreadable or non-JSON body counts as empty
func decodeError(resp *http.Response, fallback string) *apperrors.APIError {
	if fallback == "" {
		fallback = apperrors.DefaultMessage
	}

	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var body errorBody
	if err := json.Unmarshal(payload, &body); err != nil {
		body = errorBody{}
	}

	message := strings.TrimSpace(body.Message)
	if message == "" && len(body.Error) > 0 {
		var detail dto.ErrorDetail
		var text string
		switch {
		case json.Unmarshal(body.Error, &detail) == nil:
			message = strings.TrimSpace(detail.Message)
		case json.Unmarshal(body.Error, &text) == nil:
			message = strings.TrimSpace(text)
		}
	}
	if message == "" {
		message = fallback
	}

	return apperrors.NewAPIError(resp.StatusCode, message)
}

func markSuccess(out interface{}) {
	if s, ok := out.(*dto.SuccessResponse); ok && s != nil {
		s.Success = true
	}
}
