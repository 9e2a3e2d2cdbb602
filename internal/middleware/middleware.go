package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the id the client generated for a request
const RequestIDHeader = "X-Request-ID"

// RequestLogger logs one line per request and echoes the request id
func RequestLogger(lgr zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		ev := lgr.Info()
		switch {
		case status >= 500:
			ev = lgr.Error()
		case status >= 400:
			ev = lgr.Warn()
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("clientIp", c.ClientIP()).
			Str("requestId", requestID).
			Msg("Request handled")
	}
}
