package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	maxRequestIDLen = 128
)

// RequestID tags every request with an id. A caller supplied X-Request-ID is
// reused when it is short and printable, otherwise a fresh uuid is issued. The
// id is echoed in the response header and carried on the request context so
// service logs and error bodies can quote it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.NewString()
		}

		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the id set by RequestID, or "" outside that middleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}
	return true
}
