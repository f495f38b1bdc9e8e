package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/dto"
	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
)

// Recovery turns a panic in a handler into a 500 carrying the request id, so
// an operator can match the response to the logged stack. A panic caused by
// the client hanging up is logged without a response body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := c.Request.Context()

			if err, ok := rec.(error); ok && clientGone(err) {
				logger.Warn(ctx, "client disconnected", "path", c.Request.URL.Path, "error", err)
				c.Abort()
				return
			}

			logger.Error(ctx, "panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
				Error:     "INTERNAL_ERROR",
				Message:   "Internal server error",
				Code:      http.StatusInternalServerError,
				RequestID: GetRequestID(c),
			})
		}()

		c.Next()
	}
}

func clientGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, http.ErrAbortHandler)
}
