package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aashish23092/ocr-phone-extractor/pkg/logger"
)

// RequestLogger logs every request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"status", status,
			"method", c.Request.Method,
			"path", path,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			attrs = append(attrs, "query", query)
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			logger.Error(ctx, "request completed", attrs...)
		case status >= 400:
			logger.Warn(ctx, "request completed", attrs...)
		default:
			logger.Info(ctx, "request completed", attrs...)
		}
	}
}
