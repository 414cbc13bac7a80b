package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/contenthub/contenthub/internal/modules/model"
)

// ZapLogger returns a middleware that logs HTTP requests using zap logger.
// API paths are logged at info level (warn for 4xx, error for 5xx), other paths at debug.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		path := c.Request.URL.Path
		status := c.Writer.Status()
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", dur.String(),
			"clientIP", c.ClientIP(),
		}
		if u, ok := c.Get("user"); ok {
			if user, ok := u.(*model.User); ok {
				fields = append(fields, "user_id", user.ID.String())
			}
		}
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			fields = append(fields, "trace_id", sc.TraceID().String())
		}

		sugar := log.Sugar()
		switch {
		case !strings.HasPrefix(path, "/api/"):
			sugar.Debugw("HTTP", fields...)
		case status >= 500:
			sugar.Errorw("HTTP", fields...)
		case status >= 400:
			sugar.Warnw("HTTP", fields...)
		default:
			sugar.Infow("HTTP", fields...)
		}
	}
}
