package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/tool"
)

// TraceMiddleware adds a trace ID to the request context.
// It reads X-Request-ID if provided by the client; otherwise generates a UUIDv7.
// The trace ID is stored in both gin.Context and the request's context.Context
// under logctx.TraceIDKey. Provider calls reuse it as their idempotency key.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = tool.GenerateUUIDV7()
		}

		c.Set(logctx.TraceIDKey, traceID)
		ctx := context.WithValue(c.Request.Context(), logctx.TraceIDKey, traceID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
