package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey string

const (
	// Keys shared with the HTTP middleware. They stay plain strings because
	// gin copies them between gin.Context and the request context by name.
	LoggerKey  = "logger"
	TraceIDKey = "traceID"

	fieldsKey ctxKey = "log_fields"
)

// FromGin returns a request-scoped logger from gin.Context if present,
// otherwise returns the provided base logger.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if l, ok := c.Get(LoggerKey); ok {
		if lg, ok := l.(*zap.SugaredLogger); ok && lg != nil {
			return lg
		}
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns a logger from context if set, otherwise attempts to enrich
// base with trace_id from context values. Fields attached with WithFields are
// always appended.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	lg := base
	if l, ok := ctx.Value(LoggerKey).(*zap.SugaredLogger); ok && l != nil {
		lg = l
	} else if tid, ok := ctx.Value(TraceIDKey).(string); ok && tid != "" {
		lg = base.With("trace_id", tid)
	}
	if fields, ok := ctx.Value(fieldsKey).([]any); ok && len(fields) > 0 {
		lg = lg.With(fields...)
	}
	return lg
}

// WithFields returns a context whose loggers carry the given key/value pairs,
// e.g. WithFields(ctx, "payment_id", id).
func WithFields(ctx context.Context, kv ...any) context.Context {
	prev, _ := ctx.Value(fieldsKey).([]any)
	fields := make([]any, 0, len(prev)+len(kv))
	fields = append(fields, prev...)
	fields = append(fields, kv...)
	return context.WithValue(ctx, fieldsKey, fields)
}

// TraceID returns the request trace id, if any.
func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	s, _ := ctx.Value(TraceIDKey).(string)
	return s
}
