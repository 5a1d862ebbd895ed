package gormlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/logctx"
)

const DefaultSlowThreshold = 500 * time.Millisecond

// ZapLogger implements gorm.io/gorm/logger.Interface. Statements issued while
// handling a payment event carry the payment_id and trace_id of that event
// through logctx.FromCtx.
type ZapLogger struct {
	base   *zap.SugaredLogger
	config gormlogger.Config
}

// New builds a gorm logger. Production only reports slow queries and errors.
// A non-positive slow threshold falls back to DefaultSlowThreshold.
func New(base *zap.SugaredLogger, env config.Env, slow time.Duration) *ZapLogger {
	if slow <= 0 {
		slow = DefaultSlowThreshold
	}
	cfg := gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormlogger.Info,
		IgnoreRecordNotFoundError: true,
	}
	if env == config.EnvProd {
		cfg.LogLevel = gormlogger.Warn
	}
	return &ZapLogger{base: base, config: cfg}
}

func (z *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cfg := z.config
	cfg.LogLevel = level
	return &ZapLogger{base: z.base, config: cfg}
}

func (z *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.config.LogLevel >= gormlogger.Info {
		logctx.FromCtx(ctx, z.base).Infow(msg, "args", data)
	}
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.config.LogLevel >= gormlogger.Warn {
		logctx.FromCtx(ctx, z.base).Warnw(msg, "args", data)
	}
}

func (z *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.config.LogLevel >= gormlogger.Error {
		logctx.FromCtx(ctx, z.base).Errorw(msg, "args", data)
	}
}

func (z *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.config.LogLevel == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	lg := logctx.FromCtx(ctx, z.base)

	switch {
	case err != nil && !(z.config.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound)):
		sql, rows := fc()
		lg.Errorw("gorm_trace", z.fields(elapsed, rows, "err", err, "sql", sql)...)
	case elapsed > z.config.SlowThreshold:
		sql, rows := fc()
		lg.Warnw("gorm_slow", z.fields(elapsed, rows, "threshold_ms", z.config.SlowThreshold.Milliseconds(), "sql", sql)...)
	case z.config.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		lg.Infow("gorm", z.fields(elapsed, rows, "sql", sql)...)
	}
}

func (z *ZapLogger) fields(elapsed time.Duration, rows int64, kv ...any) []any {
	return append([]any{
		"rows", rows,
		"elapsed_ms", elapsed.Milliseconds(),
		"caller", shortCaller(utils.FileWithLineNum()),
	}, kv...)
}

// shortCaller trims an absolute file:line to the path below the module root,
// e.g. /src/pledge/internal/app/service/payment/service.go:120 becomes
// internal/app/service/payment/service.go:120. Unknown layouts keep the last
// three path segments.
func shortCaller(s string) string {
	if s == "" {
		return s
	}
	path, line := s, ""
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		path, line = s[:idx], s[idx:]
	}
	path = filepath.ToSlash(path)
	for _, root := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if i := strings.Index(path, root); i >= 0 {
			return path[i+1:] + line
		}
	}
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return strings.Join(parts, "/") + line
}
