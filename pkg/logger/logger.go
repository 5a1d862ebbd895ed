package logger

import (
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/fatflowers/pledge/pkg/config"
)

func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"

	level := zap.NewAtomicLevel()
	if cfg != nil && cfg.Log.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			return nil, err
		}
	}
	zcfg.Level = level

	if cfg == nil || cfg.Log.File == "" {
		l, err := zcfg.Build()
		if err != nil {
			return nil, err
		}
		return l.Sugar(), nil
	}

	// stdout plus a rotating file
	rotating := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	}
	enc := zapcore.NewJSONEncoder(zcfg.EncoderConfig)
	core := zapcore.NewTee(
		zapcore.NewCore(enc, zapcore.Lock(os.Stdout), level),
		zapcore.NewCore(enc, zapcore.AddSync(rotating), level),
	)
	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)).Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
