package db

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/models"
	cfgpkg "github.com/fatflowers/pledge/pkg/config"
	gormzap "github.com/fatflowers/pledge/pkg/gormlog"
)

func NewDB(l *zap.SugaredLogger, cfg *cfgpkg.Config) (*gorm.DB, error) {
	if cfg.Database.DSN == "" {
		l.Error("database DSN is empty")
		return nil, gorm.ErrInvalidDB
	}
	dialector, err := Dialector(cfg.Database)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormzap.New(l, cfg.Env, cfg.Database.SlowThreshold)})
	if err != nil {
		l.Errorf("failed to connect database: %v", err)
		return nil, err
	}
	if cfg.Database.Driver == "sqlite" {
		// sqlite allows a single writer
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	l.Infow("connected to database", "driver", cfg.Database.Driver)
	return db, nil
}

// Dialector picks the gorm driver for the configured database.
func Dialector(c cfgpkg.DBConfig) (gorm.Dialector, error) {
	switch c.Driver {
	case "", "postgres":
		return postgres.Open(c.DSN), nil
	case "sqlite":
		return sqlite.Open(c.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.Driver)
	}
}

var Module = fx.Options(
	fx.Provide(NewDB),
	fx.Invoke(AutoMigrate),
	fx.Invoke(registerDBClose),
)

// Models lists every table owned by the service.
var Models = []any{
	&models.Campaign{},
	&models.Reward{},
	&models.Donation{},
	&models.Payment{},
	&models.PaymentTransaction{},
	&models.PaymentNotificationLog{},
}

// AutoMigrate runs GORM migrations on startup
func AutoMigrate(l *zap.SugaredLogger, db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		l.Errorf("automigrate failed: %v", err)
		return err
	}
	l.Infow("automigrate completed")
	return nil
}

// registerDBClose ensures the underlying *sql.DB is closed on shutdown
func registerDBClose(lc fx.Lifecycle, l *zap.SugaredLogger, gdb *gorm.DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				l.Warnw("gorm: get sql.DB failed", "err", err)
				return nil
			}
			l.Infow("closing database connection pool")
			return sqlDB.Close()
		},
	})
}
