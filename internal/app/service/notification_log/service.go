package notification_log

import (
	"context"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/tool"
)

type Service struct {
	db      *gorm.DB
	log     *zap.SugaredLogger
	pending sync.WaitGroup
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save asynchronously persists a payment notification log. Nil input is ignored.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.db.WithContext(context.WithoutCancel(ctx)).Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save notification log: %v", err)
		}
	}()
}

// Wait blocks until every pending Save has finished.
func (s *Service) Wait() { s.pending.Wait() }

// ListByEvent returns the logs recorded for a provider event id, oldest first.
func (s *Service) ListByEvent(ctx context.Context, eventID string) ([]models.PaymentNotificationLog, error) {
	var rows []models.PaymentNotificationLog
	err := s.db.WithContext(ctx).Where("event_id = ?", eventID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func registerFlush(lc fx.Lifecycle, s *Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			s.Wait()
			return nil
		},
	})
}

// Module exposes the notification log via Fx.
var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(registerFlush),
)
