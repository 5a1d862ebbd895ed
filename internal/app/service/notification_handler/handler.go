package notification_handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	notificationlog "github.com/fatflowers/pledge/internal/app/service/notification_log"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/types"
)

type NotificationHandler struct {
	notifSvc *notificationlog.Service
	payments *payment.Service
	Logger   *zap.SugaredLogger
}

func NewNotificationHandler(notif *notificationlog.Service, payments *payment.Service, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{notifSvc: notif, payments: payments, Logger: log}
}

// HandleNotification applies one provider webhook. Only settled sales change
// payment state; other events are logged as ignored.
func (h *NotificationHandler) HandleNotification(c *gin.Context, provider types.PaymentProvider) (result *payment.Result, resErr error) {
	ctx := c.Request.Context()
	lg := logctx.FromGin(c, h.Logger)

	// Build provider-specific parser
	var parser NotificationParser
	switch provider {
	case types.PaymentProviderGateway:
		body, err := c.GetRawData()
		if err != nil {
			return nil, fmt.Errorf("failed to read notification: %w", err)
		}
		parser, err = GetGatewayNotificationParser(body, time.Now())
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}

	externalID, _ := parser.GetExternalID(ctx)
	dataBytes, _ := json.Marshal(parser.GetData(ctx))
	base := models.PaymentNotificationLog{
		ProviderID:       string(provider),
		EventID:          parser.GetEventID(ctx),
		EventType:        parser.GetEventType(ctx),
		TraceID:          c.GetString(logctx.TraceIDKey),
		ExternalID:       externalID,
		NotificationTime: parser.GetNotificationTime(ctx),
		Data:             datatypes.JSON(dataBytes),
	}

	// Save 'received' log
	received := base
	received.Status = models.PaymentNotificationLogStatusReceived
	h.notifSvc.Save(ctx, &received)

	ignored := false
	defer func() {
		resMap := map[string]any{}
		if result != nil {
			resMap["from"] = result.From
			resMap["to"] = result.To
			resMap["refused"] = result.Refused
		}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		final := base
		final.NotificationTime = time.Now()
		final.Result = lo.ToPtr(datatypes.JSON(resBytes))
		if result != nil {
			final.PaymentID = lo.ToPtr(result.Payment.ID)
		}
		switch {
		case resErr != nil:
			final.Status = models.PaymentNotificationLogStatusHandleFailed
		case ignored:
			final.Status = models.PaymentNotificationLogStatusIgnored
		default:
			final.Status = models.PaymentNotificationLogStatusHandled
		}
		h.notifSvc.Save(ctx, &final)
	}()

	if base.EventType != EventSaleCompleted {
		lg.Infow("notification ignored", "event_type", base.EventType, "event_id", base.EventID)
		ignored = true
		return nil, nil
	}
	if externalID == "" {
		resErr = fmt.Errorf("notification %s has no payment reference", base.EventID)
		return nil, resErr
	}

	p, err := h.payments.GetByExternalID(ctx, externalID)
	if err != nil {
		lg.Errorw("notification for unknown payment", "external_id", externalID, "error", err.Error())
		resErr = fmt.Errorf("failed to find payment: %w", err)
		return nil, resErr
	}
	result, resErr = h.payments.Settle(ctx, p.ID, parser.GetFee(ctx))
	return result, resErr
}

// Module exposes the notification handler via Fx.
var Module = fx.Options(
	fx.Provide(NewNotificationHandler),
)
