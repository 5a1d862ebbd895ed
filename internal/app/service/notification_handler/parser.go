package notification_handler

import (
	"context"
	"time"

	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

// Provider webhook event types the handler acts on.
const (
	EventSaleCompleted = "PAYMENT.SALE.COMPLETED"
	EventSaleDenied    = "PAYMENT.SALE.DENIED"
	EventSaleRefunded  = "PAYMENT.SALE.REFUNDED"
)

type NotificationParser interface {
	GetProvider(ctx context.Context) types.PaymentProvider
	GetNotificationTime(ctx context.Context) time.Time
	GetEventID(ctx context.Context) string
	GetEventType(ctx context.Context) string
	// GetExternalID is the provider id of the payment the event is about.
	GetExternalID(ctx context.Context) (string, error)
	// GetFee is the provider fee of a settled sale, if reported.
	GetFee(ctx context.Context) *money.Money
	GetData(ctx context.Context) any
}
