package notification_handler

import (
	"context"
	"fmt"
	"time"

	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/payload"
	"github.com/fatflowers/pledge/pkg/types"
)

// GatewayNotificationParser reads a provider webhook body of the form
// {"id", "event_type", "create_time", "resource": {"parent_payment", "transaction_fee": {"value"}}}.
type GatewayNotificationParser struct {
	ReceivedAt time.Time
	data       any
}

func GetGatewayNotificationParser(body []byte, receivedAt time.Time) (*GatewayNotificationParser, error) {
	data, ok := payload.Decode(body)
	if !ok {
		return nil, fmt.Errorf("invalid notification body")
	}
	if _, ok := payload.String(data, "event_type"); !ok {
		return nil, fmt.Errorf("notification has no event_type")
	}
	return &GatewayNotificationParser{ReceivedAt: receivedAt, data: data}, nil
}

func (p *GatewayNotificationParser) GetProvider(ctx context.Context) types.PaymentProvider {
	return types.PaymentProviderGateway
}

func (p *GatewayNotificationParser) GetNotificationTime(ctx context.Context) time.Time {
	if s, ok := payload.String(p.data, "create_time"); ok {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
	}
	return p.ReceivedAt
}

func (p *GatewayNotificationParser) GetEventID(ctx context.Context) string {
	s, _ := payload.String(p.data, "id")
	return s
}

func (p *GatewayNotificationParser) GetEventType(ctx context.Context) string {
	s, _ := payload.String(p.data, "event_type")
	return s
}

func (p *GatewayNotificationParser) GetExternalID(ctx context.Context) (string, error) {
	if s, ok := payload.String(p.data, "resource", "parent_payment"); ok {
		return s, nil
	}
	return "", fmt.Errorf("notification resource has no parent_payment")
}

func (p *GatewayNotificationParser) GetFee(ctx context.Context) *money.Money {
	s, ok := payload.String(p.data, "resource", "transaction_fee", "value")
	if !ok {
		return nil
	}
	fee, err := money.Parse(s)
	if err != nil || fee.IsNegative() {
		return nil
	}
	return &fee
}

func (p *GatewayNotificationParser) GetData(ctx context.Context) any {
	return p.data
}
