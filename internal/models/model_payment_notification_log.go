package models

import (
	"time"

	"gorm.io/datatypes"
)

type PaymentNotificationLogStatus string

const (
	PaymentNotificationLogStatusReceived     PaymentNotificationLogStatus = "received"
	PaymentNotificationLogStatusHandled      PaymentNotificationLogStatus = "handled"
	PaymentNotificationLogStatusIgnored      PaymentNotificationLogStatus = "ignored"
	PaymentNotificationLogStatusHandleFailed PaymentNotificationLogStatus = "handle_failed"
)

// PaymentNotificationLog records every provider webhook delivery and how it was handled.
type PaymentNotificationLog struct {
	ID               string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	ProviderID       string                       `gorm:"column:provider_id;type:varchar(64);not null" json:"provider_id"`
	EventID          string                       `gorm:"column:event_id;type:varchar(128);index" json:"event_id"`
	EventType        string                       `gorm:"column:event_type;type:varchar(128)" json:"event_type"`
	TraceID          string                       `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	PaymentID        *string                      `gorm:"column:payment_id;type:uuid" json:"payment_id"`
	ExternalID       string                       `gorm:"column:external_id;type:varchar(128)" json:"external_id"`
	NotificationTime time.Time                    `gorm:"column:notification_time" json:"notification_time"`
	Data             datatypes.JSON               `gorm:"column:data;type:jsonb" json:"data"`
	Result           *datatypes.JSON              `gorm:"column:result;type:jsonb" json:"result"`
	Status           PaymentNotificationLogStatus `gorm:"column:status;type:varchar(64);not null" json:"status"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

func (PaymentNotificationLog) TableName() string { return "payment_notification_log" }
