package models

import (
	"time"

	"github.com/fatflowers/pledge/pkg/types"
	"gorm.io/datatypes"
)

// PaymentTransaction is one provider exchange of a payment. Rows are only
// ever inserted; Response keeps the provider payload verbatim for audit and replay.
// Success is the outcome decided when the response arrived, since State alone
// cannot tell a declined 4xx answer from an accepted one.
type PaymentTransaction struct {
	ID        string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	PaymentID string `gorm:"column:payment_id;type:uuid;not null;uniqueIndex:unique_payment_id_sequence,priority:1" json:"payment_id"`
	// Sequence orders the log of one payment, starting at 1.
	Sequence  int64                   `gorm:"column:sequence;not null;uniqueIndex:unique_payment_id_sequence,priority:2" json:"sequence"`
	Intent    types.TransactionIntent `gorm:"column:intent;type:varchar(16);not null" json:"intent"`
	State     string                  `gorm:"column:state;type:varchar(64)" json:"state"`
	Success   bool                    `gorm:"column:success;not null;default:false" json:"success"`
	Response  datatypes.JSON          `gorm:"column:response;type:jsonb" json:"response"`
	CreatedAt time.Time               `json:"created_at"`
}

func (PaymentTransaction) TableName() string {
	return "payment_transaction"
}
