package models

import (
	"time"

	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

// Payment drives the money movement of one donation against the provider.
// State only changes through the payment service state machine.
type Payment struct {
	ID         string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	DonationID string             `gorm:"column:donation_id;type:uuid;not null;uniqueIndex" json:"donation_id"`
	Amount     money.Money        `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	Currency   string             `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	State      types.PaymentState `gorm:"column:state;type:varchar(32);not null;index" json:"state"`
	// ExternalID is assigned by the provider on the first successful capture.
	ExternalID *string `gorm:"column:external_id;type:varchar(128);uniqueIndex" json:"external_id"`
	// ProviderFee is reported by the provider once the sale settles.
	ProviderFee *money.Money `gorm:"column:provider_fee;type:decimal(9,2)" json:"provider_fee"`
	// Version is bumped on every state write; writes check the version they read.
	Version int64 `gorm:"column:version;not null;default:0" json:"version"`
	// ProviderError holds the last raised provider error of this in-memory copy.
	ProviderError error `gorm:"-" json:"-"`

	Transactions []PaymentTransaction `gorm:"foreignKey:PaymentID" json:"transactions,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payment"
}

// Paid reports whether the payment holds captured funds.
func (p *Payment) Paid() bool {
	return p != nil && p.State.Captured()
}
