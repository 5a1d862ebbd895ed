package models

import (
	"time"

	"github.com/fatflowers/pledge/pkg/money"
)

// Donation is a pledge towards a campaign. It is never deleted; refunds and
// voids are terminal payment states.
type Donation struct {
	ID         string      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Email      string      `gorm:"column:email;type:varchar(200);not null" json:"email"`
	Amount     money.Money `gorm:"column:amount;type:decimal(12,2);not null" json:"amount"`
	CampaignID string      `gorm:"column:campaign_id;type:uuid;not null;index" json:"campaign_id"`
	RewardID   *string     `gorm:"column:reward_id;type:uuid" json:"reward_id"`
	IPAddress  string      `gorm:"column:ip_address;type:varchar(64);not null" json:"ip_address"`
	UserAgent  string      `gorm:"column:user_agent;type:varchar(512);not null" json:"user_agent"`

	Payment *Payment `gorm:"foreignKey:DonationID" json:"payment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donation"
}

// Paid is true once the donation's payment has captured funds.
func (d *Donation) Paid() bool {
	return d != nil && d.Payment.Paid()
}
