package models

import (
	"time"

	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

type Campaign struct {
	ID        string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Title     string              `gorm:"column:title;type:varchar(200);not null" json:"title"`
	State     types.CampaignState `gorm:"column:state;type:varchar(32);not null;index" json:"state"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaign"
}

// Reward is a perk offered by a campaign. Donations may only select rewards
// of their own campaign.
type Reward struct {
	ID         string      `gorm:"column:id;type:uuid;primary_key" json:"id"`
	CampaignID string      `gorm:"column:campaign_id;type:uuid;not null;index" json:"campaign_id"`
	Title      string      `gorm:"column:title;type:varchar(200);not null" json:"title"`
	Minimum    money.Money `gorm:"column:minimum;type:decimal(12,2);not null" json:"minimum"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (Reward) TableName() string {
	return "reward"
}
