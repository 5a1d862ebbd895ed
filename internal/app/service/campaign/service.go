package campaign

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/tool"
	"github.com/fatflowers/pledge/pkg/types"
)

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrRewardNotFound   = errors.New("reward not found")
	// ErrStateChanged means the campaign was not in the expected state.
	ErrStateChanged = errors.New("campaign state changed")
)

// Service keeps the campaign and reward rows donations are validated against.
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Create(ctx context.Context, title string) (*models.Campaign, error) {
	if title == "" {
		return nil, fmt.Errorf("campaign title is required")
	}
	c := &models.Campaign{ID: tool.GenerateUUIDV7(), Title: title, State: types.CampaignStateActive}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to load campaign: %w", err)
	}
	return &c, nil
}

func (s *Service) AddReward(ctx context.Context, campaignID, title string, minimum money.Money) (*models.Reward, error) {
	if _, err := s.Get(ctx, campaignID); err != nil {
		return nil, err
	}
	if minimum.IsNegative() {
		return nil, fmt.Errorf("reward minimum must not be negative")
	}
	r := &models.Reward{ID: tool.GenerateUUIDV7(), CampaignID: campaignID, Title: title, Minimum: minimum}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return r, nil
}

func (s *Service) GetReward(ctx context.Context, id string) (*models.Reward, error) {
	var r models.Reward
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRewardNotFound
		}
		return nil, fmt.Errorf("failed to load reward: %w", err)
	}
	return &r, nil
}

// Transition moves a campaign from one of from to `to`.
func (s *Service) Transition(ctx context.Context, id string, to types.CampaignState, from ...types.CampaignState) error {
	tx := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND state IN ?", id, from).
		Update("state", to)
	if tx.Error != nil {
		return fmt.Errorf("failed to update campaign state: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrStateChanged
	}
	return nil
}

// ListByState returns campaign ids in state.
func (s *Service) ListByState(ctx context.Context, state types.CampaignState) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("state = ?", state).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return ids, nil
}

// Module exposes the campaign service via Fx.
var Module = fx.Options(
	fx.Provide(New),
)
