package statistics

import (
	"context"
	"fmt"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

// CampaignSummary is the funding picture of one campaign.
type CampaignSummary struct {
	CampaignID string `json:"campaign_id"`
	Donations  int64  `json:"donations"`
	// Pledged sums every donation; Collected only captured ones.
	Pledged   money.Money                  `json:"pledged"`
	Collected money.Money                  `json:"collected"`
	ByState   map[types.PaymentState]int64 `json:"by_state"`
}

type stateRow struct {
	State types.PaymentState
	Count int64
}

type amountRow struct {
	State  types.PaymentState
	Amount money.Money
}

// Service provides statistics operations
type Service struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) paymentsOf(ctx context.Context, campaignID string) *gorm.DB {
	return s.db.WithContext(ctx).Table((models.Payment{}).TableName()+" p").
		Joins("JOIN "+(models.Donation{}).TableName()+" d ON d.id = p.donation_id").
		Where("d.campaign_id = ?", campaignID)
}

func (s *Service) countByState(ctx context.Context, campaignID string) ([]stateRow, error) {
	var rows []stateRow
	err := s.paymentsOf(ctx, campaignID).
		Select("p.state AS state, count(*) AS count").
		Group("p.state").
		Scan(&rows).Error
	return rows, err
}

// amounts are summed in Go so totals keep exact decimal precision on every driver.
func (s *Service) amounts(ctx context.Context, campaignID string) ([]amountRow, error) {
	var rows []amountRow
	err := s.paymentsOf(ctx, campaignID).
		Select("p.state AS state, p.amount AS amount").
		Scan(&rows).Error
	return rows, err
}

// CampaignSummary counts donations and sums pledged and collected amounts.
func (s *Service) CampaignSummary(ctx context.Context, campaignID string) (*CampaignSummary, error) {
	var (
		wg        sync.WaitGroup
		states    []stateRow
		amounts   []amountRow
		stateErr  error
		amountErr error
	)
	wg.Add(2)
	go func() { defer wg.Done(); states, stateErr = s.countByState(ctx, campaignID) }()
	go func() { defer wg.Done(); amounts, amountErr = s.amounts(ctx, campaignID) }()
	wg.Wait()
	if stateErr != nil {
		return nil, fmt.Errorf("failed to count payments: %w", stateErr)
	}
	if amountErr != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", amountErr)
	}

	// every state is reported, zero when no payment is in it
	summary := &CampaignSummary{
		CampaignID: campaignID,
		ByState:    lo.SliceToMap(types.PaymentStates, func(s types.PaymentState) (types.PaymentState, int64) { return s, 0 }),
	}
	for _, r := range states {
		summary.ByState[r.State] = r.Count
	}
	for _, r := range amounts {
		summary.Donations++
		summary.Pledged = summary.Pledged.Add(r.Amount)
		if r.State.Captured() {
			summary.Collected = summary.Collected.Add(r.Amount)
		}
	}
	return summary, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
