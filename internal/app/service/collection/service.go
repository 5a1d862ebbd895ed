package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/internal/app/service/donation"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/types"
)

var ErrCampaignCollected = errors.New("campaign already collected")

// CollectReport summarizes one campaign-wide collection run.
type CollectReport struct {
	CampaignID string            `json:"campaign_id"`
	Total      int               `json:"total"`
	Paid       int               `json:"paid"`
	Authorized int               `json:"authorized"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"`
}

// Service collects every donation of a campaign on a bounded worker pool.
type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	pool      *ants.Pool
	donations *donation.Service
	campaigns *campaign.Service
	payments  *payment.Service
}

func NewService(lc fx.Lifecycle, cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, donations *donation.Service, campaigns *campaign.Service, payments *payment.Service) (*Service, error) {
	pool, err := ants.NewPool(cfg.Collection.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection pool: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pool.ReleaseTimeout(defaultReleaseTimeout)
		},
	})
	return &Service{db: db, log: log, pool: pool, donations: donations, campaigns: campaigns, payments: payments}, nil
}

// CollectCampaign moves the campaign to collecting and collects each of its
// donations. The campaign becomes collected once every donation resolved to
// paid or failed without a persistence error. Authorized donations hold funds
// that were never captured, so they keep the campaign in collecting until
// they are cancelled.
func (s *Service) CollectCampaign(ctx context.Context, campaignID string) (*CollectReport, error) {
	ctx = logctx.WithFields(ctx, "campaign_id", campaignID)
	lg := logctx.FromCtx(ctx, s.log)

	c, err := s.campaigns.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	switch c.State {
	case types.CampaignStateCollected:
		return nil, ErrCampaignCollected
	case types.CampaignStateActive:
		if err := s.campaigns.Transition(ctx, c.ID, types.CampaignStateCollecting, types.CampaignStateActive); err != nil && !errors.Is(err, campaign.ErrStateChanged) {
			return nil, err
		}
	}

	ids, err := s.donations.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	report := &CollectReport{CampaignID: campaignID, Total: len(ids), Errors: map[string]string{}}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		donationID := id
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			paid, err := s.donations.Collect(ctx, donationID)
			held := false
			if err == nil && !paid {
				held, err = s.held(ctx, donationID)
			}
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				report.Errors[donationID] = err.Error()
			case paid:
				report.Paid++
			case held:
				report.Authorized++
			default:
				report.Failed++
			}
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			report.Errors[donationID] = submitErr.Error()
			mu.Unlock()
		}
	}
	wg.Wait()

	switch {
	case len(report.Errors) > 0:
		lg.Warnw("campaign collection incomplete", "errors", len(report.Errors))
	case report.Authorized > 0:
		lg.Warnw("campaign collection has held authorizations", "authorized", report.Authorized)
	default:
		if err := s.campaigns.Transition(ctx, campaignID, types.CampaignStateCollected, types.CampaignStateCollecting); err != nil && !errors.Is(err, campaign.ErrStateChanged) {
			return report, err
		}
	}
	lg.Infow("campaign collection finished", "total", report.Total, "paid", report.Paid, "authorized", report.Authorized, "failed", report.Failed)
	return report, nil
}

// held reports whether the donation's payment is an authorization that was
// never captured. Such funds stay held until the donation is cancelled.
func (s *Service) held(ctx context.Context, donationID string) (bool, error) {
	p, err := s.payments.GetByDonation(ctx, donationID)
	if err != nil {
		return false, err
	}
	return p.State == types.PaymentStateAuthorized, nil
}

// ReconcilePending replays the log of pending payments that already talked
// to the provider. It returns how many payments moved.
func (s *Service) ReconcilePending(ctx context.Context, limit int) (int, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("state = ?", types.PaymentStatePending).
		Where("EXISTS (SELECT 1 FROM payment_transaction t WHERE t.payment_id = payment.id)").
		Order("updated_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, fmt.Errorf("failed to list pending payments: %w", err)
	}
	moved := 0
	for _, id := range ids {
		res, err := s.payments.Reconcile(ctx, id)
		if err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("reconcile failed", "payment_id", id, "err", err)
			continue
		}
		if res.Transitioned() {
			moved++
		}
	}
	return moved, nil
}
