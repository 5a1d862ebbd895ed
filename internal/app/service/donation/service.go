package donation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/tool"
	"github.com/fatflowers/pledge/pkg/types"
)

var ErrDonationNotFound = errors.New("donation not found")

// Service exposes the operations the rest of the platform uses on pledges.
// Provider failures never surface as errors; they show up as a false result.
type Service struct {
	db        *gorm.DB
	log       *zap.SugaredLogger
	cfg       *config.Config
	payments  *payment.Service
	campaigns *campaign.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, payments *payment.Service, campaigns *campaign.Service) *Service {
	return &Service{db: db, log: log, cfg: cfg, payments: payments, campaigns: campaigns}
}

// Create validates req and stores the donation together with its pending payment.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Donation, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}
	d := &models.Donation{
		ID:         tool.GenerateUUIDV7(),
		Email:      req.Email,
		Amount:     req.Amount,
		CampaignID: req.CampaignID,
		IPAddress:  req.IPAddress,
		UserAgent:  req.UserAgent,
	}
	if req.RewardID != nil && *req.RewardID != "" {
		d.RewardID = req.RewardID
	}
	p := payment.New(d, s.cfg.Gateway.Currency)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(d).Error; err != nil {
			return fmt.Errorf("failed to create donation: %w", err)
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	d.Payment = p
	logctx.FromCtx(ctx, s.log).Infow("donation created", "donation_id", d.ID, "payment_id", p.ID, "campaign_id", d.CampaignID, "amount", d.Amount.String())
	return d, nil
}

// Get loads a donation with its payment.
func (s *Service) Get(ctx context.Context, id string) (*models.Donation, error) {
	var d models.Donation
	if err := s.db.WithContext(ctx).Preload("Payment").Where("id = ?", id).First(&d).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonationNotFound
		}
		return nil, fmt.Errorf("failed to load donation: %w", err)
	}
	if d.Payment == nil {
		return nil, fmt.Errorf("donation %s has no payment", d.ID)
	}
	return &d, nil
}

// ListByCampaign returns the ids of every donation of a campaign.
func (s *Service) ListByCampaign(ctx context.Context, campaignID string) ([]string, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Donation{}).
		Where("campaign_id = ?", campaignID).
		Order("created_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list donations: %w", err)
	}
	return ids, nil
}

// Paid reports whether the donation's funds were captured.
func (s *Service) Paid(ctx context.Context, id string) (bool, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return d.Paid(), nil
}

// Collect captures the pledged amount. It is idempotent: once paid it
// returns true without calling the provider again.
func (s *Service) Collect(ctx context.Context, id string) (bool, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if d.Paid() {
		return true, nil
	}
	ctx = logctx.WithFields(ctx, "donation_id", d.ID)
	res, err := s.payments.Execute(ctx, d.Payment.ID)
	if err != nil {
		return false, err
	}
	if res.ProviderError != nil {
		logctx.FromCtx(ctx, s.log).Infow("donation not collected", "state", res.To, "reason", res.ProviderError.Error())
	}
	return res.To.Captured(), nil
}

// Cancel voids the authorization of the donation. A payment without an
// authorization id is left untouched and reported as not cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (bool, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	res, err := s.payments.Void(logctx.WithFields(ctx, "donation_id", d.ID), d.Payment.ID)
	if err != nil {
		return false, err
	}
	return res.To == types.PaymentStateVoided, nil
}

// Refund returns captured funds to the backer.
func (s *Service) Refund(ctx context.Context, id string) (bool, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	res, err := s.payments.Refund(logctx.WithFields(ctx, "donation_id", d.ID), d.Payment.ID)
	if err != nil {
		return false, err
	}
	return res.To == types.PaymentStateRefunded, nil
}

// Transactions returns the provider exchanges of the donation's payment.
func (s *Service) Transactions(ctx context.Context, id string) ([]models.PaymentTransaction, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p, err := s.payments.Get(ctx, d.Payment.ID)
	if err != nil {
		return nil, err
	}
	return p.Transactions, nil
}

// Module exposes the donation service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
