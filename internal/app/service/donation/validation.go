package donation

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/netip"
	"sort"
	"strings"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

// CreateRequest is a pledge as submitted by a backer.
type CreateRequest struct {
	Email      string      `json:"email"`
	Amount     money.Money `json:"amount"`
	CampaignID string      `json:"campaign_id"`
	RewardID   *string     `json:"reward_id,omitempty"`
	IPAddress  string      `json:"ip_address"`
	UserAgent  string      `json:"user_agent"`
}

// ValidationError lists every invalid field of a request by name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid donation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (s *Service) validate(ctx context.Context, req *CreateRequest) error {
	verr := &ValidationError{}

	if req.Email == "" {
		verr.add("email", "is required")
	} else if addr, err := mail.ParseAddress(req.Email); err != nil || addr.Address != req.Email {
		verr.add("email", "is not a valid address")
	}
	if !req.Amount.IsPositive() {
		verr.add("amount", "must be greater than 0")
	}
	if req.IPAddress == "" {
		verr.add("ip_address", "is required")
	} else if _, err := netip.ParseAddr(req.IPAddress); err != nil {
		verr.add("ip_address", "is not a valid IP address")
	}
	if strings.TrimSpace(req.UserAgent) == "" {
		verr.add("user_agent", "is required")
	}

	if req.CampaignID == "" {
		verr.add("campaign_id", "is required")
	} else if c, err := s.campaigns.Get(ctx, req.CampaignID); err != nil {
		if !errors.Is(err, campaign.ErrCampaignNotFound) {
			return err
		}
		verr.add("campaign_id", "does not exist")
	} else if c.State != types.CampaignStateActive {
		verr.add("campaign_id", "is not accepting donations")
	}

	if req.RewardID != nil && *req.RewardID != "" {
		r, err := s.campaigns.GetReward(ctx, *req.RewardID)
		switch {
		case errors.Is(err, campaign.ErrRewardNotFound):
			verr.add("reward_id", "does not exist")
		case err != nil:
			return err
		case r.CampaignID != req.CampaignID:
			verr.add("reward_id", "belongs to another campaign")
		case req.Amount.Cmp(r.Minimum) < 0:
			verr.add("amount", fmt.Sprintf("must be at least %s for this reward", r.Minimum))
		}
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}
