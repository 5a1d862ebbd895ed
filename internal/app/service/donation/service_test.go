package donation

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/app/service/translog"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/internal/platform/gateway/gatewaytest"
	"github.com/fatflowers/pledge/internal/testutil"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	gw       *gatewaytest.Fake
	campaign *models.Campaign
	reward   *models.Reward
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	log := zap.NewNop().Sugar()
	gw := &gatewaytest.Fake{}
	payments := payment.NewService(db, log, gw, translog.New(db, log))
	cfg := &config.Config{Gateway: config.GatewayConfig{Currency: "USD"}}
	c, r := testutil.SeedCampaign(t, db)
	return &fixture{
		db:       db,
		svc:      NewService(db, log, cfg, payments, campaign.New(db)),
		gw:       gw,
		campaign: c,
		reward:   r,
	}
}

func (f *fixture) request() *CreateRequest {
	return &CreateRequest{
		Email:      "backer@example.com",
		Amount:     money.MustParse("100.00"),
		CampaignID: f.campaign.ID,
		IPAddress:  "203.0.113.7",
		UserAgent:  "Mozilla/5.0",
	}
}

func (f *fixture) donation(t *testing.T) *models.Donation {
	d, err := f.svc.Create(context.Background(), f.request())
	require.NoError(t, err)
	return d
}

func TestCreate(t *testing.T) {
	f := newFixture(t)
	req := f.request()
	req.RewardID = lo.ToPtr(f.reward.ID)

	d, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, d.Payment)
	require.Equal(t, types.PaymentStatePending, d.Payment.State)
	require.Equal(t, "USD", d.Payment.Currency)

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, "100.00", got.Amount.String())
	require.Equal(t, d.Payment.ID, got.Payment.ID)
	require.Equal(t, "100.00", got.Payment.Amount.String())
	require.False(t, got.Paid())
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(t)
	other, otherReward := testutil.SeedCampaign(t, f.db)
	require.NotEqual(t, other.ID, f.campaign.ID)

	tests := []struct {
		name  string
		edit  func(r *CreateRequest)
		field string
	}{
		{"missing email", func(r *CreateRequest) { r.Email = "" }, "email"},
		{"malformed email", func(r *CreateRequest) { r.Email = "not-an-email" }, "email"},
		{"zero amount", func(r *CreateRequest) { r.Amount = money.FromInt(0) }, "amount"},
		{"negative amount", func(r *CreateRequest) { r.Amount = money.MustParse("-5.00") }, "amount"},
		{"bad ip", func(r *CreateRequest) { r.IPAddress = "999.1.1.1" }, "ip_address"},
		{"out of range octets", func(r *CreateRequest) { r.IPAddress = "123.456.789.012" }, "ip_address"},
		{"missing user agent", func(r *CreateRequest) { r.UserAgent = " " }, "user_agent"},
		{"unknown campaign", func(r *CreateRequest) { r.CampaignID = "0198c1a6-0000-7000-8000-000000000000" }, "campaign_id"},
		{"reward of another campaign", func(r *CreateRequest) { r.RewardID = lo.ToPtr(otherReward.ID) }, "reward_id"},
		{"unknown reward", func(r *CreateRequest) { r.RewardID = lo.ToPtr("0198c1a6-0000-7000-8000-000000000001") }, "reward_id"},
		{"below reward minimum", func(r *CreateRequest) {
			r.Amount = money.FromInt(10)
			r.RewardID = lo.ToPtr(f.reward.ID)
		}, "amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request()
			tt.edit(req)
			_, err := f.svc.Create(context.Background(), req)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Contains(t, verr.Fields, tt.field)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	require.Zero(t, count)
	require.Zero(t, f.gw.Captures())
}

// Scenario A
func TestCollect_Success(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)
	f.gw.CaptureFn = func(context.Context, *string, money.Money) (gateway.Response, error) {
		return gatewaytest.SaleResponse("ABC123", "approved", "SALE-1"), nil
	}

	ok, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, ok)

	paid, err := f.svc.Paid(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, paid)

	txs, err := f.svc.Transactions(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, types.TransactionIntentSale, txs[0].Intent)

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, "ABC123", *got.Payment.ExternalID)
}

// Scenario B
func TestCollect_NetworkError(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)
	f.gw.CaptureFn = func(context.Context, *string, money.Money) (gateway.Response, error) {
		return nil, errors.New("dial tcp: i/o timeout")
	}

	ok, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStateFailed, got.Payment.State)
	require.False(t, got.Paid())

	txs, err := f.svc.Transactions(context.Background(), d.ID)
	require.NoError(t, err)
	require.Empty(t, txs)
}

func TestCollect_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)

	first, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	second, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)

	require.True(t, first)
	require.True(t, second)
	require.EqualValues(t, 1, f.gw.Captures())
}

func TestCollect_ConcurrentCallsCaptureOnce(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)

	var wg sync.WaitGroup
	results := make([]bool, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := f.svc.Collect(context.Background(), d.ID)
			assert.NoError(t, err)
			results[i] = ok
		}(i)
	}
	wg.Wait()

	require.Equal(t, []bool{true, true}, results)
	require.EqualValues(t, 1, f.gw.Captures())
}

func TestCollect_AfterFailureIsRefused(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)
	f.gw.CaptureFn = func(context.Context, *string, money.Money) (gateway.Response, error) {
		return gatewaytest.Must(http.StatusBadRequest, map[string]any{"name": "INSTRUMENT_DECLINED"}), nil
	}

	ok, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)
	ok, err = f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.EqualValues(t, 1, f.gw.Captures())
}

func (f *fixture) authorizedDonation(t *testing.T) *models.Donation {
	d := f.donation(t)
	f.gw.CaptureFn = func(context.Context, *string, money.Money) (gateway.Response, error) {
		return gatewaytest.AuthorizationResponse("PAY-A", "6CR34526N64144512"), nil
	}
	ok, err := f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)
	return d
}

// Scenario C
func TestCancel_VoidsAuthorization(t *testing.T) {
	f := newFixture(t)
	d := f.authorizedDonation(t)

	ok, err := f.svc.Cancel(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"6CR34526N64144512"}, f.gw.VoidedAuthorizations())

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStateVoided, got.Payment.State)
}

// Scenario D
func TestCancel_ExceptionLeavesAuthorized(t *testing.T) {
	f := newFixture(t)
	d := f.authorizedDonation(t)
	f.gw.VoidFn = func(context.Context, string) (gateway.Response, error) {
		return gatewaytest.Must(http.StatusOK, map[string]any{"id": "6CR34526N64144512", "state": "exception"}), nil
	}

	ok, err := f.svc.Cancel(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)

	got, err := f.svc.Get(context.Background(), d.ID)
	require.NoError(t, err)
	require.Equal(t, types.PaymentStateAuthorized, got.Payment.State)
}

func TestCancel_WithoutAuthorizationIDMakesNoCall(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)
	require.NoError(t, f.db.Model(&models.Payment{}).Where("id = ?", d.Payment.ID).Update("state", types.PaymentStateAuthorized).Error)

	ok, err := f.svc.Cancel(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, f.gw.Voids())
}

func TestRefund(t *testing.T) {
	f := newFixture(t)
	d := f.donation(t)

	ok, err := f.svc.Refund(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, f.gw.Refunds())

	ok, err = f.svc.Collect(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = f.svc.Refund(context.Background(), d.ID)
	require.NoError(t, err)
	require.True(t, ok)

	paid, err := f.svc.Paid(context.Background(), d.ID)
	require.NoError(t, err)
	require.False(t, paid)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Collect(context.Background(), "0198c1a6-0000-7000-8000-000000000000")
	require.ErrorIs(t, err, ErrDonationNotFound)
}
