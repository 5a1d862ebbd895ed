package statistics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fatflowers/pledge/internal/testutil"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

func TestCampaignSummary(t *testing.T) {
	db := testutil.NewDB(t)
	c, _ := testutil.SeedCampaign(t, db)
	other, _ := testutil.SeedCampaign(t, db)
	testutil.SeedPayment(t, db, c.ID, money.MustParse("10.50"), types.PaymentStateApproved)
	testutil.SeedPayment(t, db, c.ID, money.MustParse("20.25"), types.PaymentStateCompleted)
	testutil.SeedPayment(t, db, c.ID, money.MustParse("5.00"), types.PaymentStateFailed)
	testutil.SeedPayment(t, db, other.ID, money.MustParse("99.00"), types.PaymentStateApproved)

	s := New(db)
	sum, err := s.CampaignSummary(context.Background(), c.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, sum.Donations)
	require.Equal(t, "35.75", sum.Pledged.String())
	require.Equal(t, "30.75", sum.Collected.String())
	require.Equal(t, map[types.PaymentState]int64{
		types.PaymentStatePending:    0,
		types.PaymentStateApproved:   1,
		types.PaymentStateCompleted:  1,
		types.PaymentStateFailed:     1,
		types.PaymentStateRefunded:   0,
		types.PaymentStateAuthorized: 0,
		types.PaymentStateVoided:     0,
	}, sum.ByState)

	empty, err := s.CampaignSummary(context.Background(), "0198c1a6-0000-7000-8000-000000000000")
	require.NoError(t, err)
	require.Zero(t, empty.Donations)
	require.Equal(t, "0.00", empty.Pledged.String())
	require.Len(t, empty.ByState, len(types.PaymentStates))
	require.Zero(t, empty.ByState[types.PaymentStatePending])
}
