package payment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/types"
)

func TestNext(t *testing.T) {
	ok := Outcome{State: "approved", Success: true}
	tests := []struct {
		name   string
		state  types.PaymentState
		event  Event
		o      Outcome
		want   types.PaymentState
		wantOK bool
	}{
		{"execute success", types.PaymentStatePending, EventExecute, ok, types.PaymentStateApproved, true},
		{"execute authorized", types.PaymentStatePending, EventExecute, Outcome{State: "authorized", Success: true}, types.PaymentStateAuthorized, true},
		{"execute business failure", types.PaymentStatePending, EventExecute, Outcome{State: "failed"}, types.PaymentStateFailed, true},
		{"execute raised", types.PaymentStatePending, EventExecute, Outcome{Raised: errors.New("timeout")}, types.PaymentStateFailed, true},
		{"execute refused when approved", types.PaymentStateApproved, EventExecute, ok, types.PaymentStateApproved, false},
		{"execute refused when failed", types.PaymentStateFailed, EventExecute, ok, types.PaymentStateFailed, false},
		{"refund completed", types.PaymentStateApproved, EventRefund, Outcome{State: "completed", Success: true}, types.PaymentStateRefunded, true},
		{"refund pending counts as done", types.PaymentStateCompleted, EventRefund, Outcome{State: "pending", Success: true}, types.PaymentStateRefunded, true},
		{"refund failed", types.PaymentStateApproved, EventRefund, Outcome{State: "failed"}, types.PaymentStateApproved, false},
		{"refund raised", types.PaymentStateApproved, EventRefund, Outcome{Raised: errors.New("boom")}, types.PaymentStateApproved, false},
		{"refund refused when pending", types.PaymentStatePending, EventRefund, Outcome{State: "completed"}, types.PaymentStatePending, false},
		{"refund refused when failed", types.PaymentStateFailed, EventRefund, Outcome{State: "completed"}, types.PaymentStateFailed, false},
		{"void success", types.PaymentStateAuthorized, EventVoid, Outcome{State: "voided", Success: true}, types.PaymentStateVoided, true},
		{"void exception", types.PaymentStateAuthorized, EventVoid, Outcome{State: "exception"}, types.PaymentStateAuthorized, false},
		{"void raised", types.PaymentStateAuthorized, EventVoid, Outcome{Raised: errors.New("boom")}, types.PaymentStateAuthorized, false},
		{"void refused when approved", types.PaymentStateApproved, EventVoid, Outcome{State: "voided"}, types.PaymentStateApproved, false},
		{"settle", types.PaymentStateApproved, EventSettle, Outcome{}, types.PaymentStateCompleted, true},
		{"settle refused when pending", types.PaymentStatePending, EventSettle, Outcome{}, types.PaymentStatePending, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotOK := Next(tt.state, tt.event, tt.o)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, gotOK)
		})
	}
}

func TestIntent(t *testing.T) {
	i, ok := Intent(EventExecute)
	require.True(t, ok)
	require.Equal(t, types.TransactionIntentSale, i)
	_, ok = Intent(EventSettle)
	require.False(t, ok)
}

func TestReachable(t *testing.T) {
	require.True(t, Reachable(types.PaymentStatePending, types.PaymentStateRefunded))
	require.True(t, Reachable(types.PaymentStatePending, types.PaymentStateVoided))
	require.False(t, Reachable(types.PaymentStateCompleted, types.PaymentStateApproved))
	require.False(t, Reachable(types.PaymentStateFailed, types.PaymentStateApproved))
	require.False(t, Reachable(types.PaymentStateRefunded, types.PaymentStatePending))
}

// tx builds a log row as a 2xx answer carrying state would have been recorded.
func tx(seq int64, intent types.TransactionIntent, state, body string) models.PaymentTransaction {
	return models.PaymentTransaction{
		Sequence: seq,
		Intent:   intent,
		State:    state,
		Success:  state != "" && !gateway.IsFailureState(state),
		Response: datatypes.JSON(body),
	}
}

func TestReplay(t *testing.T) {
	state, ext := Replay(nil)
	require.Equal(t, types.PaymentStatePending, state)
	require.Nil(t, ext)

	state, ext = Replay([]models.PaymentTransaction{
		tx(2, types.TransactionIntentRefund, "completed", `{"id":"R-1"}`),
		tx(1, types.TransactionIntentSale, "approved", `{"id":"ABC123"}`),
	})
	require.Equal(t, types.PaymentStateRefunded, state)
	require.NotNil(t, ext)
	require.Equal(t, "ABC123", *ext)

	state, ext = Replay([]models.PaymentTransaction{
		tx(1, types.TransactionIntentSale, "failed", `{"name":"INSTRUMENT_DECLINED"}`),
		tx(2, types.TransactionIntentSale, "approved", `{"id":"LATE"}`),
	})
	require.Equal(t, types.PaymentStateFailed, state)
	require.Nil(t, ext)

	state, _ = Replay([]models.PaymentTransaction{
		tx(1, types.TransactionIntentSale, "authorized", `{"id":"PAY-A"}`),
		tx(2, types.TransactionIntentVoid, "exception", `{}`),
	})
	require.Equal(t, types.PaymentStateAuthorized, state)

	// a declined answer keeps its provider state but was recorded as unsuccessful
	declined := tx(1, types.TransactionIntentSale, "approved", `{"id":"PAY-X","state":"approved"}`)
	declined.Success = false
	state, ext = Replay([]models.PaymentTransaction{declined})
	require.Equal(t, types.PaymentStateFailed, state)
	require.Nil(t, ext)
}

func TestAuthorizationID(t *testing.T) {
	body := `{"transactions":[{"related_resources":[{"authorization":{"id":"6CR34526N64144512"}}]}]}`
	id, ok := AuthorizationID([]models.PaymentTransaction{
		tx(1, types.TransactionIntentSale, "authorized", body),
		tx(2, types.TransactionIntentVoid, "exception", `{"state":"exception"}`),
	})
	require.True(t, ok)
	require.Equal(t, "6CR34526N64144512", id)

	_, ok = AuthorizationID([]models.PaymentTransaction{tx(1, types.TransactionIntentSale, "approved", `{"id":"x"}`)})
	require.False(t, ok)
}

func TestKeyedMutex(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock("a")
	unlockB := k.Lock("b")
	unlockB()
	unlock()
	require.Empty(t, k.locks)
}
