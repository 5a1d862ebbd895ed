package payment

import (
	"sort"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/types"
)

// Replay folds a transaction log into the state and external id it implies,
// starting from pending. Transactions an event would refuse are skipped.
// Each row carries the outcome decided when it was written, so replay
// reaches the same state the live event did. Settlement is not logged, so a
// settled payment replays as approved.
func Replay(txs []models.PaymentTransaction) (types.PaymentState, *string) {
	sorted := make([]models.PaymentTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence < sorted[j].Sequence })

	state := types.PaymentStatePending
	var externalID *string
	for _, t := range sorted {
		event, ok := eventForIntent(t.Intent)
		if !ok {
			continue
		}
		o := Outcome{State: t.State, Success: t.Success}
		next, ok := Next(state, event, o)
		if !ok {
			continue
		}
		if event == EventExecute && o.Success && externalID == nil {
			if id, ok := responseID(t.Response); ok {
				externalID = &id
			}
		}
		state = next
	}
	return state, externalID
}

// AuthorizationID returns the authorization id of the newest transaction
// that carries one.
func AuthorizationID(txs []models.PaymentTransaction) (string, bool) {
	sorted := make([]models.PaymentTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence > sorted[j].Sequence })
	for _, t := range sorted {
		if id, ok := gateway.AuthorizationID(t.Response); ok {
			return id, true
		}
	}
	return "", false
}
