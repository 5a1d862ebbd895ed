package payment

import (
	"github.com/samber/lo"

	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/types"
)

type Event string

const (
	EventExecute Event = "execute"
	EventRefund  Event = "refund"
	EventVoid    Event = "void"
	// EventSettle is driven by provider notifications and makes no provider call.
	EventSettle Event = "settle"
	// EventReconcile is not part of the table; it labels Reconcile results.
	EventReconcile Event = "reconcile"
)

// Outcome is what one provider call produced, as seen by the guards.
type Outcome struct {
	State   string
	Success bool
	// Raised is set when the call failed without a response.
	Raised error
}

func outcomeOf(resp gateway.Response, err error) Outcome {
	if err != nil {
		return Outcome{Raised: err}
	}
	return Outcome{State: resp.State(), Success: resp.Success()}
}

// rule moves the payment to `to` when guard accepts the outcome. Rules are
// tried in order; when none matches the state is unchanged.
type rule struct {
	guard func(Outcome) bool
	to    types.PaymentState
}

type transition struct {
	from   []types.PaymentState
	intent types.TransactionIntent
	rules  []rule
}

func always(Outcome) bool { return true }

func raised(o Outcome) bool { return o.Raised != nil }

var refundAccepted = []string{"pending", "completed"}

var table = map[Event]transition{
	EventExecute: {
		from:   []types.PaymentState{types.PaymentStatePending},
		intent: types.TransactionIntentSale,
		rules: []rule{
			{guard: raised, to: types.PaymentStateFailed},
			{guard: func(o Outcome) bool { return o.Success && o.State == "authorized" }, to: types.PaymentStateAuthorized},
			{guard: func(o Outcome) bool { return o.Success }, to: types.PaymentStateApproved},
			{guard: always, to: types.PaymentStateFailed},
		},
	},
	EventRefund: {
		from:   []types.PaymentState{types.PaymentStateApproved, types.PaymentStateCompleted},
		intent: types.TransactionIntentRefund,
		rules: []rule{
			// a refund the provider reports as pending counts as done
			{guard: func(o Outcome) bool { return o.Raised == nil && lo.Contains(refundAccepted, o.State) }, to: types.PaymentStateRefunded},
		},
	},
	EventVoid: {
		from:   []types.PaymentState{types.PaymentStateAuthorized},
		intent: types.TransactionIntentVoid,
		rules: []rule{
			{guard: func(o Outcome) bool { return o.Raised == nil && o.State != "" && !gateway.IsFailureState(o.State) }, to: types.PaymentStateVoided},
		},
	},
	EventSettle: {
		from:  []types.PaymentState{types.PaymentStateApproved},
		rules: []rule{{guard: always, to: types.PaymentStateCompleted}},
	},
}

// CanFire reports whether event is accepted in state.
func CanFire(state types.PaymentState, event Event) bool {
	t, ok := table[event]
	return ok && lo.Contains(t.from, state)
}

// Next returns the state after event with outcome. ok is false when the event
// is refused in state or no rule accepts the outcome.
func Next(state types.PaymentState, event Event, o Outcome) (next types.PaymentState, ok bool) {
	if !CanFire(state, event) {
		return state, false
	}
	for _, r := range table[event].rules {
		if r.guard(o) {
			return r.to, true
		}
	}
	return state, false
}

// Intent is the transaction intent recorded for event. Events without a
// provider call have none.
func Intent(event Event) (types.TransactionIntent, bool) {
	t, ok := table[event]
	if !ok || t.intent == "" {
		return "", false
	}
	return t.intent, true
}

func eventForIntent(intent types.TransactionIntent) (Event, bool) {
	for e, t := range table {
		if t.intent != "" && t.intent == intent {
			return e, true
		}
	}
	return "", false
}

// Reachable reports whether to can be reached from `from` through zero or
// more transitions.
func Reachable(from, to types.PaymentState) bool {
	seen := map[types.PaymentState]bool{from: true}
	queue := []types.PaymentState{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, t := range table {
			if !lo.Contains(t.from, cur) {
				continue
			}
			for _, r := range t.rules {
				if !seen[r.to] {
					seen[r.to] = true
					queue = append(queue, r.to)
				}
			}
		}
	}
	return false
}
