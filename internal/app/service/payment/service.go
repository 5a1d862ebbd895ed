package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fatflowers/pledge/internal/app/service/translog"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/metrics"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/payload"
	"github.com/fatflowers/pledge/pkg/tool"
	"github.com/fatflowers/pledge/pkg/types"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrConcurrentUpdate means the payment row changed between read and write.
	ErrConcurrentUpdate = errors.New("payment was updated concurrently")
	// ErrAuthorizationNotFound refuses a void whose log carries no authorization id.
	ErrAuthorizationNotFound = errors.New("no authorization id in payment transactions")
)

// StateError records a provider answer that the state machine did not accept.
type StateError struct {
	Event Event
	State string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("provider rejected %s with state %q", e.Event, e.State)
}

// Gateway is the provider boundary used by payments.
type Gateway interface {
	Capture(ctx context.Context, externalID *string, amount money.Money) (gateway.Response, error)
	Void(ctx context.Context, authorizationID string) (gateway.Response, error)
	Refund(ctx context.Context, p *models.Payment) (gateway.Response, error)
}

// Result describes what one event did to a payment.
type Result struct {
	Payment *models.Payment
	Event   Event
	From    types.PaymentState
	To      types.PaymentState
	// Refused is set when the event is not allowed in From; no provider call was made.
	Refused bool
	// Transaction is the log row appended for this event, nil when the call
	// raised or the append failed.
	Transaction *models.PaymentTransaction
	// ProviderError is the raised or rejected provider outcome, if any.
	ProviderError error
}

// Transitioned reports whether the state changed.
func (r *Result) Transitioned() bool { return r.From != r.To }

type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	gw    Gateway
	txlog *translog.Service
	locks *keyedMutex
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, gw Gateway, txlog *translog.Service) *Service {
	return &Service{db: db, log: log, gw: gw, txlog: txlog, locks: newKeyedMutex()}
}

// New builds the pending payment of a donation.
func New(donation *models.Donation, currency string) *models.Payment {
	return &models.Payment{
		ID:         tool.GenerateUUIDV7(),
		DonationID: donation.ID,
		Amount:     donation.Amount,
		Currency:   currency,
		State:      types.PaymentStatePending,
	}
}

func withTransactions(db *gorm.DB) *gorm.DB {
	return db.Preload("Transactions", func(db *gorm.DB) *gorm.DB { return db.Order("sequence ASC") })
}

// Get loads a payment with its transaction log.
func (s *Service) Get(ctx context.Context, id string) (*models.Payment, error) {
	var p models.Payment
	if err := withTransactions(s.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &p, nil
}

// GetByDonation loads the payment owned by a donation.
func (s *Service) GetByDonation(ctx context.Context, donationID string) (*models.Payment, error) {
	var p models.Payment
	if err := withTransactions(s.db.WithContext(ctx)).Where("donation_id = ?", donationID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &p, nil
}

// GetByExternalID loads the payment the provider knows as externalID.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*models.Payment, error) {
	var p models.Payment
	if err := s.db.WithContext(ctx).Where("external_id = ?", externalID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return &p, nil
}

// Execute captures a pending payment. Provider errors are absorbed into the
// result; the returned error only reports lookup or persistence failures.
func (s *Service) Execute(ctx context.Context, id string) (*Result, error) {
	return s.fire(ctx, id, EventExecute, func(ctx context.Context, p *models.Payment) (gateway.Response, error) {
		return s.gw.Capture(ctx, p.ExternalID, p.Amount)
	})
}

// Refund returns the funds of an approved or completed payment.
func (s *Service) Refund(ctx context.Context, id string) (*Result, error) {
	return s.fire(ctx, id, EventRefund, func(ctx context.Context, p *models.Payment) (gateway.Response, error) {
		return s.gw.Refund(ctx, p)
	})
}

// Void releases an authorized payment. Without an authorization id in the
// log the provider is not called and the state is unchanged.
func (s *Service) Void(ctx context.Context, id string) (*Result, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logctx.WithFields(ctx, "payment_id", p.ID, "donation_id", p.DonationID)
	if !CanFire(p.State, EventVoid) {
		return s.refuse(ctx, p, EventVoid), nil
	}
	authorizationID, ok := AuthorizationID(p.Transactions)
	if !ok {
		logctx.FromCtx(ctx, s.log).Warnw("void refused: no authorization id", "state", p.State)
		p.ProviderError = ErrAuthorizationNotFound
		metrics.IncPaymentTransition(string(EventVoid), string(p.State), string(p.State))
		return &Result{Payment: p, Event: EventVoid, From: p.State, To: p.State, ProviderError: ErrAuthorizationNotFound}, nil
	}
	resp, callErr := s.gw.Void(ctx, authorizationID)
	return s.apply(ctx, p, EventVoid, resp, callErr)
}

// Settle marks an approved payment completed once the provider reports the
// sale settled. fee is optional.
func (s *Service) Settle(ctx context.Context, id string, fee *money.Money) (*Result, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logctx.WithFields(ctx, "payment_id", p.ID, "donation_id", p.DonationID)
	if !CanFire(p.State, EventSettle) {
		return s.refuse(ctx, p, EventSettle), nil
	}
	from := p.State
	to, _ := Next(from, EventSettle, Outcome{})
	updates := map[string]any{"state": to}
	if fee != nil && !fee.IsNegative() {
		updates["provider_fee"] = *fee
	}
	if err := s.save(ctx, p, updates); err != nil {
		return nil, err
	}
	p.State = to
	if fee != nil && !fee.IsNegative() {
		p.ProviderFee = fee
	}
	metrics.IncPaymentTransition(string(EventSettle), string(from), string(to))
	logctx.FromCtx(ctx, s.log).Infow("payment settled", "from", from, "to", to)
	return &Result{Payment: p, Event: EventSettle, From: from, To: to}, nil
}

// Reconcile replays the transaction log and moves the stored state forward
// when it lags what the log records, e.g. after a state write was lost.
func (s *Service) Reconcile(ctx context.Context, id string) (*Result, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logctx.WithFields(ctx, "payment_id", p.ID, "donation_id", p.DonationID)
	from := p.State
	replayed, externalID := Replay(p.Transactions)

	res := &Result{Payment: p, Event: EventReconcile, From: from, To: from}
	updates := map[string]any{}
	if replayed != from && Reachable(from, replayed) {
		updates["state"] = replayed
	}
	if p.ExternalID == nil && externalID != nil {
		updates["external_id"] = *externalID
	}
	if len(updates) == 0 {
		return res, nil
	}
	if err := s.save(ctx, p, updates); err != nil {
		return nil, err
	}
	if st, ok := updates["state"]; ok {
		p.State = st.(types.PaymentState)
		res.To = p.State
	}
	if externalID != nil && p.ExternalID == nil {
		p.ExternalID = externalID
	}
	logctx.FromCtx(ctx, s.log).Warnw("payment reconciled from transaction log", "from", from, "to", p.State)
	return res, nil
}

type providerCall func(ctx context.Context, p *models.Payment) (gateway.Response, error)

func (s *Service) fire(ctx context.Context, id string, event Event, call providerCall) (*Result, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ctx = logctx.WithFields(ctx, "payment_id", p.ID, "donation_id", p.DonationID)
	if !CanFire(p.State, event) {
		return s.refuse(ctx, p, event), nil
	}
	resp, callErr := call(ctx, p)
	return s.apply(ctx, p, event, resp, callErr)
}

func (s *Service) refuse(ctx context.Context, p *models.Payment, event Event) *Result {
	logctx.FromCtx(ctx, s.log).Infow("payment event refused", "event", event, "state", p.State)
	metrics.IncPaymentTransition(string(event), string(p.State), string(p.State))
	return &Result{Payment: p, Event: event, From: p.State, To: p.State, Refused: true}
}

// apply records the provider outcome of event and moves p accordingly. It
// runs after the provider call was made, so it ignores caller cancellation.
func (s *Service) apply(ctx context.Context, p *models.Payment, event Event, resp gateway.Response, callErr error) (*Result, error) {
	ctx = context.WithoutCancel(ctx)
	lg := logctx.FromCtx(ctx, s.log)
	from := p.State
	res := &Result{Payment: p, Event: event, From: from, To: from}

	o := outcomeOf(resp, callErr)
	if o.Raised != nil {
		lg.Errorw("provider call failed", "event", event, "err", o.Raised)
		res.ProviderError = o.Raised
	} else {
		res.Transaction = s.record(ctx, p, event, resp)
	}

	to, ok := Next(from, event, o)
	if o.Raised == nil && (!ok || !o.Success) {
		res.ProviderError = &StateError{Event: event, State: o.State}
		lg.Warnw("provider rejected payment event", "event", event, "provider_state", o.State)
	}

	updates := map[string]any{}
	if to != from {
		updates["state"] = to
	}
	var newExternalID *string
	if event == EventExecute && o.Raised == nil && o.Success && p.ExternalID == nil && resp.ID() != "" {
		id := resp.ID()
		newExternalID = &id
		updates["external_id"] = id
	}
	if len(updates) > 0 {
		if err := s.save(ctx, p, updates); err != nil {
			p.ProviderError = res.ProviderError
			return res, err
		}
		p.State = to
		if newExternalID != nil {
			p.ExternalID = newExternalID
		}
	}
	p.ProviderError = res.ProviderError
	res.To = p.State
	metrics.IncPaymentTransition(string(event), string(from), string(res.To))
	lg.Infow("payment event applied", "event", event, "from", from, "to", res.To, "provider_state", o.State)
	return res, nil
}

// record appends the provider response to the log. A failed append loses
// audit data but never changes the outcome of the event.
func (s *Service) record(ctx context.Context, p *models.Payment, event Event, resp gateway.Response) *models.PaymentTransaction {
	intent, ok := Intent(event)
	if !ok {
		return nil
	}
	raw, err := resp.Serialize()
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to serialize provider response", "event", event, "err", err)
		raw = []byte("{}")
	}
	row, err := s.txlog.Append(ctx, p.ID, intent, resp.State(), resp.Success(), raw)
	if err != nil {
		logctx.FromCtx(ctx, s.log).Warnw("failed to record payment transaction", "event", event, "err", err)
		return nil
	}
	p.Transactions = append(p.Transactions, *row)
	return row
}

// save writes updates if the row still has the version p was read with.
func (s *Service) save(ctx context.Context, p *models.Payment, updates map[string]any) error {
	updates["version"] = p.Version + 1
	tx := s.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND version = ?", p.ID, p.Version).
		Updates(updates)
	if tx.Error != nil {
		return fmt.Errorf("failed to update payment: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		logctx.FromCtx(ctx, s.log).Errorw("payment version conflict", "version", p.Version)
		return ErrConcurrentUpdate
	}
	p.Version++
	return nil
}

func responseID(raw []byte) (string, bool) {
	return payload.StringFromRaw(raw, "id")
}
