// Package gatewaytest provides a scriptable in-memory payment provider.
package gatewaytest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/internal/platform/gateway"
	"github.com/fatflowers/pledge/pkg/money"
)

// Fake counts calls and answers with the configured funcs. A nil func answers
// with a successful response; default captures get ids PAY-n and SALE-n.
type Fake struct {
	CaptureFn func(ctx context.Context, externalID *string, amount money.Money) (gateway.Response, error)
	VoidFn    func(ctx context.Context, authorizationID string) (gateway.Response, error)
	RefundFn  func(ctx context.Context, p *models.Payment) (gateway.Response, error)

	captures atomic.Int64
	voids    atomic.Int64
	refunds  atomic.Int64

	mu               sync.Mutex
	authorizationIDs []string
}

func (f *Fake) Capture(ctx context.Context, externalID *string, amount money.Money) (gateway.Response, error) {
	n := f.captures.Add(1)
	if f.CaptureFn != nil {
		return f.CaptureFn(ctx, externalID, amount)
	}
	return SaleResponse(fmt.Sprintf("PAY-%d", n), "approved", fmt.Sprintf("SALE-%d", n)), nil
}

func (f *Fake) Void(ctx context.Context, authorizationID string) (gateway.Response, error) {
	f.voids.Add(1)
	f.mu.Lock()
	f.authorizationIDs = append(f.authorizationIDs, authorizationID)
	f.mu.Unlock()
	if f.VoidFn != nil {
		return f.VoidFn(ctx, authorizationID)
	}
	return Must(http.StatusOK, map[string]any{"id": authorizationID, "state": "voided"}), nil
}

func (f *Fake) Refund(ctx context.Context, p *models.Payment) (gateway.Response, error) {
	f.refunds.Add(1)
	if f.RefundFn != nil {
		return f.RefundFn(ctx, p)
	}
	return Must(http.StatusCreated, map[string]any{"id": "REFUND-1", "state": "completed"}), nil
}

func (f *Fake) Captures() int64 { return f.captures.Load() }

func (f *Fake) Voids() int64 { return f.voids.Load() }

func (f *Fake) Refunds() int64 { return f.refunds.Load() }

// VoidedAuthorizations lists the authorization ids passed to Void.
func (f *Fake) VoidedAuthorizations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authorizationIDs...)
}

// Must builds a JSON response and panics on encoding errors.
func Must(status int, body map[string]any) *gateway.JSONResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		panic(err)
	}
	r, err := gateway.NewJSONResponse(status, raw)
	if err != nil {
		panic(fmt.Sprintf("gatewaytest: %v", err))
	}
	return r
}

// SaleResponse is a payment body carrying a sale related resource.
func SaleResponse(id, state, saleID string) *gateway.JSONResponse {
	return Must(http.StatusOK, map[string]any{
		"id":    id,
		"state": state,
		"transactions": []any{map[string]any{
			"related_resources": []any{map[string]any{
				"sale": map[string]any{"id": saleID, "state": "completed"},
			}},
		}},
	})
}

// AuthorizationResponse is a payment body carrying an authorization related resource.
func AuthorizationResponse(id, authorizationID string) *gateway.JSONResponse {
	return Must(http.StatusOK, map[string]any{
		"id":    id,
		"state": "authorized",
		"transactions": []any{map[string]any{
			"related_resources": []any{map[string]any{
				"authorization": map[string]any{"id": authorizationID, "state": "authorized"},
			}},
		}},
	})
}
