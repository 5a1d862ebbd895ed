package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

const authorizedBody = `{"id":"PAY-AUTH","state":"approved","transactions":[{"related_resources":[{"authorization":{"id":"6CR34526N64144512","state":"authorized"}}]}]}`

func newTestClient(t *testing.T, h http.HandlerFunc, timeout time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := &config.Config{Gateway: config.GatewayConfig{BaseURL: srv.URL, Timeout: timeout, Currency: "USD"}}
	return New(cfg, zap.NewNop().Sugar())
}

func TestExtraction(t *testing.T) {
	id, ok := AuthorizationID([]byte(authorizedBody))
	require.True(t, ok)
	require.Equal(t, "6CR34526N64144512", id)

	_, ok = SaleID([]byte(authorizedBody))
	require.False(t, ok)

	for _, raw := range []string{
		``,
		`not json`,
		`[]`,
		`{"transactions":[]}`,
		`{"transactions":[{"related_resources":[]}]}`,
		`{"transactions":[{"related_resources":[{"authorization":{}}]}]}`,
		`{"transactions":[{"related_resources":[{"authorization":{"id":42}}]}]}`,
		`{"transactions":"oops"}`,
	} {
		_, ok := AuthorizationID([]byte(raw))
		assert.False(t, ok, raw)
		_, ok = SaleID([]byte(raw))
		assert.False(t, ok, raw)
	}
}

func TestNewJSONResponse(t *testing.T) {
	r, err := NewJSONResponse(http.StatusOK, []byte(`{"id":"PAY-1","state":"approved"}`))
	require.NoError(t, err)
	require.Equal(t, "PAY-1", r.ID())
	require.Equal(t, "approved", r.State())
	require.True(t, r.Success())
	raw, err := r.Serialize()
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"PAY-1","state":"approved"}`, string(raw))

	r, err = NewJSONResponse(http.StatusBadRequest, []byte(`{"name":"INSTRUMENT_DECLINED"}`))
	require.NoError(t, err)
	require.Equal(t, "failed", r.State())
	require.False(t, r.Success())

	r, err = NewJSONResponse(http.StatusOK, []byte(`{"id":"x","state":"exception"}`))
	require.NoError(t, err)
	require.False(t, r.Success())

	_, err = NewJSONResponse(http.StatusBadGateway, []byte(`{"state":"approved"}`))
	require.Error(t, err)
	_, err = NewJSONResponse(http.StatusOK, []byte(`<html>`))
	require.Error(t, err)
}

func TestClient_CaptureCreatesSale(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/payment", r.URL.Path)
		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sale", body["intent"])
		txs := body["transactions"].([]any)
		amount := txs[0].(map[string]any)["amount"].(map[string]any)
		assert.Equal(t, "100.00", amount["total"])
		assert.Equal(t, "USD", amount["currency"])
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"ABC123","state":"approved"}`)
	}, time.Second)

	resp, err := c.Capture(context.Background(), nil, money.FromInt(100))
	require.NoError(t, err)
	require.True(t, resp.Success())
	require.Equal(t, "ABC123", resp.ID())
}

func TestClient_CaptureExecutesKnownPayment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/payment/PAY-9/execute", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"PAY-9","state":"approved"}`)
	}, time.Second)

	resp, err := c.Capture(context.Background(), lo.ToPtr("PAY-9"), money.FromInt(5))
	require.NoError(t, err)
	require.Equal(t, "PAY-9", resp.ID())
}

func TestClient_ServerErrorIsRaised(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, time.Second)

	_, err := c.Capture(context.Background(), nil, money.FromInt(1))
	require.Error(t, err)
}

func TestClient_TimeoutIsRaised(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = io.WriteString(w, `{"id":"late","state":"approved"}`)
	}, 20*time.Millisecond)

	_, err := c.Capture(context.Background(), nil, money.FromInt(1))
	require.Error(t, err)
}

func TestClient_CallerCancellationDoesNotAbortCall(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
		_, _ = io.WriteString(w, `{"id":"V-1","state":"voided"}`)
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	resp, err := c.Void(ctx, "AUTH-1")
	require.NoError(t, err)
	require.Equal(t, "voided", resp.State())
}

func TestClient_Void(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/payments/authorization/6CR34526N64144512/void", r.URL.Path)
		_, _ = io.WriteString(w, `{"id":"6CR34526N64144512","state":"voided"}`)
	}, time.Second)

	resp, err := c.Void(context.Background(), "6CR34526N64144512")
	require.NoError(t, err)
	require.True(t, resp.Success())

	_, err = c.Void(context.Background(), "")
	require.Error(t, err)
}

func TestClient_RefundUsesLatestSaleID(t *testing.T) {
	var calls atomic.Int64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/v1/payments/sale/SALE-2/refund", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"R-1","state":"completed"}`)
	}, time.Second)

	sale := func(seq int64, id string) models.PaymentTransaction {
		return models.PaymentTransaction{
			Sequence: seq,
			Intent:   types.TransactionIntentSale,
			Response: datatypes.JSON(`{"transactions":[{"related_resources":[{"sale":{"id":"` + id + `"}}]}]}`),
		}
	}
	p := &models.Payment{
		Amount:       money.FromInt(10),
		Transactions: []models.PaymentTransaction{sale(2, "SALE-2"), sale(1, "SALE-1")},
	}
	resp, err := c.Refund(context.Background(), p)
	require.NoError(t, err)
	require.Equal(t, "completed", resp.State())
	require.EqualValues(t, 1, calls.Load())

	_, err = c.Refund(context.Background(), &models.Payment{Amount: money.FromInt(10)})
	require.ErrorIs(t, err, ErrSaleNotFound)
	require.EqualValues(t, 1, calls.Load())
}

func TestClient_OAuthTokenIsSent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"access_token":"tok","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"id":"P","state":"approved"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	cfg := &config.Config{Gateway: config.GatewayConfig{
		BaseURL: srv.URL, ClientID: "client", ClientSecret: "secret", Timeout: time.Second,
	}}
	c := New(cfg, zap.NewNop().Sugar())
	resp, err := c.Capture(context.Background(), nil, money.FromInt(1))
	require.NoError(t, err)
	require.True(t, resp.Success())
}
