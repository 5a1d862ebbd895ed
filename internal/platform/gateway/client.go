package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/config"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/metrics"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/types"
)

const maxBodyBytes = 1 << 20

var ErrSaleNotFound = errors.New("no sale id in payment transactions")

// Client talks to the payment provider REST API.
type Client struct {
	baseURL  string
	currency string
	timeout  time.Duration
	http     *http.Client
	log      *zap.SugaredLogger
}

// New builds a client. With client credentials configured every request is
// authorized with an OAuth2 bearer token fetched from /v1/oauth2/token.
func New(cfg *config.Config, log *zap.SugaredLogger) *Client {
	gc := cfg.Gateway
	base := &http.Client{Timeout: gc.Timeout}
	httpClient := base
	if gc.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     gc.ClientID,
			ClientSecret: gc.ClientSecret,
			TokenURL:     strings.TrimRight(gc.BaseURL, "/") + "/v1/oauth2/token",
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		httpClient = cc.Client(tokenCtx)
		httpClient.Timeout = gc.Timeout
	}
	currency := gc.Currency
	if currency == "" {
		currency = "USD"
	}
	return &Client{
		baseURL:  strings.TrimRight(gc.BaseURL, "/"),
		currency: currency,
		timeout:  gc.Timeout,
		http:     httpClient,
		log:      log,
	}
}

type amountBody struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type transactionBody struct {
	Amount amountBody `json:"amount"`
}

type captureBody struct {
	Intent       string            `json:"intent,omitempty"`
	Transactions []transactionBody `json:"transactions"`
}

type refundBody struct {
	Amount amountBody `json:"amount"`
}

// Capture executes the payment identified by externalID, or creates an
// immediate sale when externalID is nil.
func (c *Client) Capture(ctx context.Context, externalID *string, amount money.Money) (Response, error) {
	body := captureBody{Transactions: []transactionBody{{Amount: c.amount(amount)}}}
	path := "/v1/payments/payment"
	if externalID != nil && *externalID != "" {
		path = "/v1/payments/payment/" + url.PathEscape(*externalID) + "/execute"
	} else {
		body.Intent = string(types.TransactionIntentSale)
	}
	return c.call(ctx, "capture", path, body)
}

// Void releases an authorization.
func (c *Client) Void(ctx context.Context, authorizationID string) (Response, error) {
	if authorizationID == "" {
		return nil, fmt.Errorf("void: empty authorization id")
	}
	return c.call(ctx, "void", "/v1/payments/authorization/"+url.PathEscape(authorizationID)+"/void", struct{}{})
}

// Refund returns the captured amount of p. The sale id comes from the newest
// sale transaction of p, so Transactions must be loaded.
func (c *Client) Refund(ctx context.Context, p *models.Payment) (Response, error) {
	saleID, ok := LatestSaleID(p.Transactions)
	if !ok {
		return nil, ErrSaleNotFound
	}
	body := refundBody{Amount: amountBody{Total: p.Amount.String(), Currency: lo.CoalesceOrEmpty(p.Currency, c.currency)}}
	return c.call(ctx, "refund", "/v1/payments/sale/"+url.PathEscape(saleID)+"/refund", body)
}

// LatestSaleID returns the sale id of the newest sale transaction carrying one.
func LatestSaleID(txs []models.PaymentTransaction) (string, bool) {
	sorted := make([]models.PaymentTransaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sequence > sorted[j].Sequence })
	for _, t := range sorted {
		if t.Intent != types.TransactionIntentSale {
			continue
		}
		if id, ok := SaleID(t.Response); ok {
			return id, true
		}
	}
	return "", false
}

func (c *Client) amount(m money.Money) amountBody {
	return amountBody{Total: m.String(), Currency: c.currency}
}

// call posts body to path. The request is detached from ctx cancellation and
// bounded by the configured timeout: once dispatched, a money movement call
// runs until the provider answers or the timeout fires.
func (c *Client) call(ctx context.Context, operation, path string, body any) (resp Response, err error) {
	start := time.Now()
	defer func() {
		outcome := "success"
		switch {
		case err != nil:
			outcome = "error"
		case !resp.Success():
			outcome = "failure"
		}
		metrics.ObserveProviderCall(operation, outcome, start)
	}()

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encode request: %w", operation, err)
	}

	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if tid := logctx.TraceID(ctx); tid != "" {
		req.Header.Set("PayPal-Request-Id", tid)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", operation, err)
	}
	r, err := NewJSONResponse(httpResp.StatusCode, raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	logctx.FromCtx(ctx, c.log).Debugw("provider call", "operation", operation, "status", httpResp.StatusCode, "state", r.State(), "id", r.ID())
	return r, nil
}

var Module = fx.Options(
	fx.Provide(New),
)
