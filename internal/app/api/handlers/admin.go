package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/internal/app/service/statistics"
	"github.com/fatflowers/pledge/internal/app/service/translog"
	"github.com/fatflowers/pledge/pkg/response"
	"github.com/fatflowers/pledge/pkg/types"
)

type ListPaymentTransactionsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// PaymentEventResult is the admin view of one payment event.
type PaymentEventResult struct {
	PaymentID     string             `json:"payment_id"`
	Event         payment.Event      `json:"event"`
	From          types.PaymentState `json:"from"`
	To            types.PaymentState `json:"to"`
	Refused       bool               `json:"refused"`
	ProviderError string             `json:"provider_error,omitempty"`
}

func toPaymentEventResult(res *payment.Result) *PaymentEventResult {
	out := &PaymentEventResult{
		PaymentID: res.Payment.ID,
		Event:     res.Event,
		From:      res.From,
		To:        res.To,
		Refused:   res.Refused,
	}
	if res.ProviderError != nil {
		out.ProviderError = res.ProviderError.Error()
	}
	return out
}

// @Summary      Refund Payment (Admin)
// @Description  Refunds an approved or completed payment.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespPaymentEvent
// @Router       /api/v1/admin/payments/{id}/refund [post]
func ApiRefundPayment(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Refund(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentEventResult(res)))
	}
}

// @Summary      Reconcile Payment (Admin)
// @Description  Replays the payment transaction log and repairs a lagging state.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Payment ID"
// @Success      200  {object}  handlers.RespPaymentEvent
// @Router       /api/v1/admin/payments/{id}/reconcile [post]
func ApiReconcilePayment(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.Reconcile(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentEventResult(res)))
	}
}

// @Summary      List Payment Transactions (Admin)
// @Description  Retrieves a paginated and filterable list of payment transactions.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentTransactionsRequest true "Filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespScanTransactions
// @Router       /api/v1/admin/list_payment_transactions [post]
func ApiListPaymentTransactions(svc *translog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentTransactionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.Scan(c.Request.Context(), &translog.ScanRequest{
			Filters:   req.Filters,
			From:      req.From,
			Size:      req.Size,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Collect Campaign (Admin)
// @Description  Collects every donation of a campaign and reports the outcome.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Success      200  {object}  handlers.RespCollectReport
// @Router       /api/v1/admin/campaigns/{id}/collect [post]
func ApiCollectCampaign(svc *collection.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := svc.CollectCampaign(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(report))
	}
}

// @Summary      Campaign Summary (Admin)
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Campaign ID"
// @Success      200  {object}  handlers.RespCampaignSummary
// @Router       /api/v1/admin/campaigns/{id}/summary [get]
func ApiCampaignSummary(svc *statistics.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sum, err := svc.CampaignSummary(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sum))
	}
}

func RegisterAdminRoutes(r gin.IRouter, payments *payment.Service, txlog *translog.Service, collector *collection.Service, stats *statistics.Service) {
	r.POST("/payments/:id/refund", validID(), ApiRefundPayment(payments))
	r.POST("/payments/:id/reconcile", validID(), ApiReconcilePayment(payments))
	r.POST("/list_payment_transactions", ApiListPaymentTransactions(txlog))
	r.POST("/campaigns/:id/collect", validID(), ApiCollectCampaign(collector))
	r.GET("/campaigns/:id/summary", validID(), ApiCampaignSummary(stats))
}
