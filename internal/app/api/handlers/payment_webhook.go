package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	nh "github.com/fatflowers/pledge/internal/app/service/notification_handler"
	"github.com/fatflowers/pledge/pkg/logctx"
	"github.com/fatflowers/pledge/pkg/response"
	"github.com/fatflowers/pledge/pkg/types"
)

// @Summary      Gateway Webhook
// @Description  Handles payment provider event notifications. PAYMENT.SALE.COMPLETED settles the referenced payment.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body object true "Provider event"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/webhook/gateway [post]
// ApiGatewayWebhook handles payment provider notifications
func ApiGatewayWebhook(h *nh.NotificationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		logctx.FromGin(c, h.Logger).Infow("webhook_gateway_received")

		res, err := h.HandleNotification(c, types.PaymentProviderGateway)
		if err != nil {
			logctx.FromGin(c, h.Logger).Errorw("webhook_gateway_handle_error", "error", err.Error())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		logctx.FromGin(c, h.Logger).Infow("webhook_gateway_handled")
		if res == nil {
			c.JSON(http.StatusOK, response.OKT[any](nil))
			return
		}
		c.JSON(http.StatusOK, response.OKT(toPaymentEventResult(res)))
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, h *nh.NotificationHandler) {
	r.POST("/gateway", ApiGatewayWebhook(h))
}
