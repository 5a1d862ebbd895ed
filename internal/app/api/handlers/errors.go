package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/pledge/internal/app/service/campaign"
	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/donation"
	"github.com/fatflowers/pledge/internal/app/service/payment"
	"github.com/fatflowers/pledge/pkg/response"
	"github.com/fatflowers/pledge/pkg/tool"
)

// validID aborts requests whose :id is not a UUID. Postgres rejects such
// values in uuid columns, so they can never match a row.
func validID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tool.IsUUID(c.Param("id")) {
			c.AbortWithStatusJSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, "invalid id"))
			return
		}
		c.Next()
	}
}

// writeError maps service errors to the response envelope. Business
// outcomes keep HTTP 200 and carry the code in the body.
func writeError(c *gin.Context, err error) {
	var verr *donation.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusOK, response.ErrorT(response.APIResponseCodeBadRequest, verr.Fields))
	case errors.Is(err, donation.ErrDonationNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, campaign.ErrCampaignNotFound):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
	case errors.Is(err, payment.ErrConcurrentUpdate),
		errors.Is(err, collection.ErrCampaignCollected):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeConflict, err.Error()))
	default:
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}
