package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fatflowers/pledge/internal/app/service/donation"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/money"
	"github.com/fatflowers/pledge/pkg/response"
	"github.com/fatflowers/pledge/pkg/types"
)

type CreateDonationRequest struct {
	Email      string      `json:"email"`
	Amount     money.Money `json:"amount" swaggertype:"string" example:"25.00"`
	CampaignID string      `json:"campaign_id"`
	RewardID   *string     `json:"reward_id"`
}

type DonationView struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	Amount       money.Money        `json:"amount" swaggertype:"string"`
	CampaignID   string             `json:"campaign_id"`
	RewardID     *string            `json:"reward_id"`
	Paid         bool               `json:"paid"`
	PaymentID    string             `json:"payment_id"`
	PaymentState types.PaymentState `json:"payment_state"`
}

func toDonationView(d *models.Donation) *DonationView {
	v := &DonationView{
		ID:         d.ID,
		Email:      d.Email,
		Amount:     d.Amount,
		CampaignID: d.CampaignID,
		RewardID:   d.RewardID,
		Paid:       d.Paid(),
	}
	if d.Payment != nil {
		v.PaymentID = d.Payment.ID
		v.PaymentState = d.Payment.State
	}
	return v
}

// OperationResult is the outcome of collect and cancel.
type OperationResult struct {
	DonationID   string             `json:"donation_id"`
	OK           bool               `json:"ok"`
	PaymentState types.PaymentState `json:"payment_state"`
}

// @Summary      Create Donation
// @Description  Validates a pledge and stores it with a pending payment. Client IP and user agent are taken from the request.
// @Tags         Donation
// @Accept       json
// @Produce      json
// @Param        request body CreateDonationRequest true "Donation"
// @Success      200  {object}  handlers.RespDonation
// @Router       /api/v1/donations [post]
func ApiCreateDonation(svc *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateDonationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d, err := svc.Create(c.Request.Context(), &donation.CreateRequest{
			Email:      req.Email,
			Amount:     req.Amount,
			CampaignID: req.CampaignID,
			RewardID:   req.RewardID,
			IPAddress:  c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toDonationView(d)))
	}
}

// @Summary      Get Donation
// @Tags         Donation
// @Produce      json
// @Param        id path string true "Donation ID"
// @Success      200  {object}  handlers.RespDonation
// @Router       /api/v1/donations/{id} [get]
func ApiGetDonation(svc *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(toDonationView(d)))
	}
}

type donationOp func(svc *donation.Service, c *gin.Context, id string) (bool, error)

func runDonationOp(svc *donation.Service, op donationOp) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		ok, err := op(svc, c, id)
		if err != nil {
			writeError(c, err)
			return
		}
		d, err := svc.Get(c.Request.Context(), id)
		if err != nil {
			writeError(c, err)
			return
		}
		res := &OperationResult{DonationID: id, OK: ok}
		if d.Payment != nil {
			res.PaymentState = d.Payment.State
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Collect Donation
// @Description  Captures the pledged amount. Idempotent: a paid donation is not charged again.
// @Tags         Donation
// @Produce      json
// @Param        id path string true "Donation ID"
// @Success      200  {object}  handlers.RespOperation
// @Router       /api/v1/donations/{id}/collect [post]
func ApiCollectDonation(svc *donation.Service) gin.HandlerFunc {
	return runDonationOp(svc, func(svc *donation.Service, c *gin.Context, id string) (bool, error) {
		return svc.Collect(c.Request.Context(), id)
	})
}

// @Summary      Cancel Donation
// @Description  Voids the authorization of the donation's payment.
// @Tags         Donation
// @Produce      json
// @Param        id path string true "Donation ID"
// @Success      200  {object}  handlers.RespOperation
// @Router       /api/v1/donations/{id}/cancel [post]
func ApiCancelDonation(svc *donation.Service) gin.HandlerFunc {
	return runDonationOp(svc, func(svc *donation.Service, c *gin.Context, id string) (bool, error) {
		return svc.Cancel(c.Request.Context(), id)
	})
}

// @Summary      List Donation Transactions
// @Description  Returns the provider exchanges of the donation's payment in order.
// @Tags         Donation
// @Produce      json
// @Param        id path string true "Donation ID"
// @Success      200  {object}  handlers.RespTransactions
// @Router       /api/v1/donations/{id}/transactions [get]
func ApiListDonationTransactions(svc *donation.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		txs, err := svc.Transactions(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(txs))
	}
}

func RegisterDonationRoutes(r gin.IRouter, svc *donation.Service) {
	r.POST("", ApiCreateDonation(svc))
	r.GET("/:id", validID(), ApiGetDonation(svc))
	r.POST("/:id/collect", validID(), ApiCollectDonation(svc))
	r.POST("/:id/cancel", validID(), ApiCancelDonation(svc))
	r.GET("/:id/transactions", validID(), ApiListDonationTransactions(svc))
}
