package handlers

import (
	"github.com/fatflowers/pledge/internal/app/service/collection"
	"github.com/fatflowers/pledge/internal/app/service/statistics"
	"github.com/fatflowers/pledge/internal/app/service/translog"
	"github.com/fatflowers/pledge/internal/models"
	"github.com/fatflowers/pledge/pkg/response"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespDonation struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    DonationView             `json:"data"`
}

type RespOperation struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    OperationResult          `json:"data"`
}

type RespTransactions struct {
	Code    response.APIResponseCode    `json:"code"`
	Message string                      `json:"message"`
	Data    []models.PaymentTransaction `json:"data"`
}

// RespScanTransactions wraps translog.ScanResponse in the standard envelope.
type RespScanTransactions struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    translog.ScanResponse    `json:"data"`
}

type RespPaymentEvent struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    PaymentEventResult       `json:"data"`
}

type RespCollectReport struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    collection.CollectReport `json:"data"`
}

type RespCampaignSummary struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    statistics.CampaignSummary `json:"data"`
}
