package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/proactivefit/proactive-server/internal/application"
	"github.com/proactivefit/proactive-server/internal/interface/middleware"
	"github.com/proactivefit/proactive-server/pkg/response"
	"github.com/proactivefit/proactive-server/pkg/validation"
)

type PaymentHandler struct {
	Billing    *application.BillingService
	Settlement *application.SettlementService
	Logger     *logrus.Logger
}

func NewPaymentHandler(billing *application.BillingService, settlement *application.SettlementService, logger *logrus.Logger) *PaymentHandler {
	return &PaymentHandler{Billing: billing, Settlement: settlement, Logger: logger}
}

type quoteRequest struct {
	Items []application.CartItem `json:"items" binding:"required"`
}

// Quote computes the charge for a cart and prepares it with the gateway.
func (h *PaymentHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	quote, err := h.Billing.QuoteCharge(c.Request.Context(), req.Items)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidAmount):
			response.Error(c, http.StatusBadRequest, "charge total must be positive", nil)
		case errors.Is(err, application.ErrGatewayUnavailable):
			response.Error(c, http.StatusBadGateway, "payment gateway unavailable", nil)
		default:
			response.Error(c, http.StatusInternalServerError, "could not quote charge", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, quote, "charge prepared")
}

type settleRequest struct {
	AmountCents    int64    `json:"amount_cents" binding:"required,gt=0"`
	ClassIDs       []string `json:"class_ids" binding:"required,min=1"`
	IdempotencyKey string   `json:"idempotency_key"`
}

// Settle records a completed charge: ledger append, booked→enrolled
// migration, capacity increments. The response carries one outcome per
// step; a partial failure is reported, never collapsed into a bare error.
func (h *PaymentHandler) Settle(c *gin.Context) {
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	email := c.GetString(middleware.CtxEmailKey)

	res, err := h.Settlement.Settle(c.Request.Context(), application.SettlementInput{
		Email:          email,
		AmountCents:    req.AmountCents,
		ClassIDs:       req.ClassIDs,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid payload", nil)
		case errors.Is(err, application.ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "user not found", nil)
		case errors.Is(err, application.ErrLedgerWriteFailed):
			response.Error(c, http.StatusInternalServerError, "payment could not be recorded", res)
		default:
			response.Error(c, http.StatusInternalServerError, "settlement failed", nil)
		}
		return
	}
	if !res.Complete() {
		// 207: the payment is recorded but a downstream step needs
		// reconciliation. The caller sees exactly which one.
		response.Success(c, http.StatusMultiStatus, res, "settlement partially applied")
		return
	}
	response.Success(c, http.StatusOK, res, "settlement complete")
}

// History returns the caller's payments, newest first.
func (h *PaymentHandler) History(c *gin.Context) {
	email := c.GetString(middleware.CtxEmailKey)
	payments, err := h.Settlement.History(c.Request.Context(), email)
	if err != nil {
		h.Logger.WithError(err).WithField("email", email).Error("payment history failed")
		response.Error(c, http.StatusInternalServerError, "could not list payments", nil)
		return
	}
	response.Success(c, http.StatusOK, payments, "payments")
}
