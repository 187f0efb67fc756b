package handlers

import (
	"errors"
	"io"
	"net/http"

	"memberportal/middleware"
	"memberportal/models"
	"memberportal/services/donation"
	"memberportal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBytes = 64 << 10

// DonationHandler runs checkout and receives payment processor callbacks.
type DonationHandler struct {
	Service *donation.Service
}

func NewDonationHandler(svc *donation.Service) *DonationHandler {
	return &DonationHandler{Service: svc}
}

// CheckoutHandler handles POST /api/donations/checkout.
func (h *DonationHandler) CheckoutHandler(c *gin.Context) {
	var req models.DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}
	sess, err := h.Service.Checkout(c.Request.Context(), req, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

// WebhookHandler handles POST /api/donations/webhook. The body must be read
// raw; the signature covers the exact bytes.
func (h *DonationHandler) WebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Failed to read body", err.Error())
		return
	}
	err = h.Service.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	if errors.Is(err, donation.ErrInvalidSignature) {
		utils.GetLogger().Warn("Rejected webhook with bad signature", zap.String("ip", c.ClientIP()))
		utils.JSONError(c, http.StatusBadRequest, "Invalid signature", "")
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
