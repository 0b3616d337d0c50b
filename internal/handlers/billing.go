package handlers

import (
	"errors"
	"net/http"

	"voxcredit/internal/gateway"
	"voxcredit/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	maxWebhookBody = 1 << 20 // 1 MB

	errCreateOrder   = "failed to create order"
	errVerifyPayment = "failed to verify payment"
	errWebhook       = "failed to process webhook"
)

// VerifyPaymentRequest is the checkout callback the browser forwards after payment.
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" example:"order_Nx1"`
	PaymentID string `json:"razorpay_payment_id" example:"pay_Nx1"`
	Signature string `json:"razorpay_signature" example:"9c1f..."`
	PlanID    string `json:"plan_id" example:"starter"`
}

// @Summary      Create order
// @Description  Opens a gateway order for the plan price. Amount is in paise.
// @Tags         billing
// @Produce      json
// @Param        plan  path      string  true  "Plan id"  Enums(starter,creator,pro)
// @Success      200   {object}  service.OrderResult
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/create-order/{plan} [post]
// @Security     BearerAuth
func (h *Handler) createOrder(c *gin.Context) {
	userID, ok := userOrUnauthorized(c)
	if !ok {
		return
	}
	planID := c.Param("plan")

	order, err := h.services.CreateOrder(c.Request.Context(), userID, planID)
	switch {
	case errors.Is(err, service.ErrUnknownPlan):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid plan"})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusBadGateway, errCreateOrder, "order_create_failed", err, "user_id", userID, "plan_id", planID)
		return
	}
	c.JSON(http.StatusOK, order)
}

// @Summary      Verify payment
// @Description  Verifies the checkout signature and credits the plan once per payment id.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      VerifyPaymentRequest  true  "Checkout callback"
// @Success      200   {object}  map[string]interface{}  "success, new_credits"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/verify-payment [post]
// @Security     BearerAuth
func (h *Handler) verifyPayment(c *gin.Context) {
	userID, ok := userOrUnauthorized(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	credits, err := h.services.VerifyPayment(c.Request.Context(), userID, service.VerifyInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		PlanID:    req.PlanID,
	})
	switch {
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing details"})
		return
	case errors.Is(err, service.ErrUnknownPlan):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plan"})
		return
	case errors.Is(err, service.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payment verification failed"})
		return
	case errors.Is(err, service.ErrAlreadyProcessed):
		c.JSON(http.StatusConflict, gin.H{"error": "Already credited"})
		return
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errNoUser})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errVerifyPayment, "payment_verify_failed", err,
			"user_id", userID, "payment_id", req.PaymentID)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "new_credits": credits})
}

// @Summary      Gateway webhook
// @Description  Server-to-server payment notification signed with the webhook secret.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        X-Razorpay-Signature  header    string  true  "HMAC-SHA256 of the raw body"
// @Success      200  {object}  map[string]string  "status, result"
// @Failure      400  {object}  map[string]string
// @Failure      413  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /razorpay-webhook [post]
func (h *Handler) razorpayWebhook(c *gin.Context) {
	// The signature covers the exact bytes sent, so read before any decoding.
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "payload too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := h.services.HandleWebhook(c.Request.Context(), body, c.GetHeader(gateway.SignatureHeader))
	switch {
	case errors.Is(err, service.ErrInvalidWebhookSignature):
		if h.log != nil {
			h.log.Warnw("webhook_bad_signature", "remote", c.ClientIP())
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	case errors.Is(err, service.ErrInvalidPayload):
		if h.log != nil {
			h.log.Warnw("webhook_bad_payload", "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payload"})
		return
	case err != nil:
		h.logAndJSONError(c, http.StatusInternalServerError, errWebhook, "webhook_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusOK, "result": string(result)})
}
