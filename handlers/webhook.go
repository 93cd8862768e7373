package handlers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"skybook/config"
	"skybook/models"
	paymentService "skybook/services/payment"
	"skybook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives gateway push notifications.
type WebhookHandler struct {
	Service paymentService.PaymentService
}

func NewWebhookHandler(svc paymentService.PaymentService) *WebhookHandler {
	return &WebhookHandler{Service: svc}
}

// PaystackWebhookHandler handles POST /payments/webhook/paystack. The
// signature is an HMAC-SHA512 of the raw body keyed with the secret key;
// requests failing the check are rejected before any state changes.
func (h *WebhookHandler) PaystackWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unable to read request body", "")
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !verifyPaystackSignature(body, signature, config.AppConfig.PaystackSecretKey) {
		logger.Warn("webhook signature verification failed",
			zap.String("ip", c.ClientIP()))
		utils.JSONError(c, http.StatusUnauthorized, "Invalid webhook signature", "")
		return
	}

	var event models.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Malformed webhook payload", "")
		return
	}

	if err := h.Service.HandleWebhookEvent(c.Request.Context(), event); err != nil {
		logger.Error("webhook processing failed",
			zap.String("event", event.Event),
			zap.String("reference", event.Data.Reference),
			zap.Error(err))
		// Acknowledge anyway: the verify path can still settle, and a
		// non-2xx would make the gateway retry indefinitely.
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func verifyPaystackSignature(body []byte, signature, secret string) bool {
	if signature == "" || secret == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
