package handlers

import (
	"net/http"

	"skybook/middleware"
	"skybook/models"
	paymentService "skybook/services/payment"
	"skybook/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler wires the payment service to Gin.
type PaymentHandler struct {
	Service paymentService.PaymentService
}

func NewPaymentHandler(svc paymentService.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// InitiatePaymentHandler handles POST /payments/initiate. Only the booking
// owner may pay for it.
func (h *PaymentHandler) InitiatePaymentHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid payment payload", err.Error())
		return
	}
	resp, err := h.Service.InitiatePayment(c.Request.Context(), p, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// VerifyPaymentHandler handles GET /payments/verify?reference=. It asks the
// gateway for the authoritative state and settles the payment.
func (h *PaymentHandler) VerifyPaymentHandler(c *gin.Context) {
	reference := c.Query("reference")
	if reference == "" {
		utils.JSONError(c, http.StatusBadRequest, "Payment reference is required", "")
		return
	}
	payment, err := h.Service.VerifyPayment(c.Request.Context(), reference)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// DummyVerifyPaymentHandler handles POST /payments/dummy-verify. It settles
// a payment without contacting the gateway; development use only. Reference
// and booking id come from the query string.
func (h *PaymentHandler) DummyVerifyPaymentHandler(c *gin.Context) {
	payment, err := h.Service.DummyVerifyPayment(c.Request.Context(), c.Query("reference"), c.Query("bookingId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// MyPaymentsHandler handles GET /payments/my-payments.
func (h *PaymentHandler) MyPaymentsHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	payments, err := h.Service.MyPayments(p)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(payments), "payments": payments})
}

// GetPaymentHandler handles GET /payments/:id. Owners and admins only.
func (h *PaymentHandler) GetPaymentHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	payment, err := h.Service.GetPayment(p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPaymentsHandler handles GET /payments (admin).
func (h *PaymentHandler) ListPaymentsHandler(c *gin.Context) {
	payments, err := h.Service.ListPayments(c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(payments), "payments": payments})
}

// RefundPaymentHandler handles POST /payments/refund (admin).
func (h *PaymentHandler) RefundPaymentHandler(c *gin.Context) {
	var req models.RefundPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid refund payload", err.Error())
		return
	}
	payment, err := h.Service.RefundPayment(c.Request.Context(), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payment)
}

// PaymentStatsHandler handles GET /payments/stats/payment-stats (admin).
func (h *PaymentHandler) PaymentStatsHandler(c *gin.Context) {
	stats, daily, err := h.Service.PaymentStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "dailyRevenue": daily})
}
