package handlers

import (
	"net/http"

	"skybook/middleware"
	"skybook/models"
	bookingService "skybook/services/booking"
	"skybook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler wires the booking service to Gin.
type BookingHandler struct {
	Service bookingService.BookingService
}

func NewBookingHandler(svc bookingService.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBookingHandler handles POST /bookings. The booking is created
// pending with a payment hold window.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid booking payload", err.Error())
		return
	}
	booking, err := h.Service.CreateBooking(p, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// MyBookingsHandler handles GET /bookings/my-bookings.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	bookings, err := h.Service.MyBookings(p)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(bookings), "bookings": bookings})
}

// GetBookingHandler handles GET /bookings/:id. Owners and admins only.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	booking, err := h.Service.GetBooking(p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// CancelBookingHandler handles PATCH /bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Authentication required", "")
		return
	}
	booking, err := h.Service.CancelBooking(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// ListBookingsHandler handles GET /bookings (admin).
func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	bookings, err := h.Service.ListBookings(c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(bookings), "bookings": bookings})
}

// CheckExpiredHandler handles POST /bookings/check-expired (admin). It
// runs the same sweep the scheduler runs.
func (h *BookingHandler) CheckExpiredHandler(c *gin.Context) {
	expired, err := h.Service.CheckExpired()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// BookingStatsHandler handles GET /bookings/stats/booking-stats (admin).
func (h *BookingHandler) BookingStatsHandler(c *gin.Context) {
	stats, monthly, err := h.Service.BookingStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "monthly": monthly})
}
