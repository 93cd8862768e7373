package handlers

import (
	"net/http"

	"skybook/models"
	flightService "skybook/services/flight"
	"skybook/utils"

	"github.com/gin-gonic/gin"
)

// FlightHandler wires the flight service to Gin.
type FlightHandler struct {
	Service flightService.FlightService
}

func NewFlightHandler(svc flightService.FlightService) *FlightHandler {
	return &FlightHandler{Service: svc}
}

// ListFlightsHandler handles GET /flights with filter/sort/paginate query
// parameters.
func (h *FlightHandler) ListFlightsHandler(c *gin.Context) {
	flights, err := h.Service.ListFlights(c.Request.URL.Query())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(flights), "flights": flights})
}

// SearchFlightsHandler handles GET /flights/search.
func (h *FlightHandler) SearchFlightsHandler(c *gin.Context) {
	var query models.FlightSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid search parameters", err.Error())
		return
	}
	flights, err := h.Service.SearchFlights(query)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(flights), "flights": flights})
}

// GetFlightHandler handles GET /flights/:id.
func (h *FlightHandler) GetFlightHandler(c *gin.Context) {
	flight, err := h.Service.GetFlight(c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

// CreateFlightHandler handles POST /flights (admin).
func (h *FlightHandler) CreateFlightHandler(c *gin.Context) {
	var req models.CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid flight payload", err.Error())
		return
	}
	flight, err := h.Service.CreateFlight(req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, flight)
}

// UpdateFlightHandler handles PATCH /flights/:id (admin).
func (h *FlightHandler) UpdateFlightHandler(c *gin.Context) {
	var req models.UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid flight payload", err.Error())
		return
	}
	flight, err := h.Service.UpdateFlight(c.Param("id"), req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

// DeleteFlightHandler handles DELETE /flights/:id (admin). Flights with
// active bookings cannot be deleted.
func (h *FlightHandler) DeleteFlightHandler(c *gin.Context) {
	if err := h.Service.DeleteFlight(c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelFlightHandler handles PATCH /flights/:id/cancel (admin). All active
// bookings on the flight are cancelled with it.
func (h *FlightHandler) CancelFlightHandler(c *gin.Context) {
	flight, cancelled, err := h.Service.CancelFlight(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"flight": flight, "cancelledBookings": cancelled})
}

// FlightStatsHandler handles GET /flights/stats/flight-stats (admin).
func (h *FlightHandler) FlightStatsHandler(c *gin.Context) {
	stats, err := h.Service.FlightStats()
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
