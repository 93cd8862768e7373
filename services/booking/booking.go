package booking

import (
	"net/url"
	"strings"
	"time"

	"skybook/models"
	"skybook/services/auth"
	"skybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking places a hold on a flight for the given passengers. The
// availability check here is advisory: seats are only decremented when the
// payment settles, so a booking that never completes payment holds nothing.
func (s *DefaultBookingService) CreateBooking(p models.Principal, req models.CreateBookingRequest) (*models.Booking, error) {
	flight, err := s.FlightRepo.GetByID(req.FlightID)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, utils.NewNotFoundError("Flight not found")
	}
	if flight.Status != models.FlightStatusScheduled {
		return nil, utils.NewConflictError("Flight is not available for booking")
	}
	if flight.SeatsAvailable < len(req.Passengers) {
		return nil, utils.NewConflictError("Not enough seats available")
	}

	passengers := make([]models.Passenger, len(req.Passengers))
	for i, pax := range req.Passengers {
		pax.Email = strings.ToLower(strings.TrimSpace(pax.Email))
		pax.SeatNumber = strings.ToUpper(pax.SeatNumber)
		passengers[i] = pax
	}

	now := time.Now()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		UserID:           p.ID,
		FlightID:         flight.ID,
		Passengers:       passengers,
		TotalAmount:      flight.BasePrice * float64(len(passengers)),
		Status:           models.BookingStatusPending,
		PaymentStatus:    models.BookingPaymentUnpaid,
		SeatNumber:       strings.ToUpper(req.SeatNumber),
		BookingReference: models.NewBookingReference(),
		ExpiresAt:        now.Add(models.BookingHoldDuration),
	}

	if err := s.Repo.Create(booking); err != nil {
		utils.GetLogger().Error("Failed to create booking", zap.Error(err))
		return nil, err
	}
	return booking, nil
}

// GetBooking fetches one booking, visible to its owner or an admin.
func (s *DefaultBookingService) GetBooking(p models.Principal, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError("No booking found with that ID")
	}
	if err := auth.Authorize(p, booking.UserID, auth.ActionViewBooking); err != nil {
		return nil, err
	}
	return booking, nil
}

// MyBookings returns the caller's bookings, newest first.
func (s *DefaultBookingService) MyBookings(p models.Principal) ([]models.Booking, error) {
	return s.Repo.ListByUser(p.ID)
}

// ListBookings returns all bookings under the caller's query parameters.
// Admin-only at the route level.
func (s *DefaultBookingService) ListBookings(query url.Values) ([]models.Booking, error) {
	features := utils.ParseQueryFeatures(query)
	return s.Repo.List(features.Filter, features.Opts)
}

// CheckExpired runs the expiry sweep and reports how many pending bookings
// were transitioned.
func (s *DefaultBookingService) CheckExpired() (int64, error) {
	expired, err := s.Repo.ExpirePending(time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		utils.GetLogger().Info("Expired stale bookings", zap.Int64("count", expired))
	}
	return expired, nil
}

// BookingStats returns aggregate totals and the monthly breakdown.
func (s *DefaultBookingService) BookingStats() (*models.BookingStats, []models.MonthlyBookingStat, error) {
	return s.Repo.Stats()
}
