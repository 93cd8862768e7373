package booking

import (
	"context"
	"net/url"

	bookingRepo "skybook/database/repository/booking"
	flightRepo "skybook/database/repository/flight"
	"skybook/models"
)

// BookingService exposes the booking lifecycle: creation, cancellation, the
// expiry sweep, and queries.
type BookingService interface {
	CreateBooking(p models.Principal, req models.CreateBookingRequest) (*models.Booking, error)
	CancelBooking(ctx context.Context, p models.Principal, bookingID string) (*models.Booking, error)
	GetBooking(p models.Principal, bookingID string) (*models.Booking, error)
	MyBookings(p models.Principal) ([]models.Booking, error)
	ListBookings(query url.Values) ([]models.Booking, error)
	CheckExpired() (int64, error)
	BookingStats() (*models.BookingStats, []models.MonthlyBookingStat, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Repo       bookingRepo.BookingRepository
	FlightRepo flightRepo.FlightRepository
}
