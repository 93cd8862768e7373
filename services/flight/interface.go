package flight

import (
	"context"
	"net/url"

	bookingRepo "skybook/database/repository/booking"
	flightRepo "skybook/database/repository/flight"
	"skybook/models"
)

// FlightService exposes flight inventory operations.
type FlightService interface {
	ListFlights(query url.Values) ([]models.Flight, error)
	GetFlight(id string) (*models.Flight, error)
	SearchFlights(q models.FlightSearchQuery) ([]models.Flight, error)

	CreateFlight(req models.CreateFlightRequest) (*models.Flight, error)
	UpdateFlight(id string, req models.UpdateFlightRequest) (*models.Flight, error)
	DeleteFlight(id string) error
	CancelFlight(ctx context.Context, id string) (*models.Flight, int64, error)

	FlightStats() (*models.FlightStats, error)
}

// DefaultFlightService is the production implementation.
type DefaultFlightService struct {
	Repo        flightRepo.FlightRepository
	BookingRepo bookingRepo.BookingRepository
}
