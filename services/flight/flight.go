package flight

import (
	"context"
	"net/url"
	"strings"
	"time"

	"skybook/models"
	"skybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListFlights returns flights under the caller's filter/sort/paginate/
// field-select query parameters.
func (s *DefaultFlightService) ListFlights(query url.Values) ([]models.Flight, error) {
	features := utils.ParseQueryFeatures(query)
	return s.Repo.List(features.Filter, features.Opts)
}

// GetFlight fetches one flight by ID.
func (s *DefaultFlightService) GetFlight(id string) (*models.Flight, error) {
	flight, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if flight == nil {
		return nil, utils.NewNotFoundError("No flight found with that ID")
	}
	return flight, nil
}

// SearchFlights finds bookable flights on a route for a UTC calendar day with
// enough seats for the requested passenger count.
func (s *DefaultFlightService) SearchFlights(q models.FlightSearchQuery) ([]models.Flight, error) {
	day, err := time.ParseInLocation("2006-01-02", q.DepartureDate, time.UTC)
	if err != nil {
		return nil, utils.NewValidationError("departureDate must be in YYYY-MM-DD format")
	}
	passengers := q.Passengers
	if passengers < 1 {
		passengers = 1
	}

	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Millisecond)

	return s.Repo.Search(
		strings.ToUpper(q.Origin),
		strings.ToUpper(q.Destination),
		dayStart, dayEnd, passengers,
	)
}

// CreateFlight validates and persists a new flight.
func (s *DefaultFlightService) CreateFlight(req models.CreateFlightRequest) (*models.Flight, error) {
	if !req.ArrivalTime.After(req.DepartureTime) {
		return nil, utils.NewValidationError("Arrival time must be after departure time")
	}
	if *req.BasePrice < 0 {
		return nil, utils.NewValidationError("Price cannot be negative")
	}

	seats := models.DefaultSeatsAvailable
	if req.SeatsAvailable != nil {
		if *req.SeatsAvailable < 0 {
			return nil, utils.NewValidationError("Seats cannot be negative")
		}
		seats = *req.SeatsAvailable
	}

	flight := &models.Flight{
		ID:             uuid.New().String(),
		Airline:        strings.TrimSpace(req.Airline),
		FlightNumber:   strings.ToUpper(strings.TrimSpace(req.FlightNumber)),
		Origin:         strings.ToUpper(req.Origin),
		Destination:    strings.ToUpper(req.Destination),
		DepartureTime:  req.DepartureTime,
		ArrivalTime:    req.ArrivalTime,
		BasePrice:      *req.BasePrice,
		SeatsAvailable: seats,
		Status:         models.FlightStatusScheduled,
	}
	flight.DeriveDuration()

	if err := s.Repo.Create(flight); err != nil {
		utils.GetLogger().Error("Failed to create flight", zap.Error(err))
		return nil, err
	}
	return flight, nil
}

// UpdateFlight applies a partial update, re-validating the timestamps and
// re-deriving the duration.
func (s *DefaultFlightService) UpdateFlight(id string, req models.UpdateFlightRequest) (*models.Flight, error) {
	flight, err := s.GetFlight(id)
	if err != nil {
		return nil, err
	}

	if req.Airline != nil {
		flight.Airline = strings.TrimSpace(*req.Airline)
	}
	if req.FlightNumber != nil {
		flight.FlightNumber = strings.ToUpper(strings.TrimSpace(*req.FlightNumber))
	}
	if req.Origin != nil {
		flight.Origin = strings.ToUpper(*req.Origin)
	}
	if req.Destination != nil {
		flight.Destination = strings.ToUpper(*req.Destination)
	}
	if req.DepartureTime != nil {
		flight.DepartureTime = *req.DepartureTime
	}
	if req.ArrivalTime != nil {
		flight.ArrivalTime = *req.ArrivalTime
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			return nil, utils.NewValidationError("Price cannot be negative")
		}
		flight.BasePrice = *req.BasePrice
	}
	if req.SeatsAvailable != nil {
		if *req.SeatsAvailable < 0 {
			return nil, utils.NewValidationError("Seats cannot be negative")
		}
		flight.SeatsAvailable = *req.SeatsAvailable
	}
	if req.Status != nil {
		switch *req.Status {
		case models.FlightStatusScheduled, models.FlightStatusCancelled,
			models.FlightStatusDelayed, models.FlightStatusCompleted:
			flight.Status = *req.Status
		default:
			return nil, utils.NewValidationError("Invalid flight status")
		}
	}

	if len(flight.Origin) != 3 || len(flight.Destination) != 3 {
		return nil, utils.NewValidationError("Airport codes must be exactly 3 letters")
	}
	if !flight.ArrivalTime.After(flight.DepartureTime) {
		return nil, utils.NewValidationError("Arrival time must be after departure time")
	}
	flight.DeriveDuration()

	if err := s.Repo.Update(flight); err != nil {
		return nil, err
	}
	return flight, nil
}

// DeleteFlight removes a flight unless active bookings still reference it.
func (s *DefaultFlightService) DeleteFlight(id string) error {
	if _, err := s.GetFlight(id); err != nil {
		return err
	}

	active, err := s.BookingRepo.CountActiveByFlight(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return utils.NewConflictError("Cannot delete flight with active bookings. Cancel flight instead.")
	}

	return s.Repo.Delete(id)
}

// CancelFlight marks the flight cancelled and force-cancels every pending or
// confirmed booking on it, refunding and restoring seats for settled ones.
// Returns the updated flight and the number of bookings cascaded.
func (s *DefaultFlightService) CancelFlight(ctx context.Context, id string) (*models.Flight, int64, error) {
	flight, err := s.Repo.SetStatus(id, models.FlightStatusCancelled)
	if err != nil {
		return nil, 0, err
	}
	if flight == nil {
		return nil, 0, utils.NewNotFoundError("No flight found with that ID")
	}

	cancelled, err := s.BookingRepo.CancelAllForFlight(ctx, id)
	if err != nil {
		utils.GetLogger().Error("Booking cascade failed for cancelled flight",
			zap.String("flightID", id), zap.Error(err))
		return nil, 0, err
	}
	return flight, cancelled, nil
}

// FlightStats returns the aggregate inventory summary.
func (s *DefaultFlightService) FlightStats() (*models.FlightStats, error) {
	return s.Repo.Stats()
}
