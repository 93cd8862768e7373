package flight

import (
	"context"
	"testing"
	"time"

	"skybook/models"
	"skybook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(flight *models.Flight) error {
	args := m.Called(flight)
	return args.Error(0)
}

func (m *MockFlightRepository) GetByID(id string) (*models.Flight, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockFlightRepository) Update(flight *models.Flight) error {
	args := m.Called(flight)
	return args.Error(0)
}

func (m *MockFlightRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockFlightRepository) SetStatus(id, status string) (*models.Flight, error) {
	args := m.Called(id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Flight), args.Error(1)
}

func (m *MockFlightRepository) List(filter bson.M, opts *options.FindOptions) ([]models.Flight, error) {
	args := m.Called(filter, opts)
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *MockFlightRepository) Search(origin, destination string, dayStart, dayEnd time.Time, passengers int) ([]models.Flight, error) {
	args := m.Called(origin, destination, dayStart, dayEnd, passengers)
	return args.Get(0).([]models.Flight), args.Error(1)
}

func (m *MockFlightRepository) Stats() (*models.FlightStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.FlightStats), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(booking *models.Booking) error {
	args := m.Called(booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(id string) (*models.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(userID string) ([]models.Booking, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	args := m.Called(filter, opts)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActiveByFlight(flightID string) (int64, error) {
	args := m.Called(flightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ExpirePending(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CancelWithRestore(ctx context.Context, bookingID string) (*models.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelAllForFlight(ctx context.Context, flightID string) (int64, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) Stats() (*models.BookingStats, []models.MonthlyBookingStat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.BookingStats), args.Get(1).([]models.MonthlyBookingStat), args.Error(2)
}

func price(v float64) *float64 { return &v }

func validCreateRequest() models.CreateFlightRequest {
	dep := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	return models.CreateFlightRequest{
		Airline:       "SkyBook Air",
		FlightNumber:  "sb101",
		Origin:        "los",
		Destination:   "abv",
		DepartureTime: dep,
		ArrivalTime:   dep.Add(95 * time.Minute),
		BasePrice:     price(250),
	}
}

func TestCreateFlight_NormalizesAndDerivesDuration(t *testing.T) {
	repo := &MockFlightRepository{}
	service := &DefaultFlightService{Repo: repo}

	repo.On("Create", mock.AnythingOfType("*models.Flight")).Return(nil).Once()

	flight, err := service.CreateFlight(validCreateRequest())

	assert.NoError(t, err)
	assert.Equal(t, "SB101", flight.FlightNumber)
	assert.Equal(t, "LOS", flight.Origin)
	assert.Equal(t, "ABV", flight.Destination)
	assert.Equal(t, 95, flight.Duration)
	assert.Equal(t, models.DefaultSeatsAvailable, flight.SeatsAvailable)
	assert.Equal(t, models.FlightStatusScheduled, flight.Status)
	assert.NotEmpty(t, flight.ID)
}

func TestCreateFlight_ArrivalBeforeDepartureRejected(t *testing.T) {
	repo := &MockFlightRepository{}
	service := &DefaultFlightService{Repo: repo}

	req := validCreateRequest()
	req.ArrivalTime = req.DepartureTime.Add(-time.Hour)

	flight, err := service.CreateFlight(req)

	assert.Nil(t, flight)
	assert.EqualError(t, err, "Arrival time must be after departure time")
	repo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestUpdateFlight_InvalidStatusRejected(t *testing.T) {
	repo := &MockFlightRepository{}
	service := &DefaultFlightService{Repo: repo}

	stored := &models.Flight{
		ID:            "flight-1",
		Origin:        "LOS",
		Destination:   "ABV",
		DepartureTime: time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
		ArrivalTime:   time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC),
		Status:        models.FlightStatusScheduled,
	}
	repo.On("GetByID", "flight-1").Return(stored, nil).Once()

	status := "boarding"
	flight, err := service.UpdateFlight("flight-1", models.UpdateFlightRequest{Status: &status})

	assert.Nil(t, flight)
	assert.EqualError(t, err, "Invalid flight status")
	repo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestSearchFlights_ParsesDayWindow(t *testing.T) {
	repo := &MockFlightRepository{}
	service := &DefaultFlightService{Repo: repo}

	dayStart := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24*time.Hour - time.Millisecond)
	repo.On("Search", "LOS", "ABV", dayStart, dayEnd, 2).Return([]models.Flight{}, nil).Once()

	_, err := service.SearchFlights(models.FlightSearchQuery{
		Origin:        "los",
		Destination:   "abv",
		DepartureDate: "2026-09-10",
		Passengers:    2,
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSearchFlights_BadDateRejected(t *testing.T) {
	repo := &MockFlightRepository{}
	service := &DefaultFlightService{Repo: repo}

	_, err := service.SearchFlights(models.FlightSearchQuery{
		Origin:        "LOS",
		Destination:   "ABV",
		DepartureDate: "10-09-2026",
	})

	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 400, appErr.Status)
}

func TestDeleteFlight_BlockedByActiveBookings(t *testing.T) {
	repo := &MockFlightRepository{}
	bookings := &MockBookingRepository{}
	service := &DefaultFlightService{Repo: repo, BookingRepo: bookings}

	repo.On("GetByID", "flight-1").Return(&models.Flight{ID: "flight-1"}, nil).Once()
	bookings.On("CountActiveByFlight", "flight-1").Return(int64(2), nil).Once()

	err := service.DeleteFlight("flight-1")

	assert.EqualError(t, err, "Cannot delete flight with active bookings. Cancel flight instead.")
	repo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestCancelFlight_CascadesBookings(t *testing.T) {
	repo := &MockFlightRepository{}
	bookings := &MockBookingRepository{}
	service := &DefaultFlightService{Repo: repo, BookingRepo: bookings}
	ctx := context.Background()

	cancelled := &models.Flight{ID: "flight-1", Status: models.FlightStatusCancelled}
	repo.On("SetStatus", "flight-1", models.FlightStatusCancelled).Return(cancelled, nil).Once()
	bookings.On("CancelAllForFlight", ctx, "flight-1").Return(int64(4), nil).Once()

	flight, count, err := service.CancelFlight(ctx, "flight-1")

	assert.NoError(t, err)
	assert.Equal(t, models.FlightStatusCancelled, flight.Status)
	assert.Equal(t, int64(4), count)
	bookings.AssertExpectations(t)
}
