package models

import "time"

// Flight statuses.
const (
	FlightStatusScheduled = "scheduled"
	FlightStatusCancelled = "cancelled"
	FlightStatusDelayed   = "delayed"
	FlightStatusCompleted = "completed"
)

// DefaultSeatsAvailable is applied when a flight is created without an
// explicit seat count.
const DefaultSeatsAvailable = 100

// Flight represents a flight inventory record.
type Flight struct {
	ID             string    `bson:"id" json:"id"`
	Airline        string    `bson:"airline" json:"airline"`
	FlightNumber   string    `bson:"flight_number" json:"flightNumber"`
	Origin         string    `bson:"origin" json:"origin"`           // 3-letter airport code, uppercase
	Destination    string    `bson:"destination" json:"destination"` // 3-letter airport code, uppercase
	DepartureTime  time.Time `bson:"departure_time" json:"departureTime"`
	ArrivalTime    time.Time `bson:"arrival_time" json:"arrivalTime"`
	Duration       int       `bson:"duration" json:"duration"` // minutes, always derived from the timestamps
	BasePrice      float64   `bson:"base_price" json:"basePrice"`
	SeatsAvailable int       `bson:"seats_available" json:"seatsAvailable"`
	Status         string    `bson:"status" json:"status"`
	CreatedAt      time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updatedAt"`
}

// DeriveDuration recomputes the duration in minutes from the departure and
// arrival timestamps. Called on every save so the field is never authored.
func (f *Flight) DeriveDuration() {
	if !f.DepartureTime.IsZero() && !f.ArrivalTime.IsZero() {
		f.Duration = int(f.ArrivalTime.Sub(f.DepartureTime).Round(time.Minute) / time.Minute)
	}
}

// FlightStats is the aggregate summary over the flight collection.
type FlightStats struct {
	TotalFlights int64   `bson:"totalFlights" json:"totalFlights"`
	TotalSeats   int64   `bson:"totalSeats" json:"totalSeats"`
	AvgPrice     float64 `bson:"avgPrice" json:"avgPrice"`
	MinPrice     float64 `bson:"minPrice" json:"minPrice"`
	MaxPrice     float64 `bson:"maxPrice" json:"maxPrice"`
}

// CreateFlightRequest is the admin payload for creating a flight.
type CreateFlightRequest struct {
	Airline        string    `json:"airline" binding:"required"`
	FlightNumber   string    `json:"flightNumber" binding:"required"`
	Origin         string    `json:"origin" binding:"required,len=3"`
	Destination    string    `json:"destination" binding:"required,len=3"`
	DepartureTime  time.Time `json:"departureTime" binding:"required"`
	ArrivalTime    time.Time `json:"arrivalTime" binding:"required"`
	BasePrice      *float64  `json:"basePrice" binding:"required"`
	SeatsAvailable *int      `json:"seatsAvailable"`
}

// UpdateFlightRequest is the admin payload for a partial flight update.
type UpdateFlightRequest struct {
	Airline        *string    `json:"airline"`
	FlightNumber   *string    `json:"flightNumber"`
	Origin         *string    `json:"origin"`
	Destination    *string    `json:"destination"`
	DepartureTime  *time.Time `json:"departureTime"`
	ArrivalTime    *time.Time `json:"arrivalTime"`
	BasePrice      *float64   `json:"basePrice"`
	SeatsAvailable *int       `json:"seatsAvailable"`
	Status         *string    `json:"status"`
}

// FlightSearchQuery carries the parameters of the public search endpoint.
type FlightSearchQuery struct {
	Origin        string `form:"origin" binding:"required"`
	Destination   string `form:"destination" binding:"required"`
	DepartureDate string `form:"departureDate" binding:"required"` // YYYY-MM-DD
	Passengers    int    `form:"passengers,default=1"`
}
