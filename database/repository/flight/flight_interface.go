package flightRepo

import (
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FlightRepository defines persistence operations for flights. Lookup
// methods return (nil, nil) when no document matches.
type FlightRepository interface {
	Create(flight *models.Flight) error
	GetByID(id string) (*models.Flight, error)
	Update(flight *models.Flight) error
	Delete(id string) error
	SetStatus(id, status string) (*models.Flight, error)

	List(filter bson.M, opts *options.FindOptions) ([]models.Flight, error)
	Search(origin, destination string, dayStart, dayEnd time.Time, passengers int) ([]models.Flight, error)
	Stats() (*models.FlightStats, error)
}
