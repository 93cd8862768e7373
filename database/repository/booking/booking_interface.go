package bookingRepo

import (
	"context"
	"errors"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNoTransition is returned when a guarded status update matched no
// document, i.e. the booking was not in the state the transition requires.
var ErrNoTransition = errors.New("booking not in a state permitting this transition")

// BookingRepository defines persistence operations for bookings. Lookup
// methods return (nil, nil) when no document matches.
type BookingRepository interface {
	Create(booking *models.Booking) error
	GetByID(id string) (*models.Booking, error)
	ListByUser(userID string) ([]models.Booking, error)
	List(filter bson.M, opts *options.FindOptions) ([]models.Booking, error)
	CountActiveByFlight(flightID string) (int64, error)

	// ExpirePending bulk-transitions pending bookings whose hold has lapsed
	// to expired/failed and returns how many were touched.
	ExpirePending(now time.Time) (int64, error)

	// CancelWithRestore transitions one booking to cancelled/refunded inside
	// a transaction, restoring flight seats iff this booking had decremented
	// them. Returns ErrNoTransition when the booking is already terminal.
	CancelWithRestore(ctx context.Context, bookingID string) (*models.Booking, error)

	// CancelAllForFlight force-cancels every pending or confirmed booking on
	// a flight, restoring seats for the settled ones. Used by the flight
	// cancellation cascade.
	CancelAllForFlight(ctx context.Context, flightID string) (int64, error)

	Stats() (*models.BookingStats, []models.MonthlyBookingStat, error)
}
