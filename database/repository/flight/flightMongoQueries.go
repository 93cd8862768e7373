// File: database/repository/flight/flightMongoQueries.go
package flightRepo

import (
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// List returns flights matching an arbitrary filter with the caller's find
// options (sort, projection, pagination).
func (r *MongoFlightRepo) List(filter bson.M, opts *options.FindOptions) ([]models.Flight, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer cursor.Close(ctx)

	flights := []models.Flight{}
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}
	return flights, nil
}

// Search matches scheduled flights on an exact route, departing inside the
// given UTC day window, with enough seats for the passenger count. Results
// are sorted by departure time ascending.
func (r *MongoFlightRepo) Search(origin, destination string, dayStart, dayEnd time.Time, passengers int) ([]models.Flight, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"origin":      origin,
		"destination": destination,
		"departure_time": bson.M{
			"$gte": dayStart,
			"$lte": dayEnd,
		},
		"seats_available": bson.M{"$gte": passengers},
		"status":          models.FlightStatusScheduled,
	}
	opts := options.Find().SetSort(bson.D{{Key: "departure_time", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search flights: %w", err)
	}
	defer cursor.Close(ctx)

	flights := []models.Flight{}
	if err := cursor.All(ctx, &flights); err != nil {
		return nil, fmt.Errorf("failed to decode flights: %w", err)
	}
	return flights, nil
}
