// File: database/repository/flight/flightMongoCrud.go
package flightRepo

import (
	"errors"
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new flight document.
func (r *MongoFlightRepo) Create(flight *models.Flight) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	flight.CreatedAt = now
	flight.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, flight)
	if err != nil {
		return fmt.Errorf("failed to create flight: %w", err)
	}
	return nil
}

// GetByID retrieves a flight by its unique ID.
func (r *MongoFlightRepo) GetByID(id string) (*models.Flight, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var flight models.Flight
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&flight); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch flight with id %s: %w", id, err)
	}
	return &flight, nil
}

// Update modifies an existing flight document.
func (r *MongoFlightRepo) Update(flight *models.Flight) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	flight.UpdatedAt = time.Now()
	filter := bson.M{"id": flight.ID}
	update := bson.M{"$set": flight}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update flight with id %s: %w", flight.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("flight with id %s not found", flight.ID)
	}
	return nil
}

// Delete removes a flight document by its ID.
func (r *MongoFlightRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete flight with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("flight with id %s not found", id)
	}
	return nil
}

// SetStatus updates the flight status and returns the updated document.
func (r *MongoFlightRepo) SetStatus(id, status string) (*models.Flight, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var flight models.Flight
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&flight); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to set status for flight %s: %w", id, err)
	}
	return &flight, nil
}
