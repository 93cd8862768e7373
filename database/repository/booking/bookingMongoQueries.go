// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ListByUser returns a user's bookings, newest first.
func (r *MongoBookingRepo) ListByUser(userID string) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for user %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// List returns bookings matching an arbitrary filter with the caller's find
// options.
func (r *MongoBookingRepo) List(filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	if filter == nil {
		filter = bson.M{}
	}
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

// CountActiveByFlight counts pending or confirmed bookings referencing a
// flight. Used to block flight deletion.
func (r *MongoBookingRepo) CountActiveByFlight(flightID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"flight_id": flightID,
		"status":    bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active bookings for flight %s: %w", flightID, err)
	}
	return count, nil
}

// ExpirePending transitions every pending booking whose hold lapsed before
// now to expired/failed. Confirmed bookings are never touched, and expiring
// bookings never decremented seats so no restoration is needed.
func (r *MongoBookingRepo) ExpirePending(now time.Time) (int64, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.BookingStatusPending,
		"expires_at": bson.M{"$lt": now},
	}
	update := bson.M{"$set": bson.M{
		"status":         models.BookingStatusExpired,
		"payment_status": models.BookingPaymentFailed,
		"updated_at":     now,
	}}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending bookings: %w", err)
	}
	return result.ModifiedCount, nil
}
