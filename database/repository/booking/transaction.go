package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// withTransaction runs fn inside a Mongo session transaction.
func (r *MongoBookingRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// CancelWithRestore flips one booking to cancelled/refunded and, when the
// booking had settled (seats_decremented set), gives the seats back to the
// flight in the same transaction. The status filter rejects terminal
// bookings so the restore can never double-apply.
func (r *MongoBookingRepo) CancelWithRestore(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var cancelled models.Booking

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"id":     bookingID,
			"status": bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
		}
		update := bson.M{"$set": bson.M{
			"status":            models.BookingStatusCancelled,
			"payment_status":    models.BookingPaymentRefunded,
			"seats_decremented": false,
			"updated_at":        time.Now(),
		}}
		opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

		var prior models.Booking
		if err := r.coll.FindOneAndUpdate(sc, filter, update, opts).Decode(&prior); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrNoTransition
			}
			return fmt.Errorf("cancel update failed: %w", err)
		}

		if prior.SeatsDecremented {
			seatUpdate := bson.M{"$inc": bson.M{"seats_available": len(prior.Passengers)}}
			if _, err := r.flightColl.UpdateOne(sc, bson.M{"id": prior.FlightID}, seatUpdate); err != nil {
				return fmt.Errorf("seat restore failed: %w", err)
			}
		}

		cancelled = prior
		cancelled.Status = models.BookingStatusCancelled
		cancelled.PaymentStatus = models.BookingPaymentRefunded
		cancelled.SeatsDecremented = false
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return &cancelled, nil
}

// CancelAllForFlight force-cancels every pending or confirmed booking on a
// flight. Seats are restored in one increment covering only the bookings
// that had settled. Returns the number of bookings transitioned.
func (r *MongoBookingRepo) CancelAllForFlight(ctx context.Context, flightID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var transitioned int64

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"flight_id": flightID,
			"status":    bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
		}

		cursor, err := r.coll.Find(sc, filter)
		if err != nil {
			return fmt.Errorf("failed to load bookings for flight %s: %w", flightID, err)
		}
		var bookings []models.Booking
		if err := cursor.All(sc, &bookings); err != nil {
			return fmt.Errorf("failed to decode bookings: %w", err)
		}

		restore := 0
		for _, b := range bookings {
			if b.SeatsDecremented {
				restore += len(b.Passengers)
			}
		}

		update := bson.M{"$set": bson.M{
			"status":            models.BookingStatusCancelled,
			"payment_status":    models.BookingPaymentRefunded,
			"seats_decremented": false,
			"updated_at":        time.Now(),
		}}
		result, err := r.coll.UpdateMany(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to cancel bookings for flight %s: %w", flightID, err)
		}
		transitioned = result.ModifiedCount

		if restore > 0 {
			seatUpdate := bson.M{"$inc": bson.M{"seats_available": restore}}
			if _, err := r.flightColl.UpdateOne(sc, bson.M{"id": flightID}, seatUpdate); err != nil {
				return fmt.Errorf("seat restore failed for flight %s: %w", flightID, err)
			}
		}
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return 0, err
	}
	return transitioned, nil
}
