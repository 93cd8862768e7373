package paymentRepo

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
func (r *MongoPaymentRepo) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
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

// settlePayment applies a guarded status transition on the payment document
// and returns the updated payment. The fromStatus filter is the idempotency
// guard: a payment that already left fromStatus matches nothing and the
// transition aborts with ErrAlreadySettled.
func (r *MongoPaymentRepo) settlePayment(sc mongo.SessionContext, paymentID, fromStatus string, set bson.M, metadata map[string]interface{}) (*models.Payment, error) {
	for k, v := range metadata {
		set["metadata."+k] = v
	}
	filter := bson.M{"id": paymentID, "status": fromStatus}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var payment models.Payment
	if err := r.coll.FindOneAndUpdate(sc, filter, bson.M{"$set": set}, opts).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrAlreadySettled
		}
		return nil, fmt.Errorf("payment settlement update failed: %w", err)
	}
	return &payment, nil
}

// SettleSuccess finalizes a successful charge: payment initiated→success
// with transaction ID and completion time, booking→confirmed/paid, flight
// seats decremented by the passenger count. All three writes commit or abort
// together. The seats_decremented guard on the booking makes the decrement
// exactly-once even if two settlement paths race past the payment guard.
func (r *MongoPaymentRepo) SettleSuccess(ctx context.Context, paymentID, transactionID string, metadata map[string]interface{}) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var settled *models.Payment

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		payment, err := r.settlePayment(sc, paymentID, models.PaymentStatusInitiated, bson.M{
			"status":         models.PaymentStatusSuccess,
			"transaction_id": transactionID,
			"completed_at":   now,
		}, metadata)
		if err != nil {
			return err
		}

		bookingFilter := bson.M{"id": payment.BookingID, "seats_decremented": false}
		bookingUpdate := bson.M{"$set": bson.M{
			"status":            models.BookingStatusConfirmed,
			"payment_status":    models.BookingPaymentPaid,
			"seats_decremented": true,
			"updated_at":        now,
		}}
		bookingOpts := options.FindOneAndUpdate().SetReturnDocument(options.After)

		var booking models.Booking
		if err := r.bookingColl.FindOneAndUpdate(sc, bookingFilter, bookingUpdate, bookingOpts).Decode(&booking); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return ErrAlreadySettled
			}
			return fmt.Errorf("booking confirmation failed: %w", err)
		}

		// The availability check at booking time was advisory; the seat count
		// is only committed here. Guarding on $gte keeps it non-negative.
		seats := len(booking.Passengers)
		seatFilter := bson.M{"id": booking.FlightID, "seats_available": bson.M{"$gte": seats}}
		seatUpdate := bson.M{"$inc": bson.M{"seats_available": -seats}}
		result, err := r.flightColl.UpdateOne(sc, seatFilter, seatUpdate)
		if err != nil {
			return fmt.Errorf("seat decrement failed: %w", err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("flight %s has fewer than %d seats available", booking.FlightID, seats)
		}

		settled = payment
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return settled, nil
}

// SettleFailure finalizes a failed charge: payment initiated→failed and the
// booking is expired. Trusted internal settlement, so the booking write
// bypasses ownership guards; the pending filter just keeps it from touching
// a booking another path already moved on.
func (r *MongoPaymentRepo) SettleFailure(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var settled *models.Payment

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		payment, err := r.settlePayment(sc, paymentID, models.PaymentStatusInitiated, bson.M{
			"status": models.PaymentStatusFailed,
		}, metadata)
		if err != nil {
			return err
		}

		bookingFilter := bson.M{"id": payment.BookingID, "status": models.BookingStatusPending}
		bookingUpdate := bson.M{"$set": bson.M{
			"status":         models.BookingStatusExpired,
			"payment_status": models.BookingPaymentFailed,
			"updated_at":     now,
		}}
		if _, err := r.bookingColl.UpdateOne(sc, bookingFilter, bookingUpdate); err != nil {
			return fmt.Errorf("booking expiry failed: %w", err)
		}

		settled = payment
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return settled, nil
}

// SettleRefund finalizes a refund: payment success→refunded, booking
// cancelled/refunded, seats restored iff this booking had decremented them.
func (r *MongoPaymentRepo) SettleRefund(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	var settled *models.Payment

	txnFn := func(sc mongo.SessionContext) error {
		now := time.Now()
		payment, err := r.settlePayment(sc, paymentID, models.PaymentStatusSuccess, bson.M{
			"status": models.PaymentStatusRefunded,
		}, metadata)
		if err != nil {
			return err
		}

		bookingFilter := bson.M{"id": payment.BookingID}
		bookingUpdate := bson.M{"$set": bson.M{
			"status":            models.BookingStatusCancelled,
			"payment_status":    models.BookingPaymentRefunded,
			"seats_decremented": false,
			"updated_at":        now,
		}}
		bookingOpts := options.FindOneAndUpdate().SetReturnDocument(options.Before)

		var prior models.Booking
		if err := r.bookingColl.FindOneAndUpdate(sc, bookingFilter, bookingUpdate, bookingOpts).Decode(&prior); err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return fmt.Errorf("booking %s not found for refund", payment.BookingID)
			}
			return fmt.Errorf("booking cancellation failed: %w", err)
		}

		if prior.SeatsDecremented {
			seatUpdate := bson.M{"$inc": bson.M{"seats_available": len(prior.Passengers)}}
			if _, err := r.flightColl.UpdateOne(sc, bson.M{"id": prior.FlightID}, seatUpdate); err != nil {
				return fmt.Errorf("seat restore failed: %w", err)
			}
		}

		settled = payment
		return nil
	}

	if err := r.withTransaction(ctx, txnFn); err != nil {
		return nil, err
	}
	return settled, nil
}
