// File: database/repository/payment/paymentMongoCrud.go
package paymentRepo

import (
	"errors"
	"fmt"
	"time"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Create inserts a new payment document.
func (r *MongoPaymentRepo) Create(payment *models.Payment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	if payment.InitiatedAt.IsZero() {
		payment.InitiatedAt = time.Now()
	}

	_, err := r.coll.InsertOne(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *MongoPaymentRepo) findOne(filter bson.M) (*models.Payment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var payment models.Payment
	if err := r.coll.FindOne(ctx, filter).Decode(&payment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch payment: %w", err)
	}
	return &payment, nil
}

// GetByID retrieves a payment by its unique ID.
func (r *MongoPaymentRepo) GetByID(id string) (*models.Payment, error) {
	return r.findOne(bson.M{"id": id})
}

// GetByReference retrieves a payment by its client-generated reference.
func (r *MongoPaymentRepo) GetByReference(reference string) (*models.Payment, error) {
	return r.findOne(bson.M{"reference": reference})
}

// GetByBookingID retrieves the payment attached to a booking.
func (r *MongoPaymentRepo) GetByBookingID(bookingID string) (*models.Payment, error) {
	return r.findOne(bson.M{"booking_id": bookingID})
}
