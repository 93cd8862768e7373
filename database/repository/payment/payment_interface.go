package paymentRepo

import (
	"context"
	"errors"

	"skybook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrAlreadySettled is returned when a settlement matched no payment in the
// required prior state. A second success notification for an already-settled
// payment surfaces as this error and callers treat it as a no-op.
var ErrAlreadySettled = errors.New("payment not in a state permitting this settlement")

// PaymentRepository defines persistence operations for payments. Lookup
// methods return (nil, nil) when no document matches.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByID(id string) (*models.Payment, error)
	GetByReference(reference string) (*models.Payment, error)
	GetByBookingID(bookingID string) (*models.Payment, error)
	ListByUser(userID string) ([]models.Payment, error)
	List(filter bson.M, opts *options.FindOptions) ([]models.Payment, error)

	// SettleSuccess moves an initiated payment to success and, in the same
	// transaction, confirms the booking and decrements the flight's seats by
	// the passenger count. The seat decrement happens exactly once per
	// booking.
	SettleSuccess(ctx context.Context, paymentID, transactionID string, metadata map[string]interface{}) (*models.Payment, error)

	// SettleFailure moves an initiated payment to failed and expires the
	// booking. Seats were never decremented, so none are restored.
	SettleFailure(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error)

	// SettleRefund moves a successful payment to refunded, cancels the
	// booking and restores the seats taken at settlement.
	SettleRefund(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error)

	Stats() (*models.PaymentStats, []models.DailyRevenueStat, error)
}
