package models

import (
	"crypto/rand"
	"time"
)

// Booking statuses. pending may move to confirmed, cancelled or expired;
// confirmed may only move to cancelled; cancelled and expired are terminal.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusExpired   = "expired"
)

// Payment statuses carried on a booking.
const (
	BookingPaymentUnpaid   = "unpaid"
	BookingPaymentPaid     = "paid"
	BookingPaymentRefunded = "refunded"
	BookingPaymentFailed   = "failed"
)

// BookingHoldDuration is how long an unpaid booking is held before the
// expiry sweep claims it.
const BookingHoldDuration = 30 * time.Minute

// Passenger is embedded in a booking.
type Passenger struct {
	Name       string `bson:"name" json:"name" binding:"required"`
	Email      string `bson:"email" json:"email" binding:"required,email"`
	Phone      string `bson:"phone" json:"phone" binding:"required"`
	SeatNumber string `bson:"seat_number" json:"seatNumber" binding:"required"` // stored uppercase
}

// Booking ties a user to a flight with an embedded passenger list.
type Booking struct {
	ID               string      `bson:"id" json:"id"`
	UserID           string      `bson:"user_id" json:"userId"`
	FlightID         string      `bson:"flight_id" json:"flightId"`
	Passengers       []Passenger `bson:"passengers" json:"passengers"`
	TotalAmount      float64     `bson:"total_amount" json:"totalAmount"`
	Status           string      `bson:"status" json:"status"`
	PaymentStatus    string      `bson:"payment_status" json:"paymentStatus"`
	SeatNumber       string      `bson:"seat_number" json:"seatNumber"` // stored uppercase
	BookingReference string      `bson:"booking_reference" json:"bookingReference"`
	// SeatsDecremented records whether this booking has taken seats from its
	// flight. Settlement sets it, restoration clears it; the pair can never
	// double-apply for the same transition.
	SeatsDecremented bool      `bson:"seats_decremented" json:"-"`
	ExpiresAt        time.Time `bson:"expires_at" json:"expiresAt"`
	CreatedAt        time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTerminal reports whether the booking can no longer transition.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusCancelled || b.Status == BookingStatusExpired
}

const referenceChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBookingReference generates the human-shareable 6-character uppercase
// alphanumeric code. The 36^6 space makes collisions negligible; the unique
// index is the backstop.
func NewBookingReference() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand never fails on supported platforms
	}
	for i, b := range buf {
		buf[i] = referenceChars[int(b)%len(referenceChars)]
	}
	return string(buf)
}

// BookingStats is the aggregate summary over the booking collection.
type BookingStats struct {
	TotalBookings     int64   `bson:"totalBookings" json:"totalBookings"`
	TotalRevenue      float64 `bson:"totalRevenue" json:"totalRevenue"`
	AvgBookingValue   float64 `bson:"avgBookingValue" json:"avgBookingValue"`
	PendingBookings   int64   `bson:"pendingBookings" json:"pendingBookings"`
	ConfirmedBookings int64   `bson:"confirmedBookings" json:"confirmedBookings"`
	CancelledBookings int64   `bson:"cancelledBookings" json:"cancelledBookings"`
}

// MonthlyBookingStat is one row of the per-calendar-month breakdown.
type MonthlyBookingStat struct {
	Month   int     `bson:"month" json:"month"`
	Count   int64   `bson:"count" json:"count"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	FlightID   string      `json:"flightId" binding:"required"`
	Passengers []Passenger `json:"passengers" binding:"required,min=1,dive"`
	SeatNumber string      `json:"seatNumber" binding:"required"`
}
