package models

import "time"

// Payment statuses. initiated may move to success or failed; success may
// only move to refunded.
const (
	PaymentStatusInitiated = "initiated"
	PaymentStatusSuccess   = "success"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// PaymentProviderPaystack is the single supported gateway.
const PaymentProviderPaystack = "paystack"

// Supported currencies; NGN is the default.
const (
	CurrencyNGN = "NGN"
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
)

// Payment methods.
const (
	PaymentMethodCard         = "card"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodMobileMoney  = "mobile_money"
)

// Payment tracks a single payment attempt against a booking. Exactly one
// payment document exists per booking (unique index on booking_id).
type Payment struct {
	ID            string                 `bson:"id" json:"id"`
	UserID        string                 `bson:"user_id" json:"userId"`
	BookingID     string                 `bson:"booking_id" json:"bookingId"`
	Amount        float64                `bson:"amount" json:"amount"`
	Currency      string                 `bson:"currency" json:"currency"`
	Provider      string                 `bson:"provider" json:"provider"`
	Status        string                 `bson:"status" json:"status"`
	TransactionID string                 `bson:"transaction_id,omitempty" json:"transactionId,omitempty"` // set only on settlement
	Reference     string                 `bson:"reference" json:"reference"`                              // client-generated, immutable
	PaymentMethod string                 `bson:"payment_method" json:"paymentMethod"`
	Metadata      map[string]interface{} `bson:"metadata" json:"metadata"`
	InitiatedAt   time.Time              `bson:"initiated_at" json:"initiatedAt"`
	CompletedAt   *time.Time             `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
}

// PaymentStats is the aggregate summary over the payment collection.
type PaymentStats struct {
	TotalPayments      int64   `bson:"totalPayments" json:"totalPayments"`
	TotalRevenue       float64 `bson:"totalRevenue" json:"totalRevenue"`
	SuccessfulPayments int64   `bson:"successfulPayments" json:"successfulPayments"`
	FailedPayments     int64   `bson:"failedPayments" json:"failedPayments"`
	RefundedPayments   int64   `bson:"refundedPayments" json:"refundedPayments"`
	SuccessRate        float64 `bson:"successRate" json:"successRate"`
}

// DailyRevenueStat is one row of the trailing-week revenue breakdown.
type DailyRevenueStat struct {
	Date    string  `bson:"date" json:"date"` // YYYY-MM-DD
	Revenue float64 `bson:"revenue" json:"revenue"`
	Count   int64   `bson:"count" json:"count"`
}

// InitiatePaymentRequest is the payload for starting a payment.
type InitiatePaymentRequest struct {
	BookingID string  `json:"bookingId" binding:"required"`
	Email     string  `json:"email"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Currency  string  `json:"currency"`
}

// RefundPaymentRequest is the admin payload for refunding a payment.
type RefundPaymentRequest struct {
	PaymentID string `json:"paymentId" binding:"required"`
	Reason    string `json:"reason"`
}

// InitiatePaymentResponse mirrors the gateway checkout handoff.
type InitiatePaymentResponse struct {
	AuthorizationURL string   `json:"authorization_url"`
	AccessCode       string   `json:"access_code"`
	Reference        string   `json:"reference"`
	Payment          *Payment `json:"payment"`
}

// WebhookEvent is the gateway push notification envelope.
type WebhookEvent struct {
	Event string           `json:"event"`
	Data  WebhookEventData `json:"data"`
}

// WebhookEventData carries the charge fields the settlement path reads.
type WebhookEventData struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}
