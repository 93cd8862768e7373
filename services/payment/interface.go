package payment

import (
	"context"
	"net/url"

	bookingRepo "skybook/database/repository/booking"
	paymentRepo "skybook/database/repository/payment"
	"skybook/models"

	"go.uber.org/zap"
)

// PaymentService exposes the payment lifecycle: initiation against the
// gateway, settlement by verification/webhook/refund, and queries.
type PaymentService interface {
	InitiatePayment(ctx context.Context, p models.Principal, req models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error)
	VerifyPayment(ctx context.Context, reference string) (*models.Payment, error)
	DummyVerifyPayment(ctx context.Context, reference, bookingID string) (*models.Payment, error)
	RefundPayment(ctx context.Context, req models.RefundPaymentRequest) (*models.Payment, error)
	HandleWebhookEvent(ctx context.Context, event models.WebhookEvent) error

	GetPayment(p models.Principal, paymentID string) (*models.Payment, error)
	MyPayments(p models.Principal) ([]models.Payment, error)
	ListPayments(query url.Values) ([]models.Payment, error)
	PaymentStats() (*models.PaymentStats, []models.DailyRevenueStat, error)
}

// DefaultPaymentService is the production implementation.
type DefaultPaymentService struct {
	Repo        paymentRepo.PaymentRepository
	BookingRepo bookingRepo.BookingRepository
	Gateway     Gateway
	Logger      *zap.Logger
	// FrontendURL is the origin the gateway redirects back to after checkout.
	FrontendURL string
}
