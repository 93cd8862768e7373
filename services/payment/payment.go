package payment

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	svcAuth "skybook/services/auth"

	"skybook/models"
	"skybook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// newPaymentReference returns a unique client-side reference in the
// form FLT<millis><7 random chars>.
func newPaymentReference() string {
	suffix := make([]byte, 7)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceCharset))))
		if err != nil {
			suffix[i] = referenceCharset[0]
			continue
		}
		suffix[i] = referenceCharset[n.Int64()]
	}
	return fmt.Sprintf("FLT%d%s", time.Now().UnixMilli(), suffix)
}

func (s *DefaultPaymentService) InitiatePayment(ctx context.Context, p models.Principal, req models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	booking, err := s.BookingRepo.GetByID(req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFoundError("Booking not found")
	}
	if err := svcAuth.Authorize(p, booking.UserID, svcAuth.ActionPayBooking); err != nil {
		return nil, err
	}
	if booking.Status != models.BookingStatusPending {
		return nil, utils.NewConflictError(fmt.Sprintf("Booking is already %s", booking.Status))
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = models.CurrencyNGN
	}
	switch currency {
	case models.CurrencyNGN, models.CurrencyUSD, models.CurrencyEUR, models.CurrencyGBP:
	default:
		return nil, utils.NewValidationError("Unsupported currency: " + currency)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && len(booking.Passengers) > 0 {
		email = booking.Passengers[0].Email
	}
	if email == "" {
		return nil, utils.NewValidationError("An email address is required to initiate payment")
	}

	existing, err := s.Repo.GetByBookingID(booking.ID)
	if err != nil {
		return nil, err
	}

	pay := existing
	switch {
	case existing == nil:
		pay = &models.Payment{
			ID:            uuid.NewString(),
			UserID:        booking.UserID,
			BookingID:     booking.ID,
			Amount:        req.Amount,
			Currency:      currency,
			Provider:      models.PaymentProviderPaystack,
			Status:        models.PaymentStatusInitiated,
			Reference:     newPaymentReference(),
			PaymentMethod: models.PaymentMethodCard,
			Metadata:      map[string]interface{}{},
			InitiatedAt:   time.Now().UTC(),
		}
		if err := s.Repo.Create(pay); err != nil {
			return nil, err
		}
	case existing.Status == models.PaymentStatusSuccess:
		return nil, utils.NewConflictError("Booking has already been paid for")
	case existing.Status == models.PaymentStatusInitiated:
		// Re-use the open attempt; the gateway session is re-opened
		// against the same reference.
	default:
		return nil, utils.NewConflictError(fmt.Sprintf("Payment is already %s", existing.Status))
	}

	callback := ""
	if s.FrontendURL != "" {
		callback = s.FrontendURL + "/payments/callback"
	}
	session, err := s.Gateway.Initialize(ctx, InitializeRequest{
		Email:       email,
		Amount:      pay.Amount,
		Currency:    pay.Currency,
		Reference:   pay.Reference,
		CallbackURL: callback,
		Metadata: map[string]interface{}{
			"booking_id":        booking.ID,
			"booking_reference": booking.BookingReference,
		},
	})
	if err != nil {
		s.Logger.Error("gateway initialize failed",
			zap.String("bookingID", booking.ID),
			zap.String("reference", pay.Reference),
			zap.Error(err))
		return nil, utils.NewValidationError("Payment initialization failed")
	}

	return &models.InitiatePaymentResponse{
		AuthorizationURL: session.AuthorizationURL,
		AccessCode:       session.AccessCode,
		Reference:        pay.Reference,
		Payment:          pay,
	}, nil
}

func (s *DefaultPaymentService) GetPayment(p models.Principal, paymentID string) (*models.Payment, error) {
	pay, err := s.Repo.GetByID(paymentID)
	if err != nil {
		return nil, err
	}
	if pay == nil {
		return nil, utils.NewNotFoundError("Payment not found")
	}
	if err := svcAuth.Authorize(p, pay.UserID, svcAuth.ActionViewPayment); err != nil {
		return nil, err
	}
	return pay, nil
}

func (s *DefaultPaymentService) MyPayments(p models.Principal) ([]models.Payment, error) {
	return s.Repo.ListByUser(p.ID)
}

func (s *DefaultPaymentService) ListPayments(query url.Values) ([]models.Payment, error) {
	features := utils.ParseQueryFeatures(query)
	return s.Repo.List(features.Filter, features.Opts)
}

func (s *DefaultPaymentService) PaymentStats() (*models.PaymentStats, []models.DailyRevenueStat, error) {
	return s.Repo.Stats()
}
