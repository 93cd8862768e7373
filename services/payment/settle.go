package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	paymentRepo "skybook/database/repository/payment"
	"skybook/models"
	"skybook/utils"

	"go.uber.org/zap"
)

// VerifyPayment asks the gateway for the authoritative transaction state
// and settles the payment accordingly. Verifying an already-settled
// payment returns the current record unchanged.
func (s *DefaultPaymentService) VerifyPayment(ctx context.Context, reference string) (*models.Payment, error) {
	pay, err := s.Repo.GetByReference(reference)
	if err != nil {
		return nil, err
	}
	if pay == nil {
		return nil, utils.NewNotFoundError("Payment not found")
	}
	if pay.Status != models.PaymentStatusInitiated {
		return pay, nil
	}

	result, err := s.Gateway.Verify(ctx, reference)
	if err != nil {
		s.Logger.Error("gateway verify failed",
			zap.String("reference", reference),
			zap.Error(err))
		return nil, utils.NewValidationError("Payment verification failed")
	}

	meta := map[string]interface{}{
		"channel":          result.Channel,
		"gateway_response": result.GatewayResp,
		"paid_at":          result.PaidAt,
	}

	if result.Status == GatewayStatusSuccess {
		settled, err := s.Repo.SettleSuccess(ctx, pay.ID, result.TransactionID, meta)
		if err != nil {
			if errors.Is(err, paymentRepo.ErrAlreadySettled) {
				return s.Repo.GetByID(pay.ID)
			}
			return nil, err
		}
		s.Logger.Info("payment settled",
			zap.String("paymentID", settled.ID),
			zap.String("bookingID", settled.BookingID),
			zap.String("reference", reference))
		return settled, nil
	}

	settled, err := s.Repo.SettleFailure(ctx, pay.ID, meta)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return s.Repo.GetByID(pay.ID)
		}
		return nil, err
	}
	s.Logger.Info("payment marked failed",
		zap.String("paymentID", settled.ID),
		zap.String("reference", reference),
		zap.String("gatewayStatus", result.Status))
	return settled, nil
}

// DummyVerifyPayment settles a payment as successful without contacting
// the gateway. It exists for local development and demos only.
func (s *DefaultPaymentService) DummyVerifyPayment(ctx context.Context, reference, bookingID string) (*models.Payment, error) {
	var pay *models.Payment
	var err error
	switch {
	case reference != "":
		pay, err = s.Repo.GetByReference(reference)
	case bookingID != "":
		pay, err = s.Repo.GetByBookingID(bookingID)
	default:
		return nil, utils.NewValidationError("Provide a payment reference or a booking id")
	}
	if err != nil {
		return nil, err
	}
	if pay == nil {
		return nil, utils.NewNotFoundError("Payment not found")
	}
	if pay.Status != models.PaymentStatusInitiated {
		return pay, nil
	}

	txnID := fmt.Sprintf("DUMMY_TXN_%d", time.Now().UnixMilli())
	settled, err := s.Repo.SettleSuccess(ctx, pay.ID, txnID, map[string]interface{}{
		"channel":          "dummy",
		"gateway_response": "Approved (dummy)",
	})
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return s.Repo.GetByID(pay.ID)
		}
		return nil, err
	}
	s.Logger.Info("payment settled via dummy verify",
		zap.String("paymentID", settled.ID),
		zap.String("bookingID", settled.BookingID))
	return settled, nil
}

// RefundPayment refunds a successful payment at the gateway, then
// cancels the booking and restores its seats.
func (s *DefaultPaymentService) RefundPayment(ctx context.Context, req models.RefundPaymentRequest) (*models.Payment, error) {
	pay, err := s.Repo.GetByID(req.PaymentID)
	if err != nil {
		return nil, err
	}
	if pay == nil {
		return nil, utils.NewNotFoundError("Payment not found")
	}
	if pay.Status != models.PaymentStatusSuccess {
		return nil, utils.NewConflictError("Only successful payments can be refunded")
	}

	if err := s.Gateway.Refund(ctx, pay.TransactionID); err != nil {
		s.Logger.Error("gateway refund failed",
			zap.String("paymentID", pay.ID),
			zap.String("transactionID", pay.TransactionID),
			zap.Error(err))
		return nil, utils.NewValidationError("Refund request failed")
	}

	meta := map[string]interface{}{
		"refund_requested_at": time.Now().UTC().Format(time.RFC3339),
	}
	if req.Reason != "" {
		meta["refund_reason"] = req.Reason
	}

	refunded, err := s.Repo.SettleRefund(ctx, pay.ID, meta)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return s.Repo.GetByID(pay.ID)
		}
		return nil, err
	}
	s.Logger.Info("payment refunded",
		zap.String("paymentID", refunded.ID),
		zap.String("bookingID", refunded.BookingID))
	return refunded, nil
}

// HandleWebhookEvent settles payments pushed by the gateway. Events for
// unknown references or already-settled payments are acknowledged
// without effect so the gateway stops retrying.
func (s *DefaultPaymentService) HandleWebhookEvent(ctx context.Context, event models.WebhookEvent) error {
	if event.Event != "charge.success" {
		s.Logger.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}

	pay, err := s.Repo.GetByReference(event.Data.Reference)
	if err != nil {
		return err
	}
	if pay == nil {
		s.Logger.Warn("webhook for unknown payment reference",
			zap.String("reference", event.Data.Reference))
		return nil
	}
	if pay.Status != models.PaymentStatusInitiated {
		return nil
	}

	txnID := fmt.Sprintf("%d", event.Data.ID)
	_, err = s.Repo.SettleSuccess(ctx, pay.ID, txnID, map[string]interface{}{
		"settled_via": "webhook",
	})
	if err != nil {
		if errors.Is(err, paymentRepo.ErrAlreadySettled) {
			return nil
		}
		return err
	}
	s.Logger.Info("payment settled via webhook",
		zap.String("paymentID", pay.ID),
		zap.String("reference", event.Data.Reference))
	return nil
}
