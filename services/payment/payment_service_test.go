package payment

import (
	"context"
	"strings"
	"testing"
	"time"

	paymentRepo "skybook/database/repository/payment"
	"skybook/models"
	"skybook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(payment *models.Payment) error {
	args := m.Called(payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(id string) (*models.Payment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByReference(reference string) (*models.Payment, error) {
	args := m.Called(reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetByBookingID(bookingID string) (*models.Payment, error) {
	args := m.Called(bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) ListByUser(userID string) ([]models.Payment, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(filter bson.M, opts *options.FindOptions) ([]models.Payment, error) {
	args := m.Called(filter, opts)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SettleSuccess(ctx context.Context, paymentID, transactionID string, metadata map[string]interface{}) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, transactionID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SettleFailure(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SettleRefund(ctx context.Context, paymentID string, metadata map[string]interface{}) (*models.Payment, error) {
	args := m.Called(ctx, paymentID, metadata)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Stats() (*models.PaymentStats, []models.DailyRevenueStat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.PaymentStats), args.Get(1).([]models.DailyRevenueStat), args.Error(2)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(booking *models.Booking) error {
	args := m.Called(booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(id string) (*models.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(userID string) ([]models.Booking, error) {
	args := m.Called(userID)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	args := m.Called(filter, opts)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActiveByFlight(flightID string) (int64, error) {
	args := m.Called(flightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ExpirePending(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CancelWithRestore(ctx context.Context, bookingID string) (*models.Booking, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) CancelAllForFlight(ctx context.Context, flightID string) (int64, error) {
	args := m.Called(ctx, flightID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) Stats() (*models.BookingStats, []models.MonthlyBookingStat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.BookingStats), args.Get(1).([]models.MonthlyBookingStat), args.Error(2)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*InitializeResponse), args.Error(1)
}

func (m *MockGateway) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VerifyResponse), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

func newService(payments *MockPaymentRepository, bookings *MockBookingRepository, gw *MockGateway) *DefaultPaymentService {
	return &DefaultPaymentService{
		Repo:        payments,
		BookingRepo: bookings,
		Gateway:     gw,
		Logger:      zap.NewNop(),
	}
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		ID:               "booking-1",
		UserID:           "user-1",
		FlightID:         "flight-1",
		Status:           models.BookingStatusPending,
		PaymentStatus:    models.BookingPaymentUnpaid,
		BookingReference: "AB12CD",
		Passengers: []models.Passenger{
			{Name: "Ada Obi", Email: "ada@example.com", Phone: "+2348000000000", SeatNumber: "12A"},
		},
	}
}

func initiatedPayment() *models.Payment {
	return &models.Payment{
		ID:          "payment-1",
		UserID:      "user-1",
		BookingID:   "booking-1",
		Amount:      250,
		Currency:    models.CurrencyNGN,
		Provider:    models.PaymentProviderPaystack,
		Status:      models.PaymentStatusInitiated,
		Reference:   "FLT1700000000000ABCDEFG",
		InitiatedAt: time.Now(),
	}
}

func TestInitiatePayment_CreatesPaymentAndOpensSession(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	bookings.On("GetByID", "booking-1").Return(pendingBooking(), nil).Once()
	payments.On("GetByBookingID", "booking-1").Return(nil, nil).Once()
	payments.On("Create", mock.AnythingOfType("*models.Payment")).Return(nil).Once()
	gw.On("Initialize", ctx, mock.AnythingOfType("payment.InitializeRequest")).
		Return(&InitializeResponse{AuthorizationURL: "https://checkout.test/abc", AccessCode: "abc"}, nil).Once()

	resp, err := service.InitiatePayment(ctx, models.Principal{ID: "user-1"}, models.InitiatePaymentRequest{
		BookingID: "booking-1",
		Amount:    250,
	})

	assert.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, "https://checkout.test/abc", resp.AuthorizationURL)
	assert.Equal(t, models.PaymentStatusInitiated, resp.Payment.Status)
	assert.Equal(t, models.CurrencyNGN, resp.Payment.Currency)
	assert.True(t, strings.HasPrefix(resp.Reference, "FLT"))

	payments.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestInitiatePayment_AdminMayNotPayForOthers(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	bookings.On("GetByID", "booking-1").Return(pendingBooking(), nil).Once()

	resp, err := service.InitiatePayment(context.Background(),
		models.Principal{ID: "admin-1", Role: models.RoleAdmin},
		models.InitiatePaymentRequest{BookingID: "booking-1", Amount: 250})

	assert.Nil(t, resp)
	var appErr *utils.AppError
	assert.ErrorAs(t, err, &appErr)
	assert.Equal(t, 403, appErr.Status)
	payments.AssertNotCalled(t, "Create", mock.Anything)
}

func TestInitiatePayment_NonPendingBookingRejected(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	booking := pendingBooking()
	booking.Status = models.BookingStatusConfirmed
	bookings.On("GetByID", "booking-1").Return(booking, nil).Once()

	resp, err := service.InitiatePayment(context.Background(),
		models.Principal{ID: "user-1"},
		models.InitiatePaymentRequest{BookingID: "booking-1", Amount: 250})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Booking is already confirmed")
}

func TestInitiatePayment_ReusesOpenAttempt(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	existing := initiatedPayment()
	bookings.On("GetByID", "booking-1").Return(pendingBooking(), nil).Once()
	payments.On("GetByBookingID", "booking-1").Return(existing, nil).Once()
	gw.On("Initialize", ctx, mock.MatchedBy(func(req InitializeRequest) bool {
		return req.Reference == existing.Reference
	})).Return(&InitializeResponse{AuthorizationURL: "https://checkout.test/abc"}, nil).Once()

	resp, err := service.InitiatePayment(ctx, models.Principal{ID: "user-1"},
		models.InitiatePaymentRequest{BookingID: "booking-1", Amount: 250})

	assert.NoError(t, err)
	assert.Equal(t, existing.Reference, resp.Reference)
	payments.AssertNotCalled(t, "Create", mock.Anything)
	gw.AssertExpectations(t)
}

func TestInitiatePayment_AlreadyPaidRejected(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	existing := initiatedPayment()
	existing.Status = models.PaymentStatusSuccess
	bookings.On("GetByID", "booking-1").Return(pendingBooking(), nil).Once()
	payments.On("GetByBookingID", "booking-1").Return(existing, nil).Once()

	resp, err := service.InitiatePayment(context.Background(), models.Principal{ID: "user-1"},
		models.InitiatePaymentRequest{BookingID: "booking-1", Amount: 250})

	assert.Nil(t, resp)
	assert.EqualError(t, err, "Booking has already been paid for")
	gw.AssertNotCalled(t, "Initialize", mock.Anything, mock.Anything)
}

func TestVerifyPayment_SuccessSettles(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	settled := initiatedPayment()
	settled.Status = models.PaymentStatusSuccess
	settled.TransactionID = "418214"

	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()
	gw.On("Verify", ctx, pay.Reference).Return(&VerifyResponse{
		Status:        GatewayStatusSuccess,
		TransactionID: "418214",
		Amount:        250,
	}, nil).Once()
	payments.On("SettleSuccess", ctx, "payment-1", "418214", mock.Anything).Return(settled, nil).Once()

	got, err := service.VerifyPayment(ctx, pay.Reference)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, got.Status)
	assert.Equal(t, "418214", got.TransactionID)
	payments.AssertExpectations(t)
}

func TestVerifyPayment_FailureSettlesFailed(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	failed := initiatedPayment()
	failed.Status = models.PaymentStatusFailed

	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()
	gw.On("Verify", ctx, pay.Reference).Return(&VerifyResponse{Status: "abandoned"}, nil).Once()
	payments.On("SettleFailure", ctx, "payment-1", mock.Anything).Return(failed, nil).Once()

	got, err := service.VerifyPayment(ctx, pay.Reference)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusFailed, got.Status)
	payments.AssertNotCalled(t, "SettleSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyPayment_AlreadySettledIsIdempotent(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	pay := initiatedPayment()
	pay.Status = models.PaymentStatusSuccess
	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()

	got, err := service.VerifyPayment(context.Background(), pay.Reference)

	assert.NoError(t, err)
	assert.Equal(t, pay, got)
	gw.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestVerifyPayment_SettleRaceReturnsCurrentState(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	current := initiatedPayment()
	current.Status = models.PaymentStatusSuccess

	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()
	gw.On("Verify", ctx, pay.Reference).Return(&VerifyResponse{Status: GatewayStatusSuccess, TransactionID: "1"}, nil).Once()
	payments.On("SettleSuccess", ctx, "payment-1", "1", mock.Anything).Return(nil, paymentRepo.ErrAlreadySettled).Once()
	payments.On("GetByID", "payment-1").Return(current, nil).Once()

	got, err := service.VerifyPayment(ctx, pay.Reference)

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, got.Status)
}

func TestDummyVerify_SettlesWithDummyTransaction(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	settled := initiatedPayment()
	settled.Status = models.PaymentStatusSuccess

	payments.On("GetByBookingID", "booking-1").Return(pay, nil).Once()
	payments.On("SettleSuccess", ctx, "payment-1", mock.MatchedBy(func(txn string) bool {
		return strings.HasPrefix(txn, "DUMMY_TXN_")
	}), mock.Anything).Return(settled, nil).Once()

	got, err := service.DummyVerifyPayment(ctx, "", "booking-1")

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusSuccess, got.Status)
	gw.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything)
}

func TestRefundPayment_OnlySuccessRefundable(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	pay := initiatedPayment()
	payments.On("GetByID", "payment-1").Return(pay, nil).Once()

	got, err := service.RefundPayment(context.Background(), models.RefundPaymentRequest{PaymentID: "payment-1"})

	assert.Nil(t, got)
	assert.EqualError(t, err, "Only successful payments can be refunded")
	gw.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything)
}

func TestRefundPayment_Success(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	pay.Status = models.PaymentStatusSuccess
	pay.TransactionID = "418214"
	refunded := initiatedPayment()
	refunded.Status = models.PaymentStatusRefunded

	payments.On("GetByID", "payment-1").Return(pay, nil).Once()
	gw.On("Refund", ctx, "418214").Return(nil).Once()
	payments.On("SettleRefund", ctx, "payment-1", mock.MatchedBy(func(meta map[string]interface{}) bool {
		return meta["refund_reason"] == "customer request"
	})).Return(refunded, nil).Once()

	got, err := service.RefundPayment(ctx, models.RefundPaymentRequest{
		PaymentID: "payment-1",
		Reason:    "customer request",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.PaymentStatusRefunded, got.Status)
	gw.AssertExpectations(t)
	payments.AssertExpectations(t)
}

func TestHandleWebhookEvent_ChargeSuccessSettles(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)
	ctx := context.Background()

	pay := initiatedPayment()
	settled := initiatedPayment()
	settled.Status = models.PaymentStatusSuccess

	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()
	payments.On("SettleSuccess", ctx, "payment-1", "418214", mock.Anything).Return(settled, nil).Once()

	err := service.HandleWebhookEvent(ctx, models.WebhookEvent{
		Event: "charge.success",
		Data:  models.WebhookEventData{ID: 418214, Reference: pay.Reference, Status: "success"},
	})

	assert.NoError(t, err)
	payments.AssertExpectations(t)
}

func TestHandleWebhookEvent_IgnoresOtherEvents(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	err := service.HandleWebhookEvent(context.Background(), models.WebhookEvent{Event: "transfer.success"})

	assert.NoError(t, err)
	payments.AssertNotCalled(t, "GetByReference", mock.Anything)
}

func TestHandleWebhookEvent_SecondDeliveryIsNoOp(t *testing.T) {
	payments := &MockPaymentRepository{}
	bookings := &MockBookingRepository{}
	gw := &MockGateway{}
	service := newService(payments, bookings, gw)

	pay := initiatedPayment()
	pay.Status = models.PaymentStatusSuccess
	payments.On("GetByReference", pay.Reference).Return(pay, nil).Once()

	err := service.HandleWebhookEvent(context.Background(), models.WebhookEvent{
		Event: "charge.success",
		Data:  models.WebhookEventData{ID: 418214, Reference: pay.Reference, Status: "success"},
	})

	assert.NoError(t, err)
	payments.AssertNotCalled(t, "SettleSuccess", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
