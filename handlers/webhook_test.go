package handlers

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"skybook/config"
	"skybook/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPaymentService is a mock implementation of payment.PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) InitiatePayment(ctx context.Context, p models.Principal, req models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error) {
	args := m.Called(ctx, p, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InitiatePaymentResponse), args.Error(1)
}

func (m *MockPaymentService) VerifyPayment(ctx context.Context, reference string) (*models.Payment, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) DummyVerifyPayment(ctx context.Context, reference, bookingID string) (*models.Payment, error) {
	args := m.Called(ctx, reference, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) RefundPayment(ctx context.Context, req models.RefundPaymentRequest) (*models.Payment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) HandleWebhookEvent(ctx context.Context, event models.WebhookEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPaymentService) GetPayment(p models.Principal, paymentID string) (*models.Payment, error) {
	args := m.Called(p, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockPaymentService) MyPayments(p models.Principal) ([]models.Payment, error) {
	args := m.Called(p)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentService) ListPayments(query url.Values) ([]models.Payment, error) {
	args := m.Called(query)
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentService) PaymentStats() (*models.PaymentStats, []models.DailyRevenueStat, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.PaymentStats), args.Get(1).([]models.DailyRevenueStat), args.Error(2)
}

func signBody(body []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func webhookBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.WebhookEvent{
		Event: "charge.success",
		Data:  models.WebhookEventData{ID: 418214, Reference: "FLT1700000000000ABCDEFG", Status: "success"},
	})
	assert.NoError(t, err)
	return body
}

func TestPaystackWebhook_ValidSignature(t *testing.T) {
	config.AppConfig.PaystackSecretKey = "sk_test_secret"
	mockService := &MockPaymentService{}
	handler := NewWebhookHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := webhookBody(t)
	c.Request = httptest.NewRequest("POST", "/payments/webhook/paystack", bytes.NewReader(body))
	c.Request.Header.Set("x-paystack-signature", signBody(body, "sk_test_secret"))

	mockService.On("HandleWebhookEvent", mock.Anything, mock.MatchedBy(func(event models.WebhookEvent) bool {
		return event.Event == "charge.success" && event.Data.Reference == "FLT1700000000000ABCDEFG"
	})).Return(nil).Once()

	handler.PaystackWebhookHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
	mockService.AssertExpectations(t)
}

func TestPaystackWebhook_InvalidSignatureRejected(t *testing.T) {
	config.AppConfig.PaystackSecretKey = "sk_test_secret"
	mockService := &MockPaymentService{}
	handler := NewWebhookHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := webhookBody(t)
	c.Request = httptest.NewRequest("POST", "/payments/webhook/paystack", bytes.NewReader(body))
	c.Request.Header.Set("x-paystack-signature", signBody(body, "wrong_secret"))

	handler.PaystackWebhookHandler(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func TestPaystackWebhook_MissingSignatureRejected(t *testing.T) {
	config.AppConfig.PaystackSecretKey = "sk_test_secret"
	mockService := &MockPaymentService{}
	handler := NewWebhookHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := webhookBody(t)
	c.Request = httptest.NewRequest("POST", "/payments/webhook/paystack", bytes.NewReader(body))

	handler.PaystackWebhookHandler(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "HandleWebhookEvent", mock.Anything, mock.Anything)
}

func TestPaystackWebhook_AcknowledgesProcessingFailures(t *testing.T) {
	config.AppConfig.PaystackSecretKey = "sk_test_secret"
	mockService := &MockPaymentService{}
	handler := NewWebhookHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body := webhookBody(t)
	c.Request = httptest.NewRequest("POST", "/payments/webhook/paystack", bytes.NewReader(body))
	c.Request.Header.Set("x-paystack-signature", signBody(body, "sk_test_secret"))

	mockService.On("HandleWebhookEvent", mock.Anything, mock.Anything).
		Return(assert.AnError).Once()

	handler.PaystackWebhookHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
}
