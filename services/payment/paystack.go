package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"skybook/config"
)

const defaultPaystackBaseURL = "https://api.paystack.co"

// PaystackGateway talks to the Paystack REST API.
type PaystackGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewPaystackGateway builds a gateway from the loaded configuration.
func NewPaystackGateway(cfg config.Config) *PaystackGateway {
	base := cfg.PaystackBaseURL
	if base == "" {
		base = defaultPaystackBaseURL
	}
	return &PaystackGateway{
		secretKey: cfg.PaystackSecretKey,
		baseURL:   base,
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// toSubunit converts a major-unit amount to the provider's integer
// subunit (kobo for NGN, cents for USD).
func toSubunit(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (g *PaystackGateway) do(ctx context.Context, method, path string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env paystackEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("paystack returned malformed response: %w", err)
	}
	if resp.StatusCode >= 400 || !env.Status {
		return nil, fmt.Errorf("paystack error: %s", env.Message)
	}
	return env.Data, nil
}

func (g *PaystackGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body := map[string]interface{}{
		"email":     req.Email,
		"amount":    toSubunit(req.Amount),
		"currency":  req.Currency,
		"reference": req.Reference,
	}
	if req.CallbackURL != "" {
		body["callback_url"] = req.CallbackURL
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	data, err := g.do(ctx, http.MethodPost, "/transaction/initialize", body)
	if err != nil {
		return nil, err
	}

	var out struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &InitializeResponse{
		AuthorizationURL: out.AuthorizationURL,
		AccessCode:       out.AccessCode,
		Reference:        out.Reference,
	}, nil
}

func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*VerifyResponse, error) {
	data, err := g.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		ID              int64   `json:"id"`
		Status          string  `json:"status"`
		Amount          int64   `json:"amount"`
		Currency        string  `json:"currency"`
		Channel         string  `json:"channel"`
		PaidAt          string  `json:"paid_at"`
		GatewayResponse string  `json:"gateway_response"`
		Fees            float64 `json:"fees"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &VerifyResponse{
		Status:        out.Status,
		TransactionID: fmt.Sprintf("%d", out.ID),
		Amount:        float64(out.Amount) / 100,
		Currency:      out.Currency,
		Channel:       out.Channel,
		PaidAt:        out.PaidAt,
		GatewayResp:   out.GatewayResponse,
	}, nil
}

func (g *PaystackGateway) Refund(ctx context.Context, transactionID string) error {
	_, err := g.do(ctx, http.MethodPost, "/refund", map[string]interface{}{
		"transaction": transactionID,
	})
	return err
}
