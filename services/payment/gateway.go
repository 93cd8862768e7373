package payment

import "context"

// Gateway abstracts the external payment provider so the settlement
// logic can be exercised without network calls.
type Gateway interface {
	// Initialize opens a checkout session and returns the hosted
	// authorization URL the customer is redirected to.
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResponse, error)
	// Verify fetches the authoritative state of a transaction by reference.
	Verify(ctx context.Context, reference string) (*VerifyResponse, error)
	// Refund requests a refund for a settled transaction.
	Refund(ctx context.Context, transactionID string) error
}

// InitializeRequest carries the fields the provider needs to open a
// checkout session. Amount is in the major currency unit.
type InitializeRequest struct {
	Email       string
	Amount      float64
	Currency    string
	Reference   string
	CallbackURL string
	Metadata    map[string]interface{}
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResponse is the provider's authoritative view of a transaction.
type VerifyResponse struct {
	Status        string
	TransactionID string
	Amount        float64
	Currency      string
	Channel       string
	PaidAt        string
	GatewayResp   string
}

// GatewayStatusSuccess is the provider status that settles a payment.
const GatewayStatusSuccess = "success"
