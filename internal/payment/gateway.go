package payment

import "context"

// Gateway is the stateless adapter over the external payment API.
type Gateway interface {
	Initialize(ctx context.Context, params InitializeParams) (*InitResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	// VerifyWebhookSignature reports whether the signature matches the raw
	// body. It returns false on mismatch rather than erroring; the caller
	// decides what an unset secret means.
	VerifyWebhookSignature(rawBody []byte, signature string) bool
	// WebhookSecretConfigured is false when the deployment has no shared
	// secret, in which case callers skip verification entirely.
	WebhookSecretConfigured() bool
}

type InitializeParams struct {
	Email       string         `json:"email"`
	Amount      int64          `json:"amount"` // smallest currency unit (kobo)
	Reference   string         `json:"reference"`
	CallbackURL string         `json:"callback_url,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type InitResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyResult struct {
	Status    string  `json:"status"` // "success", "abandoned", "failed", ...
	Reference string  `json:"reference"`
	Amount    int64   `json:"amount"`
	Currency  string  `json:"currency"`
	Customer  Customer `json:"customer"`
	PaidAt    *string `json:"paid_at"`
}

type Customer struct {
	Email        string `json:"email"`
	CustomerCode string `json:"customer_code"`
}

// StatusSuccess is the only gateway status that settles an order.
const StatusSuccess = "success"
