package payment

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"context"
	"sneakerwears-be/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.paystack.co"

type paystackGateway struct {
	secretKey     string
	webhookSecret string
	baseURL       string
	httpClient    *http.Client
}

// ----------------- Constructor -----------------

func NewPaystackGateway(secretKey, webhookSecret string) Gateway {
	if secretKey == "" {
		logger.L().Warn("Paystack secret key is empty")
	}

	return &paystackGateway{
		secretKey:     secretKey,
		webhookSecret: webhookSecret,
		baseURL:       defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// paystackEnvelope is the common wrapper Paystack puts around responses.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ----------------- Initialize -----------------

func (g *paystackGateway) Initialize(ctx context.Context, params InitializeParams) (*InitResult, error) {
	log := logger.L().With(
		zap.String("reference", params.Reference),
		zap.Int64("amount", params.Amount),
	)

	jsonBody, err := json.Marshal(params)
	if err != nil {
		log.Error("Failed to marshal initialize request", zap.Error(err))
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/transaction/initialize", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	log.Info("Initializing payment transaction")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Paystack request failed", zap.Error(err))
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil && resp.StatusCode == http.StatusOK {
		log.Error("Failed decoding Paystack response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Paystack returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		msg := envelope.Message
		if msg == "" {
			msg = "failed to initialize payment"
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result InitResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		log.Error("Failed decoding initialize data", zap.Error(err))
		return nil, err
	}

	log.Info("Payment transaction initialized",
		zap.String("access_code", result.AccessCode),
	)

	return &result, nil
}

// ----------------- Verify -----------------

func (g *paystackGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	log := logger.L().With(zap.String("reference", reference))

	url := fmt.Sprintf("%s/transaction/verify/%s", g.baseURL, reference)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		log.Error("Failed building request", zap.Error(err))
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		log.Error("Request to Paystack failed", zap.Error(err))
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil && resp.StatusCode == http.StatusOK {
		log.Error("Failed decoding Paystack response", zap.Error(err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		log.Error("Paystack returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		msg := envelope.Message
		if msg == "" {
			msg = "failed to verify payment"
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	var result VerifyResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		log.Error("Failed decoding verify data", zap.Error(err))
		return nil, err
	}

	log.Info("Payment verified",
		zap.String("status", result.Status),
		zap.Int64("amount", result.Amount),
	)

	return &result, nil
}

// ----------------- Webhook signature -----------------

// VerifyWebhookSignature checks the HMAC-SHA512 hex digest of the raw body
// against the x-paystack-signature header value, in constant time.
func (g *paystackGateway) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(g.webhookSecret))
	mac.Write(rawBody)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}

// WebhookSecretConfigured reports whether signature verification is possible.
// An unset secret means the deployment has chosen to skip verification.
func (g *paystackGateway) WebhookSecretConfigured() bool {
	return g.webhookSecret != ""
}
