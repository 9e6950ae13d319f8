package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sneakerwears-be/internal/logger"

	"go.uber.org/zap"
)

// Mailer sends one HTML email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

const resendBaseURL = "https://api.resend.com"

type resendMailer struct {
	apiKey     string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewResendMailer(apiKey, from string) Mailer {
	if apiKey == "" {
		logger.L().Warn("Resend API key is empty")
	}

	return &resendMailer{
		apiKey:  apiKey,
		from:    from,
		baseURL: resendBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (m *resendMailer) Send(ctx context.Context, to, subject, html string) error {
	log := logger.L().With(
		zap.String("to", to),
		zap.String("subject", subject),
	)

	body := map[string]any{
		"from":    m.from,
		"to":      []string{to},
		"subject": subject,
		"html":    html,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.baseURL+"/emails", bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Error("Resend request failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Error("Resend returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return fmt.Errorf("resend error (%d): %s", resp.StatusCode, string(bodyBytes))
	}

	log.Info("Email sent")
	return nil
}
