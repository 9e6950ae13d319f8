package payment

import "fmt"

// GatewayError carries the gateway's own message for a failed call.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("payment gateway error (%d): %s", e.StatusCode, e.Message)
	}
	return "payment gateway error: " + e.Message
}
