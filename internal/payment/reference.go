package payment

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// GenerateReference returns the externally visible payment reference, e.g.
// "SW-MB3K9XQ1-A7F2KX". It is generated before any gateway call and is the
// idempotency key for settlement.
func GenerateReference() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	random := make([]byte, 6)
	for i := range random {
		n, err := rand.Int(rand.Reader, big.NewInt(36))
		if err != nil {
			n = big.NewInt(time.Now().UnixNano() % 36)
		}
		random[i] = base36Chars[n.Int64()]
	}

	return strings.ToUpper("SW-" + timestamp + "-" + string(random))
}
