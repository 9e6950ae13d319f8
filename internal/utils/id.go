package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const base36Max = int64(36 * 36 * 36 * 36 * 36 * 36 * 36) // 7 base36 digits

// GenerateID returns a short, unique, prefixed identifier such as
// "order_m1x9ab3k2f8zq". Collision resistance comes from the millisecond
// timestamp plus 7 base36 digits of cryptographic randomness.
func GenerateID(prefix string) string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)

	n, err := rand.Int(rand.Reader, big.NewInt(base36Max))
	if err != nil {
		// fallback: time-based entropy
		n = big.NewInt(time.Now().UnixNano() % base36Max)
	}
	random := fmt.Sprintf("%07s", strconv.FormatInt(n.Int64(), 36))

	if prefix == "" {
		return timestamp + random
	}
	return prefix + "_" + timestamp + random
}
