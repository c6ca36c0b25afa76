package sofort

import (
	"crypto/sha256"
	"encoding/hex"
)

// CorrelationToken derives the verification hash embedded in the success URL.
// It is a pure function of its inputs (concatenated in order, no separator),
// so an inbound callback can be matched later without a lookup table. It binds
// a redirect to a payment; it does not authorize API access.
func CorrelationToken(orderNumber, paymentID, configKey string) string {
	sum := sha256.Sum256([]byte(orderNumber + paymentID + configKey))
	return hex.EncodeToString(sum[:])
}
