package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ComputeOrderSignature returns the hex-encoded HMAC-SHA256 of
// "<orderID>|<paymentID>" under the gateway key secret. This mirrors the
// signature the payment gateway hands to the client after a successful
// checkout, and is what /verify recomputes server-side.
func ComputeOrderSignature(keySecret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyOrderSignature recomputes the expected signature and compares it in
// constant time against the supplied one.
func VerifyOrderSignature(keySecret, orderID, paymentID, signature string) error {
	if keySecret == "" {
		return errors.New("signature key secret is not configured")
	}
	expected := ComputeOrderSignature(keySecret, orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return errors.New("signature mismatch")
	}
	return nil
}
