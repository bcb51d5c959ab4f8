package lemonsqueezy

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// VerifySignature reports whether signature is the lowercase hex HMAC-SHA256 of
// rawBody keyed with secret. rawBody must be the bytes exactly as received.
func VerifySignature(rawBody []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(rawBody)
	expected := []byte(hex.EncodeToString(mac.Sum(nil)))

	provided := []byte(signature)
	if len(provided) != len(expected) {
		return false
	}
	return subtle.ConstantTimeCompare(expected, provided) == 1
}
