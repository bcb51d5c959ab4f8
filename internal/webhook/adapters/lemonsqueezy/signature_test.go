package lemonsqueezy

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "lemon_secret"
	body := []byte(`{"meta":{"event_name":"order_created","custom_data":{"github_username":"octo-cat"}}}`)
	signature := sign(secret, body)

	assert.True(t, VerifySignature(body, signature, secret))
	assert.False(t, VerifySignature(body, signature, "other_secret"))
	assert.False(t, VerifySignature(body, strings.ToUpper(signature), secret))
}

func TestVerifySignatureRejectsFlippedBit(t *testing.T) {
	secret := "lemon_secret"
	body := []byte(`{"meta":{"event_name":"order_created"}}`)
	signature := sign(secret, body)

	for i := range body {
		flipped := bytes.Clone(body)
		flipped[i] ^= 0x01
		assert.False(t, VerifySignature(flipped, signature, secret), "byte %d", i)
	}
}

func TestVerifySignatureLengthMismatch(t *testing.T) {
	secret := "lemon_secret"
	body := []byte(`{}`)
	signature := sign(secret, body)

	assert.NotPanics(t, func() {
		assert.False(t, VerifySignature(body, signature[:len(signature)-1], secret))
		assert.False(t, VerifySignature(body, signature+"0", secret))
		assert.False(t, VerifySignature(body, "", secret))
	})
}

func TestVerifySignatureUsesRawBytes(t *testing.T) {
	secret := "lemon_secret"
	raw := []byte("{\n  \"meta\": {\"event_name\": \"order_created\"}\n}")
	signature := sign(secret, raw)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	reserialized, err := json.Marshal(decoded)
	require.NoError(t, err)
	require.NotEqual(t, raw, reserialized)

	assert.False(t, VerifySignature(reserialized, signature, secret))
	assert.True(t, VerifySignature(raw, signature, secret))
}
