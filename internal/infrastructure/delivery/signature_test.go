package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platehub/backend/internal/domain/platform"
)

func TestSignPayload(t *testing.T) {
	body := []byte(`{"id":"abc123","total_amount":50}`)

	// Signing is deterministic over identical inputs
	sig1 := SignPayload("secret", body)
	sig2 := SignPayload("secret", body)
	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, 64) // SHA256 produces 64 hex characters

	// A different secret yields a different digest
	assert.NotEqual(t, sig1, SignPayload("other-secret", body))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"id":"abc123","total_amount":50}`)
	sig := SignPayload("secret", body)

	t.Run("valid signature accepted", func(t *testing.T) {
		assert.True(t, verifySignature("secret", body, sig))
	})

	t.Run("flipping one body byte rejects", func(t *testing.T) {
		tampered := make([]byte, len(body))
		copy(tampered, body)
		tampered[len(tampered)-2] ^= 0x01
		assert.False(t, verifySignature("secret", tampered, sig))
	})

	t.Run("wrong signature rejected", func(t *testing.T) {
		assert.False(t, verifySignature("secret", body, "deadbeef"))
	})

	t.Run("uppercase hex is normalized", func(t *testing.T) {
		upper := make([]byte, len(sig))
		for i := 0; i < len(sig); i++ {
			c := sig[i]
			if 'a' <= c && c <= 'f' {
				c -= 'a' - 'A'
			}
			upper[i] = c
		}
		assert.True(t, verifySignature("secret", body, string(upper)))
	})
}

func TestValidateWebhook(t *testing.T) {
	body := []byte(`{"id":"abc123"}`)

	t.Run("accepts correctly signed request", func(t *testing.T) {
		req := &platform.WebhookRequest{
			Headers: map[string]string{"X-Getir-Signature": SignPayload("secret", body)},
			Body:    body,
		}
		require.NoError(t, validateWebhook(platform.CodeGetir, "secret", req))
	})

	t.Run("missing header rejects", func(t *testing.T) {
		req := &platform.WebhookRequest{Headers: map[string]string{}, Body: body}
		err := validateWebhook(platform.CodeGetir, "secret", req)
		assert.ErrorIs(t, err, platform.ErrMissingSignature)
	})

	t.Run("bad signature rejects", func(t *testing.T) {
		req := &platform.WebhookRequest{
			Headers: map[string]string{"X-Getir-Signature": "deadbeef"},
			Body:    body,
		}
		err := validateWebhook(platform.CodeGetir, "secret", req)
		assert.ErrorIs(t, err, platform.ErrInvalidSignature)
	})

	t.Run("signature from another platform header rejects", func(t *testing.T) {
		req := &platform.WebhookRequest{
			Headers: map[string]string{"X-Trendyol-Signature": SignPayload("secret", body)},
			Body:    body,
		}
		err := validateWebhook(platform.CodeGetir, "secret", req)
		assert.ErrorIs(t, err, platform.ErrMissingSignature)
	})
}
