package delivery

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/platehub/backend/internal/domain/platform"
)

// SignPayload computes the lowercase hex HMAC-SHA256 digest of body keyed by
// secret. This is the signature every platform sends in its webhook header.
func SignPayload(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// verifySignature compares the presented signature against the expected
// digest for body. Comparison is constant time; a timing side-channel must
// not reveal how many leading characters matched.
func verifySignature(secret string, body []byte, signature string) bool {
	expected := SignPayload(secret, body)
	presented := strings.ToLower(strings.TrimSpace(signature))
	return hmac.Equal([]byte(expected), []byte(presented))
}

// validateWebhook runs the full webhook verification for one platform: the
// signature header must be present and must match the digest of the exact
// body bytes received.
func validateWebhook(code platform.Code, secret string, req *platform.WebhookRequest) error {
	signature := req.Header(code.SignatureHeader())
	if signature == "" {
		return platform.ErrMissingSignature
	}
	if !verifySignature(secret, req.Body, signature) {
		return platform.ErrInvalidSignature
	}
	return nil
}
