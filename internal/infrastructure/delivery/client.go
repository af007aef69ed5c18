package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/platehub/backend/internal/domain/platform"
)

const (
	// maxResponseSize limits upstream response bodies to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB
	// maxRetries bounds the retry loop for idempotent upstream calls
	maxRetries = 2
)

// client is the shared upstream HTTP transport used by every adapter. It
// speaks JSON, injects per-platform auth headers, and translates transport
// and HTTP failures into UpstreamAPIError values.
type client struct {
	platform   platform.Code
	baseURL    string
	httpClient *http.Client
	auth       func(*http.Request)
}

// newClient creates an upstream client for one platform. auth is invoked on
// every outgoing request to set the platform's authentication headers.
func newClient(code platform.Code, baseURL string, timeout time.Duration, auth func(*http.Request)) *client {
	return &client{
		platform: code,
		baseURL:  baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		auth: auth,
	}
}

// do performs one JSON request against the upstream API. A nil body sends no
// payload. Responses with status >= 400 become UpstreamAPIError carrying the
// upstream status and body.
func (c *client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", c.platform, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", c.platform, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.auth != nil {
		c.auth(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, platform.WrapUpstreamError(c.platform, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, platform.WrapUpstreamError(c.platform, err)
	}

	if resp.StatusCode >= 400 {
		return nil, platform.NewUpstreamAPIError(c.platform, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// doIdempotent performs a request with bounded exponential backoff. Only
// retryable upstream failures (transport errors, 5xx, 429) are retried;
// everything else returns immediately. Callers must only route idempotent
// operations through here.
func (c *client) doIdempotent(ctx context.Context, method, path string, body any) ([]byte, error) {
	var result []byte

	operation := func() error {
		respBody, err := c.do(ctx, method, path, body)
		if err != nil {
			if isRetryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		result = respBody
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return result, nil
}

// isRetryable reports whether an upstream failure is worth retrying.
// Signature and payload errors never reach here; this only sees transport
// and HTTP-level failures.
func isRetryable(err error) bool {
	var upstreamErr *platform.UpstreamAPIError
	if !errors.As(err, &upstreamErr) {
		return false
	}
	if upstreamErr.Err != nil {
		// Transport-level failure, the request may never have arrived
		return !errors.Is(upstreamErr.Err, context.Canceled) &&
			!errors.Is(upstreamErr.Err, context.DeadlineExceeded)
	}
	return upstreamErr.Status >= 500 || upstreamErr.Status == http.StatusTooManyRequests
}
