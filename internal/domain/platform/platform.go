package platform

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Platform Errors
// ---------------------------------------------------------------------------

var (
	// ErrPlatformNotRegistered indicates the platform name has never been registered
	ErrPlatformNotRegistered = errors.New("platform: platform not registered")
	// ErrPlatformInactive indicates the platform is registered but deactivated
	ErrPlatformInactive = errors.New("platform: platform is inactive")
	// ErrPlatformUnsupported indicates no adapter exists for the platform name
	ErrPlatformUnsupported = errors.New("platform: unsupported platform")
	// ErrInvalidSignature indicates webhook signature verification failed
	ErrInvalidSignature = errors.New("platform: invalid webhook signature")
	// ErrMissingSignature indicates the webhook carried no signature header
	ErrMissingSignature = errors.New("platform: missing webhook signature")
	// ErrInvalidConfig indicates the platform configuration is incomplete
	ErrInvalidConfig = errors.New("platform: invalid platform configuration")
	// ErrInvalidPayload indicates the webhook body is not parseable JSON
	ErrInvalidPayload = errors.New("platform: invalid webhook payload")
	// ErrDuplicateOrder indicates the (platform, platformOrderID) pair was already stored
	ErrDuplicateOrder = errors.New("platform: order already received")
)

// UpstreamAPIError carries the HTTP status and response body returned by an
// upstream platform API. It wraps transport failures as well, with Status 0.
type UpstreamAPIError struct {
	Platform Code
	Status   int
	Body     string
	Err      error
}

// Error implements the error interface
func (e *UpstreamAPIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: upstream request failed: %v", e.Platform, e.Err)
	}
	return fmt.Sprintf("%s: upstream returned HTTP %d: %s", e.Platform, e.Status, e.Body)
}

// Unwrap exposes the underlying transport error, if any
func (e *UpstreamAPIError) Unwrap() error {
	return e.Err
}

// NewUpstreamAPIError creates an error for an upstream HTTP error response
func NewUpstreamAPIError(platform Code, status int, body string) *UpstreamAPIError {
	return &UpstreamAPIError{Platform: platform, Status: status, Body: body}
}

// WrapUpstreamError creates an error for a transport-level failure
func WrapUpstreamError(platform Code, err error) *UpstreamAPIError {
	return &UpstreamAPIError{Platform: platform, Err: err}
}

// ---------------------------------------------------------------------------
// Code identifies a delivery platform
// ---------------------------------------------------------------------------

// Code identifies a delivery platform
type Code string

const (
	// CodeGetir represents the Getir platform
	CodeGetir Code = "getir"
	// CodeTrendyol represents the Trendyol Yemek platform
	CodeTrendyol Code = "trendyol"
	// CodeYemeksepeti represents the Yemeksepeti platform
	CodeYemeksepeti Code = "yemeksepeti"
	// CodeMigros represents the Migros Yemek platform
	CodeMigros Code = "migros"
)

// IsValid returns true if the platform code is known
func (c Code) IsValid() bool {
	switch c {
	case CodeGetir, CodeTrendyol, CodeYemeksepeti, CodeMigros:
		return true
	default:
		return false
	}
}

// String returns the string representation of Code
func (c Code) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c Code) DisplayName() string {
	switch c {
	case CodeGetir:
		return "Getir"
	case CodeTrendyol:
		return "Trendyol Yemek"
	case CodeYemeksepeti:
		return "Yemeksepeti"
	case CodeMigros:
		return "Migros Yemek"
	default:
		return string(c)
	}
}

// SignatureHeader returns the HTTP header the platform uses to deliver its
// webhook HMAC signature.
func (c Code) SignatureHeader() string {
	switch c {
	case CodeGetir:
		return "X-Getir-Signature"
	case CodeTrendyol:
		return "X-Trendyol-Signature"
	case CodeYemeksepeti:
		return "X-Yemeksepeti-Signature"
	case CodeMigros:
		return "X-Migros-Signature"
	default:
		return ""
	}
}

// ---------------------------------------------------------------------------
// Configuration and State
// ---------------------------------------------------------------------------

// Config holds the credentials and endpoint for one platform. Immutable after
// registration except through explicit re-registration.
type Config struct {
	// Name is the platform code this configuration belongs to
	Name Code
	// BaseURL is the upstream API base URL
	BaseURL string
	// APIKey authenticates outbound API calls
	APIKey string
	// APISecret signs outbound API calls where the platform requires it
	APISecret string
	// WebhookSecret keys the inbound webhook HMAC verification
	WebhookSecret string
	// Enabled controls the initial active flag at registration
	Enabled bool
}

// Validate checks the configuration for completeness
func (c *Config) Validate() error {
	if !c.Name.IsValid() {
		return fmt.Errorf("%w: unknown platform %q", ErrInvalidConfig, c.Name)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if c.WebhookSecret == "" {
		return fmt.Errorf("%w: webhook secret is required", ErrInvalidConfig)
	}
	return nil
}

// State is the registry entry for one registered platform.
type State struct {
	// Config is the registered configuration
	Config Config
	// IsActive gates every hub operation on this platform
	IsActive bool
	// LastSync is the time of the last successful menu sync, nil if never
	LastSync *time.Time
	// LastHealth is the most recent health probe result, nil if never probed
	LastHealth *HealthStatus
}

// ---------------------------------------------------------------------------
// Value Objects
// ---------------------------------------------------------------------------

// WebhookRequest carries an inbound webhook exactly as received. Body must be
// the raw bytes from the wire; signature verification runs over these bytes,
// never over a re-serialized copy.
type WebhookRequest struct {
	// Headers holds the request headers, first value per key
	Headers map[string]string
	// Body is the raw request body
	Body []byte
}

// Header returns the named header value, case-insensitively matching the
// canonical form used by the platforms.
func (r *WebhookRequest) Header(name string) string {
	if v, ok := r.Headers[name]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// MenuSyncResult reports the outcome of pushing a menu upstream
type MenuSyncResult struct {
	// Platform is the platform the menu was pushed to
	Platform Code
	// TotalCount is the number of products in the pushed menu
	TotalCount int
	// SuccessCount is the number of products the upstream accepted
	SuccessCount int
	// FailedCount is the number of products the upstream rejected
	FailedCount int
	// FailedItems describes the rejected products
	FailedItems []SyncFailure
	// SyncedAt is when the sync completed
	SyncedAt time.Time
}

// SyncFailure describes one rejected product in a menu sync
type SyncFailure struct {
	// ProductID is the internal product identifier
	ProductID string
	// Message is the upstream rejection reason
	Message string
}

// UpstreamOrder is a thin view of an order as listed by an upstream polling
// endpoint. Used by order listing probes and health checks; full normalization
// happens in ConvertOrder from the raw webhook payload.
type UpstreamOrder struct {
	// ID is the order id on the platform
	ID string
	// Status is the platform-native status string
	Status string
	// Raw is the order object as returned upstream
	Raw []byte
}

// HealthState enumerates the outcome of a platform health probe
type HealthState string

const (
	// HealthStateHealthy indicates the probe succeeded
	HealthStateHealthy HealthState = "healthy"
	// HealthStateError indicates the probe failed
	HealthStateError HealthState = "error"
	// HealthStateInactive indicates the platform was deactivated at probe time
	HealthStateInactive HealthState = "inactive"
)

// HealthStatus is one platform's entry in a health sweep result
type HealthStatus struct {
	// Status is the probe outcome
	Status HealthState `json:"status"`
	// Message carries the failure detail when Status is error
	Message string `json:"message,omitempty"`
	// LastCheck is when the probe ran
	LastCheck time.Time `json:"lastCheck"`
}
