package delivery

import (
	"errors"

	"github.com/platehub/backend/internal/domain/platform"
)

// TrendyolConfig holds configuration for the Trendyol Yemek API integration
type TrendyolConfig struct {
	// BaseURL is the Trendyol meal gateway base URL
	BaseURL string
	// APIKey is the basic-auth username
	APIKey string
	// APISecret is the basic-auth password
	APISecret string
	// WebhookSecret keys the webhook HMAC verification
	WebhookSecret string
	// SupplierID is the supplier identifier on Trendyol
	SupplierID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// TrendyolProductionAPIURL is the production API endpoint
const TrendyolProductionAPIURL = "https://api.trendyol.com/mealgw"

// Errors for Trendyol configuration
var (
	ErrTrendyolConfigMissingAPIKey        = errors.New("trendyol: API key is required")
	ErrTrendyolConfigMissingAPISecret     = errors.New("trendyol: API secret is required")
	ErrTrendyolConfigMissingWebhookSecret = errors.New("trendyol: webhook secret is required")
	ErrTrendyolConfigMissingSupplierID    = errors.New("trendyol: supplier ID is required")
)

// NewTrendyolConfig creates a new Trendyol configuration with defaults
func NewTrendyolConfig(apiKey, apiSecret, webhookSecret, supplierID string) *TrendyolConfig {
	return &TrendyolConfig{
		BaseURL:        TrendyolProductionAPIURL,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		WebhookSecret:  webhookSecret,
		SupplierID:     supplierID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Trendyol configuration
func (c *TrendyolConfig) Validate() error {
	if c.APIKey == "" {
		return ErrTrendyolConfigMissingAPIKey
	}
	if c.APISecret == "" {
		return ErrTrendyolConfigMissingAPISecret
	}
	if c.WebhookSecret == "" {
		return ErrTrendyolConfigMissingWebhookSecret
	}
	if c.SupplierID == "" {
		return ErrTrendyolConfigMissingSupplierID
	}
	if c.BaseURL == "" {
		c.BaseURL = TrendyolProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// PlatformConfig returns the registry-facing view of this configuration
func (c *TrendyolConfig) PlatformConfig(enabled bool) platform.Config {
	return platform.Config{
		Name:          platform.CodeTrendyol,
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		WebhookSecret: c.WebhookSecret,
		Enabled:       enabled,
	}
}
