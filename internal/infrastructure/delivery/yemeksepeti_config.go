package delivery

import (
	"errors"

	"github.com/platehub/backend/internal/domain/platform"
)

// YemeksepetiConfig holds configuration for the Yemeksepeti API integration
type YemeksepetiConfig struct {
	// BaseURL is the Yemeksepeti integration API base URL
	BaseURL string
	// APIKey is the bearer token for API requests
	APIKey string
	// APISecret is reserved for platforms that pair a secret with the key
	APISecret string
	// WebhookSecret keys the webhook HMAC verification
	WebhookSecret string
	// VendorID is the restaurant's vendor identifier on Yemeksepeti
	VendorID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// YemeksepetiProductionAPIURL is the production API endpoint
const YemeksepetiProductionAPIURL = "https://integration.yemeksepeti.com/v2"

// Errors for Yemeksepeti configuration
var (
	ErrYemeksepetiConfigMissingAPIKey        = errors.New("yemeksepeti: API key is required")
	ErrYemeksepetiConfigMissingWebhookSecret = errors.New("yemeksepeti: webhook secret is required")
	ErrYemeksepetiConfigMissingVendorID      = errors.New("yemeksepeti: vendor ID is required")
)

// NewYemeksepetiConfig creates a new Yemeksepeti configuration with defaults
func NewYemeksepetiConfig(apiKey, webhookSecret, vendorID string) *YemeksepetiConfig {
	return &YemeksepetiConfig{
		BaseURL:        YemeksepetiProductionAPIURL,
		APIKey:         apiKey,
		WebhookSecret:  webhookSecret,
		VendorID:       vendorID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Yemeksepeti configuration
func (c *YemeksepetiConfig) Validate() error {
	if c.APIKey == "" {
		return ErrYemeksepetiConfigMissingAPIKey
	}
	if c.WebhookSecret == "" {
		return ErrYemeksepetiConfigMissingWebhookSecret
	}
	if c.VendorID == "" {
		return ErrYemeksepetiConfigMissingVendorID
	}
	if c.BaseURL == "" {
		c.BaseURL = YemeksepetiProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// PlatformConfig returns the registry-facing view of this configuration
func (c *YemeksepetiConfig) PlatformConfig(enabled bool) platform.Config {
	return platform.Config{
		Name:          platform.CodeYemeksepeti,
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		WebhookSecret: c.WebhookSecret,
		Enabled:       enabled,
	}
}
