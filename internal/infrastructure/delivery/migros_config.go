package delivery

import (
	"errors"

	"github.com/platehub/backend/internal/domain/platform"
)

// MigrosConfig holds configuration for the Migros Yemek API integration
type MigrosConfig struct {
	// BaseURL is the Migros API base URL
	BaseURL string
	// APIKey authenticates API requests
	APIKey string
	// APISecret is the request secret paired with the key
	APISecret string
	// WebhookSecret keys the webhook HMAC verification
	WebhookSecret string
	// StoreID is the restaurant's store identifier on Migros
	StoreID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// MigrosProductionAPIURL is the production API endpoint
const MigrosProductionAPIURL = "https://api.migros.com.tr/v1"

// Errors for Migros configuration
var (
	ErrMigrosConfigMissingAPIKey        = errors.New("migros: API key is required")
	ErrMigrosConfigMissingWebhookSecret = errors.New("migros: webhook secret is required")
	ErrMigrosConfigMissingStoreID       = errors.New("migros: store ID is required")
)

// NewMigrosConfig creates a new Migros configuration with defaults
func NewMigrosConfig(apiKey, apiSecret, webhookSecret, storeID string) *MigrosConfig {
	return &MigrosConfig{
		BaseURL:        MigrosProductionAPIURL,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		WebhookSecret:  webhookSecret,
		StoreID:        storeID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Migros configuration
func (c *MigrosConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMigrosConfigMissingAPIKey
	}
	if c.WebhookSecret == "" {
		return ErrMigrosConfigMissingWebhookSecret
	}
	if c.StoreID == "" {
		return ErrMigrosConfigMissingStoreID
	}
	if c.BaseURL == "" {
		c.BaseURL = MigrosProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// PlatformConfig returns the registry-facing view of this configuration
func (c *MigrosConfig) PlatformConfig(enabled bool) platform.Config {
	return platform.Config{
		Name:          platform.CodeMigros,
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		WebhookSecret: c.WebhookSecret,
		Enabled:       enabled,
	}
}
