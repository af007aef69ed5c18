package delivery

import (
	"errors"

	"github.com/platehub/backend/internal/domain/platform"
)

// GetirConfig holds configuration for the Getir Food API integration
type GetirConfig struct {
	// BaseURL is the Getir Food API base URL
	BaseURL string
	// APIKey authenticates API requests
	APIKey string
	// APISecret is the request secret paired with the key
	APISecret string
	// WebhookSecret keys the webhook HMAC verification
	WebhookSecret string
	// RestaurantID is the restaurant identifier on Getir
	RestaurantID string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// GetirProductionAPIURL is the production API endpoint
const GetirProductionAPIURL = "https://food-api.getir.com/v1"

// Errors for Getir configuration
var (
	ErrGetirConfigMissingAPIKey        = errors.New("getir: API key is required")
	ErrGetirConfigMissingWebhookSecret = errors.New("getir: webhook secret is required")
	ErrGetirConfigMissingRestaurantID  = errors.New("getir: restaurant ID is required")
)

// NewGetirConfig creates a new Getir configuration with defaults
func NewGetirConfig(apiKey, apiSecret, webhookSecret, restaurantID string) *GetirConfig {
	return &GetirConfig{
		BaseURL:        GetirProductionAPIURL,
		APIKey:         apiKey,
		APISecret:      apiSecret,
		WebhookSecret:  webhookSecret,
		RestaurantID:   restaurantID,
		TimeoutSeconds: 30,
	}
}

// Validate validates the Getir configuration
func (c *GetirConfig) Validate() error {
	if c.APIKey == "" {
		return ErrGetirConfigMissingAPIKey
	}
	if c.WebhookSecret == "" {
		return ErrGetirConfigMissingWebhookSecret
	}
	if c.RestaurantID == "" {
		return ErrGetirConfigMissingRestaurantID
	}
	if c.BaseURL == "" {
		c.BaseURL = GetirProductionAPIURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// PlatformConfig returns the registry-facing view of this configuration
func (c *GetirConfig) PlatformConfig(enabled bool) platform.Config {
	return platform.Config{
		Name:          platform.CodeGetir,
		BaseURL:       c.BaseURL,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		WebhookSecret: c.WebhookSecret,
		Enabled:       enabled,
	}
}
