package delivery

import (
	"fmt"

	"github.com/platehub/backend/internal/domain/platform"
)

// AdapterCredentials carries the per-platform credentials supplied at
// registration time. MerchantID is the platform's own identifier for the
// restaurant: Getir restaurant id, Trendyol supplier id, Yemeksepeti vendor
// id or Migros store id.
type AdapterCredentials struct {
	APIKey        string
	APISecret     string
	WebhookSecret string
	MerchantID    string
}

// BuildAdapter constructs the adapter for a platform code from raw
// credentials and returns it together with its registry-facing config.
func BuildAdapter(code platform.Code, creds AdapterCredentials, enabled bool, images ImageResolver) (platform.Adapter, platform.Config, error) {
	switch code {
	case platform.CodeGetir:
		cfg := NewGetirConfig(creds.APIKey, creds.APISecret, creds.WebhookSecret, creds.MerchantID)
		adapter, err := NewGetirAdapter(cfg, images)
		if err != nil {
			return nil, platform.Config{}, err
		}
		return adapter, cfg.PlatformConfig(enabled), nil

	case platform.CodeTrendyol:
		cfg := NewTrendyolConfig(creds.APIKey, creds.APISecret, creds.WebhookSecret, creds.MerchantID)
		adapter, err := NewTrendyolAdapter(cfg, images)
		if err != nil {
			return nil, platform.Config{}, err
		}
		return adapter, cfg.PlatformConfig(enabled), nil

	case platform.CodeYemeksepeti:
		cfg := NewYemeksepetiConfig(creds.APIKey, creds.WebhookSecret, creds.MerchantID)
		adapter, err := NewYemeksepetiAdapter(cfg, images)
		if err != nil {
			return nil, platform.Config{}, err
		}
		return adapter, cfg.PlatformConfig(enabled), nil

	case platform.CodeMigros:
		cfg := NewMigrosConfig(creds.APIKey, creds.APISecret, creds.WebhookSecret, creds.MerchantID)
		adapter, err := NewMigrosAdapter(cfg, images)
		if err != nil {
			return nil, platform.Config{}, err
		}
		return adapter, cfg.PlatformConfig(enabled), nil

	default:
		return nil, platform.Config{}, fmt.Errorf("%w: %q", platform.ErrPlatformUnsupported, code)
	}
}
