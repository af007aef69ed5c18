package platform

import (
	"time"

	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
)

// PlatformStatus is the externally visible state of one registered platform.
// Credentials never leave the registry.
type PlatformStatus struct {
	Platform    platform.Code           `json:"platform"`
	DisplayName string                  `json:"display_name"`
	IsActive    bool                    `json:"is_active"`
	BaseURL     string                  `json:"base_url"`
	LastSync    *time.Time              `json:"last_sync,omitempty"`
	LastHealth  *platform.HealthStatus  `json:"last_health,omitempty"`
}

func newPlatformStatus(state platform.State) PlatformStatus {
	return PlatformStatus{
		Platform:    state.Config.Name,
		DisplayName: state.Config.Name.DisplayName(),
		IsActive:    state.IsActive,
		BaseURL:     state.Config.BaseURL,
		LastSync:    state.LastSync,
		LastHealth:  state.LastHealth,
	}
}

// MenuSyncOutcome pairs a per-platform sync result with its error, for
// sync-to-all responses
type MenuSyncOutcome struct {
	Result *platform.MenuSyncResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

// PlatformProducts is the product listing currently live on one platform
type PlatformProducts struct {
	Platform  platform.Code            `json:"platform"`
	Products  []catalog.ProductListing `json:"products"`
	Total     int                      `json:"total"`
	FetchedAt time.Time                `json:"fetched_at"`
}

// OrderPage is one page of stored orders
type OrderPage struct {
	Orders   []ordering.Order `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}
