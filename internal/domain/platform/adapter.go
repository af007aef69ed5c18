package platform

import (
	"context"

	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/domain/ordering"
)

// Adapter defines the port interface every delivery platform integration must
// implement. It follows the Ports & Adapters pattern: the interface lives in
// the domain layer and the concrete implementations (Getir, Trendyol,
// Yemeksepeti, Migros) live in the infrastructure layer.
type Adapter interface {
	// Code returns the platform code this adapter handles
	Code() Code

	// ---------------------------------------------------------------------------
	// Menu Operations
	// ---------------------------------------------------------------------------

	// SyncMenu pushes the full menu to the platform. On any transport or
	// upstream error it returns an UpstreamAPIError carrying the upstream
	// status and body.
	SyncMenu(ctx context.Context, products []catalog.ProductListing) (*MenuSyncResult, error)

	// GetProducts pulls the platform's current catalog mapped back into the
	// internal shape. Failures surface as errors, never as stale sample data.
	GetProducts(ctx context.Context) ([]catalog.ProductListing, error)

	// ---------------------------------------------------------------------------
	// Order Operations
	// ---------------------------------------------------------------------------

	// GetOrders lists orders from the platform, filtered by its native status
	// string. Used for polling and health probes. status "" means no filter.
	GetOrders(ctx context.Context, status string, limit int) ([]UpstreamOrder, error)

	// AcceptOrder acknowledges an incoming order upstream
	AcceptOrder(ctx context.Context, orderID string) error

	// RejectOrder declines an incoming order upstream. An empty reason is
	// replaced with the platform's default "item unavailable" message.
	RejectOrder(ctx context.Context, orderID, reason string) error

	// UpdateOrderStatus pushes an internal status value to the platform,
	// translated into the platform's native status vocabulary.
	UpdateOrderStatus(ctx context.Context, orderID, status string) error

	// ConfirmOrder confirms a freshly received order the way this platform
	// expects: some platforms confirm through an accept call, others through
	// a status update. The mapping is part of the adapter contract.
	ConfirmOrder(ctx context.Context, orderID string) error

	// ConvertOrder normalizes a raw webhook payload into the internal order
	// shape. It is total over JSON objects: every missing field maps to a
	// documented default and only a non-JSON body yields an error.
	ConvertOrder(raw []byte) (*ordering.Order, error)

	// ---------------------------------------------------------------------------
	// Webhook and Taxonomy
	// ---------------------------------------------------------------------------

	// ValidateWebhook verifies the HMAC-SHA256 hex signature in the
	// platform's signature header against the exact raw body bytes.
	ValidateWebhook(req *WebhookRequest) error

	// CategoryID maps an internal category name to the platform's taxonomy.
	// Unmapped categories return the platform's documented fallback bucket;
	// the lookup never fails.
	CategoryID(internal string) string
}
