package platform

import (
	"context"

	"go.uber.org/zap"

	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
)

// WebhookService handles inbound order webhooks from the delivery platforms.
// Signature verification happens before the active gate so a bad signature is
// reported as such even when the platform is toggled off.
type WebhookService struct {
	hub    *HubService
	logger *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(hub *HubService, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		hub:    hub,
		logger: logger,
	}
}

// WebhookOutcome contains the result of processing an order webhook
type WebhookOutcome struct {
	Order     *ordering.Order `json:"order"`
	Duplicate bool            `json:"duplicate"`
}

// ProcessOrderWebhook verifies and ingests one webhook delivery
func (s *WebhookService) ProcessOrderWebhook(ctx context.Context, name string, req *platform.WebhookRequest) (*WebhookOutcome, error) {
	adapter, err := s.hub.resolveAny(name)
	if err != nil {
		return nil, err
	}

	if err := adapter.ValidateWebhook(req); err != nil {
		s.logger.Warn("Webhook rejected",
			zap.String("platform", adapter.Code().String()),
			zap.Int("body_bytes", len(req.Body)),
			zap.Error(err))
		return nil, err
	}

	order, duplicate, err := s.hub.HandlePlatformOrder(ctx, name, req.Body)
	if err != nil {
		return nil, err
	}

	if duplicate {
		s.logger.Info("Webhook delivery was a duplicate",
			zap.String("platform", adapter.Code().String()),
			zap.String("platform_order_id", order.PlatformOrderID))
	}

	return &WebhookOutcome{
		Order:     order,
		Duplicate: duplicate,
	}, nil
}
