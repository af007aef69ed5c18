package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	platformapp "github.com/platehub/backend/internal/application/platform"
	"github.com/platehub/backend/internal/domain/platform"
)

// Maximum webhook payload size (256KB - platform order payloads are small)
const maxWebhookPayloadSize = 262144

// WebhookHandler handles inbound order webhooks from the delivery platforms.
// These endpoints are called by the platforms and authenticate with HMAC
// signatures instead of bearer tokens.
type WebhookHandler struct {
	BaseHandler
	webhooks *platformapp.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhooks *platformapp.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
	}
}

// OrderWebhookResponse represents the webhook acknowledgement
// @name HandlerOrderWebhookResponse
type OrderWebhookResponse struct {
	Received  bool   `json:"received" example:"true"`
	OrderID   string `json:"order_id,omitempty"`
	Status    string `json:"status,omitempty" example:"confirmed"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// HandleOrderWebhook godoc
// @ID           handleOrderWebhook
// @Summary      Receive an order webhook from a delivery platform
// @Description  Verifies the platform's HMAC signature over the raw body, normalizes the order and stores it. Duplicate deliveries are acknowledged with the originally stored order id.
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[OrderWebhookResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Router       /platforms/{platform}/orders [post]
func (h *WebhookHandler) HandleOrderWebhook(c *gin.Context) {
	// Signature verification needs the raw body byte-exact, so read it
	// before any binding touches the request
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}
	if len(body) > maxWebhookPayloadSize {
		h.Error(c, http.StatusRequestEntityTooLarge, "ERR_PAYLOAD_TOO_LARGE", "Webhook payload too large")
		return
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name, values := range c.Request.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	req := &platform.WebhookRequest{
		Headers: headers,
		Body:    body,
	}

	outcome, err := h.webhooks.ProcessOrderWebhook(c.Request.Context(), c.Param("platform"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, OrderWebhookResponse{
		Received:  true,
		OrderID:   outcome.Order.ID.String(),
		Status:    outcome.Order.Status.String(),
		Duplicate: outcome.Duplicate,
	})
}
