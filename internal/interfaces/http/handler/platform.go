package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	platformapp "github.com/platehub/backend/internal/application/platform"
	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
)

// AdapterFactory builds a platform adapter and its registry config from a
// registration request. Wired from the delivery package in main.
type AdapterFactory func(code platform.Code, req RegisterPlatformRequest) (platform.Adapter, platform.Config, error)

// PlatformHandler handles platform registry, menu sync, order and health
// API endpoints
type PlatformHandler struct {
	BaseHandler
	hub     *platformapp.HubService
	factory AdapterFactory
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(hub *platformapp.HubService, factory AdapterFactory) *PlatformHandler {
	return &PlatformHandler{
		hub:     hub,
		factory: factory,
	}
}

// RegisterPlatformRequest represents the payload for registering a platform
// @name HandlerRegisterPlatformRequest
type RegisterPlatformRequest struct {
	Platform      string `json:"platform" binding:"required" example:"getir"`
	APIKey        string `json:"api_key" binding:"required"`
	APISecret     string `json:"api_secret"`
	WebhookSecret string `json:"webhook_secret" binding:"required"`
	MerchantID    string `json:"merchant_id" binding:"required"`
	Enabled       bool   `json:"enabled"`
}

// RegisterPlatform godoc
// @ID           registerPlatform
// @Summary      Register a platform
// @Description  Registers or overwrites a delivery platform integration with its credentials
// @Tags         platforms
// @Accept       json
// @Produce      json
// @Success      201 {object} APIResponse[platformapp.PlatformStatus]
// @Failure      400 {object} ErrorResponse
// @Router       /platforms/register [post]
func (h *PlatformHandler) RegisterPlatform(c *gin.Context) {
	var req RegisterPlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid registration payload: "+err.Error())
		return
	}

	code := platform.Code(req.Platform)
	adapter, config, err := h.factory(code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.hub.RegisterPlatform(adapter, config); err != nil {
		h.HandleError(c, err)
		return
	}

	status, err := h.hub.GetPlatformStatus(req.Platform)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, status)
}

// ListPlatformStatus godoc
// @ID           listPlatformStatus
// @Summary      List all platform statuses
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[[]platformapp.PlatformStatus]
// @Router       /platforms/status [get]
func (h *PlatformHandler) ListPlatformStatus(c *gin.Context) {
	h.Success(c, h.hub.ListPlatforms())
}

// GetPlatformStatus godoc
// @ID           getPlatformStatus
// @Summary      Get one platform status
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[platformapp.PlatformStatus]
// @Failure      404 {object} ErrorResponse
// @Router       /platforms/{platform}/status [get]
func (h *PlatformHandler) GetPlatformStatus(c *gin.Context) {
	status, err := h.hub.GetPlatformStatus(c.Param("platform"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// TogglePlatformRequest represents the payload for toggling a platform
// @name HandlerTogglePlatformRequest
type TogglePlatformRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// TogglePlatform godoc
// @ID           togglePlatform
// @Summary      Activate or deactivate a platform
// @Tags         platforms
// @Accept       json
// @Produce      json
// @Success      200 {object} APIResponse[platformapp.PlatformStatus]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /platforms/{platform}/toggle [put]
func (h *PlatformHandler) TogglePlatform(c *gin.Context) {
	var req TogglePlatformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid toggle payload: "+err.Error())
		return
	}

	name := c.Param("platform")
	if err := h.hub.TogglePlatform(name, *req.Active); err != nil {
		h.HandleError(c, err)
		return
	}

	status, err := h.hub.GetPlatformStatus(name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// SyncMenu godoc
// @ID           syncPlatformMenu
// @Summary      Push a branch menu to one platform
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[platform.MenuSyncResult]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /platforms/{platform}/sync-menu/{branchId} [post]
func (h *PlatformHandler) SyncMenu(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("branchId"), 10, 64)
	if err != nil || branchID <= 0 {
		h.BadRequest(c, "Invalid branch id")
		return
	}

	result, err := h.hub.SyncMenuToPlatform(c.Request.Context(), c.Param("platform"), branchID)
	if err != nil {
		h.HandleUpstreamError(c, err)
		return
	}
	h.Success(c, result)
}

// SyncMenuToAll godoc
// @ID           syncAllPlatformMenus
// @Summary      Push a branch menu to every active platform
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[map[string]platformapp.MenuSyncOutcome]
// @Failure      400 {object} ErrorResponse
// @Router       /platforms/sync-menu/{branchId} [post]
func (h *PlatformHandler) SyncMenuToAll(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("branchId"), 10, 64)
	if err != nil || branchID <= 0 {
		h.BadRequest(c, "Invalid branch id")
		return
	}
	h.Success(c, h.hub.SyncMenuToAll(c.Request.Context(), branchID))
}

// GetPlatformProducts godoc
// @ID           getPlatformProducts
// @Summary      Pull the product listing currently live on a platform
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[platformapp.PlatformProducts]
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /platforms/{platform}/products [get]
func (h *PlatformHandler) GetPlatformProducts(c *gin.Context) {
	products, err := h.hub.GetPlatformProducts(c.Request.Context(), c.Param("platform"))
	if err != nil {
		h.HandleUpstreamError(c, err)
		return
	}
	h.Success(c, products)
}

// ListOrders godoc
// @ID           listPlatformOrders
// @Summary      List stored orders for a platform
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction (asc or desc)"
// @Success      200 {object} APIResponse[[]ordering.Order]
// @Failure      400 {object} ErrorResponse
// @Router       /platforms/{platform}/orders [get]
func (h *PlatformHandler) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	orderBy := c.Query("order_by")
	orderDir := c.Query("order_dir")

	result, err := h.hub.ListOrders(c.Request.Context(), c.Param("platform"), page, pageSize, orderBy, orderDir)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Orders, result.Total, result.Page, result.PageSize)
}

// RecentOrders godoc
// @ID           recentPlatformOrders
// @Summary      Last 10 stored orders for a platform
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]ordering.Order]
// @Failure      400 {object} ErrorResponse
// @Router       /platforms/{platform}/recent-orders [get]
func (h *PlatformHandler) RecentOrders(c *gin.Context) {
	result, err := h.hub.ListOrders(c.Request.Context(), c.Param("platform"), 1, 10, "", "")
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result.Orders)
}

// RecentOrdersAcrossPlatforms godoc
// @ID           recentOrders
// @Summary      Last 10 stored orders across every registered platform
// @Tags         orders
// @Produce      json
// @Success      200 {object} APIResponse[[]ordering.Order]
// @Router       /platforms/recent-orders [get]
func (h *PlatformHandler) RecentOrdersAcrossPlatforms(c *gin.Context) {
	orders, err := h.hub.RecentOrders(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// UpdateOrderStatusRequest represents the payload for pushing a status update
// @name HandlerUpdateOrderStatusRequest
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"preparing"`
	Reason string `json:"reason"`
}

// UpdateOrderStatus godoc
// @ID           updateOrderStatus
// @Summary      Push an order status update upstream
// @Description  Propagates a status change to the source platform. "confirmed" accepts the order, "cancelled" rejects it with the optional reason.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Success      200 {object} SuccessResponse
// @Failure      400 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Router       /platforms/{platform}/orders/{id}/status [put]
func (h *PlatformHandler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid status payload: "+err.Error())
		return
	}

	name := c.Param("platform")
	orderID := c.Param("id")
	status := ordering.Status(req.Status)

	var err error
	switch status {
	case ordering.StatusConfirmed:
		err = h.hub.AcceptOrder(c.Request.Context(), name, orderID)
	case ordering.StatusCancelled:
		err = h.hub.RejectOrder(c.Request.Context(), name, orderID, req.Reason)
	default:
		err = h.hub.UpdateOrderStatus(c.Request.Context(), name, orderID, status)
	}
	if err != nil {
		h.HandleUpstreamError(c, err)
		return
	}
	h.Success(c, gin.H{"platform": name, "platform_order_id": orderID, "status": req.Status})
}

// CheckHealth godoc
// @ID           checkPlatformsHealth
// @Summary      Probe every registered platform
// @Description  Runs a concurrent health sweep; one failing platform never hides the others
// @Tags         platforms
// @Produce      json
// @Success      200 {object} APIResponse[map[string]platform.HealthStatus]
// @Router       /platforms/health [get]
func (h *PlatformHandler) CheckHealth(c *gin.Context) {
	h.Success(c, h.hub.CheckAllPlatformsHealth(c.Request.Context()))
}
