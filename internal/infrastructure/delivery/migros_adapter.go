package delivery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/domain/platform"
)

// migrosCategories maps internal category names (lowercased) to Migros'
// string taxonomy ids.
var migrosCategories = map[string]string{
	"pizza":  "100",
	"burger": "110",
	"kebap":  "120",
	"döner":  "130",
	"doner":  "130",
	"pide":   "140",
	"salata": "150",
	"tatlı":  "160",
	"tatli":  "160",
	"içecek": "170",
	"icecek": "170",
}

// migrosFallbackCategory is the catch-all bucket for unmapped categories
const migrosFallbackCategory = "999"

// migrosDefaultRejectReason is used when a reject reason is omitted
const migrosDefaultRejectReason = "Ürün temin edilemiyor"

// MigrosAdapter implements the platform.Adapter port for Migros Yemek
type MigrosAdapter struct {
	config *MigrosConfig
	client *client
	images ImageResolver
}

// NewMigrosAdapter creates a new Migros adapter with the given configuration.
// images may be nil.
func NewMigrosAdapter(config *MigrosConfig, images ImageResolver) (*MigrosAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	auth := func(req *http.Request) {
		req.Header.Set("X-Api-Key", config.APIKey)
		req.Header.Set("X-Api-Secret", config.APISecret)
		req.Header.Set("X-Store-Id", config.StoreID)
	}

	return &MigrosAdapter{
		config: config,
		client: newClient(platform.CodeMigros, config.BaseURL, time.Duration(config.TimeoutSeconds)*time.Second, auth),
		images: images,
	}, nil
}

// Code returns the platform code this adapter handles
func (a *MigrosAdapter) Code() platform.Code {
	return platform.CodeMigros
}

// ---------------------------------------------------------------------------
// Menu Operations
// ---------------------------------------------------------------------------

// SyncMenu pushes the store menu to Migros
func (a *MigrosAdapter) SyncMenu(ctx context.Context, products []catalog.ProductListing) (*platform.MenuSyncResult, error) {
	request := migrosMenuRequest{
		StoreID: a.config.StoreID,
		Items:   make([]migrosMenuItem, 0, len(products)),
	}
	for _, p := range products {
		request.Items = append(request.Items, a.formatProduct(ctx, p))
	}

	path := fmt.Sprintf("/stores/%s/menu", url.PathEscape(a.config.StoreID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodPut, path, request)
	if err != nil {
		return nil, err
	}

	var resp migrosMenuResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("migros: failed to parse menu response: %w", err)
	}

	result := &platform.MenuSyncResult{
		Platform:   platform.CodeMigros,
		TotalCount: len(products),
		SyncedAt:   time.Now(),
	}
	for _, failure := range resp.Failures {
		result.FailedItems = append(result.FailedItems, platform.SyncFailure{
			ProductID: failure.ProductID,
			Message:   failure.Message,
		})
	}
	result.FailedCount = len(result.FailedItems)
	result.SuccessCount = result.TotalCount - result.FailedCount
	return result, nil
}

// formatProduct maps an internal product listing to the Migros menu shape
func (a *MigrosAdapter) formatProduct(ctx context.Context, p catalog.ProductListing) migrosMenuItem {
	return migrosMenuItem{
		ProductID:   p.ID,
		ProductName: p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		CategoryID:  a.CategoryID(p.Category),
		ImageURL:    resolveImage(ctx, a.images, p.ImagePath),
		InStock:     p.IsActive,
	}
}

// GetProducts pulls the current Migros catalog mapped into the internal shape
func (a *MigrosAdapter) GetProducts(ctx context.Context) ([]catalog.ProductListing, error) {
	path := fmt.Sprintf("/stores/%s/products", url.PathEscape(a.config.StoreID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp migrosProductsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("migros: failed to parse products response: %w", err)
	}

	products := make([]catalog.ProductListing, 0, len(resp.Items))
	for _, item := range resp.Items {
		products = append(products, catalog.ProductListing{
			ID:          item.ProductID,
			Name:        item.ProductName,
			Description: item.Description,
			Price:       decimal.NewFromFloat(item.Price),
			Category:    item.CategoryID,
			IsActive:    item.InStock,
			ImagePath:   item.ImageURL,
		})
	}
	return products, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders lists orders from Migros
func (a *MigrosAdapter) GetOrders(ctx context.Context, status string, limit int) ([]platform.UpstreamOrder, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := fmt.Sprintf("/stores/%s/orders", url.PathEscape(a.config.StoreID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp migrosOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("migros: failed to parse orders response: %w", err)
	}

	orders := make([]platform.UpstreamOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		raw, _ := json.Marshal(o)
		orders = append(orders, platform.UpstreamOrder{
			ID:     o.OrderID,
			Status: o.Status,
			Raw:    raw,
		})
	}
	return orders, nil
}

// AcceptOrder approves an incoming order on Migros
func (a *MigrosAdapter) AcceptOrder(ctx context.Context, orderID string) error {
	return a.setOrderStatus(ctx, orderID, migrosStatusApproved)
}

// RejectOrder declines an incoming order on Migros
func (a *MigrosAdapter) RejectOrder(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		reason = migrosDefaultRejectReason
	}
	path := fmt.Sprintf("/orders/%s/reject", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPost, path, migrosRejectRequest{Reason: reason})
	return err
}

// UpdateOrderStatus pushes an internal status to Migros' native statuses
func (a *MigrosAdapter) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	native, ok := mapToMigrosStatus(status)
	if !ok {
		return fmt.Errorf("migros: no status mapping for %q", status)
	}
	if native == migrosStatusCancelled {
		return a.RejectOrder(ctx, orderID, "")
	}
	return a.setOrderStatus(ctx, orderID, native)
}

// ConfirmOrder confirms a fresh order; Migros confirms through a status
// update into approved rather than a dedicated accept call.
func (a *MigrosAdapter) ConfirmOrder(ctx context.Context, orderID string) error {
	return a.setOrderStatus(ctx, orderID, migrosStatusApproved)
}

// setOrderStatus performs the native status transition
func (a *MigrosAdapter) setOrderStatus(ctx context.Context, orderID, native string) error {
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPut, path, migrosStatusRequest{Status: native})
	return err
}

// ConvertOrder normalizes a raw Migros order payload
func (a *MigrosAdapter) ConvertOrder(raw []byte) (*ordering.Order, error) {
	var o migrosOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidPayload, err)
	}

	order := &ordering.Order{
		Platform:        platform.CodeMigros.String(),
		PlatformOrderID: o.OrderID,
		Customer: ordering.Customer{
			Name:  o.CustomerInfo.FullName,
			Phone: o.CustomerInfo.PhoneNumber,
			Address: joinAddress(
				o.CustomerInfo.Address.Detail,
				o.CustomerInfo.Address.District,
				o.CustomerInfo.Address.City,
			),
		},
		Notes:         o.Note,
		PaymentMethod: o.PaymentMethod,
	}

	for _, item := range o.Items {
		line := ordering.OrderItem{
			ProductID: item.ProductID,
			Name:      item.ProductName,
			Quantity:  item.Amount,
			Price:     decimal.NewFromFloat(item.Price),
		}
		if line.Quantity <= 0 {
			line.Quantity = 1
		}
		for _, opt := range item.Options {
			line.Options = append(line.Options, opt.OptionName)
		}
		order.Items = append(order.Items, line)
	}

	if o.DeliveryDate != "" {
		if at, err := time.Parse(time.RFC3339, o.DeliveryDate); err == nil {
			order.DeliveryTime = &at
		}
	}

	return finalizeOrder(order, decimal.NewFromFloat(o.TotalPrice)), nil
}

// ---------------------------------------------------------------------------
// Webhook and Taxonomy
// ---------------------------------------------------------------------------

// ValidateWebhook verifies the X-Migros-Signature header against the raw body
func (a *MigrosAdapter) ValidateWebhook(req *platform.WebhookRequest) error {
	return validateWebhook(platform.CodeMigros, a.config.WebhookSecret, req)
}

// CategoryID maps an internal category to Migros' taxonomy. Unmapped
// categories fall back to the "999" bucket.
func (a *MigrosAdapter) CategoryID(internal string) string {
	if id, ok := migrosCategories[strings.ToLower(strings.TrimSpace(internal))]; ok {
		return id
	}
	return migrosFallbackCategory
}

// mapToMigrosStatus maps internal order statuses to Migros statuses
func mapToMigrosStatus(status string) (string, bool) {
	switch ordering.Status(status) {
	case ordering.StatusConfirmed:
		return migrosStatusApproved, true
	case ordering.StatusPreparing:
		return migrosStatusPreparing, true
	case ordering.StatusReady:
		return migrosStatusHandover, true
	case ordering.StatusOnTheWay:
		return migrosStatusOnDelivery, true
	case ordering.StatusDelivered:
		return migrosStatusDelivered, true
	case ordering.StatusCancelled:
		return migrosStatusCancelled, true
	default:
		return "", false
	}
}

// Ensure MigrosAdapter implements the Adapter port
var _ platform.Adapter = (*MigrosAdapter)(nil)
