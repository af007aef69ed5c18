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

// trendyolCategories maps internal category names (lowercased) to Trendyol's
// numeric taxonomy ids.
var trendyolCategories = map[string]int{
	"pizza":    1,
	"burger":   2,
	"kebap":    3,
	"döner":    4,
	"doner":    4,
	"salata":   5,
	"tatlı":    6,
	"tatli":    6,
	"içecek":   7,
	"icecek":   7,
}

// trendyolFallbackCategory is the catch-all bucket for unmapped categories
const trendyolFallbackCategory = 8

// trendyolDefaultRejectReason is used when a reject reason is omitted
const trendyolDefaultRejectReason = "Ürün tedarik edilemiyor"

// TrendyolAdapter implements the platform.Adapter port for Trendyol Yemek
type TrendyolAdapter struct {
	config *TrendyolConfig
	client *client
	images ImageResolver
}

// NewTrendyolAdapter creates a new Trendyol adapter with the given
// configuration. images may be nil.
func NewTrendyolAdapter(config *TrendyolConfig, images ImageResolver) (*TrendyolAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	auth := func(req *http.Request) {
		req.SetBasicAuth(config.APIKey, config.APISecret)
		req.Header.Set("User-Agent", config.SupplierID+" - SelfIntegration")
	}

	return &TrendyolAdapter{
		config: config,
		client: newClient(platform.CodeTrendyol, config.BaseURL, time.Duration(config.TimeoutSeconds)*time.Second, auth),
		images: images,
	}, nil
}

// Code returns the platform code this adapter handles
func (a *TrendyolAdapter) Code() platform.Code {
	return platform.CodeTrendyol
}

// ---------------------------------------------------------------------------
// Menu Operations
// ---------------------------------------------------------------------------

// SyncMenu pushes the menu to Trendyol as a product batch
func (a *TrendyolAdapter) SyncMenu(ctx context.Context, products []catalog.ProductListing) (*platform.MenuSyncResult, error) {
	request := trendyolMenuRequest{
		Items: make([]trendyolProduct, 0, len(products)),
	}
	for _, p := range products {
		request.Items = append(request.Items, a.formatProduct(ctx, p))
	}

	path := fmt.Sprintf("/suppliers/%s/v2/products", url.PathEscape(a.config.SupplierID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodPut, path, request)
	if err != nil {
		return nil, err
	}

	var resp trendyolBatchResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("trendyol: failed to parse batch response: %w", err)
	}

	result := &platform.MenuSyncResult{
		Platform:   platform.CodeTrendyol,
		TotalCount: len(products),
		SyncedAt:   time.Now(),
	}
	for _, failed := range resp.FailedItems {
		result.FailedItems = append(result.FailedItems, platform.SyncFailure{
			ProductID: failed.Barcode,
			Message:   strings.Join(failed.Reasons, "; "),
		})
	}
	result.FailedCount = len(result.FailedItems)
	result.SuccessCount = result.TotalCount - result.FailedCount
	return result, nil
}

// formatProduct maps an internal product listing to the Trendyol batch shape
func (a *TrendyolAdapter) formatProduct(ctx context.Context, p catalog.ProductListing) trendyolProduct {
	price := p.Price.InexactFloat64()
	return trendyolProduct{
		Barcode:     p.ID,
		Title:       p.Name,
		Description: p.Description,
		ListPrice:   price,
		SalePrice:   price,
		CategoryID:  a.categoryID(p.Category),
		ImageURL:    resolveImage(ctx, a.images, p.ImagePath),
		OnSale:      p.IsActive,
	}
}

// GetProducts pulls the current Trendyol catalog mapped into the internal shape
func (a *TrendyolAdapter) GetProducts(ctx context.Context) ([]catalog.ProductListing, error) {
	path := fmt.Sprintf("/suppliers/%s/products", url.PathEscape(a.config.SupplierID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp trendyolProductsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("trendyol: failed to parse products response: %w", err)
	}

	products := make([]catalog.ProductListing, 0, len(resp.Content))
	for _, item := range resp.Content {
		products = append(products, catalog.ProductListing{
			ID:          item.Barcode,
			Name:        item.Title,
			Description: item.Description,
			Price:       decimal.NewFromFloat(item.SalePrice),
			Category:    strconv.Itoa(item.CategoryID),
			IsActive:    item.OnSale,
			ImagePath:   item.ImageURL,
		})
	}
	return products, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders lists order packages from Trendyol
func (a *TrendyolAdapter) GetOrders(ctx context.Context, status string, limit int) ([]platform.UpstreamOrder, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("size", strconv.Itoa(limit))
	}
	path := fmt.Sprintf("/suppliers/%s/packages", url.PathEscape(a.config.SupplierID))
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp trendyolPackagesResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("trendyol: failed to parse packages response: %w", err)
	}

	orders := make([]platform.UpstreamOrder, 0, len(resp.Content))
	for _, o := range resp.Content {
		raw, _ := json.Marshal(o)
		orders = append(orders, platform.UpstreamOrder{
			ID:     o.OrderNumber,
			Status: o.PackageStatus,
			Raw:    raw,
		})
	}
	return orders, nil
}

// AcceptOrder moves an incoming package into picking
func (a *TrendyolAdapter) AcceptOrder(ctx context.Context, orderID string) error {
	return a.setPackageStatus(ctx, orderID, trendyolStatusPicking)
}

// RejectOrder marks an incoming package unsupplied
func (a *TrendyolAdapter) RejectOrder(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		reason = trendyolDefaultRejectReason
	}
	path := fmt.Sprintf("/suppliers/%s/packages/%s/unsupplied",
		url.PathEscape(a.config.SupplierID), url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPut, path, trendyolUnsuppliedRequest{Reason: reason})
	return err
}

// UpdateOrderStatus pushes an internal status to Trendyol's package statuses
func (a *TrendyolAdapter) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	native, ok := mapToTrendyolStatus(status)
	if !ok {
		return fmt.Errorf("trendyol: no status mapping for %q", status)
	}
	if native == trendyolStatusUnSupplied {
		return a.RejectOrder(ctx, orderID, "")
	}
	return a.setPackageStatus(ctx, orderID, native)
}

// ConfirmOrder confirms a fresh order; Trendyol confirms through a status
// update into picking rather than a dedicated accept call.
func (a *TrendyolAdapter) ConfirmOrder(ctx context.Context, orderID string) error {
	return a.setPackageStatus(ctx, orderID, trendyolStatusPicking)
}

// setPackageStatus performs the native package status transition
func (a *TrendyolAdapter) setPackageStatus(ctx context.Context, orderID, native string) error {
	path := fmt.Sprintf("/suppliers/%s/packages/%s/status",
		url.PathEscape(a.config.SupplierID), url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPut, path, trendyolStatusRequest{Status: native})
	return err
}

// ConvertOrder normalizes a raw Trendyol package payload
func (a *TrendyolAdapter) ConvertOrder(raw []byte) (*ordering.Order, error) {
	var o trendyolOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidPayload, err)
	}

	order := &ordering.Order{
		Platform:        platform.CodeTrendyol.String(),
		PlatformOrderID: o.OrderNumber,
		Customer: ordering.Customer{
			Name:    strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName),
			Phone:   o.Customer.Phone,
			Address: joinAddress(o.Address.Address1, o.Address.District, o.Address.City),
		},
		Notes:         o.OrderNote,
		PaymentMethod: o.PaymentType,
	}

	for _, line := range o.Lines {
		item := ordering.OrderItem{
			ProductID: line.ProductCode,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     decimal.NewFromFloat(line.Price),
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		for _, mod := range line.ModifierProducts {
			item.Options = append(item.Options, mod.Name)
		}
		order.Items = append(order.Items, item)
	}

	if o.DeliveryDate > 0 {
		at := time.UnixMilli(o.DeliveryDate)
		order.DeliveryTime = &at
	}

	return finalizeOrder(order, decimal.NewFromFloat(o.TotalPrice)), nil
}

// ---------------------------------------------------------------------------
// Webhook and Taxonomy
// ---------------------------------------------------------------------------

// ValidateWebhook verifies the X-Trendyol-Signature header against the raw body
func (a *TrendyolAdapter) ValidateWebhook(req *platform.WebhookRequest) error {
	return validateWebhook(platform.CodeTrendyol, a.config.WebhookSecret, req)
}

// CategoryID maps an internal category to Trendyol's numeric taxonomy.
// Unmapped categories fall back to bucket 8.
func (a *TrendyolAdapter) CategoryID(internal string) string {
	return strconv.Itoa(a.categoryID(internal))
}

func (a *TrendyolAdapter) categoryID(internal string) int {
	if id, ok := trendyolCategories[strings.ToLower(strings.TrimSpace(internal))]; ok {
		return id
	}
	return trendyolFallbackCategory
}

// mapToTrendyolStatus maps internal order statuses to Trendyol package statuses
func mapToTrendyolStatus(status string) (string, bool) {
	switch ordering.Status(status) {
	case ordering.StatusConfirmed, ordering.StatusPreparing:
		return trendyolStatusPicking, true
	case ordering.StatusReady:
		return trendyolStatusInvoiced, true
	case ordering.StatusOnTheWay:
		return trendyolStatusShipped, true
	case ordering.StatusDelivered:
		return trendyolStatusDelivered, true
	case ordering.StatusCancelled:
		return trendyolStatusUnSupplied, true
	default:
		return "", false
	}
}

// Ensure TrendyolAdapter implements the Adapter port
var _ platform.Adapter = (*TrendyolAdapter)(nil)
