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

// getirCategories maps internal category names (lowercased) to Getir's
// string taxonomy ids.
var getirCategories = map[string]string{
	"pizza":    "pizza",
	"burger":   "burger",
	"kebap":    "kebap",
	"döner":    "doner",
	"doner":    "doner",
	"lahmacun": "lahmacun",
	"pide":     "pide",
	"salata":   "salata",
	"tatlı":    "tatli",
	"tatli":    "tatli",
	"içecek":   "icecek",
	"icecek":   "icecek",
	"kahvaltı": "kahvalti",
	"kahvalti": "kahvalti",
}

// getirFallbackCategory is the catch-all bucket for unmapped categories
const getirFallbackCategory = "genel"

// getirDefaultRejectReason is used when a reject reason is omitted
const getirDefaultRejectReason = "Ürün mevcut değil"

// GetirAdapter implements the platform.Adapter port for Getir Food
type GetirAdapter struct {
	config *GetirConfig
	client *client
	images ImageResolver
}

// NewGetirAdapter creates a new Getir adapter with the given configuration.
// images may be nil; product image paths are then sent as-is.
func NewGetirAdapter(config *GetirConfig, images ImageResolver) (*GetirAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	auth := func(req *http.Request) {
		req.Header.Set("X-Api-Key", config.APIKey)
		req.Header.Set("X-Api-Secret", config.APISecret)
		req.Header.Set("X-Restaurant-Id", config.RestaurantID)
	}

	return &GetirAdapter{
		config: config,
		client: newClient(platform.CodeGetir, config.BaseURL, time.Duration(config.TimeoutSeconds)*time.Second, auth),
		images: images,
	}, nil
}

// Code returns the platform code this adapter handles
func (a *GetirAdapter) Code() platform.Code {
	return platform.CodeGetir
}

// ---------------------------------------------------------------------------
// Menu Operations
// ---------------------------------------------------------------------------

// SyncMenu replaces the restaurant menu on Getir with the given products.
// The full-menu replace is idempotent, so transient upstream failures are
// retried with backoff.
func (a *GetirAdapter) SyncMenu(ctx context.Context, products []catalog.ProductListing) (*platform.MenuSyncResult, error) {
	request := getirMenuRequest{
		RestaurantID: a.config.RestaurantID,
		Products:     make([]getirMenuItem, 0, len(products)),
	}
	for _, p := range products {
		request.Products = append(request.Products, a.formatProduct(ctx, p))
	}

	path := fmt.Sprintf("/restaurants/%s/menu", url.PathEscape(a.config.RestaurantID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodPut, path, request)
	if err != nil {
		return nil, err
	}

	var resp getirMenuResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("getir: failed to parse menu response: %w", err)
	}

	result := &platform.MenuSyncResult{
		Platform:   platform.CodeGetir,
		TotalCount: len(products),
		SyncedAt:   time.Now(),
	}
	for _, failed := range resp.FailedProducts {
		result.FailedItems = append(result.FailedItems, platform.SyncFailure{
			ProductID: failed.ID,
			Message:   failed.Reason,
		})
	}
	result.FailedCount = len(result.FailedItems)
	result.SuccessCount = result.TotalCount - result.FailedCount
	return result, nil
}

// formatProduct maps an internal product listing to the Getir menu shape
func (a *GetirAdapter) formatProduct(ctx context.Context, p catalog.ProductListing) getirMenuItem {
	return getirMenuItem{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Category:    a.CategoryID(p.Category),
		ImageURL:    resolveImage(ctx, a.images, p.ImagePath),
		Available:   p.IsActive,
	}
}

// GetProducts pulls the current Getir catalog mapped into the internal shape
func (a *GetirAdapter) GetProducts(ctx context.Context) ([]catalog.ProductListing, error) {
	path := fmt.Sprintf("/restaurants/%s/products", url.PathEscape(a.config.RestaurantID))
	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp getirProductsResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("getir: failed to parse products response: %w", err)
	}

	products := make([]catalog.ProductListing, 0, len(resp.Products))
	for _, item := range resp.Products {
		products = append(products, catalog.ProductListing{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       decimal.NewFromFloat(item.Price),
			Category:    item.Category,
			IsActive:    item.Available,
			ImagePath:   item.ImageURL,
		})
	}
	return products, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders lists orders from Getir, optionally filtered by native status
func (a *GetirAdapter) GetOrders(ctx context.Context, status string, limit int) ([]platform.UpstreamOrder, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	path := "/orders"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var resp getirOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("getir: failed to parse orders response: %w", err)
	}

	orders := make([]platform.UpstreamOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		raw, _ := json.Marshal(o)
		orders = append(orders, platform.UpstreamOrder{
			ID:     o.ID,
			Status: strconv.Itoa(o.Status),
			Raw:    raw,
		})
	}
	return orders, nil
}

// AcceptOrder verifies an incoming order on Getir
func (a *GetirAdapter) AcceptOrder(ctx context.Context, orderID string) error {
	path := fmt.Sprintf("/orders/%s/verify", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPost, path, nil)
	return err
}

// RejectOrder cancels an incoming order on Getir
func (a *GetirAdapter) RejectOrder(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		reason = getirDefaultRejectReason
	}
	path := fmt.Sprintf("/orders/%s/cancel", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPost, path, getirRejectRequest{Reason: reason})
	return err
}

// UpdateOrderStatus pushes an internal status to Getir's numeric status codes
func (a *GetirAdapter) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	code, ok := mapToGetirStatus(status)
	if !ok {
		return fmt.Errorf("getir: no status mapping for %q", status)
	}
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPut, path, getirStatusRequest{Status: code})
	return err
}

// ConfirmOrder confirms a fresh order; Getir confirms through the verify call
func (a *GetirAdapter) ConfirmOrder(ctx context.Context, orderID string) error {
	return a.AcceptOrder(ctx, orderID)
}

// ConvertOrder normalizes a raw Getir order payload. Only a non-JSON body
// fails; every missing field maps to a default.
func (a *GetirAdapter) ConvertOrder(raw []byte) (*ordering.Order, error) {
	var o getirOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidPayload, err)
	}

	order := &ordering.Order{
		Platform:        platform.CodeGetir.String(),
		PlatformOrderID: o.ID,
		Customer: ordering.Customer{
			Name:  o.Client.Name,
			Phone: o.Client.ContactPhoneNumber,
			Address: joinAddress(
				o.Client.DeliveryAddress.Address,
				o.Client.DeliveryAddress.District,
				o.Client.DeliveryAddress.City,
			),
		},
		Notes:         o.ClientNote,
		PaymentMethod: o.PaymentMethodText,
	}

	for _, p := range o.Products {
		item := ordering.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Count,
			Price:     decimal.NewFromFloat(p.Price),
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		for _, cat := range p.OptionCategories {
			for _, opt := range cat.Options {
				item.Options = append(item.Options, opt.Name)
			}
		}
		order.Items = append(order.Items, item)
	}

	if o.ScheduledDate != "" {
		if at, err := time.Parse(time.RFC3339, o.ScheduledDate); err == nil {
			order.DeliveryTime = &at
		}
	}

	return finalizeOrder(order, decimal.NewFromFloat(o.TotalAmount)), nil
}

// ---------------------------------------------------------------------------
// Webhook and Taxonomy
// ---------------------------------------------------------------------------

// ValidateWebhook verifies the X-Getir-Signature header against the raw body
func (a *GetirAdapter) ValidateWebhook(req *platform.WebhookRequest) error {
	return validateWebhook(platform.CodeGetir, a.config.WebhookSecret, req)
}

// CategoryID maps an internal category to Getir's string taxonomy. Unmapped
// categories fall back to the "genel" bucket.
func (a *GetirAdapter) CategoryID(internal string) string {
	if id, ok := getirCategories[strings.ToLower(strings.TrimSpace(internal))]; ok {
		return id
	}
	return getirFallbackCategory
}

// mapToGetirStatus maps internal order statuses to Getir status codes
func mapToGetirStatus(status string) (int, bool) {
	switch ordering.Status(status) {
	case ordering.StatusConfirmed, ordering.StatusPreparing:
		return getirStatusPreparing, true
	case ordering.StatusReady:
		return getirStatusReady, true
	case ordering.StatusOnTheWay:
		return getirStatusOnTheWay, true
	case ordering.StatusDelivered:
		return getirStatusDelivered, true
	case ordering.StatusCancelled:
		return getirStatusCancelled, true
	default:
		return 0, false
	}
}

// Ensure GetirAdapter implements the Adapter port
var _ platform.Adapter = (*GetirAdapter)(nil)
