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

// yemeksepetiCategories maps internal category names (lowercased) to
// Yemeksepeti's string taxonomy ids.
var yemeksepetiCategories = map[string]string{
	"pizza":    "pizza",
	"burger":   "burger",
	"kebap":    "kebap-turk-mutfagi",
	"döner":    "doner",
	"doner":    "doner",
	"lahmacun": "pide-lahmacun",
	"pide":     "pide-lahmacun",
	"salata":   "salata-sandvic",
	"tatlı":    "tatli",
	"tatli":    "tatli",
	"içecek":   "icecek",
	"icecek":   "icecek",
}

// yemeksepetiFallbackCategory is the catch-all bucket for unmapped categories
const yemeksepetiFallbackCategory = "diger"

// yemeksepetiDefaultRejectReason is used when a reject reason is omitted
const yemeksepetiDefaultRejectReason = "Ürün stokta yok"

// YemeksepetiAdapter implements the platform.Adapter port for Yemeksepeti
type YemeksepetiAdapter struct {
	config *YemeksepetiConfig
	client *client
	images ImageResolver
}

// NewYemeksepetiAdapter creates a new Yemeksepeti adapter with the given
// configuration. images may be nil.
func NewYemeksepetiAdapter(config *YemeksepetiConfig, images ImageResolver) (*YemeksepetiAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	auth := func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+config.APIKey)
		req.Header.Set("X-Vendor-Id", config.VendorID)
	}

	return &YemeksepetiAdapter{
		config: config,
		client: newClient(platform.CodeYemeksepeti, config.BaseURL, time.Duration(config.TimeoutSeconds)*time.Second, auth),
		images: images,
	}, nil
}

// Code returns the platform code this adapter handles
func (a *YemeksepetiAdapter) Code() platform.Code {
	return platform.CodeYemeksepeti
}

// ---------------------------------------------------------------------------
// Menu Operations
// ---------------------------------------------------------------------------

// SyncMenu pushes the catalog to Yemeksepeti
func (a *YemeksepetiAdapter) SyncMenu(ctx context.Context, products []catalog.ProductListing) (*platform.MenuSyncResult, error) {
	request := yemeksepetiCatalogRequest{
		VendorID: a.config.VendorID,
		Items:    make([]yemeksepetiCatalogItem, 0, len(products)),
	}
	for _, p := range products {
		request.Items = append(request.Items, a.formatProduct(ctx, p))
	}

	respBody, err := a.client.doIdempotent(ctx, http.MethodPut, "/catalog", request)
	if err != nil {
		return nil, err
	}

	var resp yemeksepetiCatalogResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("yemeksepeti: failed to parse catalog response: %w", err)
	}

	result := &platform.MenuSyncResult{
		Platform:   platform.CodeYemeksepeti,
		TotalCount: len(products),
		SyncedAt:   time.Now(),
	}
	for _, rejected := range resp.Rejected {
		result.FailedItems = append(result.FailedItems, platform.SyncFailure{
			ProductID: rejected.RemoteCode,
			Message:   rejected.Reason,
		})
	}
	result.FailedCount = len(result.FailedItems)
	result.SuccessCount = result.TotalCount - result.FailedCount
	return result, nil
}

// formatProduct maps an internal product listing to the Yemeksepeti shape
func (a *YemeksepetiAdapter) formatProduct(ctx context.Context, p catalog.ProductListing) yemeksepetiCatalogItem {
	return yemeksepetiCatalogItem{
		RemoteCode:  p.ID,
		Title:       p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		CategoryID:  a.CategoryID(p.Category),
		ImageURL:    resolveImage(ctx, a.images, p.ImagePath),
		Active:      p.IsActive,
	}
}

// GetProducts pulls the current Yemeksepeti catalog mapped into the internal shape
func (a *YemeksepetiAdapter) GetProducts(ctx context.Context) ([]catalog.ProductListing, error) {
	respBody, err := a.client.doIdempotent(ctx, http.MethodGet, "/catalog", nil)
	if err != nil {
		return nil, err
	}

	var resp yemeksepetiCatalogPull
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("yemeksepeti: failed to parse catalog response: %w", err)
	}

	products := make([]catalog.ProductListing, 0, len(resp.Items))
	for _, item := range resp.Items {
		products = append(products, catalog.ProductListing{
			ID:          item.RemoteCode,
			Name:        item.Title,
			Description: item.Description,
			Price:       decimal.NewFromFloat(item.Price),
			Category:    item.CategoryID,
			IsActive:    item.Active,
			ImagePath:   item.ImageURL,
		})
	}
	return products, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// GetOrders lists orders from Yemeksepeti
func (a *YemeksepetiAdapter) GetOrders(ctx context.Context, status string, limit int) ([]platform.UpstreamOrder, error) {
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

	var resp yemeksepetiOrdersResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("yemeksepeti: failed to parse orders response: %w", err)
	}

	orders := make([]platform.UpstreamOrder, 0, len(resp.Orders))
	for _, o := range resp.Orders {
		raw, _ := json.Marshal(o)
		orders = append(orders, platform.UpstreamOrder{
			ID:     o.Token,
			Status: o.Status,
			Raw:    raw,
		})
	}
	return orders, nil
}

// AcceptOrder accepts an incoming order on Yemeksepeti
func (a *YemeksepetiAdapter) AcceptOrder(ctx context.Context, orderID string) error {
	path := fmt.Sprintf("/orders/%s/accept", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPost, path, nil)
	return err
}

// RejectOrder declines an incoming order on Yemeksepeti
func (a *YemeksepetiAdapter) RejectOrder(ctx context.Context, orderID, reason string) error {
	if reason == "" {
		reason = yemeksepetiDefaultRejectReason
	}
	path := fmt.Sprintf("/orders/%s/reject", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPost, path, yemeksepetiRejectRequest{Reason: reason})
	return err
}

// UpdateOrderStatus pushes an internal status to Yemeksepeti's native statuses
func (a *YemeksepetiAdapter) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	native, ok := mapToYemeksepetiStatus(status)
	if !ok {
		return fmt.Errorf("yemeksepeti: no status mapping for %q", status)
	}
	if native == yemeksepetiStatusRejected {
		return a.RejectOrder(ctx, orderID, "")
	}
	path := fmt.Sprintf("/orders/%s/status", url.PathEscape(orderID))
	_, err := a.client.do(ctx, http.MethodPut, path, yemeksepetiStatusRequest{Status: native})
	return err
}

// ConfirmOrder confirms a fresh order; Yemeksepeti confirms through the
// accept call.
func (a *YemeksepetiAdapter) ConfirmOrder(ctx context.Context, orderID string) error {
	return a.AcceptOrder(ctx, orderID)
}

// ConvertOrder normalizes a raw Yemeksepeti order payload
func (a *YemeksepetiAdapter) ConvertOrder(raw []byte) (*ordering.Order, error) {
	var o yemeksepetiOrder
	if err := json.Unmarshal(raw, &o); err != nil {
		return nil, fmt.Errorf("%w: %v", platform.ErrInvalidPayload, err)
	}

	platformOrderID := o.Token
	if platformOrderID == "" {
		platformOrderID = o.Code
	}

	order := &ordering.Order{
		Platform:        platform.CodeYemeksepeti.String(),
		PlatformOrderID: platformOrderID,
		Customer: ordering.Customer{
			Name:  strings.TrimSpace(o.Customer.FirstName + " " + o.Customer.LastName),
			Phone: o.Customer.MobilePhone,
			Address: joinAddress(
				strings.TrimSpace(o.Delivery.Address.Street+" "+o.Delivery.Address.Number),
				o.Delivery.Address.City,
			),
		},
		Notes:         o.Comments.CustomerComment,
		PaymentMethod: o.Payment.Type,
	}

	for _, p := range o.Products {
		item := ordering.OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Price:     decimal.NewFromFloat(p.UnitPrice),
		}
		if item.Quantity <= 0 {
			item.Quantity = 1
		}
		for _, topping := range p.SelectedToppings {
			item.Options = append(item.Options, topping.Name)
		}
		order.Items = append(order.Items, item)
	}

	if o.ExpiryDate != "" {
		if at, err := time.Parse(time.RFC3339, o.ExpiryDate); err == nil {
			order.DeliveryTime = &at
		}
	}

	return finalizeOrder(order, decimal.NewFromFloat(o.Price.GrandTotal)), nil
}

// ---------------------------------------------------------------------------
// Webhook and Taxonomy
// ---------------------------------------------------------------------------

// ValidateWebhook verifies the X-Yemeksepeti-Signature header against the raw body
func (a *YemeksepetiAdapter) ValidateWebhook(req *platform.WebhookRequest) error {
	return validateWebhook(platform.CodeYemeksepeti, a.config.WebhookSecret, req)
}

// CategoryID maps an internal category to Yemeksepeti's taxonomy. Unmapped
// categories fall back to the "diger" bucket.
func (a *YemeksepetiAdapter) CategoryID(internal string) string {
	if id, ok := yemeksepetiCategories[strings.ToLower(strings.TrimSpace(internal))]; ok {
		return id
	}
	return yemeksepetiFallbackCategory
}

// mapToYemeksepetiStatus maps internal order statuses to Yemeksepeti statuses
func mapToYemeksepetiStatus(status string) (string, bool) {
	switch ordering.Status(status) {
	case ordering.StatusConfirmed:
		return yemeksepetiStatusAccepted, true
	case ordering.StatusPreparing:
		return yemeksepetiStatusPreparing, true
	case ordering.StatusReady, ordering.StatusOnTheWay:
		return yemeksepetiStatusPickedUp, true
	case ordering.StatusDelivered:
		return yemeksepetiStatusDelivered, true
	case ordering.StatusCancelled:
		return yemeksepetiStatusRejected, true
	default:
		return "", false
	}
}

// Ensure YemeksepetiAdapter implements the Adapter port
var _ platform.Adapter = (*YemeksepetiAdapter)(nil)
