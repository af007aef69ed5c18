package delivery

// Trendyol native package statuses
const (
	trendyolStatusPicking    = "Picking"
	trendyolStatusInvoiced   = "Invoiced"
	trendyolStatusShipped    = "Shipped"
	trendyolStatusDelivered  = "Delivered"
	trendyolStatusUnSupplied = "UnSupplied"
)

// trendyolProduct is one product in the menu push payload
type trendyolProduct struct {
	Barcode     string  `json:"barcode"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	ListPrice   float64 `json:"listPrice"`
	SalePrice   float64 `json:"salePrice"`
	CategoryID  int     `json:"categoryId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	OnSale      bool    `json:"onSale"`
}

// trendyolMenuRequest is the product batch push payload
type trendyolMenuRequest struct {
	Items []trendyolProduct `json:"items"`
}

// trendyolBatchResponse reports per-item failures from a product batch push
type trendyolBatchResponse struct {
	BatchRequestID string `json:"batchRequestId"`
	FailedItems    []struct {
		Barcode string   `json:"barcode"`
		Reasons []string `json:"failureReasons"`
	} `json:"failedItems"`
}

// trendyolProductsResponse is the catalog pull response
type trendyolProductsResponse struct {
	TotalElements int64             `json:"totalElements"`
	Content       []trendyolProduct `json:"content"`
}

// trendyolPackagesResponse is the order package list response
type trendyolPackagesResponse struct {
	TotalElements int64           `json:"totalElements"`
	Content       []trendyolOrder `json:"content"`
}

// trendyolOrder is an order package as delivered by the Trendyol webhook or
// package list endpoint
type trendyolOrder struct {
	OrderNumber   string             `json:"orderNumber"`
	PackageStatus string             `json:"packageStatus"`
	Customer      trendyolCustomer   `json:"customer"`
	Address       trendyolAddress    `json:"address"`
	Lines         []trendyolLine     `json:"lines"`
	TotalPrice    float64            `json:"totalPrice"`
	OrderNote     string             `json:"orderNote,omitempty"`
	PaymentType   string             `json:"paymentType,omitempty"`
	DeliveryDate  int64              `json:"deliveryDate,omitempty"`
}

// trendyolCustomer is the customer block of a Trendyol order
type trendyolCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
}

// trendyolAddress is the delivery address block of a Trendyol order
type trendyolAddress struct {
	Address1 string `json:"address1"`
	District string `json:"district"`
	City     string `json:"city"`
}

// trendyolLine is one line item of a Trendyol order
type trendyolLine struct {
	ProductCode      string            `json:"productCode"`
	Name             string            `json:"name"`
	Quantity         int               `json:"quantity"`
	Price            float64           `json:"price"`
	ModifierProducts []trendyolModifier `json:"modifierProducts,omitempty"`
}

// trendyolModifier is one chosen modifier of a line item
type trendyolModifier struct {
	Name string `json:"name"`
}

// trendyolStatusRequest is the package status update payload
type trendyolStatusRequest struct {
	Status string `json:"status"`
}

// trendyolUnsuppliedRequest is the package reject payload
type trendyolUnsuppliedRequest struct {
	Reason string `json:"reason"`
}
