package delivery

// Migros native order statuses
const (
	migrosStatusApproved   = "approved"
	migrosStatusPreparing  = "preparing"
	migrosStatusHandover   = "handover"
	migrosStatusOnDelivery = "on_delivery"
	migrosStatusDelivered  = "delivered"
	migrosStatusCancelled  = "cancelled"
)

// migrosMenuItem is one product in the menu push payload
type migrosMenuItem struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	InStock     bool    `json:"inStock"`
}

// migrosMenuRequest is the menu push payload
type migrosMenuRequest struct {
	StoreID string           `json:"storeId"`
	Items   []migrosMenuItem `json:"items"`
}

// migrosMenuResponse reports per-item failures from a menu push
type migrosMenuResponse struct {
	Failures []struct {
		ProductID string `json:"productId"`
		Message   string `json:"message"`
	} `json:"failures"`
}

// migrosProductsResponse is the catalog pull response
type migrosProductsResponse struct {
	Items []migrosMenuItem `json:"items"`
}

// migrosOrdersResponse is the order list response
type migrosOrdersResponse struct {
	Orders []migrosOrder `json:"orders"`
}

// migrosOrder is an order as delivered by the Migros webhook or list endpoint
type migrosOrder struct {
	OrderID       string            `json:"orderId"`
	Status        string            `json:"status"`
	CustomerInfo  migrosCustomer    `json:"customerInfo"`
	Items         []migrosOrderItem `json:"items"`
	TotalPrice    float64           `json:"totalPrice"`
	Note          string            `json:"note,omitempty"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	DeliveryDate  string            `json:"deliveryDate,omitempty"`
}

// migrosCustomer is the customer block of a Migros order
type migrosCustomer struct {
	FullName    string        `json:"fullName"`
	PhoneNumber string        `json:"phoneNumber"`
	Address     migrosAddress `json:"address"`
}

// migrosAddress is the address block of a Migros order
type migrosAddress struct {
	Detail   string `json:"detail"`
	District string `json:"district"`
	City     string `json:"city"`
}

// migrosOrderItem is one line item of a Migros order
type migrosOrderItem struct {
	ProductID   string         `json:"productId"`
	ProductName string         `json:"productName"`
	Amount      int            `json:"amount"`
	Price       float64        `json:"price"`
	Options     []migrosOption `json:"options,omitempty"`
}

// migrosOption is one chosen option of a line item
type migrosOption struct {
	OptionName string `json:"optionName"`
}

// migrosRejectRequest is the order reject payload
type migrosRejectRequest struct {
	Reason string `json:"reason"`
}

// migrosStatusRequest is the status update payload
type migrosStatusRequest struct {
	Status string `json:"status"`
}
