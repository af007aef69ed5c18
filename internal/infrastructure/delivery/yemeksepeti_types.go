package delivery

// Yemeksepeti native order statuses
const (
	yemeksepetiStatusAccepted  = "order_accepted"
	yemeksepetiStatusPreparing = "order_preparing"
	yemeksepetiStatusPickedUp  = "order_picked_up"
	yemeksepetiStatusDelivered = "order_delivered"
	yemeksepetiStatusRejected  = "order_rejected"
)

// yemeksepetiCatalogItem is one product in the catalog push payload
type yemeksepetiCatalogItem struct {
	RemoteCode  string  `json:"remoteCode"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Active      bool    `json:"active"`
}

// yemeksepetiCatalogRequest is the catalog push payload
type yemeksepetiCatalogRequest struct {
	VendorID string                   `json:"vendorId"`
	Items    []yemeksepetiCatalogItem `json:"items"`
}

// yemeksepetiCatalogResponse reports per-item rejections from a catalog push
type yemeksepetiCatalogResponse struct {
	Rejected []struct {
		RemoteCode string `json:"remoteCode"`
		Reason     string `json:"reason"`
	} `json:"rejected"`
}

// yemeksepetiCatalogPull is the catalog pull response
type yemeksepetiCatalogPull struct {
	Items []yemeksepetiCatalogItem `json:"items"`
}

// yemeksepetiOrdersResponse is the order list response
type yemeksepetiOrdersResponse struct {
	Orders []yemeksepetiOrder `json:"orders"`
}

// yemeksepetiOrder is an order as delivered by the Yemeksepeti webhook or
// list endpoint
type yemeksepetiOrder struct {
	Token      string                 `json:"token"`
	Code       string                 `json:"code"`
	Status     string                 `json:"status"`
	Customer   yemeksepetiCustomer    `json:"customer"`
	Delivery   yemeksepetiDelivery    `json:"delivery"`
	Products   []yemeksepetiProduct   `json:"products"`
	Price      yemeksepetiPrice       `json:"price"`
	Comments   yemeksepetiComments    `json:"comments"`
	Payment    yemeksepetiPayment     `json:"payment"`
	ExpiryDate string                 `json:"expiryDate,omitempty"`
}

// yemeksepetiCustomer is the customer block of a Yemeksepeti order
type yemeksepetiCustomer struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	MobilePhone string `json:"mobilePhone"`
}

// yemeksepetiDelivery is the delivery block of a Yemeksepeti order
type yemeksepetiDelivery struct {
	Address yemeksepetiAddress `json:"address"`
}

// yemeksepetiAddress is the address block of a Yemeksepeti order
type yemeksepetiAddress struct {
	Street string `json:"street"`
	Number string `json:"number"`
	City   string `json:"city"`
}

// yemeksepetiProduct is one line item of a Yemeksepeti order
type yemeksepetiProduct struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Quantity         int                   `json:"quantity"`
	UnitPrice        float64               `json:"unitPrice"`
	SelectedToppings []yemeksepetiTopping  `json:"selectedToppings,omitempty"`
}

// yemeksepetiTopping is one chosen topping of a line item
type yemeksepetiTopping struct {
	Name string `json:"name"`
}

// yemeksepetiPrice is the price block of a Yemeksepeti order
type yemeksepetiPrice struct {
	GrandTotal float64 `json:"grandTotal"`
}

// yemeksepetiComments is the comments block of a Yemeksepeti order
type yemeksepetiComments struct {
	CustomerComment string `json:"customerComment"`
}

// yemeksepetiPayment is the payment block of a Yemeksepeti order
type yemeksepetiPayment struct {
	Type string `json:"type"`
}

// yemeksepetiRejectRequest is the order reject payload
type yemeksepetiRejectRequest struct {
	Reason string `json:"reason"`
}

// yemeksepetiStatusRequest is the status update payload
type yemeksepetiStatusRequest struct {
	Status string `json:"status"`
}
