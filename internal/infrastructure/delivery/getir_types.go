package delivery

// Getir order status codes used by the status update endpoint
const (
	getirStatusPreparing = 350
	getirStatusReady     = 400
	getirStatusOnTheWay  = 500
	getirStatusDelivered = 600
	getirStatusCancelled = 900
)

// getirMenuItem is one product in the menu push payload
type getirMenuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"image_url,omitempty"`
	Available   bool    `json:"available"`
}

// getirMenuRequest is the full-menu replace payload
type getirMenuRequest struct {
	RestaurantID string          `json:"restaurant_id"`
	Products     []getirMenuItem `json:"products"`
}

// getirMenuResponse reports per-product rejections from a menu push
type getirMenuResponse struct {
	Success        bool `json:"success"`
	FailedProducts []struct {
		ID     string `json:"id"`
		Reason string `json:"reason"`
	} `json:"failed_products"`
}

// getirProductsResponse is the catalog pull response
type getirProductsResponse struct {
	Products []getirMenuItem `json:"products"`
}

// getirOrdersResponse is the order list response
type getirOrdersResponse struct {
	Orders []getirOrder `json:"orders"`
}

// getirOrder is an order as delivered by the Getir webhook or list endpoint
type getirOrder struct {
	ID                string              `json:"id"`
	Status            int                 `json:"status"`
	Client            getirClient         `json:"client"`
	Products          []getirOrderProduct `json:"products"`
	TotalAmount       float64             `json:"total_amount"`
	ScheduledDate     string              `json:"scheduled_date,omitempty"`
	ClientNote        string              `json:"client_note,omitempty"`
	PaymentMethodText string              `json:"payment_method_text,omitempty"`
}

// getirClient is the customer block of a Getir order
type getirClient struct {
	Name               string       `json:"name"`
	ContactPhoneNumber string       `json:"contact_phone_number"`
	DeliveryAddress    getirAddress `json:"delivery_address"`
}

// getirAddress is the delivery address block of a Getir order
type getirAddress struct {
	Address  string `json:"address"`
	District string `json:"district"`
	City     string `json:"city"`
}

// getirOrderProduct is one line item of a Getir order
type getirOrderProduct struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Count            int                   `json:"count"`
	Price            float64               `json:"price"`
	OptionCategories []getirOptionCategory `json:"option_categories,omitempty"`
}

// getirOptionCategory groups the chosen options of a line item
type getirOptionCategory struct {
	Name    string        `json:"name"`
	Options []getirOption `json:"options"`
}

// getirOption is one chosen option
type getirOption struct {
	Name  string  `json:"name"`
	Price float64 `json:"price,omitempty"`
}

// getirRejectRequest is the order cancel payload
type getirRejectRequest struct {
	Reason string `json:"reason"`
}

// getirStatusRequest is the status update payload
type getirStatusRequest struct {
	Status int `json:"status"`
}
