package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrOrderNotFound indicates no stored order matched the query
	ErrOrderNotFound = errors.New("ordering: order not found")
	// ErrDuplicateOrder indicates the (platform, platformOrderID) pair already exists
	ErrDuplicateOrder = errors.New("ordering: duplicate platform order")
)

// Status represents the internal order lifecycle state
type Status string

const (
	// StatusPending indicates the order arrived and awaits confirmation
	StatusPending Status = "pending"
	// StatusConfirmed indicates the order was confirmed back to the platform
	StatusConfirmed Status = "confirmed"
	// StatusPreparing indicates the kitchen is working on the order
	StatusPreparing Status = "preparing"
	// StatusReady indicates the order is ready for pickup by the courier
	StatusReady Status = "ready"
	// StatusOnTheWay indicates the courier has the order
	StatusOnTheWay Status = "on_the_way"
	// StatusDelivered indicates the order reached the customer
	StatusDelivered Status = "delivered"
	// StatusCancelled indicates the order was cancelled or rejected
	StatusCancelled Status = "cancelled"
)

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Customer is the delivery recipient as reported by the platform
type Customer struct {
	// Name is the customer's name; normalizers substitute a placeholder
	// when the platform omits it
	Name string `json:"name"`
	// Phone is the customer's contact number
	Phone string `json:"phone"`
	// Address is the delivery address as a single line
	Address string `json:"address"`
}

// OrderItem is one normalized line item
type OrderItem struct {
	// ProductID is the product identifier as reported by the platform
	ProductID string `json:"productId"`
	// Name is the product name
	Name string `json:"name"`
	// Quantity is the ordered count
	Quantity int `json:"quantity"`
	// Price is the unit price
	Price decimal.Decimal `json:"price"`
	// Options lists modifier/option names, if any
	Options []string `json:"options,omitempty"`
}

// LineTotal returns Price * Quantity for this item
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the canonical internal order shape every platform adapter's
// ConvertOrder must produce. (Platform, PlatformOrderID) is the natural
// idempotency key; the repository enforces its uniqueness.
type Order struct {
	// ID is the internal order identifier, assigned at persistence
	ID uuid.UUID `json:"id"`
	// Platform is the source platform code
	Platform string `json:"platform"`
	// PlatformOrderID is the order id on the source platform
	PlatformOrderID string `json:"platformOrderId"`
	// Customer is the delivery recipient
	Customer Customer `json:"customer"`
	// Items are the normalized line items, never nil
	Items []OrderItem `json:"items"`
	// TotalAmount is the order total. The normalizer recomputes it from the
	// items when the upstream-reported value disagrees beyond rounding.
	TotalAmount decimal.Decimal `json:"totalAmount"`
	// Status is the internal lifecycle state
	Status Status `json:"status"`
	// Notes carries customer notes plus any normalization remarks
	Notes string `json:"notes,omitempty"`
	// PaymentMethod is the platform-reported payment method, if any
	PaymentMethod string `json:"paymentMethod,omitempty"`
	// DeliveryTime is the requested delivery time, if the platform sent one
	DeliveryTime *time.Time `json:"deliveryTime,omitempty"`
	// CreatedAt is when the order was stored
	CreatedAt time.Time `json:"createdAt"`
	// UpdatedAt is when the order was last modified
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemsTotal returns the sum of all line totals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Repository is the persistence port for normalized orders. Save must enforce
// (platform, platformOrderID) uniqueness and return ErrDuplicateOrder together
// with the previously stored order on a repeat delivery.
type Repository interface {
	// Save persists a new order and assigns its internal ID
	Save(ctx context.Context, order *Order) (*Order, error)

	// FindByPlatformOrderID looks up an order by its idempotency key
	FindByPlatformOrderID(ctx context.Context, platform, platformOrderID string) (*Order, error)

	// ListByPlatform returns a page of stored orders for a platform together
	// with the total count. Implementations whitelist sortBy and sortDir and
	// fall back to newest first.
	ListByPlatform(ctx context.Context, platform string, offset, limit int, sortBy, sortDir string) ([]Order, int64, error)

	// UpdateStatus sets the internal status of a stored order
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}
