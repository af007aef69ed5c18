package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/platehub/backend/internal/domain/ordering"
)

// OrderModel is the persistence model for the normalized Order domain entity.
// The composite unique index on (platform, platform_order_id) is the
// authoritative idempotency guard for webhook deliveries.
type OrderModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	Platform        string          `gorm:"type:varchar(20);not null;uniqueIndex:uq_orders_platform_order,priority:1;index:idx_orders_platform_created,priority:1"`
	PlatformOrderID string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_orders_platform_order,priority:2"`
	CustomerName    string          `gorm:"type:varchar(255);not null"`
	CustomerPhone   string          `gorm:"type:varchar(50)"`
	CustomerAddress string          `gorm:"type:text"`
	ItemsJSON       string          `gorm:"type:jsonb;column:items"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status          ordering.Status `gorm:"type:varchar(20);not null;index"`
	Notes           string          `gorm:"type:text"`
	PaymentMethod   string          `gorm:"type:varchar(100)"`
	DeliveryTime    *time.Time
	CreatedAt       time.Time `gorm:"not null;index:idx_orders_platform_created,priority:2"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "platform_orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		ID:              m.ID,
		Platform:        m.Platform,
		PlatformOrderID: m.PlatformOrderID,
		Customer: ordering.Customer{
			Name:    m.CustomerName,
			Phone:   m.CustomerPhone,
			Address: m.CustomerAddress,
		},
		Items:         make([]ordering.OrderItem, 0),
		TotalAmount:   m.TotalAmount,
		Status:        m.Status,
		Notes:         m.Notes,
		PaymentMethod: m.PaymentMethod,
		DeliveryTime:  m.DeliveryTime,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}

	// Parse line items from JSON
	if m.ItemsJSON != "" {
		var items []ordering.OrderItem
		if err := json.Unmarshal([]byte(m.ItemsJSON), &items); err == nil {
			order.Items = items
		}
	}

	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.ID = o.ID
	m.Platform = o.Platform
	m.PlatformOrderID = o.PlatformOrderID
	m.CustomerName = o.Customer.Name
	m.CustomerPhone = o.Customer.Phone
	m.CustomerAddress = o.Customer.Address
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status
	m.Notes = o.Notes
	m.PaymentMethod = o.PaymentMethod
	m.DeliveryTime = o.DeliveryTime
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt

	// Serialize line items to JSON
	if len(o.Items) > 0 {
		if jsonBytes, err := json.Marshal(o.Items); err == nil {
			m.ItemsJSON = string(jsonBytes)
		}
	} else {
		m.ItemsJSON = "[]"
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
