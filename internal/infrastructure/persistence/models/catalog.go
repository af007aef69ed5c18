package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/platehub/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for a branch product. Rows are what
// menu syncs push out to the delivery platforms.
type ProductModel struct {
	ID          int64           `gorm:"primaryKey;autoIncrement"`
	BranchID    int64           `gorm:"not null;uniqueIndex:uq_products_branch_code,priority:1"`
	Code        string          `gorm:"type:varchar(100);not null;uniqueIndex:uq_products_branch_code,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Category    string          `gorm:"type:varchar(100);index"`
	IsActive    bool            `gorm:"not null;default:true"`
	ImagePath   string          `gorm:"type:varchar(500)"`
	CreatedAt   time.Time       `gorm:"not null"`
	UpdatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "branch_products"
}

// ToDomain converts the persistence model to a domain ProductListing.
func (m *ProductModel) ToDomain() catalog.ProductListing {
	id := m.Code
	if id == "" {
		id = strconv.FormatInt(m.ID, 10)
	}
	return catalog.ProductListing{
		ID:          id,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Category:    m.Category,
		IsActive:    m.IsActive,
		ImagePath:   m.ImagePath,
	}
}
