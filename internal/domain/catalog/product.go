package catalog

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// ErrProductNotFound indicates no product matched the query
var ErrProductNotFound = errors.New("catalog: product not found")

// ProductListing is the menu view of a product as consumed by the platform
// adapters. Produced by the product repository, read-only downstream.
type ProductListing struct {
	// ID is the internal product identifier
	ID string `json:"id"`
	// Name is the product display name
	Name string `json:"name"`
	// Description is the product description
	Description string `json:"description"`
	// Price is the selling price
	Price decimal.Decimal `json:"price"`
	// Category is the internal taxonomy name, mapped per platform by
	// the adapters' CategoryID lookup
	Category string `json:"category"`
	// IsActive controls whether the product appears in synced menus
	IsActive bool `json:"isActive"`
	// ImagePath is a relative storage path or absolute URL for the
	// product image. Relative paths are resolved to public URLs before
	// a menu is pushed upstream.
	ImagePath string `json:"imagePath"`
}

// Repository is the read port adapters and the hub use to load menus
type Repository interface {
	// GetBranchProducts returns the active menu of a branch
	GetBranchProducts(ctx context.Context, branchID int64) ([]ProductListing, error)
}
