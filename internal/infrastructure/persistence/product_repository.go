package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/platehub/backend/internal/domain/catalog"
	"github.com/platehub/backend/internal/infrastructure/persistence/models"
)

// GormProductRepository implements catalog.Repository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// GetBranchProducts returns the active product listings for a branch, in a
// stable category and name order so menu pushes are deterministic
func (r *GormProductRepository) GetBranchProducts(ctx context.Context, branchID int64) ([]catalog.ProductListing, error) {
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).
		Where("branch_id = ? AND is_active = ?", branchID, true).
		Order("category ASC, name ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	listings := make([]catalog.ProductListing, len(productModels))
	for i, model := range productModels {
		listings[i] = model.ToDomain()
	}
	return listings, nil
}

// Ensure GormProductRepository implements catalog.Repository
var _ catalog.Repository = (*GormProductRepository)(nil)
