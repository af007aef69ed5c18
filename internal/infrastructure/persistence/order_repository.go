package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platehub/backend/internal/domain/ordering"
	"github.com/platehub/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements ordering.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Save persists a new order and assigns its internal ID. A repeat delivery
// hits the (platform, platform_order_id) unique index; in that case the
// previously stored order is returned together with ErrDuplicateOrder.
func (r *GormOrderRepository) Save(ctx context.Context, order *ordering.Order) (*ordering.Order, error) {
	now := time.Now().UTC()
	stored := *order
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	model := models.OrderModelFromDomain(&stored)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			existing, findErr := r.FindByPlatformOrderID(ctx, order.Platform, order.PlatformOrderID)
			if findErr != nil {
				return nil, ordering.ErrDuplicateOrder
			}
			return existing, ordering.ErrDuplicateOrder
		}
		return nil, err
	}

	return model.ToDomain(), nil
}

// FindByPlatformOrderID looks up an order by its idempotency key
func (r *GormOrderRepository) FindByPlatformOrderID(ctx context.Context, platform, platformOrderID string) (*ordering.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND platform_order_id = ?", platform, platformOrderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ordering.ErrOrderNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ListByPlatform returns a page of stored orders for a platform together with
// the total count. sortBy is checked against OrderSortFields and sortDir is
// normalized, so arbitrary user input never reaches the ORDER BY clause.
func (r *GormOrderRepository) ListByPlatform(ctx context.Context, platform string, offset, limit int, sortBy, sortDir string) ([]ordering.Order, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("platform = ?", platform).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	orderClause := ValidateSortField(sortBy, OrderSortFields, "created_at") + " " + ValidateSortOrder(sortDir)

	var orderModels []models.OrderModel
	if err := r.db.WithContext(ctx).
		Where("platform = ?", platform).
		Order(orderClause).
		Offset(offset).
		Limit(limit).
		Find(&orderModels).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]ordering.Order, len(orderModels))
	for i, model := range orderModels {
		orders[i] = *model.ToDomain()
	}
	return orders, count, nil
}

// UpdateStatus sets the internal status of a stored order
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status ordering.Status) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ordering.ErrOrderNotFound
	}
	return nil
}

// isUniqueViolation reports whether the error is a unique index violation.
// GORM's error translation covers postgres; the string checks catch drivers
// and test setups where translation is off.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// Ensure GormOrderRepository implements ordering.Repository
var _ ordering.Repository = (*GormOrderRepository)(nil)
