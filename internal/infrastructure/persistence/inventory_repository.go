package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/persistence/models"
)

// GormInventoryItemRepository implements InventoryItemRepository using GORM
type GormInventoryItemRepository struct {
	db *gorm.DB
}

// NewGormInventoryItemRepository creates a new GormInventoryItemRepository
func NewGormInventoryItemRepository(db *gorm.DB) *GormInventoryItemRepository {
	return &GormInventoryItemRepository{db: db}
}

// FindByID finds an inventory item by its ID
func (r *GormInventoryItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	var model models.InventoryItemModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Inventory item", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists inventory items filtered by clinic, medicine and status
func (r *GormInventoryItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryItem, error) {
	query := applyEquals(r.db.WithContext(ctx).Model(&models.InventoryItemModel{}),
		filter, "clinic_id", "medicine_id", "status")
	query = applyPaging(query, filter, InventorySortFields, "created_at")

	var rows []models.InventoryItemModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	items := make([]inventory.InventoryItem, len(rows))
	for i := range rows {
		items[i] = *rows[i].ToDomain()
	}
	return items, nil
}

// Save creates or updates an inventory item
func (r *GormInventoryItemRepository) Save(ctx context.Context, item *inventory.InventoryItem) error {
	if err := r.db.WithContext(ctx).Save(models.InventoryItemModelFromDomain(item)).Error; err != nil {
		return fmt.Errorf("save inventory item: %w", err)
	}
	return nil
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormInventoryItemRepository) SaveWithLock(ctx context.Context, item *inventory.InventoryItem) error {
	return versionedUpdate(r.db.WithContext(ctx), &models.InventoryItemModel{}, "Inventory item", item.ID, item.Version,
		map[string]any{
			"quantity":   item.Quantity,
			"status":     string(item.Status),
			"updated_at": item.UpdatedAt,
		})
}

var _ inventory.InventoryItemRepository = (*GormInventoryItemRepository)(nil)
