package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// InventoryItemRepository defines the interface for inventory item persistence
type InventoryItemRepository interface {
	// FindByID finds an inventory item by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindAll lists inventory items; Filters may contain
	// "clinic_id", "medicine_id" and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryItem, error)

	// Save creates or updates an inventory item
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *InventoryItem) error
}
