package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeInventoryItemAdded     = "InventoryItemAdded"
	EventTypeInventoryDecreased     = "InventoryDecreased"
	EventTypeInventoryStatusChanged = "InventoryStatusChanged"
)

// InventoryItemAddedEvent is raised when a clinic records a new batch
type InventoryItemAddedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID   `json:"inventory_item_id"`
	ClinicID        uuid.UUID   `json:"clinic_id"`
	MedicineID      uuid.UUID   `json:"medicine_id"`
	Quantity        int64       `json:"quantity"`
	Status          StockStatus `json:"status"`
}

// NewInventoryItemAddedEvent creates a new InventoryItemAddedEvent
func NewInventoryItemAddedEvent(item *InventoryItem, now time.Time) *InventoryItemAddedEvent {
	return &InventoryItemAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryItemAdded, AggregateTypeInventoryItem, item.ID, now),
		InventoryItemID: item.ID,
		ClinicID:        item.ClinicID,
		MedicineID:      item.MedicineID,
		Quantity:        item.Quantity,
		Status:          item.Status,
	}
}

// InventoryDecreasedEvent is raised when a completed transfer removes stock
type InventoryDecreasedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	ClinicID        uuid.UUID `json:"clinic_id"`
	Quantity        int64     `json:"quantity"`
	Remaining       int64     `json:"remaining"`
	TransferID      uuid.UUID `json:"transfer_id"`
}

// NewInventoryDecreasedEvent creates a new InventoryDecreasedEvent
func NewInventoryDecreasedEvent(item *InventoryItem, quantity int64, transferID uuid.UUID, now time.Time) *InventoryDecreasedEvent {
	return &InventoryDecreasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryDecreased, AggregateTypeInventoryItem, item.ID, now),
		InventoryItemID: item.ID,
		ClinicID:        item.ClinicID,
		Quantity:        quantity,
		Remaining:       item.Quantity,
		TransferID:      transferID,
	}
}

// InventoryStatusChangedEvent is raised when the derived status moves
type InventoryStatusChangedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID   `json:"inventory_item_id"`
	ClinicID        uuid.UUID   `json:"clinic_id"`
	From            StockStatus `json:"from"`
	To              StockStatus `json:"to"`
}

// NewInventoryStatusChangedEvent creates a new InventoryStatusChangedEvent
func NewInventoryStatusChangedEvent(item *InventoryItem, from StockStatus, now time.Time) *InventoryStatusChangedEvent {
	return &InventoryStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInventoryStatusChanged, AggregateTypeInventoryItem, item.ID, now),
		InventoryItemID: item.ID,
		ClinicID:        item.ClinicID,
		From:            from,
		To:              item.Status,
	}
}
