package inventory

import (
	"time"

	"github.com/google/uuid"
	catalogapp "github.com/medishare/backend/internal/application/catalog"
	"github.com/medishare/backend/internal/domain/inventory"
)

// AddInventoryRequest records a batch at a clinic. Exactly one of
// MedicineID or Medicine must be given; Medicine is resolved against the
// catalog and created when missing.
type AddInventoryRequest struct {
	ClinicID    uuid.UUID                         `json:"clinic_id" binding:"required"`
	MedicineID  *uuid.UUID                        `json:"medicine_id"`
	Medicine    *catalogapp.CreateMedicineRequest `json:"medicine"`
	BatchNumber string                            `json:"batch_number" binding:"required,min=1,max=50"`
	Quantity    int64                             `json:"quantity" binding:"gte=0"`
	Unit        string                            `json:"unit" binding:"required,unit"`
	ExpiryDate  time.Time                         `json:"expiry_date" binding:"required"`
}

// InventoryListFilter represents filter options for inventory lists
type InventoryListFilter struct {
	ClinicID   *uuid.UUID
	MedicineID *uuid.UUID
	Status     string
	Page       int
	PageSize   int
}

// InventoryItemResponse represents an inventory item in API responses
type InventoryItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ClinicID        uuid.UUID `json:"clinic_id"`
	MedicineID      uuid.UUID `json:"medicine_id"`
	BatchNumber     string    `json:"batch_number"`
	Quantity        int64     `json:"quantity"`
	Unit            string    `json:"unit"`
	ExpiryDate      time.Time `json:"expiry_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	Status          string    `json:"status"`
	AddedDate       time.Time `json:"added_date"`
	Version         int       `json:"version"`
}

// ToInventoryItemResponse converts a domain InventoryItem, measuring expiry against now
func ToInventoryItemResponse(item *inventory.InventoryItem, now time.Time) InventoryItemResponse {
	return InventoryItemResponse{
		ID:              item.ID,
		ClinicID:        item.ClinicID,
		MedicineID:      item.MedicineID,
		BatchNumber:     item.BatchNumber,
		Quantity:        item.Quantity,
		Unit:            string(item.Unit),
		ExpiryDate:      item.ExpiryDate,
		DaysUntilExpiry: item.DaysUntilExpiry(now),
		Status:          string(item.Status),
		AddedDate:       item.AddedDate,
		Version:         item.Version,
	}
}
