package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// Unit is the dispensing unit of an inventory item
type Unit string

const (
	UnitTablets  Unit = "tablets"
	UnitCapsules Unit = "capsules"
	UnitML       Unit = "ml"
	UnitVials    Unit = "vials"
	UnitStrips   Unit = "strips"
	UnitBottles  Unit = "bottles"
)

// IsValid checks if the unit is known
func (u Unit) IsValid() bool {
	switch u {
	case UnitTablets, UnitCapsules, UnitML, UnitVials, UnitStrips, UnitBottles:
		return true
	}
	return false
}

// InventoryItem is one batch of a medicine held by a clinic.
// Quantity only decreases through completed transfers; Status is derived.
type InventoryItem struct {
	shared.BaseAggregateRoot
	ClinicID    uuid.UUID
	MedicineID  uuid.UUID
	BatchNumber string
	Quantity    int64
	Unit        Unit
	ExpiryDate  time.Time
	Status      StockStatus
	AddedDate   time.Time
}

// NewInventoryItem records a new batch and classifies it
func NewInventoryItem(
	clinicID, medicineID uuid.UUID,
	batchNumber string,
	quantity int64,
	unit Unit,
	expiryDate time.Time,
	policy StockPolicy,
	now time.Time,
) (*InventoryItem, error) {
	if clinicID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Clinic ID cannot be empty")
	}
	if medicineID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Medicine ID cannot be empty")
	}
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.NewInvalidInputError("Batch number cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewInvalidInputError("Quantity cannot be negative")
	}
	if !unit.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid unit: " + string(unit))
	}
	if expiryDate.IsZero() {
		return nil, shared.NewInvalidInputError("Expiry date is required")
	}

	item := &InventoryItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ClinicID:          clinicID,
		MedicineID:        medicineID,
		BatchNumber:       batchNumber,
		Quantity:          quantity,
		Unit:              unit,
		ExpiryDate:        expiryDate,
		Status:            policy.Classify(quantity, expiryDate, now),
		AddedDate:         now,
	}

	item.AddDomainEvent(NewInventoryItemAddedEvent(item, now))

	return item, nil
}

// DaysUntilExpiry returns the rounded-up days until the batch expires
func (i *InventoryItem) DaysUntilExpiry(now time.Time) int {
	return DaysUntil(i.ExpiryDate, now)
}

// IsExpired reports whether the batch is past its expiry date
func (i *InventoryItem) IsExpired(now time.Time) bool {
	return i.DaysUntilExpiry(now) < 0
}

// Decrease removes quantity that left the clinic through a transfer.
// Going below zero is a data-integrity failure, never clamped.
func (i *InventoryItem) Decrease(quantity int64, transferID uuid.UUID, policy StockPolicy, now time.Time) error {
	if quantity <= 0 {
		return shared.NewInvalidInputError("Decrease quantity must be positive")
	}
	if quantity > i.Quantity {
		return shared.NewDataIntegrityError(fmt.Sprintf(
			"Inventory item %s holds %d, cannot remove %d", i.ID, i.Quantity, quantity))
	}

	i.Quantity -= quantity
	i.Mutated(now)

	i.AddDomainEvent(NewInventoryDecreasedEvent(i, quantity, transferID, now))
	i.reclassify(policy, now)

	return nil
}

// Reclassify recomputes Status against now and reports whether it changed
func (i *InventoryItem) Reclassify(policy StockPolicy, now time.Time) bool {
	changed := i.reclassify(policy, now)
	if changed {
		i.Mutated(now)
	}
	return changed
}

func (i *InventoryItem) reclassify(policy StockPolicy, now time.Time) bool {
	next := policy.Classify(i.Quantity, i.ExpiryDate, now)
	if next == i.Status {
		return false
	}
	previous := i.Status
	i.Status = next
	i.AddDomainEvent(NewInventoryStatusChangedEvent(i, previous, now))
	return true
}
