package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medishare/backend/internal/domain/inventory"
)

// InventoryItemModel is the persistence model for the InventoryItem aggregate root
type InventoryItemModel struct {
	AggregateModel
	ClinicID    uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicineID  uuid.UUID `gorm:"type:uuid;not null;index"`
	BatchNumber string    `gorm:"type:varchar(100);not null"`
	Quantity    int64     `gorm:"not null;default:0"`
	Unit        string    `gorm:"type:varchar(20);not null"`
	ExpiryDate  time.Time `gorm:"not null;index"`
	Status      string    `gorm:"type:varchar(20);not null;index"`
	AddedDate   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InventoryItemModel) TableName() string {
	return "inventory_items"
}

// ToDomain converts the model to a domain InventoryItem
func (m *InventoryItemModel) ToDomain() *inventory.InventoryItem {
	return &inventory.InventoryItem{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClinicID:          m.ClinicID,
		MedicineID:        m.MedicineID,
		BatchNumber:       m.BatchNumber,
		Quantity:          m.Quantity,
		Unit:              inventory.Unit(m.Unit),
		ExpiryDate:        m.ExpiryDate,
		Status:            inventory.StockStatus(m.Status),
		AddedDate:         m.AddedDate,
	}
}

// InventoryItemModelFromDomain creates a model from a domain InventoryItem
func InventoryItemModelFromDomain(item *inventory.InventoryItem) *InventoryItemModel {
	m := &InventoryItemModel{
		ClinicID:    item.ClinicID,
		MedicineID:  item.MedicineID,
		BatchNumber: item.BatchNumber,
		Quantity:    item.Quantity,
		Unit:        string(item.Unit),
		ExpiryDate:  item.ExpiryDate,
		Status:      string(item.Status),
		AddedDate:   item.AddedDate,
	}
	m.FromDomainAggregateRoot(item.BaseAggregateRoot)
	return m
}
