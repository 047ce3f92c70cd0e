package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medishare/backend/internal/domain/shared"
)

// AggregateModel carries the identity, timestamps and optimistic-lock
// version shared by every aggregate table.
type AggregateModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
	Version   int       `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates the model from a domain aggregate root
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.ID = a.ID
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
	m.Version = a.Version
}

// ToDomainAggregateRoot rebuilds the domain aggregate root with no pending events
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		Identity: shared.Identity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		Version: m.Version,
	}
}

// All lists every model in dependency order, for AutoMigrate
func All() []any {
	return []any{
		&ClinicModel{},
		&MedicineModel{},
		&InventoryItemModel{},
		&SurplusPostingModel{},
		&MedicineRequestModel{},
		&TransferModel{},
	}
}
