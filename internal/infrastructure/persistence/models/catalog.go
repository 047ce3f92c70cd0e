package models

import (
	"github.com/medishare/backend/internal/domain/catalog"
)

// MedicineModel is the persistence model for the Medicine aggregate root
type MedicineModel struct {
	AggregateModel
	Name         string `gorm:"type:varchar(200);not null;index"`
	GenericName  string `gorm:"type:varchar(200)"`
	Category     string `gorm:"type:varchar(50);not null;index"`
	Strength     string `gorm:"type:varchar(50)"`
	Manufacturer string `gorm:"type:varchar(200)"`
	Priority     string `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (MedicineModel) TableName() string {
	return "medicines"
}

// ToDomain converts the model to a domain Medicine
func (m *MedicineModel) ToDomain() *catalog.Medicine {
	return &catalog.Medicine{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		GenericName:       m.GenericName,
		Category:          catalog.MedicineCategory(m.Category),
		Strength:          m.Strength,
		Manufacturer:      m.Manufacturer,
		Priority:          catalog.MedicinePriority(m.Priority),
	}
}

// MedicineModelFromDomain creates a model from a domain Medicine
func MedicineModelFromDomain(med *catalog.Medicine) *MedicineModel {
	m := &MedicineModel{
		Name:         med.Name,
		GenericName:  med.GenericName,
		Category:     string(med.Category),
		Strength:     med.Strength,
		Manufacturer: med.Manufacturer,
		Priority:     string(med.Priority),
	}
	m.FromDomainAggregateRoot(med.BaseAggregateRoot)
	return m
}
