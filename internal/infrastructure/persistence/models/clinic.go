package models

import (
	"github.com/medishare/backend/internal/domain/clinic"
)

// ClinicModel is the persistence model for the Clinic aggregate root
type ClinicModel struct {
	AggregateModel
	Name          string  `gorm:"type:varchar(200);not null;index"`
	Type          string  `gorm:"type:varchar(50);not null"`
	Location      string  `gorm:"type:varchar(200);not null"`
	District      string  `gorm:"type:varchar(100);not null;index:idx_clinics_region,priority:2"`
	State         string  `gorm:"type:varchar(100);not null;index:idx_clinics_region,priority:1"`
	ContactPerson *string `gorm:"type:varchar(200)"`
	Phone         *string `gorm:"type:varchar(50)"`
	Email         *string `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (ClinicModel) TableName() string {
	return "clinics"
}

// ToDomain converts the model to a domain Clinic
func (m *ClinicModel) ToDomain() *clinic.Clinic {
	return &clinic.Clinic{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              clinic.ClinicType(m.Type),
		Location:          m.Location,
		District:          m.District,
		State:             m.State,
		ContactPerson:     m.ContactPerson,
		Phone:             m.Phone,
		Email:             m.Email,
	}
}

// ClinicModelFromDomain creates a model from a domain Clinic
func ClinicModelFromDomain(c *clinic.Clinic) *ClinicModel {
	m := &ClinicModel{
		Name:          c.Name,
		Type:          string(c.Type),
		Location:      c.Location,
		District:      c.District,
		State:         c.State,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}
