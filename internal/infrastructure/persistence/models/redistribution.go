package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
)

// SurplusPostingModel is the persistence model for the SurplusPosting aggregate root
type SurplusPostingModel struct {
	AggregateModel
	ClinicID        uuid.UUID `gorm:"type:uuid;not null;index"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity        int64     `gorm:"not null"`
	Reason          string    `gorm:"type:varchar(30);not null"`
	Notes           *string   `gorm:"type:text"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	PostedDate      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SurplusPostingModel) TableName() string {
	return "surplus_postings"
}

// ToDomain converts the model to a domain SurplusPosting
func (m *SurplusPostingModel) ToDomain() *redistribution.SurplusPosting {
	return &redistribution.SurplusPosting{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClinicID:          m.ClinicID,
		InventoryItemID:   m.InventoryItemID,
		Quantity:          m.Quantity,
		Reason:            redistribution.SurplusReason(m.Reason),
		Notes:             m.Notes,
		Status:            redistribution.SurplusStatus(m.Status),
		PostedDate:        m.PostedDate,
	}
}

// SurplusPostingModelFromDomain creates a model from a domain SurplusPosting
func SurplusPostingModelFromDomain(sp *redistribution.SurplusPosting) *SurplusPostingModel {
	m := &SurplusPostingModel{
		ClinicID:        sp.ClinicID,
		InventoryItemID: sp.InventoryItemID,
		Quantity:        sp.Quantity,
		Reason:          string(sp.Reason),
		Notes:           sp.Notes,
		Status:          string(sp.Status),
		PostedDate:      sp.PostedDate,
	}
	m.FromDomainAggregateRoot(sp.BaseAggregateRoot)
	return m
}

// MedicineRequestModel is the persistence model for the MedicineRequest aggregate root
type MedicineRequestModel struct {
	AggregateModel
	ClinicID      uuid.UUID `gorm:"type:uuid;not null;index"`
	MedicineID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Quantity      int64     `gorm:"not null"`
	Unit          string    `gorm:"type:varchar(20);not null"`
	Urgency       string    `gorm:"type:varchar(20);not null"`
	Notes         *string   `gorm:"type:text"`
	Status        string    `gorm:"type:varchar(20);not null;index"`
	RequestedDate time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MedicineRequestModel) TableName() string {
	return "medicine_requests"
}

// ToDomain converts the model to a domain MedicineRequest
func (m *MedicineRequestModel) ToDomain() *redistribution.MedicineRequest {
	return &redistribution.MedicineRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ClinicID:          m.ClinicID,
		MedicineID:        m.MedicineID,
		Quantity:          m.Quantity,
		Unit:              inventory.Unit(m.Unit),
		Urgency:           redistribution.Urgency(m.Urgency),
		Notes:             m.Notes,
		Status:            redistribution.RequestStatus(m.Status),
		RequestedDate:     m.RequestedDate,
	}
}

// MedicineRequestModelFromDomain creates a model from a domain MedicineRequest
func MedicineRequestModelFromDomain(r *redistribution.MedicineRequest) *MedicineRequestModel {
	m := &MedicineRequestModel{
		ClinicID:      r.ClinicID,
		MedicineID:    r.MedicineID,
		Quantity:      r.Quantity,
		Unit:          string(r.Unit),
		Urgency:       string(r.Urgency),
		Notes:         r.Notes,
		Status:        string(r.Status),
		RequestedDate: r.RequestedDate,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// TransferModel is the persistence model for the Transfer aggregate root
type TransferModel struct {
	AggregateModel
	SurplusPostingID uuid.UUID `gorm:"type:uuid;not null;index"`
	RequestID        uuid.UUID `gorm:"type:uuid;not null;index"`
	FromClinicID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ToClinicID       uuid.UUID `gorm:"type:uuid;not null;index"`
	InventoryItemID  uuid.UUID `gorm:"type:uuid;not null"`
	Quantity         int64     `gorm:"not null"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	RequestedDate    time.Time `gorm:"not null"`
	ApprovedDate     *time.Time
	CompletedDate    *time.Time
	Notes            string `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfers"
}

// ToDomain converts the model to a domain Transfer
func (m *TransferModel) ToDomain() *redistribution.Transfer {
	return &redistribution.Transfer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SurplusPostingID:  m.SurplusPostingID,
		RequestID:         m.RequestID,
		FromClinicID:      m.FromClinicID,
		ToClinicID:        m.ToClinicID,
		InventoryItemID:   m.InventoryItemID,
		Quantity:          m.Quantity,
		Status:            redistribution.TransferStatus(m.Status),
		RequestedDate:     m.RequestedDate,
		ApprovedDate:      m.ApprovedDate,
		CompletedDate:     m.CompletedDate,
		Notes:             m.Notes,
	}
}

// TransferModelFromDomain creates a model from a domain Transfer
func TransferModelFromDomain(t *redistribution.Transfer) *TransferModel {
	m := &TransferModel{
		SurplusPostingID: t.SurplusPostingID,
		RequestID:        t.RequestID,
		FromClinicID:     t.FromClinicID,
		ToClinicID:       t.ToClinicID,
		InventoryItemID:  t.InventoryItemID,
		Quantity:         t.Quantity,
		Status:           string(t.Status),
		RequestedDate:    t.RequestedDate,
		ApprovedDate:     t.ApprovedDate,
		CompletedDate:    t.CompletedDate,
		Notes:            t.Notes,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}
