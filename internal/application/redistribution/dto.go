package redistribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
)

// SurplusResponse represents a surplus posting in API responses
type SurplusResponse struct {
	ID              uuid.UUID `json:"id"`
	ClinicID        uuid.UUID `json:"clinic_id"`
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	Quantity        int64     `json:"quantity"`
	Reason          string    `json:"reason"`
	Notes           *string   `json:"notes,omitempty"`
	Status          string    `json:"status"`
	PostedDate      time.Time `json:"posted_date"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// RequestResponse represents a medicine request in API responses
type RequestResponse struct {
	ID            uuid.UUID `json:"id"`
	ClinicID      uuid.UUID `json:"clinic_id"`
	MedicineID    uuid.UUID `json:"medicine_id"`
	Quantity      int64     `json:"quantity"`
	Unit          string    `json:"unit"`
	Urgency       string    `json:"urgency"`
	Notes         *string   `json:"notes,omitempty"`
	Status        string    `json:"status"`
	RequestedDate time.Time `json:"requested_date"`
	UpdatedAt     time.Time `json:"updated_at"`
	Version       int       `json:"version"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID               uuid.UUID  `json:"id"`
	SurplusPostingID uuid.UUID  `json:"surplus_posting_id"`
	RequestID        uuid.UUID  `json:"request_id"`
	FromClinicID     uuid.UUID  `json:"from_clinic_id"`
	ToClinicID       uuid.UUID  `json:"to_clinic_id"`
	InventoryItemID  uuid.UUID  `json:"inventory_item_id"`
	Quantity         int64      `json:"quantity"`
	Status           string     `json:"status"`
	RequestedDate    time.Time  `json:"requested_date"`
	ApprovedDate     *time.Time `json:"approved_date,omitempty"`
	CompletedDate    *time.Time `json:"completed_date,omitempty"`
	Notes            string     `json:"notes"`
	Version          int        `json:"version"`
}

// InventorySnapshot is the sender's inventory item after a transfer step
type InventorySnapshot struct {
	ID         uuid.UUID `json:"id"`
	ClinicID   uuid.UUID `json:"clinic_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int64     `json:"quantity"`
	Unit       string    `json:"unit"`
	Status     string    `json:"status"`
	ExpiryDate time.Time `json:"expiry_date"`
}

// TransferResult carries the transfer plus every record the step touched.
// Surplus, Request and Inventory are nil when the step left them unchanged.
type TransferResult struct {
	Transfer  TransferResponse   `json:"transfer"`
	Surplus   *SurplusResponse   `json:"surplus,omitempty"`
	Request   *RequestResponse   `json:"request,omitempty"`
	Inventory *InventorySnapshot `json:"inventory,omitempty"`
}

// MatchResponse is one ranked surplus/request pairing
type MatchResponse struct {
	MatchScore      int             `json:"match_score"`
	DaysUntilExpiry int             `json:"days_until_expiry"`
	UrgencyScore    float64         `json:"urgency_score"`
	ExpiryScore     float64         `json:"expiry_score"`
	QuantityRatio   float64         `json:"quantity_ratio"`
	QuantityScore   float64         `json:"quantity_score"`
	Surplus         SurplusResponse `json:"surplus"`
	Request         RequestResponse `json:"request"`
	MedicineName    string          `json:"medicine_name"`
	Strength        string          `json:"strength"`
	Unit            string          `json:"unit"`
	ExpiryDate      time.Time       `json:"expiry_date"`
	FromClinicID    uuid.UUID       `json:"from_clinic_id"`
	FromClinicName  string          `json:"from_clinic_name"`
	FromDistrict    string          `json:"from_district"`
	ToClinicID      uuid.UUID       `json:"to_clinic_id"`
	ToClinicName    string          `json:"to_clinic_name"`
	ToDistrict      string          `json:"to_district"`
}

// ProposeTransferRequest represents a request to propose a transfer
type ProposeTransferRequest struct {
	SurplusPostingID uuid.UUID `json:"surplus_id" binding:"required"`
	RequestID        uuid.UUID `json:"request_id" binding:"required"`
	Notes            string    `json:"notes" binding:"max=1000"`
}

// TransferDirection selects which side of a transfer a clinic is on
type TransferDirection string

const (
	DirectionAll      TransferDirection = "all"
	DirectionIncoming TransferDirection = "incoming"
	DirectionOutgoing TransferDirection = "outgoing"
)

// TransferListFilter represents filter options for transfer lists
type TransferListFilter struct {
	ClinicID  *uuid.UUID
	Direction TransferDirection
	Status    string
	Page      int
	PageSize  int
}

// PostSurplusRequest represents a request to offer surplus stock
type PostSurplusRequest struct {
	InventoryItemID uuid.UUID `json:"inventory_item_id" binding:"required"`
	Quantity        int64     `json:"quantity" binding:"required,gt=0"`
	Reason          string    `json:"reason" binding:"required"`
	Notes           *string   `json:"notes"`
}

// SurplusListFilter represents filter options for surplus lists
type SurplusListFilter struct {
	ClinicID *uuid.UUID
	Status   string
	Page     int
	PageSize int
}

// CreateRequestRequest represents a request to declare a shortage
type CreateRequestRequest struct {
	ClinicID   uuid.UUID `json:"clinic_id" binding:"required"`
	MedicineID uuid.UUID `json:"medicine_id" binding:"required"`
	Quantity   int64     `json:"quantity" binding:"required,gt=0"`
	Unit       string    `json:"unit" binding:"required"`
	Urgency    string    `json:"urgency" binding:"required"`
	Notes      *string   `json:"notes"`
}

// RequestListFilter represents filter options for request lists
type RequestListFilter struct {
	ClinicID   *uuid.UUID
	MedicineID *uuid.UUID
	Status     string
	Page       int
	PageSize   int
}

// ToSurplusResponse converts a domain SurplusPosting to SurplusResponse
func ToSurplusResponse(sp *redistribution.SurplusPosting) SurplusResponse {
	return SurplusResponse{
		ID:              sp.ID,
		ClinicID:        sp.ClinicID,
		InventoryItemID: sp.InventoryItemID,
		Quantity:        sp.Quantity,
		Reason:          string(sp.Reason),
		Notes:           sp.Notes,
		Status:          string(sp.Status),
		PostedDate:      sp.PostedDate,
		UpdatedAt:       sp.UpdatedAt,
		Version:         sp.Version,
	}
}

// ToRequestResponse converts a domain MedicineRequest to RequestResponse
func ToRequestResponse(r *redistribution.MedicineRequest) RequestResponse {
	return RequestResponse{
		ID:            r.ID,
		ClinicID:      r.ClinicID,
		MedicineID:    r.MedicineID,
		Quantity:      r.Quantity,
		Unit:          string(r.Unit),
		Urgency:       string(r.Urgency),
		Notes:         r.Notes,
		Status:        string(r.Status),
		RequestedDate: r.RequestedDate,
		UpdatedAt:     r.UpdatedAt,
		Version:       r.Version,
	}
}

// ToTransferResponse converts a domain Transfer to TransferResponse
func ToTransferResponse(t *redistribution.Transfer) TransferResponse {
	return TransferResponse{
		ID:               t.ID,
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
		Version:          t.Version,
	}
}

func toInventorySnapshot(item *inventory.InventoryItem) *InventorySnapshot {
	return &InventorySnapshot{
		ID:         item.ID,
		ClinicID:   item.ClinicID,
		MedicineID: item.MedicineID,
		Quantity:   item.Quantity,
		Unit:       string(item.Unit),
		Status:     string(item.Status),
		ExpiryDate: item.ExpiryDate,
	}
}

// ToMatchResponse flattens a ranked match for API responses
func ToMatchResponse(m *redistribution.Match) MatchResponse {
	return MatchResponse{
		MatchScore:      m.MatchScore,
		DaysUntilExpiry: m.DaysUntilExpiry,
		UrgencyScore:    m.UrgencyScore,
		ExpiryScore:     m.ExpiryScore,
		QuantityRatio:   m.QuantityRatio,
		QuantityScore:   m.QuantityScore,
		Surplus:         ToSurplusResponse(&m.Surplus),
		Request:         ToRequestResponse(&m.Request),
		MedicineName:    m.Medicine.Name,
		Strength:        m.Medicine.Strength,
		Unit:            string(m.InventoryItem.Unit),
		ExpiryDate:      m.InventoryItem.ExpiryDate,
		FromClinicID:    m.FromClinic.ID,
		FromClinicName:  m.FromClinic.Name,
		FromDistrict:    m.FromClinic.District,
		ToClinicID:      m.ToClinic.ID,
		ToClinicName:    m.ToClinic.Name,
		ToDistrict:      m.ToClinic.District,
	}
}
