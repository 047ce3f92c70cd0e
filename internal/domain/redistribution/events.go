package redistribution

import (
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSurplusPosting  = "SurplusPosting"
	AggregateTypeMedicineRequest = "MedicineRequest"
	AggregateTypeTransfer        = "Transfer"
)

// Event type constants
const (
	EventTypeSurplusPosted     = "SurplusPosted"
	EventTypeMedicineRequested = "MedicineRequested"
	EventTypeTransferProposed  = "TransferProposed"
	EventTypeTransferApproved  = "TransferApproved"
	EventTypeTransferRejected  = "TransferRejected"
	EventTypeTransferInTransit = "TransferInTransit"
	EventTypeTransferCompleted = "TransferCompleted"
)

// TransferEventTypes lists every transfer lifecycle event
var TransferEventTypes = []string{
	EventTypeTransferProposed,
	EventTypeTransferApproved,
	EventTypeTransferRejected,
	EventTypeTransferInTransit,
	EventTypeTransferCompleted,
}

// SurplusPostedEvent is raised when a clinic offers surplus stock
type SurplusPostedEvent struct {
	shared.BaseDomainEvent
	SurplusPostingID uuid.UUID     `json:"surplus_posting_id"`
	ClinicID         uuid.UUID     `json:"clinic_id"`
	InventoryItemID  uuid.UUID     `json:"inventory_item_id"`
	Quantity         int64         `json:"quantity"`
	Reason           SurplusReason `json:"reason"`
}

// NewSurplusPostedEvent creates a new SurplusPostedEvent
func NewSurplusPostedEvent(sp *SurplusPosting, now time.Time) *SurplusPostedEvent {
	return &SurplusPostedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeSurplusPosted, AggregateTypeSurplusPosting, sp.ID, now),
		SurplusPostingID: sp.ID,
		ClinicID:         sp.ClinicID,
		InventoryItemID:  sp.InventoryItemID,
		Quantity:         sp.Quantity,
		Reason:           sp.Reason,
	}
}

// MedicineRequestedEvent is raised when a clinic declares a shortage
type MedicineRequestedEvent struct {
	shared.BaseDomainEvent
	RequestID  uuid.UUID `json:"request_id"`
	ClinicID   uuid.UUID `json:"clinic_id"`
	MedicineID uuid.UUID `json:"medicine_id"`
	Quantity   int64     `json:"quantity"`
	Urgency    Urgency   `json:"urgency"`
}

// NewMedicineRequestedEvent creates a new MedicineRequestedEvent
func NewMedicineRequestedEvent(r *MedicineRequest, now time.Time) *MedicineRequestedEvent {
	return &MedicineRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeMedicineRequested, AggregateTypeMedicineRequest, r.ID, now),
		RequestID:       r.ID,
		ClinicID:        r.ClinicID,
		MedicineID:      r.MedicineID,
		Quantity:        r.Quantity,
		Urgency:         r.Urgency,
	}
}

// TransferProposedEvent is raised when a match becomes a pending transfer
type TransferProposedEvent struct {
	shared.BaseDomainEvent
	TransferID       uuid.UUID `json:"transfer_id"`
	SurplusPostingID uuid.UUID `json:"surplus_posting_id"`
	RequestID        uuid.UUID `json:"request_id"`
	FromClinicID     uuid.UUID `json:"from_clinic_id"`
	ToClinicID       uuid.UUID `json:"to_clinic_id"`
	Quantity         int64     `json:"quantity"`
}

// NewTransferProposedEvent creates a new TransferProposedEvent
func NewTransferProposedEvent(t *Transfer, now time.Time) *TransferProposedEvent {
	return &TransferProposedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeTransferProposed, AggregateTypeTransfer, t.ID, now),
		TransferID:       t.ID,
		SurplusPostingID: t.SurplusPostingID,
		RequestID:        t.RequestID,
		FromClinicID:     t.FromClinicID,
		ToClinicID:       t.ToClinicID,
		Quantity:         t.Quantity,
	}
}

// TransferStatusEvent is raised on approve, reject and ship
type TransferStatusEvent struct {
	shared.BaseDomainEvent
	TransferID   uuid.UUID      `json:"transfer_id"`
	FromClinicID uuid.UUID      `json:"from_clinic_id"`
	ToClinicID   uuid.UUID      `json:"to_clinic_id"`
	Status       TransferStatus `json:"status"`
}

// NewTransferStatusEvent creates a status event of the given type
func NewTransferStatusEvent(eventType string, t *Transfer, now time.Time) *TransferStatusEvent {
	return &TransferStatusEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeTransfer, t.ID, now),
		TransferID:      t.ID,
		FromClinicID:    t.FromClinicID,
		ToClinicID:      t.ToClinicID,
		Status:          t.Status,
	}
}

// TransferCompletedEvent is raised when medicine reaches the receiving clinic
type TransferCompletedEvent struct {
	shared.BaseDomainEvent
	TransferID      uuid.UUID `json:"transfer_id"`
	FromClinicID    uuid.UUID `json:"from_clinic_id"`
	ToClinicID      uuid.UUID `json:"to_clinic_id"`
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	Quantity        int64     `json:"quantity"`
}

// NewTransferCompletedEvent creates a new TransferCompletedEvent
func NewTransferCompletedEvent(t *Transfer, now time.Time) *TransferCompletedEvent {
	return &TransferCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCompleted, AggregateTypeTransfer, t.ID, now),
		TransferID:      t.ID,
		FromClinicID:    t.FromClinicID,
		ToClinicID:      t.ToClinicID,
		InventoryItemID: t.InventoryItemID,
		Quantity:        t.Quantity,
	}
}
