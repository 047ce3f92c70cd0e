package redistribution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

// RequestStatus represents the lifecycle state of a medicine request
type RequestStatus string

const (
	RequestStatusOpen      RequestStatus = "Open"
	RequestStatusMatched   RequestStatus = "Matched"
	RequestStatusFulfilled RequestStatus = "Fulfilled"
	RequestStatusCancelled RequestStatus = "Cancelled"
)

// IsValid checks if the status is a valid RequestStatus
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusOpen, RequestStatusMatched, RequestStatusFulfilled, RequestStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	switch s {
	case RequestStatusOpen:
		return target == RequestStatusMatched || target == RequestStatusCancelled
	case RequestStatusMatched:
		return target == RequestStatusOpen || target == RequestStatusFulfilled
	case RequestStatusFulfilled, RequestStatusCancelled:
		return false // Terminal states
	}
	return false
}

// Urgency is the requester-declared priority of a shortage
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyHigh     Urgency = "High"
	UrgencyMedium   Urgency = "Medium"
	UrgencyLow      Urgency = "Low"
)

// IsValid checks if the urgency is known
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyCritical, UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Score maps urgency to its match-scoring weight; unknown levels score 0
func (u Urgency) Score() float64 {
	switch u {
	case UrgencyCritical:
		return 100
	case UrgencyHigh:
		return 75
	case UrgencyMedium:
		return 50
	case UrgencyLow:
		return 25
	}
	return 0
}

// MedicineRequest is a clinic's declared shortage of one medicine
type MedicineRequest struct {
	shared.BaseAggregateRoot
	ClinicID      uuid.UUID
	MedicineID    uuid.UUID
	Quantity      int64
	Unit          inventory.Unit
	Urgency       Urgency
	Notes         *string
	Status        RequestStatus
	RequestedDate time.Time
}

// NewMedicineRequest opens a request for quantity of a medicine
func NewMedicineRequest(
	clinicID, medicineID uuid.UUID,
	quantity int64,
	unit inventory.Unit,
	urgency Urgency,
	notes *string,
	now time.Time,
) (*MedicineRequest, error) {
	if clinicID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Clinic ID cannot be empty")
	}
	if medicineID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Medicine ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewInvalidInputError("Requested quantity must be positive")
	}
	if !unit.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid unit: " + string(unit))
	}
	if !urgency.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid urgency: " + string(urgency))
	}

	r := &MedicineRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ClinicID:          clinicID,
		MedicineID:        medicineID,
		Quantity:          quantity,
		Unit:              unit,
		Urgency:           urgency,
		Notes:             notes,
		Status:            RequestStatusOpen,
		RequestedDate:     now,
	}

	r.AddDomainEvent(NewMedicineRequestedEvent(r, now))

	return r, nil
}

// Cancel withdraws an open request
func (r *MedicineRequest) Cancel(now time.Time) error {
	return r.transition(RequestStatusCancelled, now)
}

func (r *MedicineRequest) match(now time.Time) error {
	return r.transition(RequestStatusMatched, now)
}

func (r *MedicineRequest) reopen(now time.Time) error {
	return r.transition(RequestStatusOpen, now)
}

func (r *MedicineRequest) fulfill(now time.Time) error {
	return r.transition(RequestStatusFulfilled, now)
}

func (r *MedicineRequest) transition(target RequestStatus, now time.Time) error {
	if !r.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Request %s cannot move from %s to %s", r.ID, r.Status, target))
	}
	r.Status = target
	r.Mutated(now)
	return nil
}
