package redistribution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

// SurplusStatus represents the lifecycle state of a surplus posting
type SurplusStatus string

const (
	SurplusStatusAvailable   SurplusStatus = "Available"
	SurplusStatusReserved    SurplusStatus = "Reserved"
	SurplusStatusTransferred SurplusStatus = "Transferred"
	SurplusStatusCancelled   SurplusStatus = "Cancelled"
)

// IsValid checks if the status is a valid SurplusStatus
func (s SurplusStatus) IsValid() bool {
	switch s {
	case SurplusStatusAvailable, SurplusStatusReserved, SurplusStatusTransferred, SurplusStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s SurplusStatus) CanTransitionTo(target SurplusStatus) bool {
	switch s {
	case SurplusStatusAvailable:
		return target == SurplusStatusReserved || target == SurplusStatusCancelled
	case SurplusStatusReserved:
		return target == SurplusStatusAvailable || target == SurplusStatusTransferred
	case SurplusStatusTransferred, SurplusStatusCancelled:
		return false // Terminal states
	}
	return false
}

// SurplusReason explains why a clinic is giving stock away
type SurplusReason string

const (
	SurplusReasonNearExpiry   SurplusReason = "Near Expiry"
	SurplusReasonOverstocked  SurplusReason = "Overstocked"
	SurplusReasonProgramEnded SurplusReason = "Program Ended"
	SurplusReasonOther        SurplusReason = "Other"
)

// IsValid checks if the reason is known
func (r SurplusReason) IsValid() bool {
	switch r {
	case SurplusReasonNearExpiry, SurplusReasonOverstocked, SurplusReasonProgramEnded, SurplusReasonOther:
		return true
	}
	return false
}

// SurplusPosting is a clinic's offer to share part of one inventory item.
// ClinicID always equals the owning inventory item's ClinicID.
type SurplusPosting struct {
	shared.BaseAggregateRoot
	ClinicID        uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        int64
	Reason          SurplusReason
	Notes           *string
	Status          SurplusStatus
	PostedDate      time.Time
}

// NewSurplusPosting offers quantity from item. The posting belongs to the
// item's clinic.
func NewSurplusPosting(item *inventory.InventoryItem, quantity int64, reason SurplusReason, notes *string, now time.Time) (*SurplusPosting, error) {
	if item == nil {
		return nil, shared.NewInvalidInputError("Inventory item is required")
	}
	if quantity <= 0 {
		return nil, shared.NewInvalidInputError("Surplus quantity must be positive")
	}
	if quantity > item.Quantity {
		return nil, shared.NewInvalidInputError(fmt.Sprintf(
			"Surplus quantity %d exceeds available inventory %d", quantity, item.Quantity))
	}
	if !reason.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid surplus reason: " + string(reason))
	}
	if item.IsExpired(now) {
		return nil, shared.NewInvalidStateError("Cannot post surplus from an expired inventory item")
	}

	sp := &SurplusPosting{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		ClinicID:          item.ClinicID,
		InventoryItemID:   item.ID,
		Quantity:          quantity,
		Reason:            reason,
		Notes:             notes,
		Status:            SurplusStatusAvailable,
		PostedDate:        now,
	}

	sp.AddDomainEvent(NewSurplusPostedEvent(sp, now))

	return sp, nil
}

// Cancel withdraws an available posting
func (s *SurplusPosting) Cancel(now time.Time) error {
	return s.transition(SurplusStatusCancelled, now)
}

func (s *SurplusPosting) reserve(now time.Time) error {
	return s.transition(SurplusStatusReserved, now)
}

func (s *SurplusPosting) release(now time.Time) error {
	return s.transition(SurplusStatusAvailable, now)
}

func (s *SurplusPosting) markTransferred(now time.Time) error {
	return s.transition(SurplusStatusTransferred, now)
}

func (s *SurplusPosting) transition(target SurplusStatus, now time.Time) error {
	if !s.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Surplus posting %s cannot move from %s to %s", s.ID, s.Status, target))
	}
	s.Status = target
	s.Mutated(now)
	return nil
}
