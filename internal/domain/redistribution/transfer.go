package redistribution

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// TransferStatus represents the state of a transfer
type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "Pending"
	TransferStatusApproved  TransferStatus = "Approved"
	TransferStatusInTransit TransferStatus = "In Transit"
	TransferStatusCompleted TransferStatus = "Completed"
	TransferStatusRejected  TransferStatus = "Rejected"
)

// DefaultTransferNotes is recorded when the proposer gives no notes
const DefaultTransferNotes = "Transfer requested via matching system"

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusInTransit,
		TransferStatusCompleted, TransferStatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s TransferStatus) IsTerminal() bool {
	return s == TransferStatusCompleted || s == TransferStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status.
// Completion from Approved is further restricted by CompletionPolicy.
func (s TransferStatus) CanTransitionTo(target TransferStatus) bool {
	switch s {
	case TransferStatusPending:
		return target == TransferStatusApproved || target == TransferStatusRejected
	case TransferStatusApproved:
		return target == TransferStatusInTransit || target == TransferStatusCompleted || target == TransferStatusRejected
	case TransferStatusInTransit:
		return target == TransferStatusCompleted
	case TransferStatusCompleted, TransferStatusRejected:
		return false // Terminal states
	}
	return false
}

// CompletionPolicy decides whether the In Transit step is mandatory
type CompletionPolicy struct {
	RequireInTransit bool
}

// Transfer is the persistent record of medicine moving between two clinics.
// Quantity is fixed at creation. Completed and Rejected are terminal.
type Transfer struct {
	shared.BaseAggregateRoot
	SurplusPostingID uuid.UUID
	RequestID        uuid.UUID
	FromClinicID     uuid.UUID
	ToClinicID       uuid.UUID
	InventoryItemID  uuid.UUID
	Quantity         int64
	Status           TransferStatus
	RequestedDate    time.Time
	ApprovedDate     *time.Time
	CompletedDate    *time.Time
	Notes            string
}

func newTransfer(surplus *SurplusPosting, request *MedicineRequest, quantity int64, notes string, now time.Time) *Transfer {
	if notes == "" {
		notes = DefaultTransferNotes
	}
	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		SurplusPostingID:  surplus.ID,
		RequestID:         request.ID,
		FromClinicID:      surplus.ClinicID,
		ToClinicID:        request.ClinicID,
		InventoryItemID:   surplus.InventoryItemID,
		Quantity:          quantity,
		Status:            TransferStatusPending,
		RequestedDate:     now,
		Notes:             notes,
	}
	t.AddDomainEvent(NewTransferProposedEvent(t, now))
	return t
}

// Approve accepts a pending transfer
func (t *Transfer) Approve(now time.Time) error {
	if err := t.checkTransition(TransferStatusApproved); err != nil {
		return err
	}
	t.Status = TransferStatusApproved
	t.ApprovedDate = &now
	t.touch(now)
	t.AddDomainEvent(NewTransferStatusEvent(EventTypeTransferApproved, t, now))
	return nil
}

// MarkInTransit records the physical handoff of an approved transfer
func (t *Transfer) MarkInTransit(now time.Time) error {
	if err := t.checkTransition(TransferStatusInTransit); err != nil {
		return err
	}
	t.Status = TransferStatusInTransit
	t.touch(now)
	t.AddDomainEvent(NewTransferStatusEvent(EventTypeTransferInTransit, t, now))
	return nil
}

// CanComplete reports an error when the transfer may not complete under policy
func (t *Transfer) CanComplete(policy CompletionPolicy) error {
	if err := t.checkTransition(TransferStatusCompleted); err != nil {
		return err
	}
	if policy.RequireInTransit && t.Status != TransferStatusInTransit {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Transfer %s must be In Transit before completion, is %s", t.ID, t.Status))
	}
	return nil
}

// CanReject reports an error when the transfer is past the abort window
func (t *Transfer) CanReject() error {
	return t.checkTransition(TransferStatusRejected)
}

func (t *Transfer) complete(now time.Time) {
	t.Status = TransferStatusCompleted
	t.CompletedDate = &now
	t.touch(now)
	t.AddDomainEvent(NewTransferCompletedEvent(t, now))
}

func (t *Transfer) reject(now time.Time) {
	t.Status = TransferStatusRejected
	t.touch(now)
	t.AddDomainEvent(NewTransferStatusEvent(EventTypeTransferRejected, t, now))
}

func (t *Transfer) checkTransition(target TransferStatus) error {
	if !t.Status.CanTransitionTo(target) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Transfer %s cannot move from %s to %s", t.ID, t.Status, target))
	}
	return nil
}

func (t *Transfer) touch(now time.Time) {
	t.Mutated(now)
}

// Involves reports whether the clinic sends or receives this transfer
func (t *Transfer) Involves(clinicID uuid.UUID) bool {
	return t.FromClinicID == clinicID || t.ToClinicID == clinicID
}
