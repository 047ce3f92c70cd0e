package redistribution

import (
	"fmt"
	"time"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

// TransferWorkflow applies the correlated state changes of a transfer to
// records the caller has already loaded. Every check runs before the first
// mutation, so a returned error leaves all records untouched.
type TransferWorkflow struct {
	Completion CompletionPolicy
	Stock      inventory.StockPolicy
}

// NewTransferWorkflow creates a workflow with the given policies
func NewTransferWorkflow(completion CompletionPolicy, stock inventory.StockPolicy) *TransferWorkflow {
	return &TransferWorkflow{Completion: completion, Stock: stock}
}

// Propose creates a pending transfer for quantity min(surplus, request),
// reserving the surplus and matching the request.
func (w *TransferWorkflow) Propose(
	surplus *SurplusPosting,
	request *MedicineRequest,
	item *inventory.InventoryItem,
	notes string,
	now time.Time,
) (*Transfer, error) {
	if surplus.Status != SurplusStatusAvailable {
		return nil, shared.NewInvalidStateError(fmt.Sprintf(
			"Surplus posting %s is %s, not Available", surplus.ID, surplus.Status))
	}
	if request.Status != RequestStatusOpen {
		return nil, shared.NewInvalidStateError(fmt.Sprintf(
			"Request %s is %s, not Open", request.ID, request.Status))
	}
	if item.ID != surplus.InventoryItemID {
		return nil, shared.NewDataIntegrityError(fmt.Sprintf(
			"Surplus posting %s does not draw from inventory item %s", surplus.ID, item.ID))
	}
	if item.ClinicID != surplus.ClinicID {
		return nil, shared.NewDataIntegrityError(fmt.Sprintf(
			"Surplus posting %s and inventory item %s belong to different clinics", surplus.ID, item.ID))
	}
	if item.MedicineID != request.MedicineID {
		return nil, shared.NewDataIntegrityError(fmt.Sprintf(
			"Surplus posting %s and request %s are for different medicines", surplus.ID, request.ID))
	}

	quantity := min(surplus.Quantity, request.Quantity)
	if quantity <= 0 {
		return nil, shared.NewDataIntegrityError(fmt.Sprintf(
			"Transfer quantity must be positive, got %d", quantity))
	}

	if err := surplus.reserve(now); err != nil {
		return nil, err
	}
	if err := request.match(now); err != nil {
		return nil, err
	}

	return newTransfer(surplus, request, quantity, notes, now), nil
}

// Approve accepts a pending transfer; no other record changes
func (w *TransferWorkflow) Approve(t *Transfer, now time.Time) error {
	return t.Approve(now)
}

// MarkInTransit records the handoff; no other record changes
func (w *TransferWorkflow) MarkInTransit(t *Transfer, now time.Time) error {
	return t.MarkInTransit(now)
}

// Reject aborts a pending or approved transfer and returns the surplus and
// request to the pool. A nil surplus or request (no longer resolvable) is
// skipped, as is one that is no longer held by this transfer.
func (w *TransferWorkflow) Reject(t *Transfer, surplus *SurplusPosting, request *MedicineRequest, now time.Time) error {
	if err := t.CanReject(); err != nil {
		return err
	}
	if surplus != nil && surplus.ID != t.SurplusPostingID {
		return shared.NewDataIntegrityError("Surplus posting does not belong to transfer " + t.ID.String())
	}
	if request != nil && request.ID != t.RequestID {
		return shared.NewDataIntegrityError("Request does not belong to transfer " + t.ID.String())
	}

	t.reject(now)
	if surplus != nil && surplus.Status == SurplusStatusReserved {
		_ = surplus.release(now)
	}
	if request != nil && request.Status == RequestStatusMatched {
		_ = request.reopen(now)
	}
	return nil
}

// Complete finishes the transfer, closes the surplus and request, and
// removes the transferred quantity from the sender's inventory.
func (w *TransferWorkflow) Complete(
	t *Transfer,
	surplus *SurplusPosting,
	request *MedicineRequest,
	item *inventory.InventoryItem,
	now time.Time,
) error {
	if err := t.CanComplete(w.Completion); err != nil {
		return err
	}
	if surplus.ID != t.SurplusPostingID || request.ID != t.RequestID || item.ID != t.InventoryItemID {
		return shared.NewDataIntegrityError("Records do not belong to transfer " + t.ID.String())
	}
	if !surplus.Status.CanTransitionTo(SurplusStatusTransferred) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Surplus posting %s is %s, not Reserved", surplus.ID, surplus.Status))
	}
	if !request.Status.CanTransitionTo(RequestStatusFulfilled) {
		return shared.NewInvalidStateError(fmt.Sprintf(
			"Request %s is %s, not Matched", request.ID, request.Status))
	}
	if item.Quantity < t.Quantity {
		return shared.NewDataIntegrityError(fmt.Sprintf(
			"Inventory item %s holds %d, transfer %s needs %d", item.ID, item.Quantity, t.ID, t.Quantity))
	}

	if err := item.Decrease(t.Quantity, t.ID, w.Stock, now); err != nil {
		return err
	}
	_ = surplus.markTransferred(now)
	_ = request.fulfill(now)
	t.complete(now)
	return nil
}
