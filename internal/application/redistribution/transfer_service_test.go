package redistribution

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

func TestTransferService_Propose(t *testing.T) {
	t.Run("reserves surplus and matches request", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)

		result, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{
			SurplusPostingID: s.surplusID,
			RequestID:        s.requestID,
			Notes:            "pickup Monday",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(500), result.Transfer.Quantity)
		assert.Equal(t, string(redistribution.TransferStatusPending), result.Transfer.Status)
		assert.Equal(t, e.sender.ID, result.Transfer.FromClinicID)
		assert.Equal(t, e.receiver.ID, result.Transfer.ToClinicID)
		assert.Equal(t, s.item.ID, result.Transfer.InventoryItemID)
		assert.Equal(t, "pickup Monday", result.Transfer.Notes)
		assert.Equal(t, testNow, result.Transfer.RequestedDate)

		require.NotNil(t, result.Surplus)
		require.NotNil(t, result.Request)
		assert.Equal(t, string(redistribution.SurplusStatusReserved), result.Surplus.Status)
		assert.Equal(t, string(redistribution.RequestStatusMatched), result.Request.Status)
		assert.Nil(t, result.Inventory)

		assert.Equal(t, redistribution.SurplusStatusReserved, e.surplusStatus(t, s.surplusID))
		assert.Equal(t, redistribution.RequestStatusMatched, e.requestStatus(t, s.requestID))
		assert.Equal(t, int64(1500), e.itemQuantity(t, s.item.ID))
		assert.Contains(t, e.publisher.Types(), redistribution.EventTypeTransferProposed)
	})

	t.Run("quantity is capped by surplus", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 300, 500)

		result, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: s.requestID})
		require.NoError(t, err)
		assert.Equal(t, int64(300), result.Transfer.Quantity)
		assert.Equal(t, redistribution.DefaultTransferNotes, result.Transfer.Notes)
	})

	t.Run("unknown surplus", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)

		_, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: uuid.New(), RequestID: s.requestID})
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, redistribution.RequestStatusOpen, e.requestStatus(t, s.requestID))
		assert.Equal(t, 0, e.transferRepo.Len())
	})

	t.Run("unknown request", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)

		_, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: uuid.New()})
		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
		assert.Equal(t, redistribution.SurplusStatusAvailable, e.surplusStatus(t, s.surplusID))
	})

	t.Run("reserved surplus cannot be proposed again", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		e.propose(t, s)

		other := e.openRequest(t, e.receiver, 100, redistribution.UrgencyLow)
		_, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: other})
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, redistribution.RequestStatusOpen, e.requestStatus(t, other))
		assert.Equal(t, 1, e.transferRepo.Len())
	})

	t.Run("medicine mismatch is a data integrity error", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)

		other := e.seedMedicine(t, "Paracetamol")
		resp, err := e.requests.Create(e.ctx, CreateRequestRequest{
			ClinicID:   e.receiver.ID,
			MedicineID: other.ID,
			Quantity:   50,
			Unit:       "tablets",
			Urgency:    "Medium",
		})
		require.NoError(t, err)

		_, err = e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: resp.ID})
		require.Error(t, err)
		assert.True(t, shared.IsDataIntegrity(err))
		assert.Equal(t, redistribution.SurplusStatusAvailable, e.surplusStatus(t, s.surplusID))
	})
}

func TestTransferService_Lifecycle(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	s := e.scenario(t, 1500, 800, 500)
	id := e.propose(t, s)

	approved, err := e.transfers.Approve(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusApproved), approved.Transfer.Status)
	require.NotNil(t, approved.Transfer.ApprovedDate)
	assert.Equal(t, testNow, *approved.Transfer.ApprovedDate)
	assert.Nil(t, approved.Surplus)

	shipped, err := e.transfers.MarkInTransit(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusInTransit), shipped.Transfer.Status)

	completed, err := e.transfers.Complete(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusCompleted), completed.Transfer.Status)
	require.NotNil(t, completed.Transfer.CompletedDate)
	require.NotNil(t, completed.Inventory)
	assert.Equal(t, int64(1000), completed.Inventory.Quantity)
	assert.Equal(t, string(redistribution.SurplusStatusTransferred), completed.Surplus.Status)
	assert.Equal(t, string(redistribution.RequestStatusFulfilled), completed.Request.Status)

	assert.Equal(t, int64(1000), e.itemQuantity(t, s.item.ID))
	assert.Equal(t, redistribution.SurplusStatusTransferred, e.surplusStatus(t, s.surplusID))
	assert.Equal(t, redistribution.RequestStatusFulfilled, e.requestStatus(t, s.requestID))

	stored, err := e.transfers.GetByID(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusCompleted), stored.Status)

	assert.Equal(t, []string{
		redistribution.EventTypeTransferProposed,
		redistribution.EventTypeTransferApproved,
		redistribution.EventTypeTransferInTransit,
	}, e.publisher.Types()[:3])
	assert.Contains(t, e.publisher.Types(), redistribution.EventTypeTransferCompleted)

	t.Run("completed transfer is terminal", func(t *testing.T) {
		_, err := e.transfers.Approve(e.ctx, id)
		assert.True(t, shared.IsInvalidState(err))
		_, err = e.transfers.Reject(e.ctx, id)
		assert.True(t, shared.IsInvalidState(err))
		_, err = e.transfers.Complete(e.ctx, id)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, int64(1000), e.itemQuantity(t, s.item.ID))
	})
}

func TestTransferService_CompletionPolicy(t *testing.T) {
	t.Run("approved transfer completes by default", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)
		_, err := e.transfers.Approve(e.ctx, id)
		require.NoError(t, err)

		result, err := e.transfers.Complete(e.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(redistribution.TransferStatusCompleted), result.Transfer.Status)
	})

	t.Run("in transit required", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{RequireInTransit: true})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)
		_, err := e.transfers.Approve(e.ctx, id)
		require.NoError(t, err)

		_, err = e.transfers.Complete(e.ctx, id)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, int64(1500), e.itemQuantity(t, s.item.ID))

		_, err = e.transfers.MarkInTransit(e.ctx, id)
		require.NoError(t, err)
		_, err = e.transfers.Complete(e.ctx, id)
		require.NoError(t, err)
	})

	t.Run("pending transfer cannot complete", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)

		_, err := e.transfers.Complete(e.ctx, id)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, redistribution.SurplusStatusReserved, e.surplusStatus(t, s.surplusID))
	})

	t.Run("pending transfer cannot ship", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		id := e.propose(t, e.scenario(t, 1500, 800, 500))

		_, err := e.transfers.MarkInTransit(e.ctx, id)
		assert.True(t, shared.IsInvalidState(err))
	})
}

func TestTransferService_Reject(t *testing.T) {
	t.Run("returns surplus and request to the pool", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)

		result, err := e.transfers.Reject(e.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(redistribution.TransferStatusRejected), result.Transfer.Status)
		require.NotNil(t, result.Surplus)
		require.NotNil(t, result.Request)
		assert.Equal(t, string(redistribution.SurplusStatusAvailable), result.Surplus.Status)
		assert.Equal(t, string(redistribution.RequestStatusOpen), result.Request.Status)
		assert.Contains(t, e.publisher.Types(), redistribution.EventTypeTransferRejected)

		// Both records can be proposed again
		again, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: s.requestID})
		require.NoError(t, err)
		assert.NotEqual(t, id, again.Transfer.ID)
	})

	t.Run("approved transfer can be rejected", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)
		_, err := e.transfers.Approve(e.ctx, id)
		require.NoError(t, err)

		_, err = e.transfers.Reject(e.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, redistribution.SurplusStatusAvailable, e.surplusStatus(t, s.surplusID))
	})

	t.Run("in transit transfer cannot be rejected", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)
		_, err := e.transfers.Approve(e.ctx, id)
		require.NoError(t, err)
		_, err = e.transfers.MarkInTransit(e.ctx, id)
		require.NoError(t, err)

		_, err = e.transfers.Reject(e.ctx, id)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, redistribution.SurplusStatusReserved, e.surplusStatus(t, s.surplusID))
	})

	t.Run("tolerates a surplus posting that no longer resolves", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		id := e.propose(t, s)
		e.surplusRepo.Remove(s.surplusID)

		result, err := e.transfers.Reject(e.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, string(redistribution.TransferStatusRejected), result.Transfer.Status)
		assert.Nil(t, result.Surplus)
		require.NotNil(t, result.Request)
		assert.Equal(t, redistribution.RequestStatusOpen, e.requestStatus(t, s.requestID))
	})
}

func TestTransferService_CompleteRollsBackOnSaveFailure(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	s := e.scenario(t, 1500, 800, 500)
	id := e.propose(t, s)
	_, err := e.transfers.Approve(e.ctx, id)
	require.NoError(t, err)
	e.publisher.Reset()

	e.inventoryRepo.FailSave = errors.New("disk full")
	_, err = e.transfers.Complete(e.ctx, id)
	require.EqualError(t, err, "disk full")

	assert.Equal(t, int64(1500), e.itemQuantity(t, s.item.ID))
	assert.Equal(t, redistribution.SurplusStatusReserved, e.surplusStatus(t, s.surplusID))
	assert.Equal(t, redistribution.RequestStatusMatched, e.requestStatus(t, s.requestID))
	stored, err := e.transfers.GetByID(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusApproved), stored.Status)
	assert.Empty(t, e.publisher.Events())

	// A retry after the failure succeeds
	_, err = e.transfers.Complete(e.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), e.itemQuantity(t, s.item.ID))
}

func TestTransferService_ConcurrentProposals(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	s := e.scenario(t, 1500, 800, 500)

	const workers = 10
	requestIDs := make([]uuid.UUID, workers)
	for i := range requestIDs {
		requestIDs[i] = e.openRequest(t, e.receiver, 100, redistribution.UrgencyMedium)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, requestID := range requestIDs {
		wg.Add(1)
		go func(requestID uuid.UUID) {
			defer wg.Done()
			_, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: requestID})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case shared.IsInvalidState(err):
				conflicts++
			}
		}(requestID)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.Equal(t, 1, e.transferRepo.Len())

	matched := 0
	for _, requestID := range requestIDs {
		if e.requestStatus(t, requestID) == redistribution.RequestStatusMatched {
			matched++
		}
	}
	assert.Equal(t, 1, matched)
}

func TestTransferService_UnknownTransfer(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	id := uuid.New()

	_, err := e.transfers.Approve(e.ctx, id)
	assert.True(t, shared.IsNotFound(err))
	_, err = e.transfers.MarkInTransit(e.ctx, id)
	assert.True(t, shared.IsNotFound(err))
	_, err = e.transfers.Reject(e.ctx, id)
	assert.True(t, shared.IsNotFound(err))
	_, err = e.transfers.Complete(e.ctx, id)
	assert.True(t, shared.IsNotFound(err))
	_, err = e.transfers.GetByID(e.ctx, id)
	assert.True(t, shared.IsNotFound(err))
}

func TestTransferService_List(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	outgoing := e.propose(t, e.scenario(t, 1500, 800, 500))

	// Reverse direction: receiver offers, sender asks
	item := e.seedItem(t, e.receiver, 200, 60)
	incoming, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{
		SurplusPostingID: e.postSurplus(t, item, 100),
		RequestID:        e.openRequest(t, e.sender, 50, redistribution.UrgencyCritical),
	})
	require.NoError(t, err)
	_, err = e.transfers.Approve(e.ctx, incoming.Transfer.ID)
	require.NoError(t, err)

	ids := func(list []TransferResponse) []uuid.UUID {
		out := make([]uuid.UUID, len(list))
		for i := range list {
			out[i] = list[i].ID
		}
		return out
	}

	all, err := e.transfers.List(e.ctx, TransferListFilter{ClinicID: &e.sender.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{outgoing, incoming.Transfer.ID}, ids(all))

	out, err := e.transfers.List(e.ctx, TransferListFilter{ClinicID: &e.sender.ID, Direction: DirectionOutgoing})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{outgoing}, ids(out))

	in, err := e.transfers.List(e.ctx, TransferListFilter{ClinicID: &e.sender.ID, Direction: DirectionIncoming})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{incoming.Transfer.ID}, ids(in))

	approved, err := e.transfers.List(e.ctx, TransferListFilter{Status: string(redistribution.TransferStatusApproved)})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{incoming.Transfer.ID}, ids(approved))

	_, err = e.transfers.List(e.ctx, TransferListFilter{ClinicID: &e.sender.ID, Direction: "sideways"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = e.transfers.List(e.ctx, TransferListFilter{Status: "Lost"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestTransferService_PublishFailureDoesNotFailStep(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	s := e.scenario(t, 1500, 800, 500)

	bus := new(MockEventBus)
	bus.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	e.transfers.SetEventPublisher(bus)

	result, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: s.surplusID, RequestID: s.requestID})
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusPending), result.Transfer.Status)
	bus.AssertNumberOfCalls(t, "Publish", 1)
}

func TestTransferService_ProposeWithinOneClinic(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	item := e.seedItem(t, e.sender, 400, 30)
	surplusID := e.postSurplus(t, item, 150)
	requestID := e.openRequest(t, e.sender, 100, redistribution.UrgencyHigh)

	matches, err := e.matching.FindMatches(e.ctx)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, matches[0].FromClinicID, matches[0].ToClinicID)

	result, err := e.transfers.Propose(e.ctx, ProposeTransferRequest{SurplusPostingID: surplusID, RequestID: requestID})
	require.NoError(t, err)
	assert.Equal(t, e.sender.ID, result.Transfer.FromClinicID)
	assert.Equal(t, e.sender.ID, result.Transfer.ToClinicID)
	assert.Equal(t, string(redistribution.TransferStatusPending), result.Transfer.Status)

	_, err = e.transfers.Approve(e.ctx, result.Transfer.ID)
	require.NoError(t, err)
	completed, err := e.transfers.Complete(e.ctx, result.Transfer.ID)
	require.NoError(t, err)
	assert.Equal(t, string(redistribution.TransferStatusCompleted), completed.Transfer.Status)
	assert.Equal(t, int64(300), e.itemQuantity(t, item.ID))
}
