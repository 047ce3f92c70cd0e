package redistribution

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

func TestSurplusService_Post(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	item := e.seedItem(t, e.sender, 1500, 45)

	notes := "boxes sealed"
	resp, err := e.surplus.Post(e.ctx, PostSurplusRequest{
		InventoryItemID: item.ID,
		Quantity:        800,
		Reason:          "Overstocked",
		Notes:           &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, e.sender.ID, resp.ClinicID)
	assert.Equal(t, int64(800), resp.Quantity)
	assert.Equal(t, "Available", resp.Status)
	assert.Equal(t, testNow, resp.PostedDate)
	require.NotNil(t, resp.Notes)
	assert.Equal(t, notes, *resp.Notes)
	assert.Equal(t, []string{redistribution.EventTypeSurplusPosted}, e.publisher.Types())

	got, err := e.surplus.GetByID(e.ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestSurplusService_PostValidation(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	item := e.seedItem(t, e.sender, 100, 45)
	expired := e.seedItem(t, e.sender, 100, -3)

	tests := []struct {
		name  string
		req   PostSurplusRequest
		check func(error) bool
	}{
		{"quantity above stock", PostSurplusRequest{InventoryItemID: item.ID, Quantity: 101, Reason: "Other"},
			func(err error) bool { return errors.Is(err, shared.ErrInvalidInput) }},
		{"zero quantity", PostSurplusRequest{InventoryItemID: item.ID, Quantity: 0, Reason: "Other"},
			func(err error) bool { return errors.Is(err, shared.ErrInvalidInput) }},
		{"bad reason", PostSurplusRequest{InventoryItemID: item.ID, Quantity: 10, Reason: "Bored"},
			func(err error) bool { return errors.Is(err, shared.ErrInvalidInput) }},
		{"unknown item", PostSurplusRequest{InventoryItemID: uuid.New(), Quantity: 10, Reason: "Other"},
			shared.IsNotFound},
		{"expired item", PostSurplusRequest{InventoryItemID: expired.ID, Quantity: 10, Reason: "Near Expiry"},
			shared.IsInvalidState},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.surplus.Post(e.ctx, tt.req)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
		})
	}
	assert.Equal(t, 0, e.surplusRepo.Len())
}

func TestSurplusService_Cancel(t *testing.T) {
	t.Run("available posting", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		id := e.postSurplus(t, e.seedItem(t, e.sender, 100, 45), 50)

		resp, err := e.surplus.Cancel(e.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Cancelled", resp.Status)
		assert.Equal(t, redistribution.SurplusStatusCancelled, e.surplusStatus(t, id))
	})

	t.Run("reserved posting", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		s := e.scenario(t, 1500, 800, 500)
		e.propose(t, s)

		_, err := e.surplus.Cancel(e.ctx, s.surplusID)
		assert.True(t, shared.IsInvalidState(err))
		assert.Equal(t, redistribution.SurplusStatusReserved, e.surplusStatus(t, s.surplusID))
	})

	t.Run("unknown posting", func(t *testing.T) {
		e := newTestEnv(t, redistribution.CompletionPolicy{})
		_, err := e.surplus.Cancel(e.ctx, uuid.New())
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestSurplusService_List(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	mine := e.postSurplus(t, e.seedItem(t, e.sender, 100, 45), 50)
	theirs := e.postSurplus(t, e.seedItem(t, e.receiver, 100, 45), 20)
	_, err := e.surplus.Cancel(e.ctx, theirs)
	require.NoError(t, err)

	list, err := e.surplus.List(e.ctx, SurplusListFilter{ClinicID: &e.sender.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, mine, list[0].ID)

	cancelled, err := e.surplus.List(e.ctx, SurplusListFilter{Status: "Cancelled"})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, theirs, cancelled[0].ID)

	_, err = e.surplus.List(e.ctx, SurplusListFilter{Status: "Gone"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
