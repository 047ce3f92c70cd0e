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

func TestRequestService_Create(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})

	resp, err := e.requests.Create(e.ctx, CreateRequestRequest{
		ClinicID:   e.receiver.ID,
		MedicineID: e.medicine.ID,
		Quantity:   250,
		Unit:       "strips",
		Urgency:    "Critical",
	})
	require.NoError(t, err)
	assert.Equal(t, "Open", resp.Status)
	assert.Equal(t, "Critical", resp.Urgency)
	assert.Equal(t, "strips", resp.Unit)
	assert.Equal(t, testNow, resp.RequestedDate)
	assert.Equal(t, []string{redistribution.EventTypeMedicineRequested}, e.publisher.Types())

	t.Run("unknown clinic", func(t *testing.T) {
		_, err := e.requests.Create(e.ctx, CreateRequestRequest{
			ClinicID: uuid.New(), MedicineID: e.medicine.ID, Quantity: 1, Unit: "tablets", Urgency: "Low",
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("unknown medicine", func(t *testing.T) {
		_, err := e.requests.Create(e.ctx, CreateRequestRequest{
			ClinicID: e.receiver.ID, MedicineID: uuid.New(), Quantity: 1, Unit: "tablets", Urgency: "Low",
		})
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("bad urgency", func(t *testing.T) {
		_, err := e.requests.Create(e.ctx, CreateRequestRequest{
			ClinicID: e.receiver.ID, MedicineID: e.medicine.ID, Quantity: 1, Unit: "tablets", Urgency: "Whenever",
		})
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestRequestService_Cancel(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	s := e.scenario(t, 1500, 800, 500)
	open := e.openRequest(t, e.receiver, 10, redistribution.UrgencyLow)

	resp, err := e.requests.Cancel(e.ctx, open)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", resp.Status)

	e.propose(t, s)
	_, err = e.requests.Cancel(e.ctx, s.requestID)
	assert.True(t, shared.IsInvalidState(err))

	_, err = e.requests.Cancel(e.ctx, uuid.New())
	assert.True(t, shared.IsNotFound(err))
}

func TestRequestService_List(t *testing.T) {
	e := newTestEnv(t, redistribution.CompletionPolicy{})
	first := e.openRequest(t, e.receiver, 10, redistribution.UrgencyLow)
	second := e.openRequest(t, e.sender, 20, redistribution.UrgencyHigh)

	list, err := e.requests.List(e.ctx, RequestListFilter{ClinicID: &e.receiver.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, first, list[0].ID)

	list, err = e.requests.List(e.ctx, RequestListFilter{MedicineID: &e.medicine.ID, Status: "Open"})
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = e.requests.List(e.ctx, RequestListFilter{Page: 2, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, second, list[0].ID)

	_, err = e.requests.List(e.ctx, RequestListFilter{Status: "Pending"})
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}
