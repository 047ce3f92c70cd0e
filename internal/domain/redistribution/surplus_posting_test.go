package redistribution

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

func TestNewSurplusPosting(t *testing.T) {
	item, err := inventory.NewInventoryItem(uuid.New(), uuid.New(), "B-9", 800,
		inventory.UnitStrips, daysFromNow(40), inventory.DefaultStockPolicy(), testNow)
	require.NoError(t, err)

	t.Run("takes clinic from inventory item", func(t *testing.T) {
		notes := "expiring before next camp"
		sp, err := NewSurplusPosting(item, 800, SurplusReasonNearExpiry, &notes, testNow)

		require.NoError(t, err)
		assert.Equal(t, item.ClinicID, sp.ClinicID)
		assert.Equal(t, item.ID, sp.InventoryItemID)
		assert.Equal(t, SurplusStatusAvailable, sp.Status)
		assert.Equal(t, testNow, sp.PostedDate)
		require.NotNil(t, sp.Notes)
		assert.Equal(t, notes, *sp.Notes)
	})

	t.Run("quantity above stock", func(t *testing.T) {
		_, err := NewSurplusPosting(item, 801, SurplusReasonOverstocked, nil, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("zero quantity", func(t *testing.T) {
		_, err := NewSurplusPosting(item, 0, SurplusReasonOverstocked, nil, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("unknown reason", func(t *testing.T) {
		_, err := NewSurplusPosting(item, 10, SurplusReason("Donation"), nil, testNow)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("expired item", func(t *testing.T) {
		_, err := NewSurplusPosting(item, 10, SurplusReasonNearExpiry, nil, daysFromNow(41))
		assert.True(t, shared.IsInvalidState(err))
	})
}

func TestSurplusPosting_Cancel(t *testing.T) {
	f := newFixture(t, 1000, 100, 100, 200, UrgencyLow)

	require.NoError(t, f.surplus.Cancel(testNow))
	assert.Equal(t, SurplusStatusCancelled, f.surplus.Status)
	assert.Equal(t, 2, f.surplus.Version)

	assert.True(t, shared.IsInvalidState(f.surplus.Cancel(testNow)))
}

func TestSurplusPosting_CannotCancelWhileReserved(t *testing.T) {
	f := newFixture(t, 1000, 100, 100, 200, UrgencyLow)
	_, err := defaultWorkflow().Propose(f.surplus, f.request, f.item, "", testNow)
	require.NoError(t, err)

	assert.True(t, shared.IsInvalidState(f.surplus.Cancel(testNow)))
	assert.True(t, shared.IsInvalidState(f.request.Cancel(testNow)))
}

func TestSurplusStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, SurplusStatusAvailable.CanTransitionTo(SurplusStatusReserved))
	assert.True(t, SurplusStatusReserved.CanTransitionTo(SurplusStatusAvailable))
	assert.True(t, SurplusStatusReserved.CanTransitionTo(SurplusStatusTransferred))
	assert.False(t, SurplusStatusAvailable.CanTransitionTo(SurplusStatusTransferred))
	assert.False(t, SurplusStatusTransferred.CanTransitionTo(SurplusStatusAvailable))
	assert.False(t, SurplusStatusCancelled.CanTransitionTo(SurplusStatusAvailable))
}

func TestNewMedicineRequest(t *testing.T) {
	clinicID, medicineID := uuid.New(), uuid.New()

	r, err := NewMedicineRequest(clinicID, medicineID, 250, inventory.UnitVials, UrgencyCritical, nil, testNow)
	require.NoError(t, err)
	assert.Equal(t, RequestStatusOpen, r.Status)
	assert.Equal(t, testNow, r.RequestedDate)
	assert.Nil(t, r.Notes)

	_, err = NewMedicineRequest(clinicID, medicineID, 0, inventory.UnitVials, UrgencyCritical, nil, testNow)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = NewMedicineRequest(clinicID, medicineID, 10, inventory.UnitVials, Urgency("Someday"), nil, testNow)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestUrgency_Score(t *testing.T) {
	assert.Equal(t, float64(100), UrgencyCritical.Score())
	assert.Equal(t, float64(75), UrgencyHigh.Score())
	assert.Equal(t, float64(50), UrgencyMedium.Score())
	assert.Equal(t, float64(25), UrgencyLow.Score())
	assert.Equal(t, float64(0), Urgency("").Score())
}
