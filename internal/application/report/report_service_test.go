package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/tests/testutil"
)

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

type clinicPair struct{ from, to uuid.UUID }

// seedTransfer drives a transfer through the workflow and stores it;
// complete=false leaves it Pending.
func seedTransfer(t *testing.T, repo *testutil.TransferRepository, pair clinicPair, qty int64, complete bool) {
	t.Helper()
	medicine, err := catalog.NewMedicine(catalog.MedicineSpec{Name: "ORS"}, testNow)
	require.NoError(t, err)
	item, err := inventory.NewInventoryItem(pair.from, medicine.ID, "B-1", qty, inventory.UnitStrips,
		testNow.AddDate(1, 0, 0), inventory.DefaultStockPolicy(), testNow)
	require.NoError(t, err)
	surplus, err := redistribution.NewSurplusPosting(item, qty, redistribution.SurplusReasonOverstocked, nil, testNow)
	require.NoError(t, err)
	request, err := redistribution.NewMedicineRequest(pair.to, medicine.ID, qty, inventory.UnitStrips, redistribution.UrgencyLow, nil, testNow)
	require.NoError(t, err)

	workflow := redistribution.NewTransferWorkflow(redistribution.CompletionPolicy{}, inventory.DefaultStockPolicy())
	transfer, err := workflow.Propose(surplus, request, item, "", testNow)
	require.NoError(t, err)
	if complete {
		require.NoError(t, workflow.Approve(transfer, testNow))
		require.NoError(t, workflow.Complete(transfer, surplus, request, item, testNow))
	}
	require.NoError(t, repo.Save(context.Background(), transfer))
}

func TestReportService_Impact(t *testing.T) {
	repo := testutil.NewTransferRepository()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	seedTransfer(t, repo, clinicPair{a, b}, 500, true)
	seedTransfer(t, repo, clinicPair{a, c}, 125, true)
	seedTransfer(t, repo, clinicPair{c, b}, 80, true)
	seedTransfer(t, repo, clinicPair{b, a}, 999, false)

	svc := NewReportService(repo, DefaultImpactFactors())

	stats, err := svc.Impact(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(705), stats.MedicinesSaved)
	assert.Equal(t, int64(353), stats.WasteReducedGrams) // 352.5 rounds up
	assert.Equal(t, 3, stats.TransfersCompleted)
	assert.Equal(t, 2, stats.ClinicsHelped)
	assert.Equal(t, int64(71), stats.EstimatedPatients) // 70.5 rounds up
	assert.True(t, decimal.NewFromInt(2468).Equal(stats.EstimatedValue), "got %s", stats.EstimatedValue)
	assert.Equal(t, "INR", stats.Currency)

	t.Run("scoped to a clinic", func(t *testing.T) {
		stats, err := svc.Impact(context.Background(), &c)
		require.NoError(t, err)
		assert.Equal(t, int64(205), stats.MedicinesSaved)
		assert.Equal(t, 2, stats.TransfersCompleted)
		assert.Equal(t, 2, stats.ClinicsHelped)
	})

	t.Run("clinic with no completed transfers", func(t *testing.T) {
		stranger := uuid.New()
		stats, err := svc.Impact(context.Background(), &stranger)
		require.NoError(t, err)
		assert.Zero(t, stats.MedicinesSaved)
		assert.Zero(t, stats.ClinicsHelped)
		assert.True(t, stats.EstimatedValue.IsZero())
	})
}

func TestNewImpactFactors(t *testing.T) {
	f := NewImpactFactors(1, 0, -2)
	assert.True(t, decimal.NewFromInt(1).Equal(f.WasteGramsPerUnit))
	assert.True(t, decimal.NewFromInt(10).Equal(f.UnitsPerPatient))
	assert.True(t, decimal.NewFromFloat(3.5).Equal(f.ValuePerUnit))
}
