package redistribution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
)

var testNow = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func daysFromNow(n int) time.Time {
	return testNow.Add(time.Duration(n) * 24 * time.Hour)
}

type fixture struct {
	medicine catalog.Medicine
	from     clinic.Clinic
	to       clinic.Clinic
	item     *inventory.InventoryItem
	surplus  *SurplusPosting
	request  *MedicineRequest
}

func newClinic(t *testing.T, name string) clinic.Clinic {
	t.Helper()
	c, err := clinic.NewClinic(name, clinic.ClinicTypeNGO, "", "", "", clinic.Contact{}, testNow)
	require.NoError(t, err)
	return *c
}

func newMedicine(t *testing.T, name string) catalog.Medicine {
	t.Helper()
	m, err := catalog.NewMedicine(catalog.MedicineSpec{Name: name, Strength: "500mg"}, testNow)
	require.NoError(t, err)
	return *m
}

// newFixture builds a sender holding stock of one medicine with a surplus
// posting, and a receiver with an open request for the same medicine.
func newFixture(t *testing.T, stock, surplusQty, requestQty int64, expiryDays int, urgency Urgency) *fixture {
	t.Helper()
	f := &fixture{
		medicine: newMedicine(t, "Amoxicillin"),
		from:     newClinic(t, "Sender Clinic"),
		to:       newClinic(t, "Receiver Clinic"),
	}

	item, err := inventory.NewInventoryItem(f.from.ID, f.medicine.ID, "BATCH-1", stock,
		inventory.UnitTablets, daysFromNow(expiryDays), inventory.DefaultStockPolicy(), testNow)
	require.NoError(t, err)
	f.item = item

	sp, err := NewSurplusPosting(item, surplusQty, SurplusReasonOverstocked, nil, testNow)
	require.NoError(t, err)
	f.surplus = sp

	req, err := NewMedicineRequest(f.to.ID, f.medicine.ID, requestQty, inventory.UnitTablets, urgency, nil, testNow)
	require.NoError(t, err)
	f.request = req

	return f
}

func (f *fixture) snapshot() Snapshot {
	return Snapshot{
		Surplus:   []SurplusPosting{*f.surplus},
		Requests:  []MedicineRequest{*f.request},
		Inventory: []inventory.InventoryItem{*f.item},
		Medicines: []catalog.Medicine{f.medicine},
		Clinics:   []clinic.Clinic{f.from, f.to},
	}
}

func defaultWorkflow() *TransferWorkflow {
	return NewTransferWorkflow(CompletionPolicy{}, inventory.DefaultStockPolicy())
}
