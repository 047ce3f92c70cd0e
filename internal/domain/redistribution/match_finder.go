package redistribution

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
)

// Match is a scored, non-persistent pairing of a surplus posting and an open request
type Match struct {
	Surplus       SurplusPosting
	Request       MedicineRequest
	InventoryItem inventory.InventoryItem
	Medicine      catalog.Medicine
	FromClinic    clinic.Clinic
	ToClinic      clinic.Clinic
	Scoring
}

// Snapshot is a read-only view of the collections the finder works over
type Snapshot struct {
	Surplus   []SurplusPosting
	Requests  []MedicineRequest
	Inventory []inventory.InventoryItem
	Medicines []catalog.Medicine
	Clinics   []clinic.Clinic
}

// MatchFinder enumerates and ranks compatible surplus/request pairs
type MatchFinder struct {
	scorer *MatchScorer
}

// NewMatchFinder creates a finder using scorer
func NewMatchFinder(scorer *MatchScorer) *MatchFinder {
	return &MatchFinder{scorer: scorer}
}

// FindMatches pairs every Available surplus with every Open request for the
// same medicine, ranked by descending score. Ties keep encounter order.
// Pairs with dangling references are skipped.
func (f *MatchFinder) FindMatches(snap Snapshot, now time.Time) []Match {
	items := make(map[uuid.UUID]*inventory.InventoryItem, len(snap.Inventory))
	for i := range snap.Inventory {
		items[snap.Inventory[i].ID] = &snap.Inventory[i]
	}
	medicines := make(map[uuid.UUID]*catalog.Medicine, len(snap.Medicines))
	for i := range snap.Medicines {
		medicines[snap.Medicines[i].ID] = &snap.Medicines[i]
	}
	clinics := make(map[uuid.UUID]*clinic.Clinic, len(snap.Clinics))
	for i := range snap.Clinics {
		clinics[snap.Clinics[i].ID] = &snap.Clinics[i]
	}

	matches := make([]Match, 0)
	for si := range snap.Surplus {
		surplus := &snap.Surplus[si]
		if surplus.Status != SurplusStatusAvailable {
			continue
		}
		item, ok := items[surplus.InventoryItemID]
		if !ok {
			continue
		}
		medicine, ok := medicines[item.MedicineID]
		if !ok {
			continue
		}

		for ri := range snap.Requests {
			request := &snap.Requests[ri]
			if request.Status != RequestStatusOpen || request.MedicineID != medicine.ID {
				continue
			}
			from, ok := clinics[surplus.ClinicID]
			if !ok {
				continue
			}
			to, ok := clinics[request.ClinicID]
			if !ok {
				continue
			}
			score, err := f.scorer.Score(surplus, request, item, now)
			if err != nil {
				continue
			}
			matches = append(matches, Match{
				Surplus:       *surplus,
				Request:       *request,
				InventoryItem: *item,
				Medicine:      *medicine,
				FromClinic:    *from,
				ToClinic:      *to,
				Scoring:       score,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	return matches
}

// ForClinic keeps the matches where the clinic is the sender or receiver
func ForClinic(matches []Match, clinicID uuid.UUID) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.FromClinic.ID == clinicID || m.ToClinic.ID == clinicID {
			out = append(out, m)
		}
	}
	return out
}
