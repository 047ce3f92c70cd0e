package redistribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/telemetry"
)

// MatchingService loads a snapshot of open supply and demand and ranks it
type MatchingService struct {
	surplusRepo   redistribution.SurplusPostingRepository
	requestRepo   redistribution.MedicineRequestRepository
	inventoryRepo inventory.InventoryItemRepository
	medicineRepo  catalog.MedicineRepository
	clinicRepo    clinic.ClinicRepository
	finder        *redistribution.MatchFinder
	clock         shared.Clock
}

// NewMatchingService creates a new MatchingService
func NewMatchingService(
	surplusRepo redistribution.SurplusPostingRepository,
	requestRepo redistribution.MedicineRequestRepository,
	inventoryRepo inventory.InventoryItemRepository,
	medicineRepo catalog.MedicineRepository,
	clinicRepo clinic.ClinicRepository,
	finder *redistribution.MatchFinder,
) *MatchingService {
	return &MatchingService{
		surplusRepo:   surplusRepo,
		requestRepo:   requestRepo,
		inventoryRepo: inventoryRepo,
		medicineRepo:  medicineRepo,
		clinicRepo:    clinicRepo,
		finder:        finder,
		clock:         shared.SystemClock,
	}
}

// SetClock overrides the clock used for expiry arithmetic
func (s *MatchingService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// FindMatches ranks every Available surplus posting against every Open request
func (s *MatchingService) FindMatches(ctx context.Context) ([]MatchResponse, error) {
	matches, err := s.rank(ctx)
	if err != nil {
		return nil, err
	}
	return toMatchResponses(matches), nil
}

// FindMatchesForClinic ranks matches where the clinic is sender or receiver
func (s *MatchingService) FindMatchesForClinic(ctx context.Context, clinicID uuid.UUID) ([]MatchResponse, error) {
	if _, err := s.clinicRepo.FindByID(ctx, clinicID); err != nil {
		return nil, lookupError(err, "Clinic", clinicID)
	}
	matches, err := s.rank(ctx)
	if err != nil {
		return nil, err
	}
	return toMatchResponses(redistribution.ForClinic(matches, clinicID)), nil
}

func (s *MatchingService) rank(ctx context.Context) (_ []redistribution.Match, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "matching", "find_matches")
	defer telemetry.EndSpan(span, &err)

	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	matches := s.finder.FindMatches(snap, s.clock())
	telemetry.SetAttributes(span, telemetry.SpanAttrMatchCount, len(matches))
	return matches, nil
}

func (s *MatchingService) snapshot(ctx context.Context) (redistribution.Snapshot, error) {
	var snap redistribution.Snapshot

	surplusFilter := shared.Unpaged()
	surplusFilter.Filters["status"] = redistribution.SurplusStatusAvailable
	surplus, err := s.surplusRepo.FindAll(ctx, surplusFilter)
	if err != nil {
		return snap, err
	}

	requestFilter := shared.Unpaged()
	requestFilter.Filters["status"] = redistribution.RequestStatusOpen
	requests, err := s.requestRepo.FindAll(ctx, requestFilter)
	if err != nil {
		return snap, err
	}

	items, err := s.inventoryRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return snap, err
	}
	medicines, err := s.medicineRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return snap, err
	}
	clinics, err := s.clinicRepo.FindAll(ctx, shared.Unpaged())
	if err != nil {
		return snap, err
	}

	return redistribution.Snapshot{
		Surplus:   surplus,
		Requests:  requests,
		Inventory: items,
		Medicines: medicines,
		Clinics:   clinics,
	}, nil
}

func toMatchResponses(matches []redistribution.Match) []MatchResponse {
	responses := make([]MatchResponse, len(matches))
	for i := range matches {
		responses[i] = ToMatchResponse(&matches[i])
	}
	return responses
}
