package redistribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

// SurplusService handles surplus postings outside the transfer lifecycle
type SurplusService struct {
	surplusRepo    redistribution.SurplusPostingRepository
	inventoryRepo  inventory.InventoryItemRepository
	locker         KeyLocker
	eventPublisher shared.EventPublisher
	clock          shared.Clock
}

// NewSurplusService creates a new SurplusService
func NewSurplusService(
	surplusRepo redistribution.SurplusPostingRepository,
	inventoryRepo inventory.InventoryItemRepository,
	locker KeyLocker,
) *SurplusService {
	return &SurplusService{
		surplusRepo:   surplusRepo,
		inventoryRepo: inventoryRepo,
		locker:        locker,
		clock:         shared.SystemClock,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *SurplusService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock
func (s *SurplusService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Post offers part of an inventory item to other clinics
func (s *SurplusService) Post(ctx context.Context, req PostSurplusRequest) (*SurplusResponse, error) {
	item, err := s.inventoryRepo.FindByID(ctx, req.InventoryItemID)
	if err != nil {
		return nil, lookupError(err, "Inventory item", req.InventoryItemID)
	}

	sp, err := redistribution.NewSurplusPosting(item, req.Quantity, redistribution.SurplusReason(req.Reason), req.Notes, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.surplusRepo.Save(ctx, sp); err != nil {
		return nil, err
	}

	s.publish(ctx, sp)
	return surplusResult(sp), nil
}

// Cancel withdraws an Available posting. It takes the posting's lock so it
// cannot interleave with a transfer proposal.
func (s *SurplusService) Cancel(ctx context.Context, id uuid.UUID) (*SurplusResponse, error) {
	release, err := s.locker.Acquire(ctx, surplusKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	sp, err := s.surplusRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Surplus posting", id)
	}
	if err := sp.Cancel(s.clock()); err != nil {
		return nil, err
	}
	if err := s.surplusRepo.SaveWithLock(ctx, sp); err != nil {
		return nil, err
	}
	return surplusResult(sp), nil
}

// GetByID retrieves a surplus posting by ID
func (s *SurplusService) GetByID(ctx context.Context, id uuid.UUID) (*SurplusResponse, error) {
	sp, err := s.surplusRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Surplus posting", id)
	}
	return surplusResult(sp), nil
}

// List retrieves surplus postings
func (s *SurplusService) List(ctx context.Context, filter SurplusListFilter) ([]SurplusResponse, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize)
	domainFilter.OrderBy = "posted_date"
	if filter.ClinicID != nil {
		domainFilter.Filters["clinic_id"] = *filter.ClinicID
	}
	if filter.Status != "" {
		status := redistribution.SurplusStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewInvalidInputError("Invalid surplus status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}

	postings, err := s.surplusRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]SurplusResponse, len(postings))
	for i := range postings {
		responses[i] = ToSurplusResponse(&postings[i])
	}
	return responses, nil
}

func (s *SurplusService) publish(ctx context.Context, sp *redistribution.SurplusPosting) {
	events := collectEvents(sp)
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// Publish errors are logged by the event bus
	_ = s.eventPublisher.Publish(ctx, events...)
}
