package redistribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

// RequestService handles medicine requests outside the transfer lifecycle
type RequestService struct {
	requestRepo    redistribution.MedicineRequestRepository
	clinicRepo     clinic.ClinicRepository
	medicineRepo   catalog.MedicineRepository
	locker         KeyLocker
	eventPublisher shared.EventPublisher
	clock          shared.Clock
}

// NewRequestService creates a new RequestService
func NewRequestService(
	requestRepo redistribution.MedicineRequestRepository,
	clinicRepo clinic.ClinicRepository,
	medicineRepo catalog.MedicineRepository,
	locker KeyLocker,
) *RequestService {
	return &RequestService{
		requestRepo:  requestRepo,
		clinicRepo:   clinicRepo,
		medicineRepo: medicineRepo,
		locker:       locker,
		clock:        shared.SystemClock,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *RequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock
func (s *RequestService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Create opens a request for a medicine on behalf of a clinic
func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest) (*RequestResponse, error) {
	if _, err := s.clinicRepo.FindByID(ctx, req.ClinicID); err != nil {
		return nil, lookupError(err, "Clinic", req.ClinicID)
	}
	if _, err := s.medicineRepo.FindByID(ctx, req.MedicineID); err != nil {
		return nil, lookupError(err, "Medicine", req.MedicineID)
	}

	r, err := redistribution.NewMedicineRequest(
		req.ClinicID,
		req.MedicineID,
		req.Quantity,
		inventory.Unit(req.Unit),
		redistribution.Urgency(req.Urgency),
		req.Notes,
		s.clock(),
	)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	if events := collectEvents(r); s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return requestResult(r), nil
}

// Cancel withdraws an Open request
func (s *RequestService) Cancel(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	release, err := s.locker.Acquire(ctx, requestKey(id))
	if err != nil {
		return nil, err
	}
	defer release()

	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Request", id)
	}
	if err := r.Cancel(s.clock()); err != nil {
		return nil, err
	}
	if err := s.requestRepo.SaveWithLock(ctx, r); err != nil {
		return nil, err
	}
	return requestResult(r), nil
}

// GetByID retrieves a request by ID
func (s *RequestService) GetByID(ctx context.Context, id uuid.UUID) (*RequestResponse, error) {
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "Request", id)
	}
	return requestResult(r), nil
}

// List retrieves medicine requests
func (s *RequestService) List(ctx context.Context, filter RequestListFilter) ([]RequestResponse, error) {
	domainFilter := listFilter(filter.Page, filter.PageSize)
	domainFilter.OrderBy = "requested_date"
	if filter.ClinicID != nil {
		domainFilter.Filters["clinic_id"] = *filter.ClinicID
	}
	if filter.MedicineID != nil {
		domainFilter.Filters["medicine_id"] = *filter.MedicineID
	}
	if filter.Status != "" {
		status := redistribution.RequestStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewInvalidInputError("Invalid request status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}

	requests, err := s.requestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]RequestResponse, len(requests))
	for i := range requests {
		responses[i] = ToRequestResponse(&requests[i])
	}
	return responses, nil
}
