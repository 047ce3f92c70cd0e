package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/shared"
)

// ClinicService handles clinic registration and lookup
type ClinicService struct {
	clinicRepo clinic.ClinicRepository
	clock      shared.Clock
}

// NewClinicService creates a new ClinicService
func NewClinicService(clinicRepo clinic.ClinicRepository) *ClinicService {
	return &ClinicService{
		clinicRepo: clinicRepo,
		clock:      shared.SystemClock,
	}
}

// SetClock overrides the registration clock
func (s *ClinicService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Register creates a new clinic
func (s *ClinicService) Register(ctx context.Context, req RegisterClinicRequest) (*ClinicResponse, error) {
	c, err := clinic.NewClinic(
		req.Name,
		clinic.ClinicType(req.Type),
		req.Location,
		req.District,
		req.State,
		clinic.Contact{Person: req.ContactPerson, Phone: req.Phone, Email: req.Email},
		s.clock(),
	)
	if err != nil {
		return nil, err
	}
	if err := s.clinicRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	response := ToClinicResponse(c)
	return &response, nil
}

// GetByID retrieves a clinic by ID
func (s *ClinicService) GetByID(ctx context.Context, id uuid.UUID) (*ClinicResponse, error) {
	c, err := s.clinicRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Clinic", id)
		}
		return nil, err
	}
	response := ToClinicResponse(c)
	return &response, nil
}

// List retrieves clinics, optionally narrowed by state and district
func (s *ClinicService) List(ctx context.Context, filter ClinicListFilter) ([]ClinicResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}
	if filter.District != "" {
		domainFilter.Filters["district"] = filter.District
	}

	clinics, err := s.clinicRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = ToClinicResponse(&clinics[i])
	}
	return responses, nil
}
