package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/shared"
)

// Locker serializes find-or-create on one catalog key
type Locker interface {
	Acquire(ctx context.Context, keys ...string) (release func(), err error)
}

// MedicineService manages the shared medicine catalog
type MedicineService struct {
	medicineRepo catalog.MedicineRepository
	locker       Locker
	clock        shared.Clock
}

// NewMedicineService creates a new MedicineService
func NewMedicineService(medicineRepo catalog.MedicineRepository, locker Locker) *MedicineService {
	return &MedicineService{
		medicineRepo: medicineRepo,
		locker:       locker,
		clock:        shared.SystemClock,
	}
}

// SetClock overrides the clock used to stamp new entries
func (s *MedicineService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Create adds a medicine. A medicine with the same name and strength
// already in the catalog is an ALREADY_EXISTS error.
func (s *MedicineService) Create(ctx context.Context, req CreateMedicineRequest) (*MedicineResponse, error) {
	m, created, err := s.findOrCreate(ctx, req)
	if err != nil {
		return nil, err
	}
	if !created {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists,
			"Medicine "+m.Name+" "+m.Strength+" already exists")
	}
	response := ToMedicineResponse(m)
	return &response, nil
}

// FindOrCreate returns the catalog entry with the same case-insensitive
// name and strength, creating it when none exists.
func (s *MedicineService) FindOrCreate(ctx context.Context, req CreateMedicineRequest) (*MedicineResponse, error) {
	m, _, err := s.findOrCreate(ctx, req)
	if err != nil {
		return nil, err
	}
	response := ToMedicineResponse(m)
	return &response, nil
}

func (s *MedicineService) findOrCreate(ctx context.Context, req CreateMedicineRequest) (*catalog.Medicine, bool, error) {
	release, err := s.locker.Acquire(ctx, productKey(req.Name, req.Strength))
	if err != nil {
		return nil, false, err
	}
	defer release()

	existing, err := s.medicineRepo.FindByNameAndStrength(ctx, req.Name, req.Strength)
	if err == nil {
		return existing, false, nil
	}
	if !shared.IsNotFound(err) {
		return nil, false, err
	}

	m, err := catalog.NewMedicine(req.spec(), s.clock())
	if err != nil {
		return nil, false, err
	}
	if err := s.medicineRepo.Save(ctx, m); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// GetByID retrieves a medicine by ID
func (s *MedicineService) GetByID(ctx context.Context, id uuid.UUID) (*MedicineResponse, error) {
	m, err := s.medicineRepo.FindByID(ctx, id)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("Medicine", id)
		}
		return nil, err
	}
	response := ToMedicineResponse(m)
	return &response, nil
}

// List retrieves medicines ordered by name
func (s *MedicineService) List(ctx context.Context, filter MedicineListFilter) ([]MedicineResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "name"
	domainFilter.OrderDir = "asc"
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Category != "" {
		category := catalog.MedicineCategory(filter.Category)
		if !category.IsValid() {
			return nil, shared.NewInvalidInputError("Invalid medicine category: " + filter.Category)
		}
		domainFilter.Filters["category"] = category
	}

	medicines, err := s.medicineRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	responses := make([]MedicineResponse, len(medicines))
	for i := range medicines {
		responses[i] = ToMedicineResponse(&medicines[i])
	}
	return responses, nil
}

func productKey(name, strength string) string {
	return "medicine:" + strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToLower(strings.TrimSpace(strength))
}
