package inventory

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/medishare/backend/internal/application/catalog"
	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

// MedicineCatalog resolves a described medicine to a catalog entry
type MedicineCatalog interface {
	FindOrCreate(ctx context.Context, req catalogapp.CreateMedicineRequest) (*catalogapp.MedicineResponse, error)
}

// InventoryService handles clinic stock entry and lookup
type InventoryService struct {
	inventoryRepo  inventory.InventoryItemRepository
	clinicRepo     clinic.ClinicRepository
	medicineRepo   catalog.MedicineRepository
	catalog        MedicineCatalog
	policy         inventory.StockPolicy
	eventPublisher shared.EventPublisher
	clock          shared.Clock
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	inventoryRepo inventory.InventoryItemRepository,
	clinicRepo clinic.ClinicRepository,
	medicineRepo catalog.MedicineRepository,
	medicines MedicineCatalog,
	policy inventory.StockPolicy,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		clinicRepo:    clinicRepo,
		medicineRepo:  medicineRepo,
		catalog:       medicines,
		policy:        policy,
		clock:         shared.SystemClock,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *InventoryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the clock used for classification
func (s *InventoryService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Add records a new batch at a clinic and classifies it
func (s *InventoryService) Add(ctx context.Context, req AddInventoryRequest) (*InventoryItemResponse, error) {
	if _, err := s.clinicRepo.FindByID(ctx, req.ClinicID); err != nil {
		return nil, notFound(err, "Clinic", req.ClinicID)
	}

	medicineID, err := s.resolveMedicine(ctx, req)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	item, err := inventory.NewInventoryItem(
		req.ClinicID,
		medicineID,
		req.BatchNumber,
		req.Quantity,
		inventory.Unit(req.Unit),
		req.ExpiryDate,
		s.policy,
		now,
	)
	if err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Save(ctx, item); err != nil {
		return nil, err
	}

	events := item.GetDomainEvents()
	item.ClearDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}

	response := ToInventoryItemResponse(item, now)
	return &response, nil
}

func (s *InventoryService) resolveMedicine(ctx context.Context, req AddInventoryRequest) (uuid.UUID, error) {
	switch {
	case req.MedicineID != nil && req.Medicine != nil:
		return uuid.Nil, shared.NewInvalidInputError("Give either medicine_id or medicine, not both")
	case req.MedicineID != nil:
		if _, err := s.medicineRepo.FindByID(ctx, *req.MedicineID); err != nil {
			return uuid.Nil, notFound(err, "Medicine", *req.MedicineID)
		}
		return *req.MedicineID, nil
	case req.Medicine != nil:
		m, err := s.catalog.FindOrCreate(ctx, *req.Medicine)
		if err != nil {
			return uuid.Nil, err
		}
		return m.ID, nil
	default:
		return uuid.Nil, shared.NewInvalidInputError("A medicine_id or medicine description is required")
	}
}

// GetByID retrieves an inventory item by ID
func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.inventoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Inventory item", id)
	}
	response := ToInventoryItemResponse(item, s.clock())
	return &response, nil
}

// List retrieves inventory items, newest batches first
func (s *InventoryService) List(ctx context.Context, filter InventoryListFilter) ([]InventoryItemResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "added_date"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ClinicID != nil {
		domainFilter.Filters["clinic_id"] = *filter.ClinicID
	}
	if filter.MedicineID != nil {
		domainFilter.Filters["medicine_id"] = *filter.MedicineID
	}
	if filter.Status != "" {
		status := inventory.StockStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewInvalidInputError("Invalid stock status: " + filter.Status)
		}
		domainFilter.Filters["status"] = status
	}

	items, err := s.inventoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	now := s.clock()
	responses := make([]InventoryItemResponse, len(items))
	for i := range items {
		responses[i] = ToInventoryItemResponse(&items[i], now)
	}
	return responses, nil
}

func notFound(err error, entity string, id uuid.UUID) error {
	if shared.IsNotFound(err) {
		return shared.NewNotFoundError(entity, id)
	}
	return err
}
