package redistribution

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// SurplusPostingRepository defines the interface for surplus posting persistence
type SurplusPostingRepository interface {
	// FindByID finds a surplus posting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*SurplusPosting, error)

	// FindAll lists postings; Filters may contain "clinic_id" and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]SurplusPosting, error)

	// Save creates or updates a surplus posting
	Save(ctx context.Context, sp *SurplusPosting) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, sp *SurplusPosting) error
}

// MedicineRequestRepository defines the interface for medicine request persistence
type MedicineRequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*MedicineRequest, error)

	// FindAll lists requests; Filters may contain "clinic_id", "medicine_id" and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]MedicineRequest, error)

	// Save creates or updates a request
	Save(ctx context.Context, r *MedicineRequest) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, r *MedicineRequest) error
}

// TransferRepository defines the interface for transfer persistence
type TransferRepository interface {
	// FindByID finds a transfer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// FindAll lists transfers; Filters may contain "from_clinic_id",
	// "to_clinic_id", "clinic_id" (either side) and "status"
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)

	// Save creates or updates a transfer
	Save(ctx context.Context, t *Transfer) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, t *Transfer) error
}
