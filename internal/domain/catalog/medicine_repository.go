package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// MedicineRepository defines the interface for medicine persistence
type MedicineRepository interface {
	// FindByID finds a medicine by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Medicine, error)

	// FindByNameAndStrength finds a medicine by case-insensitive name and strength
	FindByNameAndStrength(ctx context.Context, name, strength string) (*Medicine, error)

	// FindAll lists medicines; Filters may contain "category"
	FindAll(ctx context.Context, filter shared.Filter) ([]Medicine, error)

	// Save creates or updates a medicine
	Save(ctx context.Context, m *Medicine) error
}
