package clinic

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/shared"
)

// ClinicRepository defines the interface for clinic persistence
type ClinicRepository interface {
	// FindByID finds a clinic by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Clinic, error)

	// FindAll lists clinics; Filters may contain "state" and "district"
	FindAll(ctx context.Context, filter shared.Filter) ([]Clinic, error)

	// Save creates or updates a clinic
	Save(ctx context.Context, c *Clinic) error
}
