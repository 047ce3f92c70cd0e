package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/catalog"
)

// CreateMedicineRequest represents a request to add a medicine to the catalog
type CreateMedicineRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	GenericName  string `json:"generic_name" binding:"max=200"`
	Category     string `json:"category" binding:"omitempty,max=50"`
	Strength     string `json:"strength" binding:"max=50"`
	Manufacturer string `json:"manufacturer" binding:"max=200"`
	Priority     string `json:"priority" binding:"omitempty,max=20"`
}

// MedicineListFilter represents filter options for medicine lists
type MedicineListFilter struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

// MedicineResponse represents a medicine in API responses
type MedicineResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	GenericName  string    `json:"generic_name"`
	Category     string    `json:"category"`
	Strength     string    `json:"strength"`
	Manufacturer string    `json:"manufacturer"`
	Priority     string    `json:"priority"`
	CreatedAt    time.Time `json:"created_at"`
}

func (r CreateMedicineRequest) spec() catalog.MedicineSpec {
	return catalog.MedicineSpec{
		Name:         r.Name,
		GenericName:  r.GenericName,
		Category:     catalog.MedicineCategory(r.Category),
		Strength:     r.Strength,
		Manufacturer: r.Manufacturer,
		Priority:     catalog.MedicinePriority(r.Priority),
	}
}

// ToMedicineResponse converts a domain Medicine to MedicineResponse
func ToMedicineResponse(m *catalog.Medicine) MedicineResponse {
	return MedicineResponse{
		ID:           m.ID,
		Name:         m.Name,
		GenericName:  m.GenericName,
		Category:     string(m.Category),
		Strength:     m.Strength,
		Manufacturer: m.Manufacturer,
		Priority:     string(m.Priority),
		CreatedAt:    m.CreatedAt,
	}
}
