package clinic

import (
	"time"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/clinic"
)

// RegisterClinicRequest represents a request to register a clinic
type RegisterClinicRequest struct {
	Name          string  `json:"name" binding:"required,min=1,max=200"`
	Type          string  `json:"type" binding:"required,clinic_type"`
	Location      string  `json:"location" binding:"max=500"`
	District      string  `json:"district" binding:"max=100"`
	State         string  `json:"state" binding:"max=100"`
	ContactPerson *string `json:"contact_person" binding:"omitempty,max=100"`
	Phone         *string `json:"phone" binding:"omitempty,max=50"`
	Email         *string `json:"email" binding:"omitempty,email"`
}

// ClinicListFilter represents filter options for clinic lists
type ClinicListFilter struct {
	State    string
	District string
	Page     int
	PageSize int
}

// ClinicResponse represents a clinic in API responses
type ClinicResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Location      string    `json:"location"`
	District      string    `json:"district"`
	State         string    `json:"state"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	Phone         *string   `json:"phone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToClinicResponse converts a domain Clinic to ClinicResponse
func ToClinicResponse(c *clinic.Clinic) ClinicResponse {
	return ClinicResponse{
		ID:            c.ID,
		Name:          c.Name,
		Type:          string(c.Type),
		Location:      c.Location,
		District:      c.District,
		State:         c.State,
		ContactPerson: c.ContactPerson,
		Phone:         c.Phone,
		Email:         c.Email,
		CreatedAt:     c.CreatedAt,
	}
}
