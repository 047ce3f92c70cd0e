package clinic

import (
	"net/mail"
	"strings"
	"time"

	"github.com/medishare/backend/internal/domain/shared"
)

// ClinicType classifies the kind of organisation running a clinic
type ClinicType string

const (
	ClinicTypeNGO                ClinicType = "NGO"
	ClinicTypePrimaryHealth      ClinicType = "Primary Health Center"
	ClinicTypeCharitableHospital ClinicType = "Charitable Hospital"
	ClinicTypeMobileUnit         ClinicType = "Mobile Medical Unit"
)

// IsValid checks if the clinic type is known
func (t ClinicType) IsValid() bool {
	switch t {
	case ClinicTypeNGO, ClinicTypePrimaryHealth, ClinicTypeCharitableHospital, ClinicTypeMobileUnit:
		return true
	}
	return false
}

// String returns the string representation of ClinicType
func (t ClinicType) String() string {
	return string(t)
}

// Clinic is an independent clinic taking part in medicine sharing.
// Its ID never changes after registration.
type Clinic struct {
	shared.BaseAggregateRoot
	Name          string
	Type          ClinicType
	Location      string
	District      string
	State         string
	ContactPerson *string
	Phone         *string
	Email         *string
}

// Contact carries the optional contact details of a clinic
type Contact struct {
	Person *string
	Phone  *string
	Email  *string
}

// NewClinic registers a new clinic
func NewClinic(name string, clinicType ClinicType, location, district, state string, contact Contact, now time.Time) (*Clinic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInputError("Clinic name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewInvalidInputError("Clinic name cannot exceed 200 characters")
	}
	if !clinicType.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid clinic type: " + string(clinicType))
	}
	if contact.Email != nil && *contact.Email != "" {
		if _, err := mail.ParseAddress(*contact.Email); err != nil {
			return nil, shared.NewInvalidInputError("Invalid clinic email: " + *contact.Email)
		}
	}

	return &Clinic{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		Type:              clinicType,
		Location:          strings.TrimSpace(location),
		District:          strings.TrimSpace(district),
		State:             strings.TrimSpace(state),
		ContactPerson:     contact.Person,
		Phone:             contact.Phone,
		Email:             contact.Email,
	}, nil
}
