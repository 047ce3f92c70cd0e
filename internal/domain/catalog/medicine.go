package catalog

import (
	"strings"
	"time"

	"github.com/medishare/backend/internal/domain/shared"
)

// MedicineCategory is the therapeutic class of a medicine
type MedicineCategory string

const (
	CategoryAntibiotic       MedicineCategory = "Antibiotic"
	CategoryPainkiller       MedicineCategory = "Painkiller"
	CategoryAntiseptic       MedicineCategory = "Antiseptic"
	CategoryAntidiabetic     MedicineCategory = "Antidiabetic"
	CategoryAntihypertensive MedicineCategory = "Antihypertensive"
	CategoryVitamin          MedicineCategory = "Vitamin"
	CategoryVaccine          MedicineCategory = "Vaccine"
	CategoryOther            MedicineCategory = "Other"
)

// IsValid checks if the category is known
func (c MedicineCategory) IsValid() bool {
	switch c {
	case CategoryAntibiotic, CategoryPainkiller, CategoryAntiseptic, CategoryAntidiabetic,
		CategoryAntihypertensive, CategoryVitamin, CategoryVaccine, CategoryOther:
		return true
	}
	return false
}

// MedicinePriority marks how essential a medicine is
type MedicinePriority string

const (
	PriorityEssential MedicinePriority = "Essential"
	PriorityCritical  MedicinePriority = "Critical"
	PriorityStandard  MedicinePriority = "Standard"
)

// IsValid checks if the priority is known
func (p MedicinePriority) IsValid() bool {
	switch p {
	case PriorityEssential, PriorityCritical, PriorityStandard:
		return true
	}
	return false
}

// Medicine is a catalog entry shared by all clinics
type Medicine struct {
	shared.BaseAggregateRoot
	Name         string
	GenericName  string
	Category     MedicineCategory
	Strength     string
	Manufacturer string
	Priority     MedicinePriority
}

// MedicineSpec holds the descriptive fields of a medicine
type MedicineSpec struct {
	Name         string
	GenericName  string
	Category     MedicineCategory
	Strength     string
	Manufacturer string
	Priority     MedicinePriority
}

// NewMedicine creates a catalog entry. Missing category and priority
// default to Other and Standard.
func NewMedicine(spec MedicineSpec, now time.Time) (*Medicine, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return nil, shared.NewInvalidInputError("Medicine name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewInvalidInputError("Medicine name cannot exceed 200 characters")
	}

	category := spec.Category
	if category == "" {
		category = CategoryOther
	}
	if !category.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid medicine category: " + string(category))
	}
	priority := spec.Priority
	if priority == "" {
		priority = PriorityStandard
	}
	if !priority.IsValid() {
		return nil, shared.NewInvalidInputError("Invalid medicine priority: " + string(priority))
	}

	return &Medicine{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(now),
		Name:              name,
		GenericName:       strings.TrimSpace(spec.GenericName),
		Category:          category,
		Strength:          strings.TrimSpace(spec.Strength),
		Manufacturer:      strings.TrimSpace(spec.Manufacturer),
		Priority:          priority,
	}, nil
}

// SameProduct reports whether the medicine matches a name and strength,
// ignoring case and surrounding whitespace.
func (m *Medicine) SameProduct(name, strength string) bool {
	return strings.EqualFold(m.Name, strings.TrimSpace(name)) &&
		strings.EqualFold(m.Strength, strings.TrimSpace(strength))
}
