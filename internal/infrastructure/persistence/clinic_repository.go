package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/persistence/models"
)

// GormClinicRepository implements ClinicRepository using GORM
type GormClinicRepository struct {
	db *gorm.DB
}

// NewGormClinicRepository creates a new GormClinicRepository
func NewGormClinicRepository(db *gorm.DB) *GormClinicRepository {
	return &GormClinicRepository{db: db}
}

// FindByID finds a clinic by its ID
func (r *GormClinicRepository) FindByID(ctx context.Context, id uuid.UUID) (*clinic.Clinic, error) {
	var model models.ClinicModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Clinic", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists clinics filtered by state and district
func (r *GormClinicRepository) FindAll(ctx context.Context, filter shared.Filter) ([]clinic.Clinic, error) {
	query := applyEquals(r.db.WithContext(ctx).Model(&models.ClinicModel{}), filter, "state", "district")
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(filter.Search))
	}
	query = applyPaging(query, filter, ClinicSortFields, "name")

	var rows []models.ClinicModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list clinics: %w", err)
	}
	clinics := make([]clinic.Clinic, len(rows))
	for i := range rows {
		clinics[i] = *rows[i].ToDomain()
	}
	return clinics, nil
}

// Save creates or updates a clinic
func (r *GormClinicRepository) Save(ctx context.Context, c *clinic.Clinic) error {
	if err := r.db.WithContext(ctx).Save(models.ClinicModelFromDomain(c)).Error; err != nil {
		return fmt.Errorf("save clinic: %w", err)
	}
	return nil
}

var _ clinic.ClinicRepository = (*GormClinicRepository)(nil)
