package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medishare/backend/internal/domain/catalog"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/persistence/models"
)

// GormMedicineRepository implements MedicineRepository using GORM
type GormMedicineRepository struct {
	db *gorm.DB
}

// NewGormMedicineRepository creates a new GormMedicineRepository
func NewGormMedicineRepository(db *gorm.DB) *GormMedicineRepository {
	return &GormMedicineRepository{db: db}
}

// FindByID finds a medicine by its ID
func (r *GormMedicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Medicine, error) {
	var model models.MedicineModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Medicine", id)
	}
	return model.ToDomain(), nil
}

// FindByNameAndStrength matches name and strength case-insensitively
func (r *GormMedicineRepository) FindByNameAndStrength(ctx context.Context, name, strength string) (*catalog.Medicine, error) {
	var model models.MedicineModel
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? AND LOWER(strength) = ?",
			strings.ToLower(strings.TrimSpace(name)), strings.ToLower(strings.TrimSpace(strength))).
		Order("created_at ASC").
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, shared.NewDomainError(shared.CodeNotFound,
			fmt.Sprintf("Medicine %s %s not found", name, strength))
	}
	if err != nil {
		return nil, fmt.Errorf("find medicine by name: %w", err)
	}
	return model.ToDomain(), nil
}

// FindAll lists medicines, searching name and generic name
func (r *GormMedicineRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Medicine, error) {
	query := applyEquals(r.db.WithContext(ctx).Model(&models.MedicineModel{}), filter, "category")
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(generic_name) LIKE ? ESCAPE '\\')", pattern, pattern)
	}
	query = applyPaging(query, filter, MedicineSortFields, "name")

	var rows []models.MedicineModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list medicines: %w", err)
	}
	medicines := make([]catalog.Medicine, len(rows))
	for i := range rows {
		medicines[i] = *rows[i].ToDomain()
	}
	return medicines, nil
}

// Save creates or updates a medicine
func (r *GormMedicineRepository) Save(ctx context.Context, m *catalog.Medicine) error {
	if err := r.db.WithContext(ctx).Save(models.MedicineModelFromDomain(m)).Error; err != nil {
		return fmt.Errorf("save medicine: %w", err)
	}
	return nil
}

var _ catalog.MedicineRepository = (*GormMedicineRepository)(nil)
