package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/medishare/backend/internal/infrastructure/persistence/models"
)

// GormSurplusPostingRepository implements SurplusPostingRepository using GORM
type GormSurplusPostingRepository struct {
	db *gorm.DB
}

// NewGormSurplusPostingRepository creates a new GormSurplusPostingRepository
func NewGormSurplusPostingRepository(db *gorm.DB) *GormSurplusPostingRepository {
	return &GormSurplusPostingRepository{db: db}
}

// FindByID finds a surplus posting by its ID
func (r *GormSurplusPostingRepository) FindByID(ctx context.Context, id uuid.UUID) (*redistribution.SurplusPosting, error) {
	var model models.SurplusPostingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Surplus posting", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists postings filtered by clinic and status
func (r *GormSurplusPostingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]redistribution.SurplusPosting, error) {
	query := applyEquals(r.db.WithContext(ctx).Model(&models.SurplusPostingModel{}), filter, "clinic_id", "status")
	query = applyPaging(query, filter, SurplusSortFields, "created_at")

	var rows []models.SurplusPostingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list surplus postings: %w", err)
	}
	postings := make([]redistribution.SurplusPosting, len(rows))
	for i := range rows {
		postings[i] = *rows[i].ToDomain()
	}
	return postings, nil
}

// Save creates or updates a surplus posting
func (r *GormSurplusPostingRepository) Save(ctx context.Context, sp *redistribution.SurplusPosting) error {
	if err := r.db.WithContext(ctx).Save(models.SurplusPostingModelFromDomain(sp)).Error; err != nil {
		return fmt.Errorf("save surplus posting: %w", err)
	}
	return nil
}

// SaveWithLock persists a status change when the stored version is current
func (r *GormSurplusPostingRepository) SaveWithLock(ctx context.Context, sp *redistribution.SurplusPosting) error {
	return versionedUpdate(r.db.WithContext(ctx), &models.SurplusPostingModel{}, "Surplus posting", sp.ID, sp.Version,
		map[string]any{
			"status":     string(sp.Status),
			"quantity":   sp.Quantity,
			"notes":      sp.Notes,
			"updated_at": sp.UpdatedAt,
		})
}

var _ redistribution.SurplusPostingRepository = (*GormSurplusPostingRepository)(nil)
