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

// GormMedicineRequestRepository implements MedicineRequestRepository using GORM
type GormMedicineRequestRepository struct {
	db *gorm.DB
}

// NewGormMedicineRequestRepository creates a new GormMedicineRequestRepository
func NewGormMedicineRequestRepository(db *gorm.DB) *GormMedicineRequestRepository {
	return &GormMedicineRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormMedicineRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*redistribution.MedicineRequest, error) {
	var model models.MedicineRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Request", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists requests filtered by clinic, medicine and status
func (r *GormMedicineRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]redistribution.MedicineRequest, error) {
	query := applyEquals(r.db.WithContext(ctx).Model(&models.MedicineRequestModel{}),
		filter, "clinic_id", "medicine_id", "status")
	query = applyPaging(query, filter, RequestSortFields, "created_at")

	var rows []models.MedicineRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list medicine requests: %w", err)
	}
	requests := make([]redistribution.MedicineRequest, len(rows))
	for i := range rows {
		requests[i] = *rows[i].ToDomain()
	}
	return requests, nil
}

// Save creates or updates a request
func (r *GormMedicineRequestRepository) Save(ctx context.Context, req *redistribution.MedicineRequest) error {
	if err := r.db.WithContext(ctx).Save(models.MedicineRequestModelFromDomain(req)).Error; err != nil {
		return fmt.Errorf("save medicine request: %w", err)
	}
	return nil
}

// SaveWithLock persists a status change when the stored version is current
func (r *GormMedicineRequestRepository) SaveWithLock(ctx context.Context, req *redistribution.MedicineRequest) error {
	return versionedUpdate(r.db.WithContext(ctx), &models.MedicineRequestModel{}, "Request", req.ID, req.Version,
		map[string]any{
			"status":     string(req.Status),
			"notes":      req.Notes,
			"updated_at": req.UpdatedAt,
		})
}

var _ redistribution.MedicineRequestRepository = (*GormMedicineRequestRepository)(nil)
