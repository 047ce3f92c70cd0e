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

// GormTransferRepository implements TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer by its ID
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*redistribution.Transfer, error) {
	var model models.TransferModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateFindError(err, "Transfer", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists transfers. "clinic_id" matches either side of the transfer.
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]redistribution.Transfer, error) {
	query := r.db.WithContext(ctx).Model(&models.TransferModel{})
	if clinicID, ok := filter.Filters["clinic_id"]; ok {
		query = query.Where("(from_clinic_id = ? OR to_clinic_id = ?)", clinicID, clinicID)
	}
	query = applyEquals(query, filter, "from_clinic_id", "to_clinic_id", "status")
	query = applyPaging(query, filter, TransferSortFields, "created_at")

	var rows []models.TransferModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transfers: %w", err)
	}
	transfers := make([]redistribution.Transfer, len(rows))
	for i := range rows {
		transfers[i] = *rows[i].ToDomain()
	}
	return transfers, nil
}

// Save creates or updates a transfer
func (r *GormTransferRepository) Save(ctx context.Context, t *redistribution.Transfer) error {
	if err := r.db.WithContext(ctx).Save(models.TransferModelFromDomain(t)).Error; err != nil {
		return fmt.Errorf("save transfer: %w", err)
	}
	return nil
}

// SaveWithLock persists a lifecycle step when the stored version is current
func (r *GormTransferRepository) SaveWithLock(ctx context.Context, t *redistribution.Transfer) error {
	return versionedUpdate(r.db.WithContext(ctx), &models.TransferModel{}, "Transfer", t.ID, t.Version,
		map[string]any{
			"status":         string(t.Status),
			"approved_date":  t.ApprovedDate,
			"completed_date": t.CompletedDate,
			"updated_at":     t.UpdatedAt,
		})
}

var _ redistribution.TransferRepository = (*GormTransferRepository)(nil)
