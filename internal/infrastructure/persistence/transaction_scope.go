package persistence

import (
	"context"

	"gorm.io/gorm"

	appredist "github.com/medishare/backend/internal/application/redistribution"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
)

// GormTransactionScope runs transfer steps inside one GORM transaction
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute commits when fn returns nil and rolls back otherwise
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appredist.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) SurplusRepo() redistribution.SurplusPostingRepository {
	return NewGormSurplusPostingRepository(r.tx)
}

func (r *gormTransactionalRepositories) RequestRepo() redistribution.MedicineRequestRepository {
	return NewGormMedicineRequestRepository(r.tx)
}

func (r *gormTransactionalRepositories) TransferRepo() redistribution.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *gormTransactionalRepositories) InventoryRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

var (
	_ appredist.TransactionScope          = (*GormTransactionScope)(nil)
	_ appredist.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
