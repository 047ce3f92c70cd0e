package redistribution

import (
	"context"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
)

// TransactionScope provides transactional access to the repositories a
// transfer touches. Every write made through repos inside fn commits or
// rolls back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	SurplusRepo() redistribution.SurplusPostingRepository
	RequestRepo() redistribution.MedicineRequestRepository
	TransferRepo() redistribution.TransferRepository
	InventoryRepo() inventory.InventoryItemRepository
}

// NoOpTransactionScope runs functions directly against the given
// repositories without a transaction. Used in tests.
type NoOpTransactionScope struct {
	surplusRepo   redistribution.SurplusPostingRepository
	requestRepo   redistribution.MedicineRequestRepository
	transferRepo  redistribution.TransferRepository
	inventoryRepo inventory.InventoryItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	surplusRepo redistribution.SurplusPostingRepository,
	requestRepo redistribution.MedicineRequestRepository,
	transferRepo redistribution.TransferRepository,
	inventoryRepo inventory.InventoryItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		surplusRepo:   surplusRepo,
		requestRepo:   requestRepo,
		transferRepo:  transferRepo,
		inventoryRepo: inventoryRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) SurplusRepo() redistribution.SurplusPostingRepository {
	return s.surplusRepo
}
func (s *NoOpTransactionScope) RequestRepo() redistribution.MedicineRequestRepository {
	return s.requestRepo
}
func (s *NoOpTransactionScope) TransferRepo() redistribution.TransferRepository {
	return s.transferRepo
}
func (s *NoOpTransactionScope) InventoryRepo() inventory.InventoryItemRepository {
	return s.inventoryRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
