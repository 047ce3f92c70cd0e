package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/clinic"
	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
)

// ClinicSummary is the dashboard overview of one clinic
type ClinicSummary struct {
	ClinicID           uuid.UUID `json:"clinic_id"`
	ClinicName         string    `json:"clinic_name"`
	InventoryItems     int       `json:"inventory_items"`
	ExpiringSoon       int       `json:"expiring_soon"`
	LowStock           int       `json:"low_stock"`
	Expired            int       `json:"expired"`
	AvailableSurplus   int       `json:"available_surplus"`
	OpenRequests       int       `json:"open_requests"`
	CriticalRequests   int       `json:"critical_requests"`
	Transfers          int       `json:"transfers"`
	CompletedTransfers int       `json:"completed_transfers"`
}

// SummaryService counts a clinic's records for its overview
type SummaryService struct {
	clinicRepo    clinic.ClinicRepository
	inventoryRepo inventory.InventoryItemRepository
	surplusRepo   redistribution.SurplusPostingRepository
	requestRepo   redistribution.MedicineRequestRepository
	transferRepo  redistribution.TransferRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(
	clinicRepo clinic.ClinicRepository,
	inventoryRepo inventory.InventoryItemRepository,
	surplusRepo redistribution.SurplusPostingRepository,
	requestRepo redistribution.MedicineRequestRepository,
	transferRepo redistribution.TransferRepository,
) *SummaryService {
	return &SummaryService{
		clinicRepo:    clinicRepo,
		inventoryRepo: inventoryRepo,
		surplusRepo:   surplusRepo,
		requestRepo:   requestRepo,
		transferRepo:  transferRepo,
	}
}

// Summarize counts the clinic's batches by stored stock status, its
// available surplus, its open requests and the transfers it took part in.
// Stock status is read as last classified, so counts trail the refresher.
func (s *SummaryService) Summarize(ctx context.Context, clinicID uuid.UUID) (*ClinicSummary, error) {
	c, err := s.clinicRepo.FindByID(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	filter := shared.Unpaged()
	filter.Filters["clinic_id"] = clinicID

	items, err := s.inventoryRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	surplus, err := s.surplusRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	transfers, err := s.transferRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	summary := &ClinicSummary{
		ClinicID:       c.ID,
		ClinicName:     c.Name,
		InventoryItems: len(items),
		Transfers:      len(transfers),
	}
	for i := range items {
		switch items[i].Status {
		case inventory.StockStatusExpiringSoon:
			summary.ExpiringSoon++
		case inventory.StockStatusLowStock:
			summary.LowStock++
		case inventory.StockStatusExpired:
			summary.Expired++
		}
	}
	for i := range surplus {
		if surplus[i].Status == redistribution.SurplusStatusAvailable {
			summary.AvailableSurplus++
		}
	}
	for i := range requests {
		if requests[i].Status != redistribution.RequestStatusOpen {
			continue
		}
		summary.OpenRequests++
		if requests[i].Urgency == redistribution.UrgencyCritical {
			summary.CriticalRequests++
		}
	}
	for i := range transfers {
		if transfers[i].Status == redistribution.TransferStatusCompleted {
			summary.CompletedTransfers++
		}
	}
	return summary, nil
}
