package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/medishare/backend/internal/domain/redistribution"
	"github.com/medishare/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ImpactFactors convert moved units into the impact estimates
type ImpactFactors struct {
	WasteGramsPerUnit decimal.Decimal
	UnitsPerPatient   decimal.Decimal
	ValuePerUnit      decimal.Decimal
}

// DefaultImpactFactors returns 0.5 g of waste and 3.5 rupees of value per
// unit, and one patient per 10 units.
func DefaultImpactFactors() ImpactFactors {
	return ImpactFactors{
		WasteGramsPerUnit: decimal.NewFromFloat(0.5),
		UnitsPerPatient:   decimal.NewFromInt(10),
		ValuePerUnit:      decimal.NewFromFloat(3.5),
	}
}

// NewImpactFactors builds factors from configuration values, keeping the
// default for any factor that is not positive.
func NewImpactFactors(wasteGramsPerUnit, unitsPerPatient, valuePerUnit float64) ImpactFactors {
	f := DefaultImpactFactors()
	if wasteGramsPerUnit > 0 {
		f.WasteGramsPerUnit = decimal.NewFromFloat(wasteGramsPerUnit)
	}
	if unitsPerPatient > 0 {
		f.UnitsPerPatient = decimal.NewFromFloat(unitsPerPatient)
	}
	if valuePerUnit > 0 {
		f.ValuePerUnit = decimal.NewFromFloat(valuePerUnit)
	}
	return f
}

// ImpactResponse summarises what completed transfers achieved
type ImpactResponse struct {
	MedicinesSaved     int64           `json:"medicines_saved"`
	WasteReducedGrams  int64           `json:"waste_reduced_grams"`
	TransfersCompleted int             `json:"transfers_completed"`
	ClinicsHelped      int             `json:"clinics_helped"`
	EstimatedPatients  int64           `json:"estimated_patients"`
	EstimatedValue     decimal.Decimal `json:"estimated_value"`
	Currency           string          `json:"currency"`
}

// ReportService provides the impact report over completed transfers
type ReportService struct {
	transferRepo redistribution.TransferRepository
	factors      ImpactFactors
}

// NewReportService creates a new ReportService
func NewReportService(transferRepo redistribution.TransferRepository, factors ImpactFactors) *ReportService {
	return &ReportService{
		transferRepo: transferRepo,
		factors:      factors,
	}
}

// Impact computes the statistics over Completed transfers. With a clinic
// id, only transfers where that clinic sent or received are counted.
func (s *ReportService) Impact(ctx context.Context, clinicID *uuid.UUID) (*ImpactResponse, error) {
	filter := shared.Unpaged()
	filter.OrderBy = "completed_date"
	filter.Filters["status"] = redistribution.TransferStatusCompleted
	if clinicID != nil {
		filter.Filters["clinic_id"] = *clinicID
	}

	transfers, err := s.transferRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.summarize(transfers), nil
}

func (s *ReportService) summarize(transfers []redistribution.Transfer) *ImpactResponse {
	var total int64
	helped := make(map[uuid.UUID]struct{})
	for i := range transfers {
		total += transfers[i].Quantity
		helped[transfers[i].ToClinicID] = struct{}{}
	}

	units := decimal.NewFromInt(total)
	return &ImpactResponse{
		MedicinesSaved:     total,
		WasteReducedGrams:  units.Mul(s.factors.WasteGramsPerUnit).Round(0).IntPart(),
		TransfersCompleted: len(transfers),
		ClinicsHelped:      len(helped),
		EstimatedPatients:  units.Div(s.factors.UnitsPerPatient).Round(0).IntPart(),
		EstimatedValue:     units.Mul(s.factors.ValuePerUnit).Round(0),
		Currency:           "INR",
	}
}
