package redistribution

import (
	"math"
	"time"

	"github.com/medishare/backend/internal/domain/inventory"
	"github.com/medishare/backend/internal/domain/shared"
)

// Score weights
const (
	UrgencyWeight  = 0.4
	ExpiryWeight   = 0.3
	QuantityWeight = 0.3
)

// DefaultExpiryHorizonDays is the distance to expiry at which expiryScore reaches 0
const DefaultExpiryHorizonDays = 90

// ScoringPolicy configures the match scorer.
//
// Expired batches have a negative daysUntilExpiry, which pushes expiryScore
// above 100 and can lift matchScore past 100. That is kept unless
// ClampExpiryScore is set.
type ScoringPolicy struct {
	ExpiryHorizonDays int
	ClampExpiryScore  bool
}

// DefaultScoringPolicy returns the standard scoring policy (no upper clamp)
func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{ExpiryHorizonDays: DefaultExpiryHorizonDays}
}

// Scoring is the compatibility score of a surplus/request pair with its
// supporting metrics
type Scoring struct {
	MatchScore      int     `json:"match_score"`
	DaysUntilExpiry int     `json:"days_until_expiry"`
	UrgencyScore    float64 `json:"urgency_score"`
	ExpiryScore     float64 `json:"expiry_score"`
	QuantityRatio   float64 `json:"quantity_ratio"`
	QuantityScore   float64 `json:"quantity_score"`
}

// MatchScorer computes match scores. It has no side effects.
type MatchScorer struct {
	policy ScoringPolicy
}

// NewMatchScorer creates a scorer; a non-positive horizon falls back to the default
func NewMatchScorer(policy ScoringPolicy) *MatchScorer {
	if policy.ExpiryHorizonDays <= 0 {
		policy.ExpiryHorizonDays = DefaultExpiryHorizonDays
	}
	return &MatchScorer{policy: policy}
}

// Score rates how well surplus (drawn from item) serves request at time now.
// The item must be the surplus's inventory item and hold the requested medicine.
func (s *MatchScorer) Score(surplus *SurplusPosting, request *MedicineRequest, item *inventory.InventoryItem, now time.Time) (Scoring, error) {
	if surplus.InventoryItemID != item.ID {
		return Scoring{}, shared.NewDataIntegrityError("Surplus posting does not draw from the given inventory item")
	}
	if item.MedicineID != request.MedicineID {
		return Scoring{}, shared.NewDataIntegrityError("Inventory item and request are for different medicines")
	}
	if request.Quantity <= 0 {
		return Scoring{}, shared.NewDataIntegrityError("Request quantity must be positive")
	}

	days := item.DaysUntilExpiry(now)

	urgency := request.Urgency.Score()

	expiry := math.Max(0, 100-float64(days)/float64(s.policy.ExpiryHorizonDays)*100)
	if s.policy.ClampExpiryScore {
		expiry = math.Min(expiry, 100)
	}

	ratio := math.Min(float64(surplus.Quantity)/float64(request.Quantity), 1)
	quantity := ratio * 100

	total := UrgencyWeight*urgency + ExpiryWeight*expiry + QuantityWeight*quantity

	return Scoring{
		MatchScore:      int(math.Round(total)),
		DaysUntilExpiry: days,
		UrgencyScore:    urgency,
		ExpiryScore:     expiry,
		QuantityRatio:   ratio,
		QuantityScore:   quantity,
	}, nil
}
