package inventory

import (
	"math"
	"time"
)

// StockStatus is the derived classification of an inventory item
type StockStatus string

const (
	StockStatusInStock      StockStatus = "In Stock"
	StockStatusLowStock     StockStatus = "Low Stock"
	StockStatusExpiringSoon StockStatus = "Expiring Soon"
	StockStatusExpired      StockStatus = "Expired"
)

// IsValid checks if the status is a valid StockStatus
func (s StockStatus) IsValid() bool {
	switch s {
	case StockStatusInStock, StockStatusLowStock, StockStatusExpiringSoon, StockStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// Default classification thresholds
const (
	DefaultLowStockThreshold = 500
	DefaultExpiringSoonDays  = 90
)

// StockPolicy holds the thresholds used to classify inventory
type StockPolicy struct {
	LowStockThreshold int64
	ExpiringSoonDays  int
}

// DefaultStockPolicy returns the standard classification thresholds
func DefaultStockPolicy() StockPolicy {
	return StockPolicy{
		LowStockThreshold: DefaultLowStockThreshold,
		ExpiringSoonDays:  DefaultExpiringSoonDays,
	}
}

// Classify derives the status for a quantity and expiry date.
// Expiry outranks quantity.
func (p StockPolicy) Classify(quantity int64, expiry, now time.Time) StockStatus {
	days := DaysUntil(expiry, now)
	switch {
	case days < 0:
		return StockStatusExpired
	case days < p.ExpiringSoonDays:
		return StockStatusExpiringSoon
	case quantity < p.LowStockThreshold:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// DaysUntil returns the whole days from now until t, rounded up.
// The result is negative once t has passed.
func DaysUntil(t, now time.Time) int {
	return int(math.Ceil(float64(t.Sub(now)) / float64(24*time.Hour)))
}
