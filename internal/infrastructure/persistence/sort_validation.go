package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ClinicSortFields contains allowed sort fields for clinics
var ClinicSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"type":       true,
	"district":   true,
	"state":      true,
}

// MedicineSortFields contains allowed sort fields for medicines
var MedicineSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"category":   true,
	"priority":   true,
}

// InventorySortFields contains allowed sort fields for inventory items
var InventorySortFields = map[string]bool{
	"created_at":  true,
	"added_date":  true,
	"expiry_date": true,
	"quantity":    true,
	"status":      true,
}

// SurplusSortFields contains allowed sort fields for surplus postings
var SurplusSortFields = map[string]bool{
	"created_at":  true,
	"posted_date": true,
	"quantity":    true,
	"status":      true,
}

// RequestSortFields contains allowed sort fields for medicine requests
var RequestSortFields = map[string]bool{
	"created_at":     true,
	"requested_date": true,
	"quantity":       true,
	"urgency":        true,
	"status":         true,
}

// TransferSortFields contains allowed sort fields for transfers
var TransferSortFields = map[string]bool{
	"created_at":     true,
	"requested_date": true,
	"approved_date":  true,
	"completed_date": true,
	"quantity":       true,
	"status":         true,
}
