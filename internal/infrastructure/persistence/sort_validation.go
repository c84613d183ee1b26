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

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is empty or not whitelisted.
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

// CommonSortFields contains fields common to all mirrored records
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// SiteUserSortFields contains allowed sort fields for mirrored users
var SiteUserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"user_id":    true,
	"name":       true,
	"email":      true,
}

// SiteSortFields contains allowed sort fields for mirrored sites
var SiteSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"updated_at":   true,
	"site_id":      true,
	"title":        true,
	"domain":       true,
	"is_published": true,
	"is_found":     true,
}

// CredentialSortFields contains allowed sort fields for credentials
var CredentialSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"is_valid":   true,
}

// PaymentNotificationSortFields contains allowed sort fields for
// payment notifications
var PaymentNotificationSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"name":           true,
	"gross_amount":   true,
	"payable_amount": true,
	"notified":       true,
	"notified_at":    true,
}
