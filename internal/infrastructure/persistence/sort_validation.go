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

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"status":        true,
	"last_login_at": true,
}

// RoleSortFields contains allowed sort fields for roles
var RoleSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"code":           true,
	"name":           true,
	"is_enabled":     true,
	"is_system_role": true,
}

// ZoneSortFields contains allowed sort fields for zones
var ZoneSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"city":       true,
}

// GroupSortFields contains allowed sort fields for groups
var GroupSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"zone_id":    true,
}

// SectorSortFields contains allowed sort fields for sectors
var SectorSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"code":       true,
	"zone_id":    true,
}

// WorkSortFields contains allowed sort fields for works
var WorkSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"status":             true,
	"planned_start_date": true,
	"planned_end_date":   true,
	"quantity":           true,
	"cost":               true,
}

// WeeklyTaskSortFields contains allowed sort fields for weekly tasks
var WeeklyTaskSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"status":      true,
	"year":        true,
	"week_number": true,
	"work_id":     true,
	"sector_id":   true,
}

// AttachmentSortFields contains allowed sort fields for work attachments
var AttachmentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"file_name":  true,
	"file_size":  true,
	"status":     true,
}
