package session

import (
	"strings"

	"memberportal/models"
)

// DefaultDisplayName is the placeholder a new account carries until the
// profile step is completed.
const DefaultDisplayName = "User"

// NameIsSet reports whether name differs from the placeholder.
func NameIsSet(name string) bool {
	return name != "" && name != DefaultDisplayName
}

// IsProfileComplete prefers the persisted flag. Records written before the flag
// existed fall back to comparing the display name against the placeholder.
func IsProfileComplete(u *models.User) bool {
	if u == nil {
		return false
	}
	if u.ProfileComplete {
		return true
	}
	return NameIsSet(u.DisplayName)
}

// NormalizeEmail trims and lower-cases an address for storage and comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
