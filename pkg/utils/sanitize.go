package utils

import (
	"regexp"
	"strings"
)

// EscapeSQLWildcards escapes SQL LIKE/ILIKE wildcard characters to prevent injection
func EscapeSQLWildcards(input string) string {
	// Escape backslash first (as it's the escape character)
	input = strings.ReplaceAll(input, "\\", "\\\\")
	input = strings.ReplaceAll(input, "%", "\\%")
	input = strings.ReplaceAll(input, "_", "\\_")
	return input
}

// SanitizeSearchQuery prepares a search string for safe LIKE usage.
// Returns the sanitized term wrapped with % for partial matching.
func SanitizeSearchQuery(input string) string {
	input = strings.TrimSpace(input)
	if len(input) > 100 {
		input = input[:100]
	}
	input = EscapeSQLWildcards(input)
	return "%" + input + "%"
}

// ValidateUsername checks if username contains only allowed characters
func ValidateUsername(username string) bool {
	// Allow alphanumeric, underscores, hyphens, spaces. 3-30 characters
	re := regexp.MustCompile(`^[a-zA-Z0-9_\- ]{3,30}$`)
	return re.MatchString(username)
}

// CleanPathParam undoes percent-encoded spaces and trims the result.
// Identities arrive via the websocket path and some clients double-encode them.
func CleanPathParam(param string) string {
	return strings.TrimSpace(strings.ReplaceAll(param, "%20", " "))
}
