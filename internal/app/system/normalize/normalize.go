// Package normalize provides canonical forms for user-supplied fields
// before they are stored or compared.
package normalize

import "strings"

// Email trims whitespace and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace from a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status trims and lowercases a status value ("active", "disabled").
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
