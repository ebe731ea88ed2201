// Package rolepolicy defines the deck permission hierarchy.
//
// Roles form a total order: viewer < editor < owner. A grant is only an
// upgrade; holding a role always implies every lesser role, so an invite
// offering a role the user already meets or exceeds is a no-op.
package rolepolicy

import "strings"

// Deck roles, least to most privileged.
const (
	RoleViewer = "viewer"
	RoleEditor = "editor"
	RoleOwner  = "owner"
)

// Rank returns the position of a role in the hierarchy. Higher values grant
// more permissions. Unknown or empty roles rank below viewer, so a malformed
// stored role never satisfies any requested grant.
func Rank(role string) int {
	switch role {
	case RoleViewer:
		return 1
	case RoleEditor:
		return 2
	case RoleOwner:
		return 3
	default:
		return 0
	}
}

// Subsumes reports whether a user already holding `existing` has no need of
// a grant of `requested`.
func Subsumes(existing, requested string) bool {
	return Rank(existing) >= Rank(requested)
}

// Valid reports whether role names one of the three deck roles.
func Valid(role string) bool {
	return Rank(role) > 0
}

// Normalize lowercases and trims a role string for comparison.
func Normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
