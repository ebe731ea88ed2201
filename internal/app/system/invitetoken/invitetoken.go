// Package invitetoken hashes invite secrets for storage and lookup.
//
// Only the hash of an invite token is ever persisted; the raw secret lives
// in the emailed link and nowhere else. SHA-256 (not bcrypt) because the
// hash is the lookup key for (deck_id, token_hash) queries and therefore
// must be deterministic; tokens are high-entropy, so an unsalted digest is
// not guessable the way a short code would be.
package invitetoken

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash returns the lowercase hex SHA-256 digest of the raw token.
// Surrounding whitespace is stripped so tokens pasted from email links
// hash consistently.
func Hash(raw string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(raw)))
	return hex.EncodeToString(sum[:])
}
