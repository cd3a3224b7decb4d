// ABOUTME: Deterministic cache key derivation for search queries
// ABOUTME: Queries differing only by case or surrounding whitespace share a key

package search

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// CacheKey returns the 64-character hex SHA-256 of the trimmed, lower-cased query
func CacheKey(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
