// Package hashutil provides the single deterministic hashing primitive the
// rest of the engine builds on: a SHA-256 hex digest over concatenated
// strings, no internal state, no surprises across platforms or runs.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hex returns the lowercase hex SHA-256 digest of the concatenation of
// parts, in order. Concatenation, not a delimiter-joined form: callers
// that need unambiguous framing must build that into the parts themselves.
func Hex(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Pair hashes two already-hashed hex strings together, the building block
// for the Merkle tree in package merkle.
func Pair(left, right string) string {
	return Hex(left, right)
}
