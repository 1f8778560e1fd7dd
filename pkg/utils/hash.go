package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// ContentHash identifies imported session files. Importing the same
// content twice yields the same hash.
func ContentHash(parts ...[]byte) string {
	hasher := sha256.New()
	for _, p := range parts {
		hasher.Write(p)
	}
	return hex.EncodeToString(hasher.Sum(nil))
}
