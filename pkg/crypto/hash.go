// Package crypto provides the hash primitives used by webcash.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// Hash computes the SHA-256 digest of data.
func Hash(data []byte) types.Hash {
	return sha256.Sum256(data)
}

// HashHex returns the lowercase hex SHA-256 digest of s.
func HashHex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

// HashConcat hashes the concatenation of the given parts.
func HashConcat(parts ...[]byte) types.Hash {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out types.Hash
	copy(out[:], h.Sum(nil))
	return out
}
