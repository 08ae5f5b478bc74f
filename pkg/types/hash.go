// Package types defines the primitive value types used by the webcash wallet.
package types

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HashSize is the length of a SHA-256 digest in bytes.
const HashSize = 32

// Hash represents a 256-bit digest.
type Hash [HashSize]byte

// String returns the lowercase hex-encoded hash.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// PaddedHash decodes a hex string of at most HashSize bytes (an optional
// "0x" prefix is allowed) and left-pads it with zeros. Master secrets
// shorter than 32 bytes are widened this way before derivation.
func PaddedHash(s string) (Hash, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return Hash{}, fmt.Errorf("invalid hex: %w", err)
	}
	if len(b) > HashSize {
		return Hash{}, fmt.Errorf("can only handle up to %d bytes, got %d", HashSize, len(b))
	}
	var h Hash
	copy(h[HashSize-len(b):], b)
	return h, nil
}
