// Package webcash implements the webcash bearer token: its secret and public
// forms, the string grammar and the server API wire types.
package webcash

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Klingon-tech/webcash-wallet/pkg/crypto"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// Token kinds as they appear in the serialized form.
const (
	KindSecret = "secret"
	KindPublic = "public"
)

// SecretSize is the number of random bytes in a freshly minted secret.
const SecretSize = 32

// Webcash is a serialized bearer token. It is implemented only by
// SecretWebcash and PublicWebcash.
type Webcash interface {
	// Value returns the token amount.
	Value() types.Amount
	// PublicHash returns the public (hashed) identifier of the token.
	PublicHash() string
	// String returns the canonical "e<amount>:<kind>:<value>" form.
	String() string

	isWebcash()
}

// SecretWebcash is a spendable token.
type SecretWebcash struct {
	Amount types.Amount
	Secret string
}

// PublicWebcash is the verification-only form of a token.
type PublicWebcash struct {
	Amount types.Amount
	Hash   string
}

// NewSecret builds a secret token.
func NewSecret(amount types.Amount, secret string) SecretWebcash {
	return SecretWebcash{Amount: amount, Secret: secret}
}

// NewRandomSecret mints a secret token with a fresh random secret.
func NewRandomSecret(amount types.Amount) (SecretWebcash, error) {
	buf := make([]byte, SecretSize)
	if _, err := rand.Read(buf); err != nil {
		return SecretWebcash{}, fmt.Errorf("generate secret: %w", err)
	}
	return NewSecret(amount, hex.EncodeToString(buf)), nil
}

// Value returns the token amount.
func (s SecretWebcash) Value() types.Amount { return s.Amount }

// PublicHash returns the SHA-256 of the secret string.
func (s SecretWebcash) PublicHash() string {
	return crypto.HashHex(s.Secret)
}

// ToPublic converts the token into its public form.
func (s SecretWebcash) ToPublic() PublicWebcash {
	return PublicWebcash{Amount: s.Amount, Hash: s.PublicHash()}
}

// WithAmount returns a copy of the token carrying a different amount.
func (s SecretWebcash) WithAmount(amount types.Amount) SecretWebcash {
	return SecretWebcash{Amount: amount, Secret: s.Secret}
}

func (s SecretWebcash) String() string {
	return format(s.Amount, KindSecret, s.Secret)
}

func (SecretWebcash) isWebcash() {}

// Value returns the token amount.
func (p PublicWebcash) Value() types.Amount { return p.Amount }

// PublicHash returns the hashed value.
func (p PublicWebcash) PublicHash() string { return p.Hash }

func (p PublicWebcash) String() string {
	return format(p.Amount, KindPublic, p.Hash)
}

func (PublicWebcash) isWebcash() {}

// Equal reports whether two tokens refer to the same secret. Only the public
// hashes are compared, so a secret never meets another secret directly.
func Equal(a, b Webcash) bool {
	if a == nil || b == nil {
		return false
	}
	return a.PublicHash() == b.PublicHash()
}

func format(amount types.Amount, kind, value string) string {
	return "e" + amount.String() + ":" + kind + ":" + value
}
