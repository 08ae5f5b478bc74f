package webcash

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// ErrFormat is returned for any malformed token or amount string.
var ErrFormat = errors.New("invalid webcash format")

// ErrNotSecret is returned when a secret token was required.
var ErrNotSecret = fmt.Errorf("%w: expected secret webcash", ErrFormat)

// ErrNotPublic is returned when a public token was required.
var ErrNotPublic = fmt.Errorf("%w: expected public webcash", ErrFormat)

// Deserialize parses a token of the form [e]amount:kind:value.
func Deserialize(s string) (Webcash, error) {
	if !strings.Contains(s, ":") {
		return nil, fmt.Errorf("%w: unusable format for webcash", ErrFormat)
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return nil, fmt.Errorf("%w: too many segments", ErrFormat)
	}
	if len(parts) < 3 || parts[2] == "" {
		return nil, fmt.Errorf("%w: value is missing", ErrFormat)
	}

	kind, value := parts[1], parts[2]
	if kind != KindSecret && kind != KindPublic {
		return nil, fmt.Errorf("%w: kind must be either public or secret, got %q", ErrFormat, kind)
	}

	amount, err := ParseAmount(parts[0])
	if err != nil {
		return nil, err
	}

	if kind == KindSecret {
		return SecretWebcash{Amount: amount, Secret: value}, nil
	}
	return PublicWebcash{Amount: amount, Hash: value}, nil
}

// DeserializeSecret parses s and requires a secret token.
func DeserializeSecret(s string) (SecretWebcash, error) {
	wc, err := Deserialize(s)
	if err != nil {
		return SecretWebcash{}, err
	}
	sk, ok := wc.(SecretWebcash)
	if !ok {
		return SecretWebcash{}, ErrNotSecret
	}
	return sk, nil
}

// DeserializePublic parses s and requires a public token.
func DeserializePublic(s string) (PublicWebcash, error) {
	wc, err := Deserialize(s)
	if err != nil {
		return PublicWebcash{}, err
	}
	pk, ok := wc.(PublicWebcash)
	if !ok {
		return PublicWebcash{}, ErrNotPublic
	}
	return pk, nil
}

// ParseAmount parses the amount segment of a token. If raw is a whole token
// only the part before the first colon is considered. A single leading "e"
// marker is allowed.
func ParseAmount(raw string) (types.Amount, error) {
	segment, _, _ := strings.Cut(raw, ":")

	switch strings.Count(segment, "e") {
	case 0:
	case 1:
		if segment[0] != 'e' || segment == "e" {
			return types.Amount{}, fmt.Errorf("%w: invalid amount %q", ErrFormat, segment)
		}
		segment = segment[1:]
	default:
		return types.Amount{}, fmt.Errorf("%w: invalid amount %q", ErrFormat, segment)
	}

	amount, err := types.AmountFromString(segment)
	if err != nil {
		if errors.Is(err, types.ErrPrecision) {
			return types.Amount{}, err
		}
		return types.Amount{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if amount.IsNegative() {
		return types.Amount{}, fmt.Errorf("%w: negative amount %q", ErrFormat, segment)
	}
	return amount, nil
}
