package wallet

import (
	"encoding/hex"
	"fmt"

	"github.com/tyler-smith/go-bip39"
)

// MasterSecretSize is the length of a generated master secret in bytes.
const MasterSecretSize = 32

// GenerateMasterSecret returns a fresh random master secret as lowercase hex.
func GenerateMasterSecret() (string, error) {
	entropy, err := bip39.NewEntropy(MasterSecretSize * 8)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	return hex.EncodeToString(entropy), nil
}
