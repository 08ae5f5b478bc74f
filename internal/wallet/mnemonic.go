package wallet

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"

	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// MnemonicWords is the word count of a master secret backup phrase.
const MnemonicWords = 24

// MnemonicFromMasterSecret encodes a hex master secret as a 24-word BIP-39
// phrase. Shorter secrets are left-padded to 32 bytes first, the same way
// derivation widens them, so the restored secret derives identical tokens.
func MnemonicFromMasterSecret(masterSecret string) (string, error) {
	padded, err := types.PaddedHash(masterSecret)
	if err != nil {
		return "", fmt.Errorf("decode master secret: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(padded[:])
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// MasterSecretFromMnemonic decodes a 24-word phrase back into the hex
// master secret it was generated from.
func MasterSecretFromMnemonic(mnemonic string) (string, error) {
	mnemonic = strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
	if len(strings.Fields(mnemonic)) != MnemonicWords || !ValidateMnemonic(mnemonic) {
		return "", fmt.Errorf("invalid mnemonic")
	}
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return "", fmt.Errorf("decode mnemonic: %w", err)
	}
	return hex.EncodeToString(entropy), nil
}

// ValidateMnemonic checks if a mnemonic is valid per BIP-39
// (correct word count, valid words, valid checksum).
func ValidateMnemonic(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}
