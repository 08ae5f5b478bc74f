package wallet

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/Klingon-tech/webcash-wallet/pkg/crypto"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

// ChainCode selects one of the derivation chains of a wallet.
type ChainCode uint64

// Derivation chains. The numeric values are part of the derivation input.
const (
	ChainReceive ChainCode = iota
	ChainPay
	ChainChange
	ChainMining
)

var chainNames = [...]string{"RECEIVE", "PAY", "CHANGE", "MINING"}

// walletTag domain-separates wallet secrets from other SHA-256 uses.
var walletTag = crypto.Hash([]byte("webcashwalletv1"))

// ChainCodes returns every chain in scan order.
func ChainCodes() []ChainCode {
	return []ChainCode{ChainReceive, ChainPay, ChainChange, ChainMining}
}

// Valid reports whether c is a known chain.
func (c ChainCode) Valid() bool {
	return c <= ChainMining
}

func (c ChainCode) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ChainCode(%d)", uint64(c))
	}
	return chainNames[c]
}

// ParseChainCode converts a chain name such as "RECEIVE" to a ChainCode.
func ParseChainCode(s string) (ChainCode, error) {
	for i, name := range chainNames {
		if strings.EqualFold(s, name) {
			return ChainCode(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidChainCode, s)
}

// DeriveSecret computes the secret at depth on chain for a hex master secret:
//
//	SHA256(tag || tag || pad32(master) || be64(chain) || be64(depth))
//
// where tag = SHA256("webcashwalletv1"). The result is lowercase hex.
func DeriveSecret(masterSecret string, chain ChainCode, depth uint64) (string, error) {
	if !chain.Valid() {
		return "", fmt.Errorf("%w: %d", ErrInvalidChainCode, uint64(chain))
	}
	master, err := types.PaddedHash(masterSecret)
	if err != nil {
		return "", fmt.Errorf("master secret: %w", err)
	}

	var counters [16]byte
	binary.BigEndian.PutUint64(counters[:8], uint64(chain))
	binary.BigEndian.PutUint64(counters[8:], depth)

	return crypto.HashConcat(walletTag[:], walletTag[:], master[:], counters[:]).String(), nil
}
