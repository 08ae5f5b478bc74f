// derive_secret.go prints the secrets and public hashes a master secret
// derives on one chain, for debugging recovery.
// Usage: go run scripts/derive_secret.go <masterfile> <chain> [from] [count]
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
	"github.com/Klingon-tech/webcash-wallet/pkg/crypto"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: derive_secret <masterfile> <RECEIVE|PAY|CHANGE|MINING> [from] [count]")
		os.Exit(1)
	}
	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		fail(err)
	}
	master := strings.TrimSpace(string(data))

	chain, err := wallet.ParseChainCode(os.Args[2])
	if err != nil {
		fail(err)
	}
	from, count := uint64(0), uint64(wallet.DefaultGapLimit)
	if len(os.Args) > 3 {
		if from, err = strconv.ParseUint(os.Args[3], 10, 64); err != nil {
			fail(err)
		}
	}
	if len(os.Args) > 4 {
		if count, err = strconv.ParseUint(os.Args[4], 10, 64); err != nil {
			fail(err)
		}
	}

	for depth := from; depth < from+count; depth++ {
		secret, err := wallet.DeriveSecret(master, chain, depth)
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s/%d secret=%s public=%s\n", chain, depth, secret, crypto.HashHex(secret))
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
