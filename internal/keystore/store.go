// Package keystore persists wallets, either as one JSON file per wallet or
// as documents in a key-value database. The master secret can optionally be
// encrypted at rest.
package keystore

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
)

// Keystore errors.
var (
	ErrWalletNotFound = errors.New("wallet not found")
	ErrWalletExists   = errors.New("wallet already exists")
	ErrInvalidName    = errors.New("invalid wallet name")
)

// Store is a named collection of wallets.
type Store interface {
	Exists(name string) (bool, error)
	Save(name string, c *wallet.Contents) error
	Load(name string) (*wallet.Contents, error)
	List() ([]string, error)
	Delete(name string) error
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,63}$`)

// ValidateName checks that name is usable as a wallet name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Saver adapts a store into the persistence hook of a wallet.
func Saver(store Store, name string) wallet.Saver {
	return wallet.SaverFunc(func(c *wallet.Contents) error {
		return store.Save(name, c)
	})
}

// Create stores a new wallet under name and wires it to the store.
func Create(store Store, name string, w *wallet.Wallet) error {
	exists, err := store.Exists(name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %q", ErrWalletExists, name)
	}
	w.SetSaver(Saver(store, name))
	return w.Save()
}

// Open loads a wallet, attaches server, and makes every mutation persist
// back to the store.
func Open(store Store, name string, server wallet.Server) (*wallet.Wallet, error) {
	contents, err := store.Load(name)
	if err != nil {
		return nil, err
	}
	w, err := wallet.FromContents(contents, server)
	if err != nil {
		return nil, fmt.Errorf("wallet %q: %w", name, err)
	}
	w.SetLogger(log.WithWallet(name))
	w.SetSaver(Saver(store, name))
	return w, nil
}
