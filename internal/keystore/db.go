package keystore

import (
	"errors"
	"fmt"

	"github.com/Klingon-tech/webcash-wallet/internal/storage"
	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
)

// walletPrefix namespaces wallet documents in a shared database.
var walletPrefix = []byte("wallet/")

// DBStore keeps wallets as documents in a key-value database, keyed by name
// under the "wallet/" prefix.
type DBStore struct {
	db *storage.PrefixDB
	codec
}

// NewDBStore creates a store over db. The caller keeps ownership of db.
func NewDBStore(db storage.DB) *DBStore {
	return &DBStore{db: storage.NewPrefixDB(db, walletPrefix)}
}

// SetPassword enables encryption of the master secret for subsequent
// saves and allows loading encrypted wallets.
func (s *DBStore) SetPassword(password []byte, params EncryptionParams) {
	s.password = password
	s.params = params
}

// Exists reports whether the named wallet is stored.
func (s *DBStore) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return s.db.Has([]byte(name))
}

// Save stores the wallet document.
func (s *DBStore) Save(name string, c *wallet.Contents) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := s.encode(c)
	if err != nil {
		return err
	}
	if err := s.db.Put([]byte(name), data); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	return nil
}

// Load reads and decodes the named wallet.
func (s *DBStore) Load(name string) (*wallet.Contents, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := s.db.Get([]byte(name))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	return s.decode(data)
}

// List returns the stored wallet names in key order.
func (s *DBStore) List() ([]string, error) {
	var names []string
	err := s.db.ForEach(nil, func(key, _ []byte) error {
		names = append(names, string(key))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return names, nil
}

// Delete removes the named wallet.
func (s *DBStore) Delete(name string) error {
	ok, err := s.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return s.db.Delete([]byte(name))
}
