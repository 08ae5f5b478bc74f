package keystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
)

// FileExt is the extension of wallet files.
const FileExt = ".webcash"

// FileStore keeps each wallet in <dir>/<name>.webcash.
type FileStore struct {
	dir string
	codec
}

// NewFileStore creates a store in dir. The directory is created if it
// doesn't exist.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create wallet dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// SetPassword enables encryption of the master secret for subsequent
// saves and allows loading encrypted wallets.
func (s *FileStore) SetPassword(password []byte, params EncryptionParams) {
	s.password = password
	s.params = params
}

// Path returns the file path of the named wallet.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+FileExt)
}

// Exists reports whether the named wallet file exists.
func (s *FileStore) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat wallet: %w", err)
	}
	return true, nil
}

// Save writes the wallet atomically: a temp file in the same directory is
// renamed over the old one.
func (s *FileStore) Save(name string, c *wallet.Contents) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	data, err := s.encode(c)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}
	if err := os.Rename(tmpName, s.Path(name)); err != nil {
		return fmt.Errorf("write wallet: %w", err)
	}

	log.Storage.Debug().Str("wallet", name).Int("webcash", len(c.Webcash)).Msg("Wallet saved")
	return nil
}

// Load reads and decodes the named wallet.
func (s *FileStore) Load(name string) (*wallet.Contents, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read wallet: %w", err)
	}
	return s.decode(data)
}

// List returns the names of all wallets in the directory, sorted.
func (s *FileStore) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read wallet dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, ".") || filepath.Ext(name) != FileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(name, FileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the named wallet file.
func (s *FileStore) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrWalletNotFound, name)
	}
	return err
}
