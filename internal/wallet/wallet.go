// Package wallet implements the webcash wallet engine: deterministic secret
// derivation, token custody, payments, reconciliation against the server
// and gap-limit recovery.
package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

// Version is the wallet document version written by this package.
const Version = "1.0"

// Server is the remote side of the wallet: atomic replacement of tokens and
// batched status lookup.
type Server interface {
	Replace(ctx context.Context, req *webcash.ReplaceRequest) error
	HealthCheck(ctx context.Context, publicTokens []string) (map[string]webcash.HealthStatus, error)
}

// Saver persists a wallet snapshot.
type Saver interface {
	Save(c *Contents) error
}

// SaverFunc adapts a function into a Saver.
type SaverFunc func(c *Contents) error

// Save calls f(c).
func (f SaverFunc) Save(c *Contents) error { return f(c) }

// Contents is the persisted form of a wallet.
type Contents struct {
	Version      string            `json:"version"`
	Legalese     webcash.Legalese  `json:"legalese"`
	Webcash      []string          `json:"webcash"`
	Unconfirmed  []string          `json:"unconfirmed"`
	Log          []Record          `json:"log"`
	MasterSecret string            `json:"master_secret"`
	WalletDepths map[string]uint64 `json:"walletdepths"`
}

// Wallet holds the state of one webcash wallet. All methods are safe for
// concurrent use; every operation holds the wallet lock for its full
// duration, network calls included.
type Wallet struct {
	mu sync.Mutex

	version      string
	legalese     webcash.Legalese
	masterSecret string
	depths       map[ChainCode]uint64
	confirmed    []webcash.SecretWebcash
	pending      []string // staged tokens and tokens needing review
	log          []Record

	server Server
	saver  Saver
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a wallet with a fresh random master secret.
func New(server Server) (*Wallet, error) {
	secret, err := GenerateMasterSecret()
	if err != nil {
		return nil, err
	}
	return NewWithMasterSecret(secret, server)
}

// NewWithMasterSecret creates an empty wallet around an existing master
// secret, as when restoring from a backup.
func NewWithMasterSecret(masterSecret string, server Server) (*Wallet, error) {
	if _, err := types.PaddedHash(masterSecret); err != nil {
		return nil, fmt.Errorf("master secret: %w", err)
	}
	w := newWallet(server)
	w.masterSecret = masterSecret
	return w, nil
}

// FromContents rebuilds a wallet from its persisted form. Every confirmed
// entry must parse as a secret token.
func FromContents(c *Contents, server Server) (*Wallet, error) {
	if c.MasterSecret == "" {
		return nil, fmt.Errorf("wallet has no master secret")
	}
	if _, err := types.PaddedHash(c.MasterSecret); err != nil {
		return nil, fmt.Errorf("master secret: %w", err)
	}

	w := newWallet(server)
	if c.Version != "" {
		w.version = c.Version
	}
	w.legalese = c.Legalese
	w.masterSecret = c.MasterSecret

	for name, depth := range c.WalletDepths {
		chain, err := ParseChainCode(name)
		if err != nil {
			return nil, fmt.Errorf("wallet depths: %w", err)
		}
		w.depths[chain] = depth
	}

	w.confirmed = make([]webcash.SecretWebcash, 0, len(c.Webcash))
	for i, s := range c.Webcash {
		wc, err := webcash.DeserializeSecret(s)
		if err != nil {
			return nil, fmt.Errorf("webcash entry %d: %w", i, err)
		}
		w.confirmed = append(w.confirmed, wc)
	}
	w.pending = append([]string(nil), c.Unconfirmed...)
	w.log = append([]Record(nil), c.Log...)
	return w, nil
}

func newWallet(server Server) *Wallet {
	w := &Wallet{
		version: Version,
		depths:  make(map[ChainCode]uint64, len(chainNames)),
		server:  server,
		logger:  log.Wallet,
		now:     time.Now,
	}
	for _, c := range ChainCodes() {
		w.depths[c] = 0
	}
	return w
}

// SetServer replaces the server used by network operations.
func (w *Wallet) SetServer(server Server) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.server = server
}

// SetSaver sets the persistence hook called after every mutation.
func (w *Wallet) SetSaver(saver Saver) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.saver = saver
}

// SetLogger overrides the wallet logger.
func (w *Wallet) SetLogger(logger zerolog.Logger) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.logger = logger
}

// Contents returns a snapshot of the wallet in its persisted form.
func (w *Wallet) Contents() *Contents {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.contents()
}

func (w *Wallet) contents() *Contents {
	c := &Contents{
		Version:      w.version,
		Legalese:     w.legalese,
		Webcash:      make([]string, len(w.confirmed)),
		Unconfirmed:  append([]string{}, w.pending...),
		Log:          append([]Record{}, w.log...),
		MasterSecret: w.masterSecret,
		WalletDepths: make(map[string]uint64, len(w.depths)),
	}
	if w.legalese.Terms != nil {
		terms := *w.legalese.Terms
		c.Legalese.Terms = &terms
	}
	for i, wc := range w.confirmed {
		c.Webcash[i] = wc.String()
	}
	for chain, depth := range w.depths {
		c.WalletDepths[chain.String()] = depth
	}
	return c
}

// save hands a snapshot to the saver, if any.
func (w *Wallet) save() error {
	if w.saver == nil {
		return nil
	}
	if err := w.saver.Save(w.contents()); err != nil {
		return fmt.Errorf("save wallet: %w", err)
	}
	return nil
}

// Save persists the current state.
func (w *Wallet) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.save()
}

// TermsAccepted reports whether the user agreed to the server terms.
func (w *Wallet) TermsAccepted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.legalese.Accepted()
}

// AcceptTerms records agreement to the server terms and saves.
func (w *Wallet) AcceptTerms() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.legalese = webcash.AcceptedLegalese()
	return w.save()
}

// MasterSecret returns the hex master secret.
func (w *Wallet) MasterSecret() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.masterSecret
}

// Mnemonic returns the backup phrase for the master secret.
func (w *Wallet) Mnemonic() (string, error) {
	return MnemonicFromMasterSecret(w.MasterSecret())
}

// Depth returns the next unused depth of a chain.
func (w *Wallet) Depth(chain ChainCode) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.depths[chain]
}

// Balance returns the sum of all confirmed webcash.
func (w *Wallet) Balance() types.Amount {
	w.mu.Lock()
	defer w.mu.Unlock()
	amounts := make([]types.Amount, len(w.confirmed))
	for i, wc := range w.confirmed {
		amounts[i] = wc.Amount
	}
	return types.SumAmounts(amounts...)
}

// Confirmed returns a copy of the confirmed webcash in wallet order.
func (w *Wallet) Confirmed() []webcash.SecretWebcash {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]webcash.SecretWebcash(nil), w.confirmed...)
}

// Pending returns a copy of the unconfirmed entries.
func (w *Wallet) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.pending...)
}

// Records returns a copy of the operation log.
func (w *Wallet) Records() []Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Record(nil), w.log...)
}

// nextSecret derives the secret at the current depth of chain and advances
// the depth.
func (w *Wallet) nextSecret(chain ChainCode) (string, error) {
	depth := w.depths[chain]
	secret, err := DeriveSecret(w.masterSecret, chain, depth)
	if err != nil {
		return "", err
	}
	w.depths[chain] = depth + 1
	return secret, nil
}

// indexOfHash returns the position of the confirmed token with the given
// public hash, or -1.
func (w *Wallet) indexOfHash(hash string) int {
	for i, wc := range w.confirmed {
		if wc.PublicHash() == hash {
			return i
		}
	}
	return -1
}

// removeConfirmed drops every confirmed token whose public hash is in hashes.
func (w *Wallet) removeConfirmed(hashes map[string]struct{}) {
	kept := w.confirmed[:0]
	for _, wc := range w.confirmed {
		if _, ok := hashes[wc.PublicHash()]; !ok {
			kept = append(kept, wc)
		}
	}
	w.confirmed = kept
}

// removePending drops every pending entry whose public hash is in hashes.
// Entries that do not parse are kept for manual review.
func (w *Wallet) removePending(hashes map[string]struct{}) {
	kept := w.pending[:0]
	for _, s := range w.pending {
		wc, err := webcash.Deserialize(s)
		if err == nil {
			if _, ok := hashes[wc.PublicHash()]; ok {
				continue
			}
		}
		kept = append(kept, s)
	}
	w.pending = kept
}

func hashSet(tokens ...webcash.Webcash) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t.PublicHash()] = struct{}{}
	}
	return set
}
