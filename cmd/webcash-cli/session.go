package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli"
	"golang.org/x/term"

	"github.com/Klingon-tech/webcash-wallet/config"
	"github.com/Klingon-tech/webcash-wallet/internal/apiclient"
	"github.com/Klingon-tech/webcash-wallet/internal/keystore"
	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/internal/storage"
	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
)

// passwordStore is a keystore that can encrypt the master secret.
type passwordStore interface {
	keystore.Store
	SetPassword(password []byte, params keystore.EncryptionParams)
}

// session bundles what a command needs: the resolved config, a server
// client and the wallet store.
type session struct {
	cfg    *config.Config
	client *apiclient.Client
	store  passwordStore
	ctx    *cli.Context
	close  func() error
}

func newSession(c *cli.Context) (*session, error) {
	cfg, ok := c.App.Metadata[configKey].(*config.Config)
	if !ok {
		return nil, errors.New("configuration not loaded")
	}
	if err := config.EnsureDataDirs(cfg); err != nil {
		return nil, err
	}

	s := &session{
		cfg:    cfg,
		client: apiclient.NewWithTimeout(cfg.Server.URL, cfg.Server.Timeout),
		ctx:    c,
		close:  func() error { return nil },
	}

	switch cfg.Wallet.Backend {
	case config.BackendBadger:
		db, err := storage.NewBadger(cfg.DBDir())
		if err != nil {
			return nil, err
		}
		s.store = keystore.NewDBStore(db)
		s.close = db.Close
	default:
		fs, err := keystore.NewFileStore(cfg.WalletDir())
		if err != nil {
			return nil, err
		}
		s.store = fs
	}

	log.CLI.Debug().
		Str("command", c.Command.Name).
		Str("wallet", cfg.Wallet.Name).
		Str("backend", string(cfg.Wallet.Backend)).
		Str("server", cfg.Server.URL).
		Msg("Session opened")
	return s, nil
}

func (s *session) Close() {
	if err := s.close(); err != nil {
		fmt.Fprintf(os.Stderr, "closing store: %v\n", err)
	}
}

func (s *session) walletName() string {
	return s.cfg.Wallet.Name
}

// openWallet loads the configured wallet, asking for the password when
// the master secret is encrypted.
func (s *session) openWallet() (*wallet.Wallet, error) {
	name := s.walletName()
	if pw := s.ctx.GlobalString("password"); pw != "" {
		s.store.SetPassword([]byte(pw), keystore.DefaultParams())
	}

	w, err := keystore.Open(s.store, name, s.client)
	if errors.Is(err, keystore.ErrPasswordRequired) {
		pw, perr := readPassword(fmt.Sprintf("Password for wallet %q: ", name))
		if perr != nil {
			return nil, perr
		}
		s.store.SetPassword(pw, keystore.DefaultParams())
		w, err = keystore.Open(s.store, name, s.client)
	}
	if errors.Is(err, keystore.ErrWalletNotFound) {
		return nil, fmt.Errorf("%w; run 'webcash-cli setup' first", err)
	}
	return w, err
}

// createWallet stores a new wallet, optionally encrypting its master
// secret.
func (s *session) createWallet(w *wallet.Wallet, encrypt bool) error {
	if encrypt {
		pw := []byte(s.ctx.GlobalString("password"))
		if len(pw) == 0 {
			var err error
			if pw, err = readNewPassword(); err != nil {
				return err
			}
		}
		s.store.SetPassword(pw, keystore.DefaultParams())
	}
	return keystore.Create(s.store, s.walletName(), w)
}

func getContext() (context.Context, func()) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func readPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(syscall.Stdin)) // nolint:unconvert
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

func readNewPassword() ([]byte, error) {
	pw, err := readPassword("New wallet password: ")
	if err != nil {
		return nil, err
	}
	if len(pw) == 0 {
		return nil, errors.New("password must not be empty")
	}
	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	if string(pw) != string(confirm) {
		return nil, errors.New("passwords do not match")
	}
	return pw, nil
}

// confirm asks a yes/no question on stdin.
func confirm(c *cli.Context, question string) (bool, error) {
	fmt.Fprintf(c.App.Writer, "%s (y/n): ", question)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
