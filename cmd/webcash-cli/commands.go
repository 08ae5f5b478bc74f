package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli"

	"github.com/Klingon-tech/webcash-wallet/internal/wallet"
	"github.com/Klingon-tech/webcash-wallet/pkg/types"
)

var acceptTermsFlag = cli.BoolFlag{
	Name:  "accept-terms",
	Usage: "accept the server terms of service without prompting",
}

var encryptFlag = cli.BoolFlag{
	Name:  "encrypt",
	Usage: "encrypt the master secret with a password",
}

var memoFlag = cli.StringFlag{
	Name:  "memo, m",
	Usage: "note stored with the wallet log entry",
}

var setupCommand = cli.Command{
	Name:  "setup",
	Usage: "Create a new wallet.",
	Description: `
	Shows the server terms of service, asks for acceptance and creates a
	wallet with a fresh master secret. The backup phrase is printed once.`,
	Flags:  []cli.Flag{acceptTermsFlag, encryptFlag},
	Action: setup,
}

func setup(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	if exists, err := s.store.Exists(s.walletName()); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("wallet %q already exists", s.walletName())
	}

	w, err := wallet.New(s.client)
	if err != nil {
		return err
	}
	if err := acceptTerms(c, s, w); err != nil {
		return err
	}
	if err := s.createWallet(w, c.Bool(encryptFlag.Name)); err != nil {
		return err
	}

	mnemonic, err := w.Mnemonic()
	if err != nil {
		return err
	}
	out := c.App.Writer
	fmt.Fprintf(out, "Created wallet %q.\n\n", s.walletName())
	fmt.Fprintln(out, "Write down the backup phrase below. It restores every token")
	fmt.Fprintln(out, "this wallet will ever receive:")
	fmt.Fprintf(out, "\n%s\n", mnemonic)
	return nil
}

// acceptTerms shows the server terms unless --accept-terms was given and
// records acceptance on w.
func acceptTerms(c *cli.Context, s *session, w *wallet.Wallet) error {
	if !c.Bool(acceptTermsFlag.Name) {
		ctx, cancel := getContext()
		defer cancel()

		terms, err := s.client.Terms(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s\n\n", strings.TrimSpace(terms))
		ok, err := confirm(c, "Do you accept the terms of service?")
		if err != nil {
			return err
		}
		if !ok {
			return wallet.ErrTermsNotAccepted
		}
	}
	return w.AcceptTerms()
}

var restoreCommand = cli.Command{
	Name:      "restore",
	Usage:     "Create a wallet from a backup phrase and recover its tokens.",
	ArgsUsage: "[word...]",
	Description: `
	Rebuilds a wallet from its 24-word backup phrase. Without arguments the
	phrase is read from standard input. The recovery scan runs right away.`,
	Flags: []cli.Flag{
		acceptTermsFlag,
		encryptFlag,
		gapLimitFlag,
		sweepPaymentsFlag,
	},
	Action: restore,
}

func restore(c *cli.Context) error {
	phrase := strings.Join(c.Args(), " ")
	if phrase == "" {
		fmt.Fprint(c.App.Writer, "Backup phrase: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read backup phrase: %w", err)
		}
		phrase = line
	}
	master, err := wallet.MasterSecretFromMnemonic(phrase)
	if err != nil {
		return err
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := wallet.NewWithMasterSecret(master, s.client)
	if err != nil {
		return err
	}
	if err := acceptTerms(c, s, w); err != nil {
		return err
	}
	if err := s.createWallet(w, c.Bool(encryptFlag.Name)); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Restored wallet %q.\n", s.walletName())

	return runRecover(c, s, w)
}

var infoCommand = cli.Command{
	Name:   "info",
	Usage:  "Show the wallet balance and state.",
	Action: info,
}

func info(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}
	printInfo(c.App.Writer, s, w)
	return nil
}

var listCommand = cli.Command{
	Name:   "list",
	Usage:  "List stored wallets.",
	Action: list,
}

func list(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	names, err := s.store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		marker := " "
		if name == s.walletName() {
			marker = "*"
		}
		fmt.Fprintf(c.App.Writer, "%s %s\n", marker, name)
	}
	return nil
}

var insertCommand = cli.Command{
	Name:      "insert",
	Usage:     "Take custody of a received webcash token.",
	ArgsUsage: "<webcash>",
	Flags:     []cli.Flag{memoFlag},
	Action:    insert,
}

func insert(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "insert")
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}

	ctx, cancel := getContext()
	defer cancel()

	token, err := w.InsertString(ctx, c.Args().First(), c.String("memo"))
	if err != nil {
		return err
	}
	amount, _, _ := strings.Cut(token, ":")
	fmt.Fprintf(c.App.Writer, "Inserted %s. Balance: %s\n", amount, w.Balance())
	return nil
}

var payCommand = cli.Command{
	Name:      "pay",
	Usage:     "Create a webcash token to give to someone.",
	ArgsUsage: "<amount>",
	Flags:     []cli.Flag{memoFlag},
	Action:    pay,
}

func pay(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.ShowCommandHelp(c, "pay")
	}
	amount, err := types.AmountFromString(c.Args().First())
	if err != nil {
		return err
	}

	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}

	ctx, cancel := getContext()
	defer cancel()

	token, err := w.Pay(ctx, amount, c.String("memo"))
	if errors.Is(err, wallet.ErrInsufficientFunds) {
		return fmt.Errorf("%w: balance is %s", err, w.Balance())
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}

var checkCommand = cli.Command{
	Name:   "check",
	Usage:  "Verify wallet tokens against the server.",
	Action: check,
}

func check(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}

	ctx, cancel := getContext()
	defer cancel()

	if err := w.Check(ctx); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Balance: %s (%d tokens, %d unconfirmed)\n",
		w.Balance(), len(w.Confirmed()), len(w.Pending()))
	return nil
}

var gapLimitFlag = cli.Uint64Flag{
	Name:  "gap-limit",
	Usage: "unused secrets scanned per round (default from config)",
}

var sweepPaymentsFlag = cli.BoolFlag{
	Name:  "sweep-payments",
	Usage: "also take back unspent tokens from the PAY chain",
}

var recoverCommand = cli.Command{
	Name:  "recover",
	Usage: "Scan the server for tokens derived from the master secret.",
	Flags: []cli.Flag{gapLimitFlag, sweepPaymentsFlag},
	Action: func(c *cli.Context) error {
		s, err := newSession(c)
		if err != nil {
			return err
		}
		defer s.Close()

		w, err := s.openWallet()
		if err != nil {
			return err
		}
		return runRecover(c, s, w)
	},
}

func runRecover(c *cli.Context, s *session, w *wallet.Wallet) error {
	opts := wallet.RecoverOptions{
		GapLimit:      s.cfg.Recovery.GapLimit,
		SweepPayments: s.cfg.Recovery.SweepPayments,
	}
	if c.IsSet(gapLimitFlag.Name) {
		opts.GapLimit = c.Uint64(gapLimitFlag.Name)
	}
	if c.IsSet(sweepPaymentsFlag.Name) {
		opts.SweepPayments = c.Bool(sweepPaymentsFlag.Name)
	}

	ctx, cancel := getContext()
	defer cancel()

	report, err := w.Recover(ctx, opts)
	if err != nil {
		return err
	}
	printRecovery(c.App.Writer, report)
	fmt.Fprintf(c.App.Writer, "Recovered %s. Balance: %s\n", report.Recovered(), w.Balance())
	return nil
}

var mnemonicCommand = cli.Command{
	Name:   "mnemonic",
	Usage:  "Print the wallet backup phrase.",
	Action: mnemonic,
}

func mnemonic(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}
	phrase, err := w.Mnemonic()
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, phrase)
	return nil
}

var logCommand = cli.Command{
	Name:   "log",
	Usage:  "Show the wallet history.",
	Action: showLog,
}

func showLog(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	defer s.Close()

	w, err := s.openWallet()
	if err != nil {
		return err
	}
	printRecords(c.App.Writer, w.Records())
	return nil
}
