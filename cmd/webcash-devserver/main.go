// webcash-devserver runs an in-memory webcash server for local testing.
//
// Usage:
//
//	webcash-devserver --listen 127.0.0.1:8000 --mint 10 --mint 0.5
//
// Minted tokens are printed on startup so they can be inserted into a
// wallet pointed at the server with --server http://127.0.0.1:8000.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
	"github.com/Klingon-tech/webcash-wallet/internal/testserver"
	"github.com/Klingon-tech/webcash-wallet/pkg/webcash"
)

func main() {
	app := cli.NewApp()
	app.Name = "webcash-devserver"
	app.Usage = "in-memory webcash server for development"
	app.Flags = flags()
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "listen, l",
			Value: "127.0.0.1:8000",
			Usage: "address to listen on",
		},
		cli.StringSliceFlag{
			Name:  "mint",
			Usage: "mint a token of this amount on startup (repeatable)",
		},
		cli.StringFlag{
			Name:      "terms-file",
			Usage:     "serve the terms of service from this file",
			TakesFile: true,
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "log level: debug, info, warn, error",
		},
		cli.BoolFlag{
			Name:  "log-json",
			Usage: "output logs as JSON",
		},
	}
}

func run(c *cli.Context) error {
	if err := log.Init(c.String("log-level"), c.Bool("log-json"), ""); err != nil {
		return err
	}
	gin.SetMode(gin.ReleaseMode)

	srv, err := newServer(c, c.App.Writer)
	if err != nil {
		return err
	}

	addr := c.String("listen")
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Server.Info().Str("addr", addr).Msg("Webcash dev server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-sigCh:
	}
	log.Server.Info().Msg("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	replaces, checks := srv.Stats()
	log.Server.Info().Int("replaces", replaces).Int("health_checks", checks).Msg("Server exited")
	return nil
}

// newServer builds the test server from the flags and prints any minted
// tokens to out.
func newServer(c *cli.Context, out io.Writer) (*testserver.Server, error) {
	srv := testserver.New(log.Server)

	if path := c.String("terms-file"); path != "" {
		terms, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read terms: %w", err)
		}
		srv.SetTerms(string(terms))
	}

	for _, raw := range c.StringSlice("mint") {
		amount, err := webcash.ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("mint %q: %w", raw, err)
		}
		if !amount.IsPositive() {
			return nil, fmt.Errorf("mint %q: amount must be positive", raw)
		}
		wc, err := webcash.NewRandomSecret(amount)
		if err != nil {
			return nil, err
		}
		srv.Mint(wc)
		fmt.Fprintln(out, wc.String())
	}
	return srv, nil
}
