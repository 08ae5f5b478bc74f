package config

import (
	"strings"

	"github.com/urfave/cli"
)

// Flag names shared by the command-line tools.
const (
	FlagConfig   = "config"
	FlagDataDir  = "datadir"
	FlagWallet   = "wallet"
	FlagBackend  = "backend"
	FlagServer   = "server"
	FlagTimeout  = "timeout"
	FlagLogLevel = "log-level"
	FlagLogJSON  = "log-json"
	FlagLogFile  = "log-file"
)

// Flags returns the global flags that override configuration values.
func Flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  FlagConfig + ", c",
			Usage: "config file path (default: <datadir>/webcash.yaml)",
		},
		cli.StringFlag{
			Name:  FlagDataDir,
			Usage: "data directory (default: " + DefaultDataDir() + ")",
		},
		cli.StringFlag{
			Name:  FlagWallet + ", w",
			Usage: "wallet name",
		},
		cli.StringFlag{
			Name:  FlagBackend,
			Usage: "wallet storage backend: file or badger",
		},
		cli.StringFlag{
			Name:  FlagServer,
			Usage: "webcash server URL",
		},
		cli.DurationFlag{
			Name:  FlagTimeout,
			Usage: "server request timeout",
		},
		cli.StringFlag{
			Name:  FlagLogLevel,
			Usage: "log level: debug, info, warn, error",
		},
		cli.BoolFlag{
			Name:  FlagLogJSON,
			Usage: "output logs as JSON",
		},
		cli.StringFlag{
			Name:  FlagLogFile,
			Usage: "also write JSON logs to this file",
		},
	}
}

// ApplyFlags applies explicitly set command-line flags to cfg. It works
// from the application context as well as from any subcommand.
func ApplyFlags(cfg *Config, c *cli.Context) {
	if c.GlobalIsSet(FlagDataDir) {
		cfg.DataDir = c.GlobalString(FlagDataDir)
	}
	if c.GlobalIsSet(FlagWallet) {
		cfg.Wallet.Name = c.GlobalString(FlagWallet)
	}
	if c.GlobalIsSet(FlagBackend) {
		cfg.Wallet.Backend = Backend(strings.ToLower(c.GlobalString(FlagBackend)))
	}
	if c.GlobalIsSet(FlagServer) {
		cfg.Server.URL = c.GlobalString(FlagServer)
	}
	if c.GlobalIsSet(FlagTimeout) {
		cfg.Server.Timeout = c.GlobalDuration(FlagTimeout)
	}
	if c.GlobalIsSet(FlagLogLevel) {
		cfg.Log.Level = c.GlobalString(FlagLogLevel)
	}
	if c.GlobalIsSet(FlagLogJSON) {
		cfg.Log.JSON = c.GlobalBool(FlagLogJSON)
	}
	if c.GlobalIsSet(FlagLogFile) {
		cfg.Log.File = c.GlobalString(FlagLogFile)
	}
}

// FromContext loads the configuration named by the --config flag (or the
// default search path), applies flag overrides and validates the result.
func FromContext(c *cli.Context) (*Config, error) {
	path := c.GlobalString(FlagConfig)
	if path == "" && c.GlobalIsSet(FlagDataDir) {
		// A --datadir with its own config file takes precedence over the
		// default search.
		candidate := (&Config{DataDir: c.GlobalString(FlagDataDir)}).ConfigFile()
		if fileExists(candidate) {
			path = candidate
		}
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	ApplyFlags(cfg, c)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
