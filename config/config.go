// Package config handles application configuration.
//
// Settings are resolved in order of increasing precedence: built-in
// defaults, the config file, WEBCASH_* environment variables and finally
// command-line flags.
package config

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Backend selects where wallets are persisted.
type Backend string

const (
	// BackendFile stores one JSON document per wallet.
	BackendFile Backend = "file"
	// BackendBadger stores wallets in a Badger database.
	BackendBadger Backend = "badger"
)

// ConfigName is the base name of the config file searched for in the data
// directory and the working directory.
const ConfigName = "webcash"

// Config holds the wallet runtime configuration.
type Config struct {
	DataDir string `mapstructure:"datadir"`

	Server   ServerConfig   `mapstructure:"server"`
	Wallet   WalletConfig   `mapstructure:"wallet"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds webcash server settings.
type ServerConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// WalletConfig selects the wallet to operate on.
type WalletConfig struct {
	Name    string  `mapstructure:"name"`
	Backend Backend `mapstructure:"backend"`
}

// RecoveryConfig holds defaults for recovering from the master secret.
type RecoveryConfig struct {
	GapLimit      uint64 `mapstructure:"gap_limit"`
	SweepPayments bool   `mapstructure:"sweep_payments"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
	File  string `mapstructure:"file"`
}

// DefaultDataDir returns the platform-specific default data directory.
//
//	Linux:   ~/.webcash
//	macOS:   ~/Library/Application Support/Webcash
//	Windows: %APPDATA%\Webcash
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".webcash"
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Webcash")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData != "" {
			return filepath.Join(appData, "Webcash")
		}
		return filepath.Join(home, "AppData", "Roaming", "Webcash")
	default:
		return filepath.Join(home, ".webcash")
	}
}

// WalletDir returns the directory holding wallet files.
func (c *Config) WalletDir() string {
	return filepath.Join(c.DataDir, "wallets")
}

// DBDir returns the Badger database directory.
func (c *Config) DBDir() string {
	return filepath.Join(c.DataDir, "db")
}

// ConfigFile returns the default config file path.
func (c *Config) ConfigFile() string {
	return filepath.Join(c.DataDir, ConfigName+".yaml")
}
