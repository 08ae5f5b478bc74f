package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides: WEBCASH_SERVER_URL sets
// server.url, WEBCASH_RECOVERY_GAP_LIMIT sets recovery.gap_limit.
const EnvPrefix = "WEBCASH"

// Load reads configuration from defaults, the config file and the
// environment. With an empty path, webcash.{yaml,json,toml} is looked up in
// the data directory and then the working directory; a missing file is not
// an error. An explicit path must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(v.GetString("datadir"))
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Wallet.Backend = Backend(strings.ToLower(string(cfg.Wallet.Backend)))
	return &cfg, nil
}

// EnsureDataDirs creates the data directory and writes a default config
// file if none exists. It is safe to call on every start.
func EnsureDataDirs(cfg *Config) error {
	dirs := []string{cfg.DataDir}
	if cfg.Wallet.Backend == BackendBadger {
		dirs = append(dirs, cfg.DBDir())
	} else {
		dirs = append(dirs, cfg.WalletDir())
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	path := cfg.ConfigFile()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := WriteDefaultConfig(path); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}
	}
	return nil
}

// WriteDefaultConfig writes a commented YAML config holding the defaults.
func WriteDefaultConfig(path string) error {
	content := `# Webcash wallet configuration
#
# Every key can be overridden with an environment variable, e.g.
# WEBCASH_SERVER_URL or WEBCASH_LOG_LEVEL.

server:
  url: ` + DefaultServerURL + `
  timeout: ` + DefaultTimeout.String() + `

wallet:
  # Wallet used when --wallet is not given.
  name: ` + DefaultWallet + `
  # Storage backend: file (one JSON file per wallet) or badger.
  backend: file

recovery:
  # Consecutive unused secrets scanned before a chain is considered done.
  gap_limit: 20
  # Also sweep tokens found on the PAY chain. They were given away, so
  # they are normally left to the payee.
  sweep_payments: false

log:
  # debug, info, warn, error
  level: info
  json: false
  # file: /path/to/webcash.log
`
	return os.WriteFile(path, []byte(content), 0600)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
