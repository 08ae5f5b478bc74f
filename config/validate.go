package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Klingon-tech/webcash-wallet/internal/log"
)

// Validate checks the configuration for obvious operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if strings.TrimSpace(cfg.DataDir) == "" {
		return fmt.Errorf("datadir must not be empty")
	}

	if cfg.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	u, err := url.Parse(cfg.Server.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("server.url must be an http or https URL, got %q", cfg.Server.URL)
	}
	if cfg.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive")
	}

	if cfg.Wallet.Name == "" {
		return fmt.Errorf("wallet.name must not be empty")
	}
	switch cfg.Wallet.Backend {
	case BackendFile, BackendBadger:
	default:
		return fmt.Errorf("wallet.backend must be %q or %q, got %q", BackendFile, BackendBadger, cfg.Wallet.Backend)
	}

	if cfg.Recovery.GapLimit == 0 {
		return fmt.Errorf("recovery.gap_limit must be positive")
	}

	if _, err := log.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level must be debug, info, warn or error: %w", err)
	}
	return nil
}
