package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values.
const (
	DefaultServerURL = "https://webcash.org"
	DefaultTimeout   = 10 * time.Second
	DefaultWallet    = "default"
	DefaultGapLimit  = 20
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultTimeout,
		},
		Wallet: WalletConfig{
			Name:    DefaultWallet,
			Backend: BackendFile,
		},
		Recovery: RecoveryConfig{
			GapLimit: DefaultGapLimit,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// setDefaults registers every key with viper. Keys without a default are
// invisible to AutomaticEnv during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("datadir", d.DataDir)
	v.SetDefault("server.url", d.Server.URL)
	v.SetDefault("server.timeout", d.Server.Timeout)
	v.SetDefault("wallet.name", d.Wallet.Name)
	v.SetDefault("wallet.backend", string(d.Wallet.Backend))
	v.SetDefault("recovery.gap_limit", d.Recovery.GapLimit)
	v.SetDefault("recovery.sweep_payments", d.Recovery.SweepPayments)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.file", d.Log.File)
}
