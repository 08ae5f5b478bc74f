// webcash-cli is a command-line webcash wallet.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/Klingon-tech/webcash-wallet/config"
	"github.com/Klingon-tech/webcash-wallet/internal/log"
)

const version = "0.1.0"

// configKey holds the resolved *config.Config in the app metadata.
const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[webcash-cli] %v\n", err)
	os.Exit(1)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "webcash-cli"
	app.Version = version
	app.Usage = "keep and spend webcash"
	app.Flags = append(config.Flags(),
		cli.StringFlag{
			Name:   "password",
			Usage:  "wallet password for encrypted wallets",
			EnvVar: "WEBCASH_PASSWORD",
		},
	)
	app.Before = func(c *cli.Context) error {
		cfg, err := config.FromContext(c)
		if err != nil {
			return err
		}
		if c.App.Metadata == nil {
			c.App.Metadata = make(map[string]interface{})
		}
		c.App.Metadata[configKey] = cfg
		return log.Init(cfg.Log.Level, cfg.Log.JSON, cfg.Log.File)
	}
	app.Commands = []cli.Command{
		setupCommand,
		restoreCommand,
		infoCommand,
		listCommand,
		insertCommand,
		payCommand,
		checkCommand,
		recoverCommand,
		mnemonicCommand,
		logCommand,
	}
	return app
}
