package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	flagConfig   = "config"
	flagRPC      = "rpc"
	flagWallet   = "wallet"
	flagAddress  = "address"
	flagPassword = "password"
	flagContract = "contract"
	flagWorkers  = "workers"
	flagDebug    = "debug"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "wlctl",
		Usage: "operate whitelist mint contract",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Usage: "YAML config file path", EnvVars: []string{"WLCTL_CONFIG"}},
			&cli.StringFlag{Name: flagRPC, Usage: "Neo RPC server endpoint", EnvVars: []string{"WLCTL_RPC"}},
			&cli.StringFlag{Name: flagWallet, Aliases: []string{"w"}, Usage: "NEP-6 wallet path", EnvVars: []string{"WLCTL_WALLET"}},
			&cli.StringFlag{Name: flagAddress, Aliases: []string{"a"}, Usage: "wallet account to sign with", EnvVars: []string{"WLCTL_ADDRESS"}},
			&cli.StringFlag{Name: flagPassword, Usage: "wallet password", EnvVars: []string{"WLCTL_PASSWORD"}},
			&cli.StringFlag{Name: flagContract, Usage: "whitelist contract address (LE hex)", EnvVars: []string{"WLCTL_CONTRACT"}},
			&cli.IntFlag{Name: flagWorkers, Usage: "number of transactions sent concurrently by batch commands", EnvVars: []string{"WLCTL_WORKERS"}},
			&cli.BoolFlag{Name: flagDebug, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			deriveCommand(),
			inspectCommand(),
			deployCommand(),
			initCommand(),
			setStateCommand(),
			setTierCommand(),
			participantCommand(),
			placeholderCommand(),
			mintCommand(),
		},
	}
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.Sampling = nil
	if c.Bool(flagDebug) {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}
