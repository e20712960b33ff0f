package main

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/block-webdev/wlmint-contract/contracts"
	"github.com/block-webdev/wlmint-contract/deploy"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
)

const (
	flagArtifacts = "artifacts"
	flagAdmin     = "admin"
	flagToken     = "token"
	flagRegistry  = "registry"
)

func deployCommand() *cli.Command {
	return &cli.Command{
		Name: "deploy",
		Usage: "deploy or update whitelist contract signing with the configured account, " +
			"reference collaborators are deployed unless their addresses are given",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagArtifacts, Required: true, Usage: "directory with compiled contracts (<name>/contract.nef, <name>/manifest.json)"},
			&cli.StringFlag{Name: flagAdmin, Usage: "program admin address, initializes the program within deployment"},
			&cli.StringFlag{Name: flagToken, Usage: "deployed token contract address (LE hex)"},
			&cli.StringFlag{Name: flagRegistry, Usage: "deployed metadata registry contract address (LE hex)"},
		},
		Action: deployContracts,
	}
}

func deployContracts(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	prm, err := deployPrmFromFlags(c, os.DirFS(c.String(flagArtifacts)))
	if err != nil {
		return err
	}

	if cfg.Contract != "" {
		prm.WhitelistAddress, err = cfg.contract()
		if err != nil {
			return err
		}
	}

	log, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	b, err := newRemoteBlockchain(c.Context, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	prm.Logger = log
	prm.Blockchain = b.rpc

	prm.LocalAccount, err = b.account("")
	if err != nil {
		return err
	}

	res, err := deploy.Deploy(c.Context, prm)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "whitelist: %s\ntoken:     %s\nregistry:  %s\n",
		res.Whitelist.StringLE(), res.Token.StringLE(), res.Registry.StringLE())

	return nil
}

// deployPrmFromFlags fills deployment parameters with contracts read from the
// artifact file system and addresses from the command flags.
func deployPrmFromFlags(c *cli.Context, fsys fs.FS) (deploy.Prm, error) {
	var prm deploy.Prm

	wl, err := contracts.GetMain(fsys)
	if err != nil {
		return prm, fmt.Errorf("read whitelist contract: %w", err)
	}

	prm.Whitelist = deploy.CommonDeployPrm{NEF: wl.NEF, Manifest: wl.Manifest}

	if c.IsSet(flagAdmin) {
		prm.Admin, err = address.StringToUint160(c.String(flagAdmin))
		if err != nil {
			return prm, fmt.Errorf("invalid admin address: %w", err)
		}
	}

	prm.Token.Address, err = contractFlag(c, flagToken)
	if err != nil {
		return prm, err
	}

	prm.Registry.Address, err = contractFlag(c, flagRegistry)
	if err != nil {
		return prm, err
	}

	collaborators := map[string]*deploy.CollaboratorPrm{
		contracts.CollectibleDir: &prm.Token,
		contracts.RegistryDir:    &prm.Registry,
	}

	for dir, p := range collaborators {
		if !p.Address.Equals(util.Uint160{}) {
			continue
		}

		cs, err := contracts.Read(fsys, dir)
		if err != nil {
			return prm, fmt.Errorf("read reference collaborator contract: %w", err)
		}

		p.Common = deploy.CommonDeployPrm{NEF: cs[0].NEF, Manifest: cs[0].Manifest}
	}

	return prm, nil
}

func contractFlag(c *cli.Context, name string) (util.Uint160, error) {
	if !c.IsSet(name) {
		return util.Uint160{}, nil
	}

	h, err := util.Uint160DecodeStringLE(c.String(name))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid %s contract address: %w", name, err)
	}

	return h, nil
}
