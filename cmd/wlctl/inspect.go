package main

import (
	"encoding/hex"
	"fmt"
	"io"

	"github.com/block-webdev/wlmint-contract/common"
	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/urfave/cli/v2"
)

const (
	flagParticipant = "participant"
	flagContentID   = "content-id"
	flagTier        = "tier"
)

func deriveCommand() *cli.Command {
	return &cli.Command{
		Name:  "derive",
		Usage: "print storage keys and delegated authority of the contract without connecting to the network",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagParticipant, Usage: "participant address"},
			&cli.Uint64Flag{Name: flagContentID, Usage: "placeholder content ID"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			program, err := cfg.contract()
			if err != nil {
				return err
			}

			w := c.App.Writer

			fmt.Fprintf(w, "authority:     %s\n", address.Uint160ToString(wlrpc.Authority(program)))
			fmt.Fprintf(w, "global config: %s\n", hex.EncodeToString(wlrpc.GlobalConfigKey(program)))

			if c.IsSet(flagParticipant) {
				p, err := address.StringToUint160(c.String(flagParticipant))
				if err != nil {
					return fmt.Errorf("invalid participant address: %w", err)
				}
				fmt.Fprintf(w, "participant:   %s\n", hex.EncodeToString(wlrpc.ParticipantKey(program, p)))
			}

			if c.IsSet(flagContentID) {
				fmt.Fprintf(w, "placeholder:   %s\n", hex.EncodeToString(wlrpc.PlaceholderKey(program, c.Uint64(flagContentID))))
			}

			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "read contract state",
		Subcommands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "print global configuration, collaborators and version",
				Action: inspectConfig,
			},
			{
				Name:      "participant",
				Usage:     "print participant record",
				ArgsUsage: "ADDRESS",
				Action:    inspectParticipant,
			},
			{
				Name:      "placeholder",
				Usage:     "print metadata placeholder",
				ArgsUsage: "CONTENT_ID",
				Action:    inspectPlaceholder,
			},
			{
				Name:   "storage",
				Usage:  "decode all contract storage items from the latest state root",
				Action: inspectStorage,
			},
		},
	}
}

// withReader opens connection to the network and passes contract reader to f.
func withReader(c *cli.Context, f func(*wlrpc.ContractReader) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	program, err := cfg.contract()
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(c.Context, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	return f(wlrpc.NewReader(b.invoker(), program))
}

func inspectConfig(c *cli.Context) error {
	return withReader(c, func(r *wlrpc.ContractReader) error {
		cfg, err := r.GlobalConfig()
		if err != nil {
			return fmt.Errorf("read global config: %w", classify(err))
		}

		token, registry, err := r.Collaborators()
		if err != nil {
			return fmt.Errorf("read collaborators: %w", err)
		}

		ver, err := r.Version()
		if err != nil {
			return fmt.Errorf("read version: %w", err)
		}

		w := c.App.Writer
		printConfig(w, cfg)
		fmt.Fprintf(w, "authority:            %s\n", address.Uint160ToString(wlrpc.Authority(r.Hash())))
		fmt.Fprintf(w, "token contract:       %s\n", token.StringLE())
		fmt.Fprintf(w, "registry contract:    %s\n", registry.StringLE())
		fmt.Fprintf(w, "version:              %s\n", ver)

		return nil
	})
}

func inspectParticipant(c *cli.Context) error {
	p, err := address.StringToUint160(c.Args().First())
	if err != nil {
		return fmt.Errorf("invalid participant address: %w", err)
	}

	return withReader(c, func(r *wlrpc.ContractReader) error {
		rec, err := r.Participant(p)
		if err != nil {
			return fmt.Errorf("read participant: %w", classify(err))
		}

		printParticipant(c.App.Writer, rec)
		return nil
	})
}

func inspectPlaceholder(c *cli.Context) error {
	var id uint64
	_, err := fmt.Sscan(c.Args().First(), &id)
	if err != nil {
		return fmt.Errorf("invalid content ID: %w", err)
	}

	return withReader(c, func(r *wlrpc.ContractReader) error {
		rec, err := r.Placeholder(id)
		if err != nil {
			return fmt.Errorf("read placeholder: %w", classify(err))
		}

		printPlaceholder(c.App.Writer, rec)
		return nil
	})
}

func inspectStorage(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	program, err := cfg.contract()
	if err != nil {
		return err
	}

	b, err := newRemoteBlockchain(c.Context, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	return b.iterateContractStorage(program, func(key, value []byte) error {
		return printStorageItem(c.App.Writer, key, value)
	})
}

// printStorageItem decodes contract storage item by its key prefix.
func printStorageItem(w io.Writer, key, value []byte) error {
	if len(key) == 0 {
		return nil
	}

	switch key[0] {
	case common.GlobalConfigPrefix:
		cfg, err := wlrpc.DecodeConfig(value)
		if err != nil {
			return fmt.Errorf("decode global config %x: %w", key, err)
		}
		fmt.Fprintf(w, "== global config %x\n", key)
		printConfig(w, cfg)
	case common.ParticipantPrefix:
		rec, err := wlrpc.DecodeParticipant(value)
		if err != nil {
			return fmt.Errorf("decode participant %x: %w", key, err)
		}
		fmt.Fprintf(w, "== participant %x\n", key)
		printParticipant(w, rec)
	case common.PlaceholderPrefix:
		rec, err := wlrpc.DecodePlaceholder(value)
		if err != nil {
			return fmt.Errorf("decode placeholder %x: %w", key, err)
		}
		fmt.Fprintf(w, "== placeholder %x\n", key)
		printPlaceholder(w, rec)
	default:
		fmt.Fprintf(w, "== %q: %x\n", key, value)
	}

	return nil
}

func printConfig(w io.Writer, cfg *wlrpc.Config) {
	fmt.Fprintf(w, "admin:                %s\n", address.Uint160ToString(cfg.Admin))
	fmt.Fprintf(w, "participants:         %d\n", cfg.ParticipantCount)
	fmt.Fprintf(w, "placeholders (total): %d\n", cfg.TotalMetadataCount)
	fmt.Fprintf(w, "minted:               %d\n", cfg.MintedCount)
	fmt.Fprintf(w, "tier 0:               limit %d, price %d\n", cfg.Tier0Limit, cfg.Tier0Price)
	fmt.Fprintf(w, "tier 1:               limit %d, price %d\n", cfg.Tier1Limit, cfg.Tier1Price)
	fmt.Fprintf(w, "current tier:         %d\n", cfg.CurrentTier)
}

func printParticipant(w io.Writer, rec *wlrpc.ParticipantRecord) {
	fmt.Fprintf(w, "participant: %s\n", address.Uint160ToString(rec.Participant))
	fmt.Fprintf(w, "tier:        %d\n", rec.Tier)
}

func printPlaceholder(w io.Writer, rec *wlrpc.MetadataPlaceholder) {
	fmt.Fprintf(w, "content ID:  %d\n", rec.ContentID)
	fmt.Fprintf(w, "consumed:    %t\n", rec.Consumed)
	fmt.Fprintf(w, "uri:         %s\n", rec.URI)
}
