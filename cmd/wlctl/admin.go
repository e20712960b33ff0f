package main

import (
	"context"
	"errors"
	"fmt"
	"math"

	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	flagLimit = "limit"
	flagPrice = "price"
	flagURI   = "uri"
)

func initCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "create global configuration with the signing account as admin",
		Action: func(c *cli.Context) error {
			s, err := openSession(c, false)
			if err != nil {
				return err
			}
			defer s.close()

			h, vub, err := s.contract.Initialize(s.act.Sender())
			_, err = s.await("initialize", h, vub, err)
			return err
		},
	}
}

func setStateCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-state",
		Usage: "set supply limit and price of the tier (0 is the priority tier, any other value is the general one)",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: flagTier, Required: true},
			&cli.Uint64Flag{Name: flagLimit, Required: true},
			&cli.Uint64Flag{Name: flagPrice, Required: true},
		},
		Action: func(c *cli.Context) error {
			tier, err := tierFlag(c)
			if err != nil {
				return err
			}

			limit := c.Uint64(flagLimit)
			if limit > math.MaxUint32 {
				return fmt.Errorf("limit %d does not fit 32 bits", limit)
			}

			s, err := openSession(c, false)
			if err != nil {
				return err
			}
			defer s.close()

			h, vub, err := s.contract.SetGlobalState(tier, uint32(limit), c.Uint64(flagPrice))
			_, err = s.await("set global state", h, vub, err)
			return err
		},
	}
}

func setTierCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-tier",
		Usage: "switch current tier",
		Flags: []cli.Flag{
			&cli.UintFlag{Name: flagTier, Required: true},
		},
		Action: func(c *cli.Context) error {
			tier, err := tierFlag(c)
			if err != nil {
				return err
			}

			s, err := openSession(c, false)
			if err != nil {
				return err
			}
			defer s.close()

			h, vub, err := s.contract.SetCurrentTier(tier)
			_, err = s.await("set current tier", h, vub, err)
			return err
		},
	}
}

func participantCommand() *cli.Command {
	return &cli.Command{
		Name:  "participant",
		Usage: "manage whitelist participants",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "register participants under the tier",
				ArgsUsage: "ADDRESS...",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: flagTier, Required: true},
				},
				Action: addParticipants,
			},
			{
				Name:      "remove",
				Usage:     "deregister participants",
				ArgsUsage: "ADDRESS...",
				Action:    removeParticipants,
			},
		},
	}
}

func addParticipants(c *cli.Context) error {
	tier, err := tierFlag(c)
	if err != nil {
		return err
	}

	participants, err := parseAddresses(c.Args().Slice())
	if err != nil {
		return err
	}

	s, err := openSession(c, false)
	if err != nil {
		return err
	}
	defer s.close()

	return s.batch(c.Context, len(participants), func(_ context.Context, i int) error {
		h, vub, err := s.contract.RegisterParticipant(participants[i], tier)
		_, err = s.await("register participant "+address.Uint160ToString(participants[i]), h, vub, err)
		return err
	})
}

func removeParticipants(c *cli.Context) error {
	participants, err := parseAddresses(c.Args().Slice())
	if err != nil {
		return err
	}

	s, err := openSession(c, false)
	if err != nil {
		return err
	}
	defer s.close()

	return s.batch(c.Context, len(participants), func(_ context.Context, i int) error {
		h, vub, err := s.contract.DeregisterParticipant(participants[i])
		_, err = s.await("deregister participant "+address.Uint160ToString(participants[i]), h, vub, err)
		return err
	})
}

func placeholderCommand() *cli.Command {
	return &cli.Command{
		Name:  "placeholder",
		Usage: "manage metadata placeholders",
		Subcommands: []*cli.Command{
			{
				Name:  "add",
				Usage: "register metadata placeholder",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: flagContentID, Required: true},
					&cli.StringFlag{Name: flagURI, Required: true},
				},
				Action: func(c *cli.Context) error {
					return registerPlaceholders(c, []placeholderEntry{{
						ContentID: c.Uint64(flagContentID),
						URI:       c.String(flagURI),
					}})
				},
			},
			{
				Name:  "remove",
				Usage: "deregister metadata placeholder",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: flagContentID, Required: true},
				},
				Action: func(c *cli.Context) error {
					s, err := openSession(c, false)
					if err != nil {
						return err
					}
					defer s.close()

					h, vub, err := s.contract.DeregisterMetadataPlaceholder(c.Uint64(flagContentID))
					_, err = s.await("deregister placeholder", h, vub, err)
					return err
				},
			},
			{
				Name:  "import",
				Usage: "register all placeholders listed in the config file, skipping already registered ones",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					if len(cfg.Placeholders) == 0 {
						return errors.New("no placeholders in the config")
					}
					return registerPlaceholders(c, cfg.Placeholders)
				},
			},
		},
	}
}

func registerPlaceholders(c *cli.Context, list []placeholderEntry) error {
	err := validatePlaceholders(list)
	if err != nil {
		return err
	}

	s, err := openSession(c, false)
	if err != nil {
		return err
	}
	defer s.close()

	return s.batch(c.Context, len(list), func(_ context.Context, i int) error {
		p := list[i]
		l := s.log.With(zap.Uint64("content ID", p.ContentID))

		existing, err := s.reader.Placeholder(p.ContentID)
		switch err = errIfNotMissing(err); {
		case err != nil:
			return fmt.Errorf("read placeholder %d: %w", p.ContentID, err)
		case existing != nil && existing.URI == p.URI:
			l.Info("placeholder is already registered, skip")
			return nil
		case existing != nil:
			return fmt.Errorf("placeholder %d is registered with another URI %q", p.ContentID, existing.URI)
		}

		h, vub, err := s.contract.RegisterMetadataPlaceholder(p.ContentID, p.URI)
		_, err = s.await(fmt.Sprintf("register placeholder %d", p.ContentID), h, vub, err)
		return err
	})
}

// errIfNotMissing returns nil for missing record errors.
func errIfNotMissing(err error) error {
	if err == nil {
		return nil
	}
	err = classify(err)
	if errors.Is(err, wlrpc.ErrMissingRecord) {
		return nil
	}
	return err
}

func tierFlag(c *cli.Context) (uint8, error) {
	tier := c.Uint(flagTier)
	if tier > math.MaxUint8 {
		return 0, fmt.Errorf("tier %d does not fit one byte", tier)
	}
	return uint8(tier), nil
}

func parseAddresses(list []string) ([]util.Uint160, error) {
	if len(list) == 0 {
		return nil, errors.New("no addresses given")
	}

	res := make([]util.Uint160, len(list))

	for i := range list {
		var err error
		res[i], err = address.StringToUint160(list[i])
		if err != nil {
			return nil, fmt.Errorf("invalid address %q: %w", list[i], err)
		}
	}

	return res, nil
}
