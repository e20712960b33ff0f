package main

import (
	"fmt"
	"os"

	"github.com/block-webdev/wlmint-contract/descriptor"
	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	flagMaker      = "maker"
	flagTokenID    = "token-id"
	flagDescriptor = "descriptor"
	flagEncoding   = "token-id-encoding"
)

func mintCommand() *cli.Command {
	return &cli.Command{
		Name:  "mint",
		Usage: "mint collectible against the metadata placeholder, participant and maker sign the transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagParticipant, Usage: "participant address (defaults to the configured account)"},
			&cli.StringFlag{Name: flagMaker, Required: true, Usage: "maker address, must differ from the participant"},
			&cli.StringFlag{Name: flagTokenID, Required: true, Usage: "token ID"},
			&cli.StringFlag{Name: flagEncoding, Value: tokenIDText, Usage: "token ID encoding: text, hex or base58"},
			&cli.Uint64Flag{Name: flagContentID, Required: true},
			&cli.StringFlag{Name: flagDescriptor, Required: true, Usage: "content descriptor JSON file"},
		},
		Action: mint,
	}
}

func mint(c *cli.Context) error {
	data, err := os.ReadFile(c.String(flagDescriptor))
	if err != nil {
		return fmt.Errorf("read descriptor: %w", err)
	}

	d, err := descriptor.Parse(data)
	if err != nil {
		return fmt.Errorf("invalid descriptor: %w", err)
	}

	tokenID, err := decodeTokenID(c.String(flagTokenID), c.String(flagEncoding))
	if err != nil {
		return err
	}

	participantAddr := c.String(flagParticipant)
	makerAddr := c.String(flagMaker)

	s, err := openSession(c, true, participantAddr, makerAddr)
	if err != nil {
		return err
	}
	defer s.close()

	participant, err := s.b.account(participantAddr)
	if err != nil {
		return err
	}

	maker, err := s.b.account(makerAddr)
	if err != nil {
		return err
	}

	err = checkCreators(participant.ScriptHash(), maker.ScriptHash())
	if err != nil {
		return err
	}

	contentID := c.Uint64(flagContentID)

	p, err := s.reader.Placeholder(contentID)
	if err != nil {
		return fmt.Errorf("read placeholder %d: %w", contentID, classify(err))
	}
	if p.Consumed {
		return fmt.Errorf("placeholder %d: %w", contentID, wlrpc.ErrDuplicateRecord)
	}

	s.log.Info("minting...",
		zap.String("participant", participant.Address),
		zap.String("maker", maker.Address),
		zap.String("token ID", formatTokenID(tokenID)),
		zap.Uint64("content ID", contentID),
		zap.String("content URI", p.URI),
		zap.String("metadata URI", d.URI))

	h, vub, err := s.contract.Mint(participant.ScriptHash(), tokenID, contentID,
		maker.ScriptHash(), d.URI, d.Name, d.Symbol)
	_, err = s.await("mint", h, vub, err)
	if err != nil {
		return err
	}

	appLog, err := s.b.rpc.GetApplicationLog(h, nil)
	if err != nil {
		return fmt.Errorf("get application log of mint transaction: %w", err)
	}

	events, err := wlrpc.MintedEventsFromApplicationLog(appLog)
	if err != nil {
		return fmt.Errorf("parse mint events: %w", err)
	}

	for _, e := range events {
		fmt.Fprintf(c.App.Writer, "minted token %s to %s against placeholder %s\n",
			formatTokenID(e.TokenID), address.Uint160ToString(e.Participant), e.ContentID)
	}

	return nil
}

// checkCreators rejects the creator list the registry would refuse: the maker
// is the verified creator and the participant is the unverified one.
func checkCreators(participant, maker util.Uint160) error {
	if participant.Equals(maker) {
		return fmt.Errorf("%w: maker %s is the participant", wlrpc.ErrInvalidInput, address.Uint160ToString(maker))
	}
	return nil
}
