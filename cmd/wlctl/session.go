package main

import (
	"context"
	"fmt"
	"strings"

	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// session groups network connection and whitelist contract client signing
// transactions with wallet accounts.
type session struct {
	log *zap.Logger
	cfg config
	b   *remoteBlockchain

	program  util.Uint160
	act      *actor.Actor
	reader   *wlrpc.ContractReader
	contract *wlrpc.Contract
}

// openSession connects to the network and opens the wallet. Transactions are
// signed by the configured account and the accounts with given addresses, the
// first signer pays fees. Witnesses are valid for the whitelist contract and
// its collaborators only if withCollaborators is set.
func openSession(c *cli.Context, withCollaborators bool, signers ...string) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	program, err := cfg.contract()
	if err != nil {
		return nil, err
	}

	log, err := newLogger(c)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	b, err := newRemoteBlockchain(c.Context, cfg)
	if err != nil {
		return nil, err
	}

	s := &session{
		log:     log,
		cfg:     cfg,
		b:       b,
		program: program,
		reader:  wlrpc.NewReader(b.invoker(), program),
	}

	err = s.initActor(withCollaborators, signers)
	if err != nil {
		b.close()
		return nil, err
	}

	return s, nil
}

func (s *session) initActor(withCollaborators bool, signers []string) error {
	if len(signers) == 0 {
		signers = []string{""}
	}

	var (
		accs = make([]*wallet.Account, 0, len(signers))
		seen = make(map[util.Uint160]struct{}, len(signers))
	)

	for i := range signers {
		acc, err := s.b.account(signers[i])
		if err != nil {
			return err
		}

		if _, ok := seen[acc.ScriptHash()]; ok {
			continue
		}
		seen[acc.ScriptHash()] = struct{}{}

		accs = append(accs, acc)
	}

	contracts := []util.Uint160{s.program}

	if withCollaborators {
		token, registry, err := s.reader.Collaborators()
		if err != nil {
			return fmt.Errorf("read collaborator contracts: %w", err)
		}
		contracts = append(contracts, token, registry)
	}

	act, err := s.b.actor(accs, contracts)
	if err != nil {
		return err
	}

	s.act = act
	s.contract = wlrpc.New(act, s.program)

	return nil
}

func (s *session) close() {
	_ = s.log.Sync()
	s.b.close()
}

// await waits for the sent transaction to be accepted and checks its
// execution state.
func (s *session) await(op string, h util.Uint256, vub uint32, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, fmt.Errorf("send %s transaction: %w", op, classify(err))
	}

	l := s.log.With(zap.String("op", op), zap.Stringer("tx", h))
	l.Debug("transaction sent, waiting for acceptance", zap.Uint32("vub", vub))

	res, err := s.act.Wait(h, vub, nil)
	if err != nil {
		return nil, fmt.Errorf("await %s transaction %s: %w", op, h.StringLE(), err)
	}

	if res.VMState != vmstate.Halt {
		return res, fmt.Errorf("%s transaction %s failed: %w", op, h.StringLE(), wlrpc.ParseFault(res.FaultException))
	}

	l.Info("transaction accepted")

	return res, nil
}

// batch calls f for indices [0, n) concurrently with at most Workers calls
// at a time. The first error cancels the remaining calls.
func (s *session) batch(ctx context.Context, n int, f func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)

	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}

		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return f(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// classify maps invocation FAULT to the error class of the contract. Other
// errors are returned as is.
func classify(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "FAULT") && !strings.Contains(msg, "invocation failed") {
		return err
	}
	return wlrpc.ParseFault(msg)
}
