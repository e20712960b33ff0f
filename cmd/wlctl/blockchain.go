package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
)

// wrapper over Neo RPC client providing blockchain services needed for the
// tool commands.
type remoteBlockchain struct {
	rpc *rpcclient.Client
	cfg config

	wallet *wallet.Wallet
}

// newRemoteBlockchain dials Neo RPC server and returns remoteBlockchain based
// on the opened connection. Wallet is opened only if configured.
func newRemoteBlockchain(ctx context.Context, cfg config) (*remoteBlockchain, error) {
	if cfg.RPC.Endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	c, err := rpcclient.New(ctx, cfg.RPC.Endpoint, rpcclient.Options{
		DialTimeout:    cfg.RPC.DialTimeout,
		RequestTimeout: cfg.RPC.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	err = c.Init()
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	res := &remoteBlockchain{
		rpc: c,
		cfg: cfg,
	}

	if cfg.Wallet.Path != "" {
		res.wallet, err = wallet.NewWalletFromFile(cfg.Wallet.Path)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("open wallet: %w", err)
		}
	}

	return res, nil
}

func (x *remoteBlockchain) close() {
	if x.wallet != nil {
		x.wallet.Close()
	}
	x.rpc.Close()
}

func (x *remoteBlockchain) invoker() *invoker.Invoker {
	return invoker.New(x.rpc, nil)
}

// account returns decrypted wallet account. Empty addr selects the configured
// one.
func (x *remoteBlockchain) account(addr string) (*wallet.Account, error) {
	if x.wallet == nil {
		return nil, errors.New("missing wallet")
	}

	if addr == "" {
		addr = x.cfg.Wallet.Address
	}

	var acc *wallet.Account

	if addr == "" {
		acc = x.wallet.GetAccount(x.wallet.GetChangeAddress())
	} else {
		h, err := address.StringToUint160(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid account address %q: %w", addr, err)
		}
		acc = x.wallet.GetAccount(h)
	}

	if acc == nil {
		return nil, fmt.Errorf("account %q not found in the wallet", addr)
	}

	if !acc.CanSign() {
		err := acc.Decrypt(x.cfg.Wallet.Password, x.wallet.Scrypt)
		if err != nil {
			return nil, fmt.Errorf("decrypt account %s: %w", acc.Address, err)
		}
	}

	return acc, nil
}

// actor returns transaction sender signing with the given accounts. The
// first one pays fees. Witnesses are restricted to the listed contracts.
func (x *remoteBlockchain) actor(accs []*wallet.Account, contracts []util.Uint160) (*actor.Actor, error) {
	signers := make([]actor.SignerAccount, 0, len(accs))

	for i := range accs {
		signers = append(signers, actor.SignerAccount{
			Signer: transaction.Signer{
				Account:          accs[i].ScriptHash(),
				Scopes:           transaction.CustomContracts,
				AllowedContracts: contracts,
			},
			Account: accs[i],
		})
	}

	act, err := actor.New(x.rpc, signers)
	if err != nil {
		return nil, fmt.Errorf("init actor: %w", err)
	}

	return act, nil
}

func (x *remoteBlockchain) contractState(h util.Uint160) (*state.Contract, error) {
	cs, err := x.rpc.GetContractStateByHash(h)
	if err != nil {
		return nil, fmt.Errorf("get state of the contract by hash '%s': %w", h.StringLE(), err)
	}

	return cs, nil
}

// iterateContractStorage iterates over all storage items of the Neo smart
// contract referenced by given address and passes them into f.
// iterateContractStorage breaks on any f's error and returns it.
func (x *remoteBlockchain) iterateContractStorage(contract util.Uint160, f func(key, value []byte) error) error {
	nLatestBlock, err := x.rpc.GetBlockCount()
	if err != nil {
		return fmt.Errorf("get number of the latest block: %w", err)
	}

	stateRoot, err := x.rpc.GetStateRootByHeight(nLatestBlock - 1)
	if err != nil {
		return fmt.Errorf("get state root at penult block #%d: %w", nLatestBlock-1, err)
	}

	var start []byte

	for {
		res, err := x.rpc.FindStates(stateRoot.Root, contract, nil, start, nil)
		if err != nil {
			return fmt.Errorf("get historical storage items of the requested contract at state root '%s': %w", stateRoot.Root, err)
		}

		for i := range res.Results {
			err = f(res.Results[i].Key, res.Results[i].Value)
			if err != nil {
				return err
			}
		}

		if !res.Truncated {
			return nil
		}

		start = res.Results[len(res.Results)-1].Key
	}
}
