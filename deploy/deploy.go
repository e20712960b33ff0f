package deploy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/block-webdev/wlmint-contract/common"
	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/management"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/trigger"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"go.uber.org/zap"
)

// Blockchain groups services provided by particular Neo blockchain network
// that are required for deployment of the whitelist mint contracts.
type Blockchain interface {
	// RPCActor groups functions needed to compose and send transactions to the
	// blockchain.
	actor.RPCActor

	// GetApplicationLog returns execution results of the persisted transaction.
	// Along with GetBlockCount it allows to await transactions by polling
	// when the Blockchain doesn't support event subscriptions.
	GetApplicationLog(hash util.Uint256, trig *trigger.Type) (*result.ApplicationLog, error)

	// GetContractStateByHash returns network state of the smart contract by its
	// address. GetContractStateByHash returns error with 'Unknown contract'
	// substring if requested contract is missing.
	GetContractStateByHash(util.Uint160) (*state.Contract, error)
}

// CommonDeployPrm groups common deployment parameters of the smart contract.
type CommonDeployPrm struct {
	NEF      nef.File
	Manifest manifest.Manifest
}

// CollaboratorPrm groups parameters of the contract the whitelist one calls
// into during the mint.
type CollaboratorPrm struct {
	// Address of the contract already deployed on the chain. If set, Common
	// is ignored.
	Address util.Uint160

	// Reference contract deployed when Address is zero.
	Common CommonDeployPrm
}

// Prm groups all parameters of the deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Particular Neo blockchain instance to deploy contracts to.
	Blockchain Blockchain

	// Local process account used for transaction signing (must be unlocked).
	// It pays for all transactions. Whitelist contract update additionally
	// requires it to be the committee account.
	LocalAccount *wallet.Account

	Whitelist CommonDeployPrm
	Token     CollaboratorPrm
	Registry  CollaboratorPrm

	// Address of the previously deployed whitelist contract. Contract address
	// is derived from the NEF checksum of the initial deployment, so it must be
	// set to update the contract deployed from another NEF.
	WhitelistAddress util.Uint160

	// Admin of the whitelist program. If set, the program is initialized
	// within the deployment transaction. Otherwise Initialize is to be called
	// separately.
	Admin util.Uint160
}

// Result groups addresses of the synchronized contracts.
type Result struct {
	Whitelist util.Uint160
	Token     util.Uint160
	Registry  util.Uint160
}

// Deploy synchronizes whitelist mint contracts with the Neo network
// represented by given Prm.Blockchain.
//
// Summary of stages:
//  1. reference token contract deployment (if no address is given)
//  2. reference registry contract deployment (if no address is given)
//  3. whitelist contract deployment or update
//
// Each stage is skipped when the chain already carries the contract of the
// local version, so Deploy can be safely repeated. Contract addresses depend
// on the LocalAccount, NEF and manifest name only.
func Deploy(ctx context.Context, prm Prm) (Result, error) {
	var res Result

	if prm.LocalAccount == nil {
		return res, errors.New("missing local account")
	}

	localActor, err := actor.NewTuned(prm.Blockchain, []actor.SignerAccount{{
		Signer: transaction.Signer{
			Account: prm.LocalAccount.ScriptHash(),
			Scopes:  transaction.CalledByEntry,
		},
		Account: prm.LocalAccount,
	}}, actor.Options{
		CheckerModifier: stableTransactionModifier(func() uint32 {
			// actor has just fetched the height, error repeats there
			h, _ := prm.Blockchain.GetBlockCount()
			if h > 0 {
				h--
			}
			return h
		}),
	})
	if err != nil {
		return res, fmt.Errorf("init transaction sender from local account: %w", err)
	}

	syncPrm := syncContractPrm{
		logger:     prm.Logger,
		blockchain: prm.Blockchain,
		actor:      localActor,
	}

	res.Token, err = syncCollaborator(ctx, syncPrm, "token", prm.Token)
	if err != nil {
		return res, err
	}

	res.Registry, err = syncCollaborator(ctx, syncPrm, "registry", prm.Registry)
	if err != nil {
		return res, err
	}

	var admin any
	if !prm.Admin.Equals(util.Uint160{}) {
		admin = prm.Admin
	}

	syncPrm.local = prm.Whitelist
	syncPrm.deployArgs = []any{res.Token, res.Registry, admin}
	syncPrm.updatable = true
	syncPrm.address = prm.WhitelistAddress

	prm.Logger.Info("synchronizing whitelist contract with the chain...")

	res.Whitelist, err = syncContract(ctx, syncPrm)
	if err != nil {
		return res, fmt.Errorf("sync whitelist contract with the chain: %w", err)
	}

	prm.Logger.Info("whitelist contract successfully synchronized", zap.Stringer("address", res.Whitelist))

	return res, nil
}

func syncCollaborator(ctx context.Context, syncPrm syncContractPrm, name string, prm CollaboratorPrm) (util.Uint160, error) {
	if !prm.Address.Equals(util.Uint160{}) {
		syncPrm.logger.Info("using deployed collaborator contract",
			zap.String("contract", name), zap.Stringer("address", prm.Address))
		return prm.Address, nil
	}

	syncPrm.local = prm.Common

	syncPrm.logger.Info("synchronizing reference collaborator contract with the chain...", zap.String("contract", name))

	addr, err := syncContract(ctx, syncPrm)
	if err != nil {
		return util.Uint160{}, fmt.Errorf("sync %s contract with the chain: %w", name, err)
	}

	syncPrm.logger.Info("reference collaborator contract successfully synchronized",
		zap.String("contract", name), zap.Stringer("address", addr))

	return addr, nil
}

type syncContractPrm struct {
	logger     *zap.Logger
	blockchain Blockchain
	actor      *actor.Actor

	local      CommonDeployPrm
	deployArgs []any

	// known on-chain address, zero if it should be derived.
	address util.Uint160

	// updatable contracts implement update and version methods.
	updatable bool
}

// syncContract deploys the local contract if it is missing on the chain and
// updates it if the chain carries another version. Returns the contract
// address.
func syncContract(ctx context.Context, prm syncContractPrm) (util.Uint160, error) {
	if err := ctx.Err(); err != nil {
		return util.Uint160{}, err
	}

	addr := prm.address
	knownAddr := !addr.Equals(util.Uint160{})
	if !knownAddr {
		addr = state.CreateContractHash(prm.actor.Sender(), prm.local.NEF.Checksum, prm.local.Manifest.Name)
	}

	l := prm.logger.With(zap.String("contract", prm.local.Manifest.Name), zap.Stringer("address", addr))

	onChain, err := prm.blockchain.GetContractStateByHash(addr)
	if err != nil {
		if !isErrContractNotFound(err) {
			return util.Uint160{}, fmt.Errorf("get contract state: %w", err)
		}
		if knownAddr {
			return util.Uint160{}, fmt.Errorf("contract %s is missing on the chain", addr)
		}

		l.Info("contract is missing on the chain, deploying...")

		var data any
		if prm.deployArgs != nil {
			data = prm.deployArgs
		}

		_, err = await(prm.actor.Wait(management.New(prm.actor).Deploy(&prm.local.NEF, &prm.local.Manifest, data)))
		if err != nil {
			return util.Uint160{}, fmt.Errorf("deploy contract: %w", err)
		}

		l.Info("contract successfully deployed")

		return addr, nil
	}

	if onChain.NEF.Checksum == prm.local.NEF.Checksum {
		l.Info("contract is already deployed, NEF matches the local one")
		return addr, nil
	}

	if !prm.updatable {
		return util.Uint160{}, fmt.Errorf("contract %s differs from the local one and can't be updated", addr)
	}

	ver, err := wlrpc.NewReader(invoker.New(prm.blockchain, nil), addr).Version()
	if err != nil {
		return util.Uint160{}, fmt.Errorf("get on-chain contract version: %w", err)
	}

	if ver.IsInt64() && ver.Int64() == common.Version {
		l.Info("contract is already of the local version", zap.Int64("version", ver.Int64()))
		return addr, nil
	}

	l.Info("contract version differs from the local one, updating...",
		zap.Stringer("on-chain version", ver), zap.Int("local version", common.Version))

	bNEF, bManifest, err := encodeArtifacts(prm.local)
	if err != nil {
		return util.Uint160{}, err
	}

	_, err = await(prm.actor.Wait(wlrpc.New(prm.actor, addr).Update(bNEF, bManifest, nil)))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("update contract: %w", err)
	}

	l.Info("contract successfully updated")

	return addr, nil
}

// await checks result of the awaited transaction. FAULT exceptions are
// classified with wlrpc.ParseFault.
func await(res *state.AppExecResult, err error) (*state.AppExecResult, error) {
	if err != nil {
		return nil, fmt.Errorf("await transaction: %w", err)
	}

	if res.VMState != vmstate.Halt {
		return res, fmt.Errorf("transaction %s failed: %w", res.Container, wlrpc.ParseFault(res.FaultException))
	}

	return res, nil
}

func isErrContractNotFound(err error) bool {
	return strings.Contains(err.Error(), "Unknown contract")
}

// stableTransactionModifier returns actor.TransactionCheckerModifier which
// sets Nonce and ValidUntilBlock to 100*N and 100*(N+1) correspondingly,
// where 100*N <= current height < 100*(N+1). Repeated deployment attempts
// within one span produce the same transaction and are deduplicated by the
// chain.
func stableTransactionModifier(getBlockchainHeight func() uint32) actor.TransactionCheckerModifier {
	return func(r *result.Invoke, tx *transaction.Transaction) error {
		err := actor.DefaultCheckerModifier(r, tx)
		if err != nil {
			return err
		}

		curHeight := getBlockchainHeight()
		const span = 100
		n := curHeight / span

		tx.Nonce = n * span

		if math.MaxUint32-span > tx.Nonce {
			tx.ValidUntilBlock = tx.Nonce + span
		} else {
			tx.ValidUntilBlock = math.MaxUint32
		}

		return nil
	}
}

// encodeArtifacts returns NEF and manifest in the form the update method of
// the contract accepts.
func encodeArtifacts(prm CommonDeployPrm) ([]byte, []byte, error) {
	bNEF, err := prm.NEF.Bytes()
	if err != nil {
		return nil, nil, fmt.Errorf("encode NEF: %w", err)
	}

	bManifest, err := json.Marshal(prm.Manifest)
	if err != nil {
		return nil, nil, fmt.Errorf("encode manifest: %w", err)
	}

	return bNEF, bManifest, nil
}
