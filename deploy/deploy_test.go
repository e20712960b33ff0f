package deploy

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/config/netmode"
	"github.com/nspcc-dev/neo-go/pkg/consensus"
	"github.com/nspcc-dev/neo-go/pkg/core"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/crypto/keys"
	"github.com/nspcc-dev/neo-go/pkg/encoding/fixedn"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/network"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/services/rpcsrv"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStableTransactionModifier(t *testing.T) {
	t.Run("invalid invocation result state", func(t *testing.T) {
		var res result.Invoke
		res.State = "FAULT" // any non-HALT

		err := stableTransactionModifier(func() uint32 { return 0 })(&res, new(transaction.Transaction))
		require.Error(t, err)
	})

	var validRes result.Invoke
	validRes.State = "HALT"

	for _, tc := range []struct {
		curHeight     uint32
		expectedNonce uint32
		expectedVUB   uint32
	}{
		{curHeight: 0, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 1, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 99, expectedNonce: 0, expectedVUB: 100},
		{curHeight: 100, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 199, expectedNonce: 100, expectedVUB: 200},
		{curHeight: 200, expectedNonce: 200, expectedVUB: 300},
		{curHeight: math.MaxUint32 - 50, expectedNonce: 100 * (math.MaxUint32 / 100), expectedVUB: math.MaxUint32},
	} {
		m := stableTransactionModifier(func() uint32 { return tc.curHeight })

		var tx transaction.Transaction

		err := m(&validRes, &tx)
		require.NoError(t, err, tc)
		require.EqualValues(t, tc.expectedNonce, tx.Nonce, tc)
		require.EqualValues(t, tc.expectedVUB, tx.ValidUntilBlock, tc)
	}
}

func TestEncodeArtifacts(t *testing.T) {
	// only artifacts matter here, deployment address is derived by Deploy
	local := compile(t, util.Uint160{}, "../contracts/whitelist")

	bNEF, bManifest, err := encodeArtifacts(local)
	require.NoError(t, err)

	gotNEF, err := nef.FileFromBytes(bNEF)
	require.NoError(t, err)
	require.Equal(t, local.NEF.Checksum, gotNEF.Checksum)

	var gotManifest manifest.Manifest
	require.NoError(t, json.Unmarshal(bManifest, &gotManifest))
	require.Equal(t, local.Manifest.Name, gotManifest.Name)
	require.Equal(t, local.Manifest.ABI.Methods, gotManifest.ABI.Methods)
}

func TestDeployMissingAccount(t *testing.T) {
	_, err := Deploy(context.Background(), Prm{Logger: zaptest.NewLogger(t)})
	require.Error(t, err)
}

// newNode starts single-validator network producing blocks and returns RPC
// client connected to it along with the account owning all genesis funds.
func newNode(t *testing.T) (*rpcclient.Internal, *wallet.Account) {
	validatorAcc, err := wallet.NewAccount()
	require.NoError(t, err)

	// with the only validator, validators and committee multi-sig accounts
	// match and receive all genesis funds
	var validatorMulti = new(wallet.Account)
	*validatorMulti = *validatorAcc
	err = validatorMulti.ConvertMultisig(1, []*keys.PublicKey{validatorAcc.PublicKey()})
	require.NoError(t, err)

	walletPath := filepath.Join(t.TempDir(), "wallet.json")
	wlt, err := wallet.NewWallet(walletPath)
	require.NoError(t, err)

	err = validatorAcc.Encrypt("", keys.NEP2ScryptParams())
	require.NoError(t, err)
	wlt.AddAccount(validatorAcc)
	require.NoError(t, wlt.Save())

	var (
		cfg = config.Config{
			ApplicationConfiguration: config.ApplicationConfiguration{
				RPC: config.RPC{
					BasicService: config.BasicService{
						Enabled: true,
					},
					MaxGasInvoke: fixedn.Fixed8FromInt64(50),
				},
				Consensus: config.Consensus{
					Enabled: true,
					UnlockWallet: config.Wallet{
						Path:     walletPath,
						Password: "",
					},
				},
			},
			ProtocolConfiguration: config.ProtocolConfiguration{
				Magic:                       netmode.UnitTestNet,
				MaxTraceableBlocks:          1000,
				MaxValidUntilBlockIncrement: 1000 / 2,
				TimePerBlock:                50 * time.Millisecond,
				StandbyCommittee:            []string{hex.EncodeToString(validatorAcc.PublicKey().Bytes())},
				ValidatorsCount:             1,
				VerifyTransactions:          true,
			},
		}
		logger = zaptest.NewLogger(t)
		store  = storage.NewMemoryStore()
	)

	bc, err := core.NewBlockchain(store, config.Blockchain{ProtocolConfiguration: cfg.ProtocolConfiguration}, logger)
	require.NoError(t, err)
	go bc.Run()
	t.Cleanup(bc.Close)

	serverConfig, err := network.NewServerConfig(config.Config{ProtocolConfiguration: cfg.ProtocolConfiguration})
	require.NoError(t, err)
	serverConfig.UserAgent = fmt.Sprintf(config.UserAgentFormat, "something")
	netSrv, err := network.NewServer(serverConfig, bc, bc.GetStateSyncModule(), logger)
	require.NoError(t, err)
	cons, err := consensus.NewService(consensus.Config{
		Logger:                logger,
		Broadcast:             netSrv.BroadcastExtensible,
		Chain:                 bc,
		BlockQueue:            netSrv.GetBlockQueue(),
		ProtocolConfiguration: cfg.ProtocolConfiguration,
		RequestTx:             netSrv.RequestTx,
		StopTxFlow:            netSrv.StopTxFlow,
		TimePerBlock:          cfg.ProtocolConfiguration.TimePerBlock,
		Wallet:                cfg.ApplicationConfiguration.Consensus.UnlockWallet,
	})
	require.NoError(t, err)
	netSrv.AddConsensusService(cons, cons.OnPayload, cons.OnTransaction)
	go netSrv.Start()

	errCh := make(chan error, 2)
	rpcServer := rpcsrv.New(bc, cfg.ApplicationConfiguration.RPC, netSrv, nil, logger, errCh)
	rpcServer.Start()
	t.Cleanup(rpcServer.Shutdown)

	rpcClient, err := rpcclient.NewInternal(context.TODO(), rpcServer.RegisterLocal)
	require.NoError(t, err)
	require.NoError(t, rpcClient.Init())

	return rpcClient, validatorMulti
}

func compile(t *testing.T, sender util.Uint160, dir string) CommonDeployPrm {
	c := neotest.CompileFile(t, sender, dir, filepath.Join(dir, "config.yml"))
	return CommonDeployPrm{NEF: *c.NEF, Manifest: *c.Manifest}
}

func TestDeploy(t *testing.T) {
	rpcClient, acc := newNode(t)

	admin, err := wallet.NewAccount()
	require.NoError(t, err)

	deployPrm := Prm{
		Logger:       zaptest.NewLogger(t),
		Blockchain:   rpcClient,
		LocalAccount: acc,
		Whitelist:    compile(t, acc.ScriptHash(), "../contracts/whitelist"),
		Token: CollaboratorPrm{
			Common: compile(t, acc.ScriptHash(), "../internal/testcontracts/collectible"),
		},
		Registry: CollaboratorPrm{
			Common: compile(t, acc.ScriptHash(), "../internal/testcontracts/registry"),
		},
		Admin: admin.ScriptHash(),
	}

	ctx, cancel := context.WithTimeout(context.TODO(), 2*time.Minute)
	defer cancel()

	res, err := Deploy(ctx, deployPrm)
	require.NoError(t, err)

	reader := wlrpc.NewReader(invoker.New(rpcClient, nil), res.Whitelist)

	cfg, err := reader.GlobalConfig()
	require.NoError(t, err)
	require.Equal(t, admin.ScriptHash(), cfg.Admin)

	token, registry, err := reader.Collaborators()
	require.NoError(t, err)
	require.Equal(t, res.Token, token)
	require.Equal(t, res.Registry, registry)

	t.Run("repeated", func(t *testing.T) {
		again, err := Deploy(ctx, deployPrm)
		require.NoError(t, err)
		require.Equal(t, res, again)
	})

	t.Run("deployed collaborators", func(t *testing.T) {
		prm := deployPrm
		prm.Token = CollaboratorPrm{Address: res.Token}
		prm.Registry = CollaboratorPrm{Address: res.Registry}

		again, err := Deploy(ctx, prm)
		require.NoError(t, err)
		require.Equal(t, res, again)
	})

	t.Run("unknown whitelist address", func(t *testing.T) {
		prm := deployPrm
		prm.WhitelistAddress = util.Uint160{1, 2, 3}

		_, err := Deploy(ctx, prm)
		require.ErrorContains(t, err, "missing on the chain")
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, ccancel := context.WithCancel(ctx)
		ccancel()

		_, err := Deploy(cctx, deployPrm)
		require.ErrorIs(t, err, context.Canceled)
	})
}
