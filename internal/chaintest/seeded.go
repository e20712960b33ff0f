package chaintest

import (
	"encoding/binary"
	"path/filepath"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/config"
	"github.com/nspcc-dev/neo-go/pkg/core/dao"
	"github.com/nspcc-dev/neo-go/pkg/core/native"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/core/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/stretchr/testify/require"
)

// seededContractID is the ID of the contract put into the chain by
// NewSeededContract.
const seededContractID = 1

// SeededContract is a contract living in the test chain with storage that
// could not be produced through its API. It is useful to reach states like
// counter bounds.
//
// SeededContract instances must be constructed using NewSeededContract.
type SeededContract struct {
	// Hash is the script hash of the contract.
	Hash util.Uint160
	// Admin is a funded account passed to the storage callback.
	Admin neotest.Signer

	exec *neotest.Executor
}

// SeededOptions groups various options of NewSeededContract.
type SeededOptions struct {
	// Path to the directory containing source code of the tested contract.
	SourceCodeDir string

	// Storage returns initial storage items of the contract. It receives the
	// contract hash and the admin account since storage keys and values
	// usually depend on them.
	Storage func(contract util.Uint160, admin util.Uint160) map[string][]byte
}

// NewSeededContract compiles the contract, puts it directly into the chain
// state together with the storage returned by opts.Storage and starts the
// chain. Contract's _deploy is not executed.
func NewSeededContract(tb testing.TB, opts SeededOptions) *SeededContract {
	useDefaultConfig := func(*config.Blockchain) {}

	// neotest caches compiled contracts by path, so the contract is compiled
	// for the same sender other tests of the package deploy it from.
	committee := committeeHash(tb)
	ctr := neotest.CompileFile(tb, committee, opts.SourceCodeDir, filepath.Join(opts.SourceCodeDir, "config.yml"))

	adminAcc, err := wallet.NewAccount()
	require.NoError(tb, err)
	admin := neotest.NewSingleSigner(adminAcc)

	lowLevelStore := storage.NewMemoryStore()
	cachedStore := storage.NewMemCachedStore(lowLevelStore) // mem-cached store has sweeter interface
	_dao := dao.NewSimple(lowLevelStore, false)

	nativeContracts := native.NewContracts(config.ProtocolConfiguration{})

	err = nativeContracts.Management.InitializeCache(0, _dao)
	require.NoError(tb, err)

	err = native.PutContractState(_dao, &state.Contract{
		ContractBase: state.ContractBase{
			ID:       seededContractID,
			Hash:     ctr.Hash,
			NEF:      *ctr.NEF,
			Manifest: *ctr.Manifest,
		},
	})
	require.NoError(tb, err)

	if opts.Storage != nil {
		for key, value := range opts.Storage(ctr.Hash, admin.ScriptHash()) {
			storageKey := make([]byte, 5+len(key))
			storageKey[0] = byte(_dao.Version.StoragePrefix)
			binary.LittleEndian.PutUint32(storageKey[1:], uint32(seededContractID))
			copy(storageKey[5:], key)

			cachedStore.Put(storageKey, value)
		}
	}

	_, err = _dao.PersistSync()
	require.NoError(tb, err)

	_, err = cachedStore.PersistSync()
	require.NoError(tb, err)

	{ // contracts put into the store are not visible unless the blockchain is
		// run twice, see neo-go#2926. Close is overridden to keep the storage.
		blockChain, _ := chain.NewSingleWithCustomConfigAndStore(tb, useDefaultConfig, nopCloseStore{lowLevelStore}, false)
		go blockChain.Run()
		blockChain.Close()
	}

	blockChain, validator := chain.NewSingleWithCustomConfigAndStore(tb, useDefaultConfig, lowLevelStore, true)
	exec := neotest.NewExecutor(tb, blockChain, validator, validator)
	require.Equal(tb, committee, exec.CommitteeHash)

	exec.ValidatorInvoker(exec.NativeHash(tb, nativenames.Gas)).Invoke(tb, true, "transfer",
		exec.Validator.ScriptHash(), admin.ScriptHash(), int64(100_0000_0000), nil)

	return &SeededContract{
		Hash:  ctr.Hash,
		Admin: admin,
		exec:  exec,
	}
}

// committeeHash returns the committee account of the single-node test chains
// NewExecutor produces.
func committeeHash(tb testing.TB) util.Uint160 {
	bc, committee := chain.NewSingleWithCustomConfigAndStore(tb, func(*config.Blockchain) {}, storage.NewMemoryStore(), false)
	go bc.Run()
	bc.Close()
	return committee.ScriptHash()
}

// AdminInvoker returns invoker of the contract signed by the admin account.
func (x *SeededContract) AdminInvoker() *neotest.ContractInvoker {
	return x.exec.NewInvoker(x.Hash, x.Admin)
}

// GetStorageItem returns value stored in the contract by key.
func (x *SeededContract) GetStorageItem(key []byte) []byte {
	return x.exec.Chain.GetStorageItem(seededContractID, key)
}

// inheritor of storage.Store canceling Close method.
type nopCloseStore struct {
	storage.Store
}

func (x nopCloseStore) Close() error {
	return nil
}
