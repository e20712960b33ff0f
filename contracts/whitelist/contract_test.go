package whitelist_test

import (
	"encoding/json"
	"math"
	"math/big"
	"path"
	"strings"
	"testing"

	"github.com/block-webdev/wlmint-contract/common"
	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
	"github.com/block-webdev/wlmint-contract/internal/chaintest"
	wlrpc "github.com/block-webdev/wlmint-contract/rpc/whitelist"
	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stretchr/testify/require"
)

const (
	whitelistPath   = "."
	collectiblePath = "../../internal/testcontracts/collectible"
	registryPath    = "../../internal/testcontracts/registry"
)

type testEnv struct {
	e *neotest.Executor

	hash     util.Uint160
	token    *neotest.ContractInvoker
	registry *neotest.ContractInvoker

	admin neotest.Signer
	// invoker of the whitelist contract signed by admin.
	inv *neotest.ContractInvoker
}

func compile(t *testing.T, e *neotest.Executor, dir string) *neotest.Contract {
	return neotest.CompileFile(t, e.CommitteeHash, dir, path.Join(dir, "config.yml"))
}

func newEnv(t *testing.T, initialized bool) *testEnv {
	e := chaintest.NewExecutor(t)

	token := compile(t, e, collectiblePath)
	e.DeployContract(t, token, nil)
	registry := compile(t, e, registryPath)
	e.DeployContract(t, registry, nil)

	admin := e.NewAccount(t)
	var adminArg any
	if initialized {
		adminArg = admin.ScriptHash()
	}

	wl := compile(t, e, whitelistPath)
	e.DeployContract(t, wl, []any{token.Hash, registry.Hash, adminArg})

	return &testEnv{
		e:        e,
		hash:     wl.Hash,
		token:    e.CommitteeInvoker(token.Hash),
		registry: e.CommitteeInvoker(registry.Hash),
		admin:    admin,
		inv:      e.NewInvoker(wl.Hash, admin),
	}
}

func (x *testEnv) config(t *testing.T) *wlrpc.Config {
	s, err := x.inv.TestInvoke(t, "globalConfig")
	require.NoError(t, err)
	var c wlrpc.Config
	require.NoError(t, c.FromStackItem(s.Pop().Item()))
	return &c
}

func (x *testEnv) placeholder(t *testing.T, contentID int) *wlrpc.MetadataPlaceholder {
	s, err := x.inv.TestInvoke(t, "placeholder", contentID)
	require.NoError(t, err)
	var p wlrpc.MetadataPlaceholder
	require.NoError(t, p.FromStackItem(s.Pop().Item()))
	return &p
}

func (x *testEnv) storageItem(t *testing.T, key []byte) []byte {
	return x.e.Chain.GetStorageItem(x.e.Chain.GetContractState(x.hash).ID, key)
}

func TestDeploy(t *testing.T) {
	t.Run("without admin", func(t *testing.T) {
		x := newEnv(t, false)
		x.inv.InvokeFail(t, wlconst.NotInitializedError, "globalConfig")
		x.inv.Invoke(t, common.Version, "version")

		s, err := x.inv.TestInvoke(t, "collaborators")
		require.NoError(t, err)
		hs := s.Pop().Array()
		require.Len(t, hs, 2)
		tokenHash, _ := hs[0].TryBytes()
		registryHash, _ := hs[1].TryBytes()
		require.Equal(t, x.token.Hash.BytesBE(), tokenHash)
		require.Equal(t, x.registry.Hash.BytesBE(), registryHash)
	})

	t.Run("with admin", func(t *testing.T) {
		x := newEnv(t, true)
		require.Equal(t, &wlrpc.Config{Admin: x.admin.ScriptHash()}, x.config(t))
	})

	t.Run("invalid collaborators", func(t *testing.T) {
		e := chaintest.NewExecutor(t)
		wl := compile(t, e, whitelistPath)
		e.DeployContractCheckFAULT(t, wl, []any{util.Uint160{}.BytesBE()[:10], util.Uint160{1}, nil},
			"incorrect collaborator contract hashes")
	})
}

func TestUpdate(t *testing.T) {
	x := newEnv(t, true)

	wl := compile(t, x.e, whitelistPath)
	bNEF, err := wl.NEF.Bytes()
	require.NoError(t, err)
	rawManifest, err := json.Marshal(wl.Manifest)
	require.NoError(t, err)

	x.inv.InvokeFail(t, "only committee can update contract", "update", bNEF, rawManifest, nil)
	x.e.CommitteeInvoker(x.hash).InvokeFail(t, common.ErrAlreadyUpdated, "update", bNEF, rawManifest, nil)
}

func TestInitialize(t *testing.T) {
	x := newEnv(t, false)
	adminHash := x.admin.ScriptHash()

	stranger := x.e.NewInvoker(x.hash, x.e.NewAccount(t))
	stranger.InvokeFail(t, common.ErrOwnerWitnessFailed, "initialize", adminHash)
	x.inv.InvokeFail(t, wlconst.InvalidAddressError, "initialize", []byte{1, 2, 3})

	h := x.inv.Invoke(t, stackitem.Null{}, "initialize", adminHash)
	requireEvent(t, x.e, h, "Initialized", stackitem.Make(adminHash.BytesBE()))
	require.Equal(t, &wlrpc.Config{Admin: adminHash}, x.config(t))

	x.inv.InvokeFail(t, wlconst.AlreadyInitializedError, "initialize", adminHash)

	// already initialized on deploy
	y := newEnv(t, true)
	y.inv.InvokeFail(t, wlconst.AlreadyInitializedError, "initialize", y.admin.ScriptHash())
}

func TestSetGlobalState(t *testing.T) {
	x := newEnv(t, true)

	stranger := x.e.NewInvoker(x.hash, x.e.NewAccount(t))
	stranger.InvokeFail(t, wlconst.NotAdminError, "setGlobalState", 0, 10, 100)
	require.Equal(t, &wlrpc.Config{Admin: x.admin.ScriptHash()}, x.config(t))

	x.inv.Invoke(t, stackitem.Null{}, "setGlobalState", 0, 10, 100)
	x.inv.Invoke(t, stackitem.Null{}, "setGlobalState", 1, 20, 200)
	// any non-zero index selects the general tier
	bigPrice := new(big.Int).Lsh(big.NewInt(1), 63)
	h := x.inv.Invoke(t, stackitem.Null{}, "setGlobalState", 7, 30, bigPrice)
	requireEvent(t, x.e, h, "GlobalStateSet", stackitem.Make(7), stackitem.Make(30), stackitem.Make(bigPrice))

	cfg := x.config(t)
	require.EqualValues(t, 10, cfg.Tier0Limit)
	require.EqualValues(t, 100, cfg.Tier0Price)
	require.EqualValues(t, 30, cfg.Tier1Limit)
	require.EqualValues(t, uint64(1)<<63, cfg.Tier1Price)

	x.inv.InvokeFail(t, common.ErrValueOutOfRange, "setGlobalState", 0, int64(1)<<32, 1)
	x.inv.InvokeFail(t, common.ErrValueOutOfRange, "setGlobalState", 0, -1, 1)
	require.Equal(t, cfg, x.config(t))
}

func TestSetCurrentTier(t *testing.T) {
	x := newEnv(t, true)

	stranger := x.e.NewInvoker(x.hash, x.e.NewAccount(t))
	stranger.InvokeFail(t, wlconst.NotAdminError, "setCurrentTier", wlconst.TierPublic)

	x.inv.Invoke(t, stackitem.Null{}, "setCurrentTier", wlconst.TierPublic)
	require.EqualValues(t, wlconst.TierPublic, x.config(t).CurrentTier)

	x.inv.Invoke(t, stackitem.Null{}, "setCurrentTier", 255)
	require.EqualValues(t, 255, x.config(t).CurrentTier)

	x.inv.InvokeFail(t, common.ErrValueOutOfRange, "setCurrentTier", 256)
	require.EqualValues(t, 255, x.config(t).CurrentTier)
}

func TestParticipants(t *testing.T) {
	x := newEnv(t, true)

	accs := []util.Uint160{
		x.e.NewAccount(t).ScriptHash(),
		x.e.NewAccount(t).ScriptHash(),
		x.e.NewAccount(t).ScriptHash(),
	}

	stranger := x.e.NewInvoker(x.hash, x.e.NewAccount(t))
	stranger.InvokeFail(t, wlconst.NotAdminError, "registerParticipant", accs[0], wlconst.TierPriority)

	for i, acc := range accs {
		x.inv.Invoke(t, stackitem.Null{}, "registerParticipant", acc, i)
	}
	require.EqualValues(t, 3, x.config(t).ParticipantCount)

	x.inv.InvokeFail(t, wlconst.ParticipantExistsError, "registerParticipant", accs[0], wlconst.TierGeneral)
	x.inv.InvokeFail(t, common.ErrValueOutOfRange, "registerParticipant", x.e.NewAccount(t).ScriptHash(), 256)
	require.EqualValues(t, 3, x.config(t).ParticipantCount)

	s, err := x.inv.TestInvoke(t, "participant", accs[1])
	require.NoError(t, err)
	var p wlrpc.ParticipantRecord
	require.NoError(t, p.FromStackItem(s.Pop().Item()))
	require.Equal(t, wlrpc.ParticipantRecord{Participant: accs[1], Tier: 1}, p)

	h := x.inv.Invoke(t, stackitem.Null{}, "deregisterParticipant", accs[1])
	requireEvent(t, x.e, h, "ParticipantDeregistered", stackitem.Make(accs[1].BytesBE()))
	require.EqualValues(t, 2, x.config(t).ParticipantCount)

	x.inv.InvokeFail(t, wlconst.ParticipantNotFoundError, "deregisterParticipant", accs[1])
	x.inv.InvokeFail(t, wlconst.ParticipantNotFoundError, "participant", accs[1])

	s, err = x.inv.TestInvoke(t, "participants")
	require.NoError(t, err)
	items := chaintest.IteratorToArray(s.Pop().Value().(*storage.Iterator))
	require.Len(t, items, 2)

	var live []util.Uint160
	for _, item := range items {
		b, err := item.TryBytes()
		require.NoError(t, err)
		rec, err := wlrpc.DecodeParticipant(b)
		require.NoError(t, err)
		live = append(live, rec.Participant)
	}
	require.ElementsMatch(t, []util.Uint160{accs[0], accs[2]}, live)
}

func TestPlaceholders(t *testing.T) {
	x := newEnv(t, true)

	stranger := x.e.NewInvoker(x.hash, x.e.NewAccount(t))
	stranger.InvokeFail(t, wlconst.NotAdminError, "registerMetadataPlaceholder", 1, "ipfs://a")

	x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 1, "ipfs://a")
	require.Equal(t, &wlrpc.MetadataPlaceholder{ContentID: 1, URI: "ipfs://a"}, x.placeholder(t, 1))
	require.EqualValues(t, 1, x.config(t).TotalMetadataCount)

	t.Run("duplicate", func(t *testing.T) {
		key := wlrpc.PlaceholderKey(x.hash, 1)
		before := x.storageItem(t, key)

		x.inv.InvokeFail(t, wlconst.PlaceholderExistsError, "registerMetadataPlaceholder", 1, "ipfs://b")
		require.Equal(t, before, x.storageItem(t, key))
		require.EqualValues(t, 1, x.config(t).TotalMetadataCount)
	})

	t.Run("uri capacity", func(t *testing.T) {
		x.inv.InvokeFail(t, wlconst.URITooLongError, "registerMetadataPlaceholder", 2,
			strings.Repeat("a", wlconst.URICapacity+1))
		require.Nil(t, x.storageItem(t, wlrpc.PlaceholderKey(x.hash, 2)))
		require.EqualValues(t, 1, x.config(t).TotalMetadataCount)

		full := strings.Repeat("b", wlconst.URICapacity)
		x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 2, full)
		require.Equal(t, full, x.placeholder(t, 2).URI)
	})

	t.Run("uri content", func(t *testing.T) {
		for i, uri := range []string{"ipfs://a\x00", "ar://\x00x", "ar://\xff\xfe"} {
			id := 100 + i
			x.inv.InvokeFail(t, wlconst.InvalidURIError, "registerMetadataPlaceholder", id, []byte(uri))
			require.Nil(t, x.storageItem(t, wlrpc.PlaceholderKey(x.hash, uint64(id))))
		}
		require.EqualValues(t, 2, x.config(t).TotalMetadataCount)

		x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 3, "ar://файл")
		require.Equal(t, "ar://файл", x.placeholder(t, 3).URI)
	})

	h := x.inv.Invoke(t, stackitem.Null{}, "deregisterMetadataPlaceholder", 1)
	requireEvent(t, x.e, h, "PlaceholderDeregistered", stackitem.Make(1))
	x.inv.InvokeFail(t, wlconst.PlaceholderNotFoundError, "placeholder", 1)
	x.inv.InvokeFail(t, wlconst.PlaceholderNotFoundError, "deregisterMetadataPlaceholder", 1)
	// lifetime counter
	require.EqualValues(t, 3, x.config(t).TotalMetadataCount)

	s, err := x.inv.TestInvoke(t, "placeholders")
	require.NoError(t, err)
	require.Len(t, chaintest.IteratorToArray(s.Pop().Value().(*storage.Iterator)), 2)
}

func TestMint(t *testing.T) {
	x := newEnv(t, true)

	const (
		contentID = 42
		uri       = "ipfs://bafybeigdyrzt5sfp7udm7hu76uh7y26nf3efuylqabf3oclgtqy55fbzdi"
	)
	tokenID := []byte("collectible-1")

	x.inv.Invoke(t, stackitem.Null{}, "setGlobalState", 0, 100, 5_0000_0000)
	x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", contentID, uri)

	participant, maker := x.e.NewAccount(t), x.e.NewAccount(t)
	pInv := x.e.NewInvoker(x.hash, participant, maker)

	// participant is not registered, tiers are not checked at mint time
	h := pInv.Invoke(t, stackitem.Null{}, "mint",
		participant.ScriptHash(), tokenID, contentID, maker.ScriptHash(), uri, "Collectible", "WLC")
	requireEvent(t, x.e, h, "Minted",
		stackitem.Make(participant.ScriptHash().BytesBE()), stackitem.Make(tokenID), stackitem.Make(contentID))

	x.token.Invoke(t, participant.ScriptHash().BytesBE(), "ownerOf", tokenID)
	x.token.Invoke(t, 1, "balanceOf", participant.ScriptHash())
	x.token.Invoke(t, 1, "totalSupply")
	x.registry.Invoke(t, 1, "metadataCount")
	x.registry.Invoke(t, 1, "editionCount")

	s, err := x.registry.TestInvoke(t, "getMetadata", tokenID)
	require.NoError(t, err)
	md := s.Pop().Array()
	authority, err := md[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, wlrpc.Authority(x.hash).BytesBE(), authority)

	creators := md[4].Value().([]stackitem.Item)
	require.Len(t, creators, 2)
	first := creators[0].Value().([]stackitem.Item)
	makerBytes, _ := first[0].TryBytes()
	require.Equal(t, maker.ScriptHash().BytesBE(), makerBytes)
	verified, _ := first[1].TryBool()
	require.True(t, verified)
	share, _ := first[2].TryInteger()
	require.EqualValues(t, 100, share.Int64())

	s, err = x.registry.TestInvoke(t, "getMasterEdition", tokenID)
	require.NoError(t, err)
	maxSupply, err := s.Pop().Array()[3].TryInteger()
	require.NoError(t, err)
	require.Zero(t, maxSupply.Sign())

	require.True(t, x.placeholder(t, contentID).Consumed)
	require.EqualValues(t, 1, x.config(t).MintedCount)

	t.Run("placeholder consumed", func(t *testing.T) {
		pInv.InvokeFail(t, wlconst.PlaceholderConsumedError, "mint",
			participant.ScriptHash(), []byte("collectible-2"), contentID, maker.ScriptHash(), uri, "Collectible", "WLC")
		x.token.Invoke(t, 1, "totalSupply")
		require.EqualValues(t, 1, x.config(t).MintedCount)
	})
}

func TestMintPreconditions(t *testing.T) {
	x := newEnv(t, true)
	x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 1, "ipfs://a")

	participant, maker := x.e.NewAccount(t), x.e.NewAccount(t)
	pInv := x.e.NewInvoker(x.hash, participant, maker)
	p, m := participant.ScriptHash(), maker.ScriptHash()

	pInv.InvokeFail(t, wlconst.InvalidURIError, "mint", p, []byte("t"), 1, m, "", "n", "s")
	pInv.InvokeFail(t, wlconst.InvalidTokenIDError, "mint", p, []byte{}, 1, m, "ipfs://a", "n", "s")
	pInv.InvokeFail(t, wlconst.InvalidAddressError, "mint", p, []byte("t"), 1, []byte{1}, "ipfs://a", "n", "s")
	pInv.InvokeFail(t, wlconst.PlaceholderNotFoundError, "mint", p, []byte("t"), 2, m, "ipfs://a", "n", "s")

	stranger := x.e.NewAccount(t)
	x.e.NewInvoker(x.hash, stranger).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"mint", p, []byte("t"), 1, m, "ipfs://a", "n", "s")

	t.Run("not initialized", func(t *testing.T) {
		y := newEnv(t, false)
		acc := y.e.NewAccount(t)
		y.e.NewInvoker(y.hash, acc).InvokeFail(t, wlconst.NotInitializedError,
			"mint", acc.ScriptHash(), []byte("t"), 1, acc.ScriptHash(), "ipfs://a", "n", "s")
	})
}

func TestMintAtomicity(t *testing.T) {
	x := newEnv(t, true)
	x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 1, "ipfs://a")

	participant, maker := x.e.NewAccount(t), x.e.NewAccount(t)
	p, m := participant.ScriptHash(), maker.ScriptHash()

	// maker doesn't sign, registry refuses verified creator after the token
	// has been minted
	x.e.NewInvoker(x.hash, participant).InvokeFail(t, "creator is not verified by signature",
		"mint", p, []byte("t"), 1, m, "ipfs://a", "n", "s")

	// name exceeds registry limit
	x.e.NewInvoker(x.hash, participant, maker).InvokeFail(t, "name too long",
		"mint", p, []byte("t"), 1, m, "ipfs://a", strings.Repeat("n", 33), "s")

	// participant can't be the maker, creator list would hold one account twice
	x.e.NewInvoker(x.hash, participant).InvokeFail(t, "duplicate creator",
		"mint", p, []byte("t"), 1, p, "ipfs://a", "n", "s")

	x.token.Invoke(t, 0, "totalSupply")
	x.token.Invoke(t, 0, "balanceOf", p)
	x.registry.Invoke(t, 0, "metadataCount")
	require.False(t, x.placeholder(t, 1).Consumed)
	require.Zero(t, x.config(t).MintedCount)
}

func TestAuthority(t *testing.T) {
	x := newEnv(t, true)

	x.inv.Invoke(t, wlrpc.Authority(x.hash).BytesBE(), "authority")

	// authority of the whitelist contract can't be used by anyone else
	acc := x.e.NewAccount(t)
	x.e.NewInvoker(x.registry.Hash, acc).InvokeFail(t, common.ErrInvalidAuthority, "createMetadata",
		wlrpc.Authority(x.hash), []byte(common.NFTCreatorSeed), []byte("t"), acc.ScriptHash(), acc.ScriptHash(), acc.ScriptHash(),
		[]any{[]any{acc.ScriptHash(), false, 100}}, "n", "s", "ipfs://a", true)
}

func TestStorageLayout(t *testing.T) {
	x := newEnv(t, true)

	acc := x.e.NewAccount(t).ScriptHash()
	x.inv.Invoke(t, stackitem.Null{}, "setGlobalState", 1, math.MaxUint32, new(big.Int).SetUint64(math.MaxUint64))
	x.inv.Invoke(t, stackitem.Null{}, "registerParticipant", acc, wlconst.TierGeneral)
	x.inv.Invoke(t, stackitem.Null{}, "registerMetadataPlaceholder", 7, "ipfs://layout")

	raw := x.storageItem(t, wlrpc.GlobalConfigKey(x.hash))
	require.Len(t, raw, wlconst.GlobalConfigSize)
	cfg, err := wlrpc.DecodeConfig(raw)
	require.NoError(t, err)
	require.Equal(t, x.config(t), cfg)
	require.EqualValues(t, uint64(math.MaxUint64), cfg.Tier1Price)

	expected, err := cfg.Bytes()
	require.NoError(t, err)
	require.Equal(t, expected, raw)

	raw = x.storageItem(t, wlrpc.ParticipantKey(x.hash, acc))
	require.Len(t, raw, wlconst.ParticipantSize)
	rec, err := wlrpc.DecodeParticipant(raw)
	require.NoError(t, err)
	require.Equal(t, &wlrpc.ParticipantRecord{Participant: acc, Tier: wlconst.TierGeneral}, rec)

	raw = x.storageItem(t, wlrpc.PlaceholderKey(x.hash, 7))
	require.Len(t, raw, wlconst.PlaceholderSize)
	ph, err := wlrpc.DecodePlaceholder(raw)
	require.NoError(t, err)
	require.Equal(t, x.placeholder(t, 7), ph)
}

func requireEvent(t *testing.T, e *neotest.Executor, h util.Uint256, name string, params ...stackitem.Item) {
	res := e.GetTxExecResult(t, h)
	for _, ev := range res.Events {
		if ev.Name == name {
			require.Equal(t, params, ev.Item.Value().([]stackitem.Item))
			return
		}
	}
	require.Failf(t, "missing notification", "event %s", name)
}
