package whitelist

import (
	"github.com/block-webdev/wlmint-contract/common"
	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// Creator is an entry of the creator list attached to every minted unit.
type Creator struct {
	Address  interop.Hash160
	Verified bool
	Share    int
}

const (
	tokenContractKey    = "token"
	registryContractKey = "registry"

	maxCounter = 0xFFFFFFFF
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		token    interop.Hash160
		registry interop.Hash160
		admin    interop.Hash160
	})

	if !common.IsValidHash160(args.token) || !common.IsValidHash160(args.registry) {
		panic("incorrect collaborator contract hashes")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, tokenContractKey, args.token)
	storage.Put(ctx, registryContractKey, args.registry)

	if args.admin != nil {
		if !common.IsValidHash160(args.admin) {
			panic(wlconst.InvalidAddressError)
		}
		initialize(ctx, args.admin)
	}

	runtime.Log("whitelist contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(script []byte, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, script, manifest, common.AppendVersion(data))
	runtime.Log("whitelist contract updated")
}

// Initialize creates the global configuration with the given admin. The
// admin must witness the invocation. It panics if the configuration already
// exists.
func Initialize(admin interop.Hash160) {
	if !common.IsValidHash160(admin) {
		panic(wlconst.InvalidAddressError)
	}
	common.CheckOwnerWitness(admin)

	initialize(storage.GetContext(), admin)
}

// SetGlobalState sets supply limit and price of the tier. Zero tier index
// selects the priority tier, any other value selects the general one.
// Limit must fit 32 bits and price 64 bits.
func SetGlobalState(tierIndex int, limit int, price int) {
	ctx := storage.GetContext()
	key := common.GlobalConfigKey(runtime.GetExecutingScriptHash())
	cfg := getConfig(ctx, key)
	checkAdmin(cfg)

	if tierIndex == wlconst.TierPriority {
		cfg.Tier0Limit = limit
		cfg.Tier0Price = price
	} else {
		cfg.Tier1Limit = limit
		cfg.Tier1Price = price
	}
	putConfig(ctx, key, cfg)

	runtime.Notify("GlobalStateSet", tierIndex, limit, price)
}

// SetCurrentTier switches the active tier. Any value fitting one byte is
// accepted.
func SetCurrentTier(tierIndex int) {
	ctx := storage.GetContext()
	key := common.GlobalConfigKey(runtime.GetExecutingScriptHash())
	cfg := getConfig(ctx, key)
	checkAdmin(cfg)

	cfg.CurrentTier = tierIndex
	putConfig(ctx, key, cfg)

	runtime.Notify("CurrentTierSet", tierIndex)
}

// RegisterParticipant makes the participant eligible under the tier.
func RegisterParticipant(participant interop.Hash160, tier int) {
	if !common.IsValidHash160(participant) {
		panic(wlconst.InvalidAddressError)
	}

	ctx := storage.GetContext()
	program := runtime.GetExecutingScriptHash()
	cfgKey := common.GlobalConfigKey(program)
	cfg := getConfig(ctx, cfgKey)
	checkAdmin(cfg)

	key := common.ParticipantKey(participant, program)
	if common.Exists(ctx, key) {
		panic(wlconst.ParticipantExistsError)
	}
	if cfg.ParticipantCount >= maxCounter {
		panic(wlconst.CounterOverflowError)
	}

	storage.Put(ctx, key, encodeParticipant(ParticipantRecord{
		Participant: participant,
		Tier:        tier,
	}))
	cfg.ParticipantCount = cfg.ParticipantCount + 1
	putConfig(ctx, cfgKey, cfg)

	runtime.Notify("ParticipantRegistered", participant, tier)
}

// DeregisterParticipant removes the participant record.
func DeregisterParticipant(participant interop.Hash160) {
	if !common.IsValidHash160(participant) {
		panic(wlconst.InvalidAddressError)
	}

	ctx := storage.GetContext()
	program := runtime.GetExecutingScriptHash()
	cfgKey := common.GlobalConfigKey(program)
	cfg := getConfig(ctx, cfgKey)
	checkAdmin(cfg)

	key := common.ParticipantKey(participant, program)
	if !common.Exists(ctx, key) {
		panic(wlconst.ParticipantNotFoundError)
	}
	if cfg.ParticipantCount == 0 {
		panic(wlconst.CounterUnderflowError)
	}

	storage.Delete(ctx, key)
	cfg.ParticipantCount = cfg.ParticipantCount - 1
	putConfig(ctx, cfgKey, cfg)

	runtime.Notify("ParticipantDeregistered", participant)
}

// RegisterMetadataPlaceholder reserves the content URI under the content ID.
// URI longer than wlconst.URICapacity bytes is rejected, as well as URI that
// is not UTF-8 or carries zero bytes the buffer padding would swallow.
func RegisterMetadataPlaceholder(contentID int, uri string) {
	ctx := storage.GetContext()
	program := runtime.GetExecutingScriptHash()
	cfgKey := common.GlobalConfigKey(program)
	cfg := getConfig(ctx, cfgKey)
	checkAdmin(cfg)

	if len(uri) > wlconst.URICapacity {
		panic(wlconst.URITooLongError)
	}
	if !common.IsPaddableString(uri) {
		panic(wlconst.InvalidURIError)
	}

	key := common.PlaceholderKey(contentID, program)
	if common.Exists(ctx, key) {
		panic(wlconst.PlaceholderExistsError)
	}
	if cfg.TotalMetadataCount >= maxCounter {
		panic(wlconst.CounterOverflowError)
	}

	storage.Put(ctx, key, encodePlaceholder(MetadataPlaceholder{
		ContentID: contentID,
		URI:       uri,
	}))
	cfg.TotalMetadataCount = cfg.TotalMetadataCount + 1
	putConfig(ctx, cfgKey, cfg)

	runtime.Notify("PlaceholderRegistered", contentID)
}

// DeregisterMetadataPlaceholder removes the placeholder. Total metadata
// counter is kept as is.
func DeregisterMetadataPlaceholder(contentID int) {
	ctx := storage.GetContext()
	program := runtime.GetExecutingScriptHash()
	checkAdmin(getConfig(ctx, common.GlobalConfigKey(program)))

	key := common.PlaceholderKey(contentID, program)
	if !common.Exists(ctx, key) {
		panic(wlconst.PlaceholderNotFoundError)
	}
	storage.Delete(ctx, key)

	runtime.Notify("PlaceholderDeregistered", contentID)
}

// Mint mints the token to the participant, attaches descriptive metadata and
// a master edition with zero max supply under the contract authority, then
// consumes the placeholder. The participant must witness the invocation.
//
// Participant tier and tier limits are not checked here.
func Mint(participant interop.Hash160, tokenID []byte, contentID int, maker interop.Hash160,
	uri string, name string, symbol string) {
	if len(uri) == 0 {
		panic(wlconst.InvalidURIError)
	}
	if len(tokenID) == 0 {
		panic(wlconst.InvalidTokenIDError)
	}
	if !common.IsValidHash160(participant) || !common.IsValidHash160(maker) {
		panic(wlconst.InvalidAddressError)
	}
	common.CheckOwnerWitness(participant)

	ctx := storage.GetContext()
	program := runtime.GetExecutingScriptHash()
	cfgKey := common.GlobalConfigKey(program)
	cfg := getConfig(ctx, cfgKey)

	phKey := common.PlaceholderKey(contentID, program)
	ph := getPlaceholder(ctx, phKey)
	if ph.Consumed {
		panic(wlconst.PlaceholderConsumedError)
	}
	if cfg.MintedCount >= maxCounter {
		panic(wlconst.CounterOverflowError)
	}

	token := storage.Get(ctx, tokenContractKey).(interop.Hash160)
	registry := storage.Get(ctx, registryContractKey).(interop.Hash160)

	contract.Call(token, "mint", contract.All, tokenID, participant, participant, 1)

	auth := common.DeriveAuthority(program)
	creators := []Creator{
		{Address: maker, Verified: true, Share: 100},
		{Address: participant, Verified: false, Share: 0},
	}
	contract.Call(registry, "createMetadata", contract.All,
		auth.Account, auth.Seed, tokenID, participant, participant, maker,
		creators, name, symbol, uri, true)
	contract.Call(registry, "createMasterEdition", contract.All,
		auth.Account, auth.Seed, tokenID, maker, participant, participant, 0)

	ph.Consumed = true
	storage.Put(ctx, phKey, encodePlaceholder(ph))
	cfg.MintedCount = cfg.MintedCount + 1
	putConfig(ctx, cfgKey, cfg)

	runtime.Notify("Minted", participant, tokenID, contentID)
}

// GlobalConfig returns the global configuration.
func GlobalConfig() Config {
	ctx := storage.GetReadOnlyContext()
	return getConfig(ctx, common.GlobalConfigKey(runtime.GetExecutingScriptHash()))
}

// Participant returns the record of the participant. It panics if the
// participant is not registered.
func Participant(participant interop.Hash160) ParticipantRecord {
	if !common.IsValidHash160(participant) {
		panic(wlconst.InvalidAddressError)
	}
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, common.ParticipantKey(participant, runtime.GetExecutingScriptHash()))
	if data == nil {
		panic(wlconst.ParticipantNotFoundError)
	}
	return decodeParticipant(data.([]byte))
}

// Placeholder returns the metadata placeholder with the content ID.
func Placeholder(contentID int) MetadataPlaceholder {
	ctx := storage.GetReadOnlyContext()
	return getPlaceholder(ctx, common.PlaceholderKey(contentID, runtime.GetExecutingScriptHash()))
}

// Participants returns iterator over packed participant records.
func Participants() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{common.ParticipantPrefix}, storage.ValuesOnly)
}

// Placeholders returns iterator over packed metadata placeholders.
func Placeholders() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{common.PlaceholderPrefix}, storage.ValuesOnly)
}

// Authority returns the account the contract signs registry writes with.
func Authority() interop.Hash160 {
	return common.DeriveAuthority(runtime.GetExecutingScriptHash()).Account
}

// Collaborators returns hashes of the token and registry contracts.
func Collaborators() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return []interop.Hash160{
		storage.Get(ctx, tokenContractKey).(interop.Hash160),
		storage.Get(ctx, registryContractKey).(interop.Hash160),
	}
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func initialize(ctx storage.Context, admin interop.Hash160) {
	key := common.GlobalConfigKey(runtime.GetExecutingScriptHash())
	if common.Exists(ctx, key) {
		panic(wlconst.AlreadyInitializedError)
	}
	putConfig(ctx, key, Config{Admin: admin})

	runtime.Notify("Initialized", admin)
}

func checkAdmin(cfg Config) {
	if !runtime.CheckWitness(cfg.Admin) {
		panic(wlconst.NotAdminError)
	}
}

func getConfig(ctx storage.Context, key []byte) Config {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(wlconst.NotInitializedError)
	}
	return decodeConfig(data.([]byte))
}

func putConfig(ctx storage.Context, key []byte, cfg Config) {
	storage.Put(ctx, key, encodeConfig(cfg))
}

func getPlaceholder(ctx storage.Context, key []byte) MetadataPlaceholder {
	data := storage.Get(ctx, key)
	if data == nil {
		panic(wlconst.PlaceholderNotFoundError)
	}
	return decodePlaceholder(data.([]byte))
}
