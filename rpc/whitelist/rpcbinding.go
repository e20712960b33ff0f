// Package whitelist contains RPC wrappers for Whitelist Mint contract.
package whitelist

import (
	"errors"
	"fmt"
	"math/big"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// MintedEvent represents "Minted" event emitted by the contract.
type MintedEvent struct {
	Participant util.Uint160
	TokenID     []byte
	ContentID   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Hash returns hash of the contract.
func (c *ContractReader) Hash() util.Uint160 {
	return c.hash
}

// GlobalConfig invokes `globalConfig` method of contract.
func (c *ContractReader) GlobalConfig() (*Config, error) {
	return itemToConfig(unwrap.Item(c.invoker.Call(c.hash, "globalConfig")))
}

// Participant invokes `participant` method of contract.
func (c *ContractReader) Participant(participant util.Uint160) (*ParticipantRecord, error) {
	return itemToParticipantRecord(unwrap.Item(c.invoker.Call(c.hash, "participant", participant)))
}

// Placeholder invokes `placeholder` method of contract.
func (c *ContractReader) Placeholder(contentID uint64) (*MetadataPlaceholder, error) {
	return itemToMetadataPlaceholder(unwrap.Item(c.invoker.Call(c.hash, "placeholder", contentID)))
}

// Participants invokes `participants` method of contract. Iterator values
// are packed records, see [DecodeParticipant].
func (c *ContractReader) Participants() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "participants"))
}

// ParticipantsExpanded is similar to Participants (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ParticipantsExpanded(_numOfIteratorItems int) ([]*ParticipantRecord, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "participants", _numOfIteratorItems))
	if err != nil {
		return nil, err
	}
	res := make([]*ParticipantRecord, len(items))
	for i := range items {
		res[i], err = packedItem(items[i], DecodeParticipant)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// Placeholders invokes `placeholders` method of contract. Iterator values
// are packed records, see [DecodePlaceholder].
func (c *ContractReader) Placeholders() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "placeholders"))
}

// PlaceholdersExpanded is similar to Placeholders (uses the same contract
// method), but expands the iterator right in the VM, see ParticipantsExpanded.
func (c *ContractReader) PlaceholdersExpanded(_numOfIteratorItems int) ([]*MetadataPlaceholder, error) {
	items, err := unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "placeholders", _numOfIteratorItems))
	if err != nil {
		return nil, err
	}
	res := make([]*MetadataPlaceholder, len(items))
	for i := range items {
		res[i], err = packedItem(items[i], DecodePlaceholder)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// Authority invokes `authority` method of contract.
func (c *ContractReader) Authority() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "authority"))
}

// Collaborators invokes `collaborators` method of contract. It returns
// token and registry contract hashes.
func (c *ContractReader) Collaborators() (util.Uint160, util.Uint160, error) {
	hs, err := unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "collaborators"))
	if err != nil {
		return util.Uint160{}, util.Uint160{}, err
	}
	if len(hs) != 2 {
		return util.Uint160{}, util.Uint160{}, fmt.Errorf("unexpected number of collaborators: %d", len(hs))
	}
	return hs[0], hs[1], nil
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Initialize creates a transaction invoking `initialize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Initialize(admin util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "initialize", admin)
}

// InitializeTransaction creates a transaction invoking `initialize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) InitializeTransaction(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "initialize", admin)
}

// InitializeUnsigned creates a transaction invoking `initialize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) InitializeUnsigned(admin util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "initialize", nil, admin)
}

// SetGlobalState creates a transaction invoking `setGlobalState` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetGlobalState(tierIndex uint8, limit uint32, price uint64) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setGlobalState", tierIndex, limit, price)
}

// SetGlobalStateTransaction creates a transaction invoking `setGlobalState` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetGlobalStateTransaction(tierIndex uint8, limit uint32, price uint64) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setGlobalState", tierIndex, limit, price)
}

// SetGlobalStateUnsigned creates a transaction invoking `setGlobalState` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetGlobalStateUnsigned(tierIndex uint8, limit uint32, price uint64) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setGlobalState", nil, tierIndex, limit, price)
}

// SetCurrentTier creates a transaction invoking `setCurrentTier` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetCurrentTier(tierIndex uint8) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setCurrentTier", tierIndex)
}

// SetCurrentTierTransaction creates a transaction invoking `setCurrentTier` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetCurrentTierTransaction(tierIndex uint8) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setCurrentTier", tierIndex)
}

// SetCurrentTierUnsigned creates a transaction invoking `setCurrentTier` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetCurrentTierUnsigned(tierIndex uint8) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setCurrentTier", nil, tierIndex)
}

// RegisterParticipant creates a transaction invoking `registerParticipant` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterParticipant(participant util.Uint160, tier uint8) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerParticipant", participant, tier)
}

// RegisterParticipantTransaction creates a transaction invoking `registerParticipant` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterParticipantTransaction(participant util.Uint160, tier uint8) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerParticipant", participant, tier)
}

// RegisterParticipantUnsigned creates a transaction invoking `registerParticipant` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterParticipantUnsigned(participant util.Uint160, tier uint8) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerParticipant", nil, participant, tier)
}

// DeregisterParticipant creates a transaction invoking `deregisterParticipant` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeregisterParticipant(participant util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deregisterParticipant", participant)
}

// DeregisterParticipantTransaction creates a transaction invoking `deregisterParticipant` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeregisterParticipantTransaction(participant util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deregisterParticipant", participant)
}

// DeregisterParticipantUnsigned creates a transaction invoking `deregisterParticipant` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeregisterParticipantUnsigned(participant util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deregisterParticipant", nil, participant)
}

// RegisterMetadataPlaceholder creates a transaction invoking `registerMetadataPlaceholder` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RegisterMetadataPlaceholder(contentID uint64, uri string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "registerMetadataPlaceholder", contentID, uri)
}

// RegisterMetadataPlaceholderTransaction creates a transaction invoking `registerMetadataPlaceholder` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterMetadataPlaceholderTransaction(contentID uint64, uri string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "registerMetadataPlaceholder", contentID, uri)
}

// RegisterMetadataPlaceholderUnsigned creates a transaction invoking `registerMetadataPlaceholder` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterMetadataPlaceholderUnsigned(contentID uint64, uri string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "registerMetadataPlaceholder", nil, contentID, uri)
}

// DeregisterMetadataPlaceholder creates a transaction invoking `deregisterMetadataPlaceholder` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) DeregisterMetadataPlaceholder(contentID uint64) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deregisterMetadataPlaceholder", contentID)
}

// DeregisterMetadataPlaceholderTransaction creates a transaction invoking `deregisterMetadataPlaceholder` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DeregisterMetadataPlaceholderTransaction(contentID uint64) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deregisterMetadataPlaceholder", contentID)
}

// DeregisterMetadataPlaceholderUnsigned creates a transaction invoking `deregisterMetadataPlaceholder` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DeregisterMetadataPlaceholderUnsigned(contentID uint64) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deregisterMetadataPlaceholder", nil, contentID)
}

// Mint creates a transaction invoking `mint` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Mint(participant util.Uint160, tokenID []byte, contentID uint64, maker util.Uint160, uri string, name string, symbol string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "mint", participant, tokenID, contentID, maker, uri, name, symbol)
}

// MintTransaction creates a transaction invoking `mint` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) MintTransaction(participant util.Uint160, tokenID []byte, contentID uint64, maker util.Uint160, uri string, name string, symbol string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "mint", participant, tokenID, contentID, maker, uri, name, symbol)
}

// MintUnsigned creates a transaction invoking `mint` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) MintUnsigned(participant util.Uint160, tokenID []byte, contentID uint64, maker util.Uint160, uri string, name string, symbol string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "mint", nil, participant, tokenID, contentID, maker, uri, name, symbol)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(script []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", script, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", script, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(script []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, script, manifest, data)
}

// itemToConfig converts stack item into *Config.
func itemToConfig(item stackitem.Item, err error) (*Config, error) {
	if err != nil {
		return nil, err
	}
	var res = new(Config)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of Config from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *Config) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 9)
	if err != nil {
		return err
	}

	res.Admin, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Admin: %w", err)
	}

	counters := []*uint32{&res.ParticipantCount, &res.TotalMetadataCount, &res.MintedCount, &res.Tier0Limit}
	for i, dst := range counters {
		v, err := itemToUint(arr[1+i], 32)
		if err != nil {
			return fmt.Errorf("field #%d: %w", 1+i, err)
		}
		*dst = uint32(v)
	}

	res.Tier0Price, err = itemToUint(arr[5], 64)
	if err != nil {
		return fmt.Errorf("field Tier0Price: %w", err)
	}

	v, err := itemToUint(arr[6], 32)
	if err != nil {
		return fmt.Errorf("field Tier1Limit: %w", err)
	}
	res.Tier1Limit = uint32(v)

	res.Tier1Price, err = itemToUint(arr[7], 64)
	if err != nil {
		return fmt.Errorf("field Tier1Price: %w", err)
	}

	v, err = itemToUint(arr[8], 8)
	if err != nil {
		return fmt.Errorf("field CurrentTier: %w", err)
	}
	res.CurrentTier = uint8(v)

	return nil
}

// itemToParticipantRecord converts stack item into *ParticipantRecord.
func itemToParticipantRecord(item stackitem.Item, err error) (*ParticipantRecord, error) {
	if err != nil {
		return nil, err
	}
	var res = new(ParticipantRecord)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of ParticipantRecord from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *ParticipantRecord) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 2)
	if err != nil {
		return err
	}

	res.Participant, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Participant: %w", err)
	}

	v, err := itemToUint(arr[1], 8)
	if err != nil {
		return fmt.Errorf("field Tier: %w", err)
	}
	res.Tier = uint8(v)

	return nil
}

// itemToMetadataPlaceholder converts stack item into *MetadataPlaceholder.
func itemToMetadataPlaceholder(item stackitem.Item, err error) (*MetadataPlaceholder, error) {
	if err != nil {
		return nil, err
	}
	var res = new(MetadataPlaceholder)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of MetadataPlaceholder from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *MetadataPlaceholder) FromStackItem(item stackitem.Item) error {
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	res.ContentID, err = itemToUint(arr[0], 64)
	if err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}

	res.Consumed, err = arr[1].TryBool()
	if err != nil {
		return fmt.Errorf("field Consumed: %w", err)
	}

	b, err := arr[2].TryBytes()
	if err != nil {
		return fmt.Errorf("field URI: %w", err)
	}
	if !utf8.Valid(b) {
		return errors.New("field URI: not a UTF-8 string")
	}
	res.URI = string(b)

	return nil
}

// MintedEventsFromApplicationLog retrieves a set of all emitted events
// with "Minted" name from the provided [result.ApplicationLog].
func MintedEventsFromApplicationLog(log *result.ApplicationLog) ([]*MintedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*MintedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Minted" {
				continue
			}
			event := new(MintedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize MintedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to MintedEvent or
// returns an error if it's not possible to do to so.
func (e *MintedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, err := structFields(item, 3)
	if err != nil {
		return err
	}

	e.Participant, err = itemToUint160(arr[0])
	if err != nil {
		return fmt.Errorf("field Participant: %w", err)
	}

	e.TokenID, err = arr[1].TryBytes()
	if err != nil {
		return fmt.Errorf("field TokenID: %w", err)
	}

	e.ContentID, err = arr[2].TryInteger()
	if err != nil {
		return fmt.Errorf("field ContentID: %w", err)
	}

	return nil
}

func structFields(item stackitem.Item, n int) ([]stackitem.Item, error) {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	if len(arr) != n {
		return nil, errors.New("wrong number of structure elements")
	}
	return arr, nil
}

func itemToUint160(item stackitem.Item) (util.Uint160, error) {
	b, err := item.TryBytes()
	if err != nil {
		return util.Uint160{}, err
	}
	return util.Uint160DecodeBytesBE(b)
}

func itemToUint(item stackitem.Item, bits int) (uint64, error) {
	n, err := item.TryInteger()
	if err != nil {
		return 0, err
	}
	if n.Sign() < 0 || n.BitLen() > bits {
		return 0, fmt.Errorf("value %s doesn't fit %d bits", n, bits)
	}
	return n.Uint64(), nil
}

func packedItem[T any](item stackitem.Item, decode func([]byte) (*T, error)) (*T, error) {
	b, err := item.TryBytes()
	if err != nil {
		return nil, err
	}
	return decode(b)
}
