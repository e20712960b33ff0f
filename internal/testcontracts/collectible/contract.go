// Package collectible implements a minimal NEP-11 styled token used as the
// collectible token collaborator of the whitelist contract in tests.
package collectible

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

const (
	prefixTotalSupply  = 0x00
	prefixBalance      = 0x01
	prefixAccountToken = 0x02
	prefixOwner        = 0x03
)

// TokenState is stored under the owner key of each token.
type TokenState struct {
	Owner interop.Hash160
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	storage.Put(storage.GetContext(), []byte{prefixTotalSupply}, 0)
}

func Symbol() string {
	return "WLC"
}

func Decimals() int {
	return 0
}

func TotalSupply() int {
	return storage.Get(storage.GetReadOnlyContext(), []byte{prefixTotalSupply}).(int)
}

// Mint creates a unique token owned by to. Authority must witness the
// invocation and amount must be exactly one.
func Mint(tokenID []byte, to interop.Hash160, authority interop.Hash160, amount int) {
	if amount != 1 {
		panic("invalid amount")
	}
	if len(tokenID) == 0 {
		panic("invalid token id")
	}
	if !isValid(to) {
		panic("invalid receiver")
	}
	if !runtime.CheckWitness(authority) {
		panic("mint authority is not witnessed")
	}

	ctx := storage.GetContext()
	ownerKey := append([]byte{prefixOwner}, getTokenKey(tokenID)...)
	if storage.Get(ctx, ownerKey) != nil {
		panic("token already exists")
	}
	putTokenState(ctx, tokenID, TokenState{Owner: to})
	updateBalance(ctx, tokenID, to, +1)

	ts := storage.Get(ctx, []byte{prefixTotalSupply}).(int)
	storage.Put(ctx, []byte{prefixTotalSupply}, ts+1)

	postTransfer(nil, to, tokenID, nil)
}

// OwnerOf returns owner of the token. It panics if the token does not exist.
func OwnerOf(tokenID []byte) interop.Hash160 {
	ts := getTokenState(storage.GetReadOnlyContext(), tokenID)
	return ts.Owner
}

func BalanceOf(owner interop.Hash160) int {
	if !isValid(owner) {
		panic("invalid owner")
	}
	b := storage.Get(storage.GetReadOnlyContext(), append([]byte{prefixBalance}, owner...))
	if b == nil {
		return 0
	}
	return b.(int)
}

func TokensOf(owner interop.Hash160) iterator.Iterator {
	if !isValid(owner) {
		panic("invalid owner")
	}
	ctx := storage.GetReadOnlyContext()
	key := append([]byte{prefixAccountToken}, owner...)
	return storage.Find(ctx, key, storage.ValuesOnly)
}

func Transfer(to interop.Hash160, tokenID []byte, data any) bool {
	if !isValid(to) {
		panic("invalid receiver")
	}
	ctx := storage.GetContext()
	ts := getTokenState(ctx, tokenID)
	from := ts.Owner
	if !runtime.CheckWitness(from) {
		return false
	}
	if !util.Equals(from, to) {
		putTokenState(ctx, tokenID, TokenState{Owner: to})
		updateBalance(ctx, tokenID, from, -1)
		updateBalance(ctx, tokenID, to, +1)
	}
	postTransfer(from, to, tokenID, data)
	return true
}

func updateBalance(ctx storage.Context, tokenID []byte, acc interop.Hash160, diff int) {
	balanceKey := append([]byte{prefixBalance}, acc...)
	var balance int
	if b := storage.Get(ctx, balanceKey); b != nil {
		balance = b.(int)
	}
	balance = balance + diff
	if balance == 0 {
		storage.Delete(ctx, balanceKey)
	} else {
		storage.Put(ctx, balanceKey, balance)
	}

	accountTokenKey := append(append([]byte{prefixAccountToken}, acc...), getTokenKey(tokenID)...)
	if diff < 0 {
		storage.Delete(ctx, accountTokenKey)
	} else {
		storage.Put(ctx, accountTokenKey, tokenID)
	}
}

func postTransfer(from, to interop.Hash160, tokenID []byte, data any) {
	runtime.Notify("Transfer", from, to, 1, tokenID)
	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP11Payment", contract.All, from, 1, tokenID, data)
	}
}

func getTokenState(ctx storage.Context, tokenID []byte) TokenState {
	b := storage.Get(ctx, append([]byte{prefixOwner}, getTokenKey(tokenID)...))
	if b == nil {
		panic("token not found")
	}
	return std.Deserialize(b.([]byte)).(TokenState)
}

func putTokenState(ctx storage.Context, tokenID []byte, ts TokenState) {
	storage.Put(ctx, append([]byte{prefixOwner}, getTokenKey(tokenID)...), std.Serialize(ts))
}

func getTokenKey(tokenID []byte) []byte {
	return crypto.Ripemd160(tokenID)
}

func isValid(address interop.Hash160) bool {
	return address != nil && len(address) == interop.Hash160Len
}
