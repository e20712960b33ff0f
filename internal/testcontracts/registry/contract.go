// Package registry implements a descriptive metadata registry used as the
// collaborator of the whitelist contract in tests. Records are written on
// behalf of the calling contract which proves its authority with a derived
// account and seed.
package registry

import (
	"github.com/block-webdev/wlmint-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

type (
	Creator struct {
		Address  interop.Hash160
		Verified bool
		Share    int
	}

	Metadata struct {
		Authority       interop.Hash160
		MintAuthority   interop.Hash160
		Payer           interop.Hash160
		UpdateAuthority interop.Hash160
		Creators        []Creator
		Name            string
		Symbol          string
		URI             string
		IsMutable       bool
	}

	MasterEdition struct {
		UpdateAuthority interop.Hash160
		MintAuthority   interop.Hash160
		Payer           interop.Hash160
		MaxSupply       int
		Supply          int
	}
)

const (
	maxNameLength   = 32
	maxSymbolLength = 10
	maxURILength    = 200

	metadataPrefix     = 'm'
	editionPrefix      = 'e'
	metadataCountKey   = "metadataCount"
	editionCountKey    = "editionCount"
	errMetadataMissing = "metadata not found"
)

// CreateMetadata stores descriptive metadata of the token.
func CreateMetadata(authority interop.Hash160, seed []byte, tokenID []byte,
	mintAuthority interop.Hash160, payer interop.Hash160, updateAuthority interop.Hash160,
	creators []Creator, name string, symbol string, uri string, isMutable bool) {
	common.CheckAuthority(authority, seed, runtime.GetCallingScriptHash())

	if len(name) > maxNameLength {
		panic("name too long")
	}
	if len(symbol) > maxSymbolLength {
		panic("symbol too long")
	}
	if len(uri) > maxURILength {
		panic("uri too long")
	}

	shares := 0
	for i := range creators {
		c := creators[i]
		if c.Verified && !common.BytesEqual(c.Address, authority) && !runtime.CheckWitness(c.Address) {
			panic("creator is not verified by signature")
		}
		for j := 0; j < i; j++ {
			if common.BytesEqual(creators[j].Address, c.Address) {
				panic("duplicate creator")
			}
		}
		shares = shares + c.Share
	}
	if shares != 100 {
		panic("creator shares must sum to 100")
	}

	ctx := storage.GetContext()
	key := append([]byte{metadataPrefix}, crypto.Ripemd160(tokenID)...)
	if common.Exists(ctx, key) {
		panic("metadata already exists")
	}

	common.SetSerialized(ctx, key, Metadata{
		Authority:       authority,
		MintAuthority:   mintAuthority,
		Payer:           payer,
		UpdateAuthority: updateAuthority,
		Creators:        creators,
		Name:            name,
		Symbol:          symbol,
		URI:             uri,
		IsMutable:       isMutable,
	})
	incCounter(ctx, metadataCountKey)

	runtime.Notify("MetadataCreated", tokenID, authority)
}

// CreateMasterEdition attaches a master edition to the token with existing
// metadata. Zero max supply makes the token a single edition.
func CreateMasterEdition(authority interop.Hash160, seed []byte, tokenID []byte,
	updateAuthority interop.Hash160, mintAuthority interop.Hash160, payer interop.Hash160, maxSupply int) {
	common.CheckAuthority(authority, seed, runtime.GetCallingScriptHash())

	if maxSupply < 0 {
		panic("invalid max supply")
	}

	ctx := storage.GetContext()
	tokenKey := crypto.Ripemd160(tokenID)
	data := storage.Get(ctx, append([]byte{metadataPrefix}, tokenKey...))
	if data == nil {
		panic(errMetadataMissing)
	}
	md := std.Deserialize(data.([]byte)).(Metadata)
	if !common.BytesEqual(md.UpdateAuthority, updateAuthority) {
		panic("update authority mismatch")
	}
	if !common.BytesEqual(md.MintAuthority, mintAuthority) {
		panic("mint authority mismatch")
	}

	key := append([]byte{editionPrefix}, tokenKey...)
	if common.Exists(ctx, key) {
		panic("master edition already exists")
	}

	common.SetSerialized(ctx, key, MasterEdition{
		UpdateAuthority: updateAuthority,
		MintAuthority:   mintAuthority,
		Payer:           payer,
		MaxSupply:       maxSupply,
	})
	incCounter(ctx, editionCountKey)

	runtime.Notify("MasterEditionCreated", tokenID, maxSupply)
}

// GetMetadata returns metadata of the token.
func GetMetadata(tokenID []byte) Metadata {
	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{metadataPrefix}, crypto.Ripemd160(tokenID)...))
	if data == nil {
		panic(errMetadataMissing)
	}
	return std.Deserialize(data.([]byte)).(Metadata)
}

// GetMasterEdition returns master edition of the token.
func GetMasterEdition(tokenID []byte) MasterEdition {
	data := storage.Get(storage.GetReadOnlyContext(), append([]byte{editionPrefix}, crypto.Ripemd160(tokenID)...))
	if data == nil {
		panic("master edition not found")
	}
	return std.Deserialize(data.([]byte)).(MasterEdition)
}

func MetadataCount() int {
	return getCounter(storage.GetReadOnlyContext(), metadataCountKey)
}

func EditionCount() int {
	return getCounter(storage.GetReadOnlyContext(), editionCountKey)
}

func getCounter(ctx storage.Context, key string) int {
	v := storage.Get(ctx, key)
	if v == nil {
		return 0
	}
	return v.(int)
}

func incCounter(ctx storage.Context, key string) {
	storage.Put(ctx, key, getCounter(ctx, key)+1)
}
