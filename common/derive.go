package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
)

// Seeds of the identities derived from the minting contract hash.
const (
	GlobalStateSeed  = "GLOBAL_STATE_SEED1"
	UserStateSeed    = "USER_STATE_SEED1"
	IPFSMetadataSeed = "IPFS_METADATA_SEED"
	NFTCreatorSeed   = "NFT_CREATOR_SEED"
)

// Prefixes of the derived storage keys. Each key is the prefix followed by
// the derived 20-byte account, so records of one kind can be iterated.
const (
	GlobalConfigPrefix byte = 0x10
	ParticipantPrefix  byte = 0x20
	PlaceholderPrefix  byte = 0x30
)

// ErrInvalidAuthority is thrown when a delegated authority does not match
// the calling contract.
const ErrInvalidAuthority = "invalid delegated authority"

// ProgramAuthority is a capability a contract presents to prove that it
// controls the account derived from Seed and its own script hash. It is
// checked by the callee with CheckAuthority instead of a signature.
type ProgramAuthority struct {
	Account interop.Hash160
	Seed    []byte
}

// DeriveAccount returns RIPEMD160(SHA256(seedData || program)).
func DeriveAccount(seedData []byte, program interop.Hash160) interop.Hash160 {
	return crypto.Ripemd160(crypto.Sha256(append(seedData, program...)))
}

// GlobalConfigKey returns storage key of the configuration singleton.
func GlobalConfigKey(program interop.Hash160) []byte {
	return append([]byte{GlobalConfigPrefix}, DeriveAccount([]byte(GlobalStateSeed), program)...)
}

// ParticipantKey returns storage key of the participant record.
func ParticipantKey(participant interop.Hash160, program interop.Hash160) []byte {
	seed := append([]byte(UserStateSeed), participant...)
	return append([]byte{ParticipantPrefix}, DeriveAccount(seed, program)...)
}

// PlaceholderKey returns storage key of the metadata placeholder with the
// given content ID. The ID is encoded as 8 little-endian bytes.
func PlaceholderKey(contentID int, program interop.Hash160) []byte {
	seed := AppendUint([]byte(IPFSMetadataSeed), contentID, 8)
	return append([]byte{PlaceholderPrefix}, DeriveAccount(seed, program)...)
}

// DeriveAuthority returns the delegated signing identity of the program.
func DeriveAuthority(program interop.Hash160) ProgramAuthority {
	seed := []byte(NFTCreatorSeed)
	return ProgramAuthority{
		Account: DeriveAccount(seed, program),
		Seed:    seed,
	}
}

// CheckAuthority panics with ErrInvalidAuthority if account is not derived
// from seed and caller.
func CheckAuthority(account interop.Hash160, seed []byte, caller interop.Hash160) {
	if len(seed) == 0 || !BytesEqual(account, DeriveAccount(seed, caller)) {
		panic(ErrInvalidAuthority)
	}
}
