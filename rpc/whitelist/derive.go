package whitelist

import (
	"encoding/binary"

	"github.com/block-webdev/wlmint-contract/common"
	"github.com/nspcc-dev/neo-go/pkg/crypto/hash"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Storage keys and the delegated authority are derived the same way the
// contract derives them, so records can be located without invoking it.

func deriveAccount(program util.Uint160, parts ...[]byte) util.Uint160 {
	var data []byte
	for _, p := range parts {
		data = append(data, p...)
	}
	return hash.Hash160(append(data, program.BytesBE()...))
}

func prefixed(prefix byte, acc util.Uint160) []byte {
	return append([]byte{prefix}, acc.BytesBE()...)
}

// GlobalConfigKey returns storage key of the global configuration of the
// contract with the given hash.
func GlobalConfigKey(program util.Uint160) []byte {
	return prefixed(common.GlobalConfigPrefix,
		deriveAccount(program, []byte(common.GlobalStateSeed)))
}

// ParticipantKey returns storage key of the participant record.
func ParticipantKey(program util.Uint160, participant util.Uint160) []byte {
	return prefixed(common.ParticipantPrefix,
		deriveAccount(program, []byte(common.UserStateSeed), participant.BytesBE()))
}

// PlaceholderKey returns storage key of the metadata placeholder.
func PlaceholderKey(program util.Uint160, contentID uint64) []byte {
	return prefixed(common.PlaceholderPrefix,
		deriveAccount(program, []byte(common.IPFSMetadataSeed), binary.LittleEndian.AppendUint64(nil, contentID)))
}

// Authority returns the account the contract uses to authorize metadata
// registry writes.
func Authority(program util.Uint160) util.Uint160 {
	return deriveAccount(program, []byte(common.NFTCreatorSeed))
}
