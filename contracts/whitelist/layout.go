package whitelist

import (
	"github.com/block-webdev/wlmint-contract/common"
	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
	"github.com/nspcc-dev/neo-go/pkg/interop"
)

// Config is the global configuration singleton.
type Config struct {
	Admin              interop.Hash160
	ParticipantCount   int
	TotalMetadataCount int
	MintedCount        int
	Tier0Limit         int
	Tier0Price         int
	Tier1Limit         int
	Tier1Price         int
	CurrentTier        int
}

// ParticipantRecord marks an account eligible to mint under some tier.
type ParticipantRecord struct {
	Participant interop.Hash160
	Tier        int
}

// MetadataPlaceholder reserves a content URI for exactly one future mint.
type MetadataPlaceholder struct {
	ContentID int
	Consumed  bool
	URI       string
}

// Packed record layouts, little-endian without padding:
//
//	Config:              admin[20] participants:u32 metadata:u32 minted:u32
//	                     tier0Limit:u32 tier0Price:u64 tier1Limit:u32
//	                     tier1Price:u64 currentTier:u8
//	ParticipantRecord:   participant[20] tier:u8
//	MetadataPlaceholder: contentID:u64 consumed:u8 uri[100]

func encodeConfig(c Config) []byte {
	data := common.AppendFixed([]byte{}, c.Admin, interop.Hash160Len)
	data = common.AppendUint(data, c.ParticipantCount, 4)
	data = common.AppendUint(data, c.TotalMetadataCount, 4)
	data = common.AppendUint(data, c.MintedCount, 4)
	data = common.AppendUint(data, c.Tier0Limit, 4)
	data = common.AppendUint(data, c.Tier0Price, 8)
	data = common.AppendUint(data, c.Tier1Limit, 4)
	data = common.AppendUint(data, c.Tier1Price, 8)
	return common.AppendUint(data, c.CurrentTier, 1)
}

func decodeConfig(data []byte) Config {
	return Config{
		Admin:              data[:interop.Hash160Len],
		ParticipantCount:   common.ReadUint(data, 20, 4),
		TotalMetadataCount: common.ReadUint(data, 24, 4),
		MintedCount:        common.ReadUint(data, 28, 4),
		Tier0Limit:         common.ReadUint(data, 32, 4),
		Tier0Price:         common.ReadUint(data, 36, 8),
		Tier1Limit:         common.ReadUint(data, 44, 4),
		Tier1Price:         common.ReadUint(data, 48, 8),
		CurrentTier:        common.ReadUint(data, 56, 1),
	}
}

func encodeParticipant(p ParticipantRecord) []byte {
	data := common.AppendFixed([]byte{}, p.Participant, interop.Hash160Len)
	return common.AppendUint(data, p.Tier, 1)
}

func decodeParticipant(data []byte) ParticipantRecord {
	return ParticipantRecord{
		Participant: data[:interop.Hash160Len],
		Tier:        common.ReadUint(data, 20, 1),
	}
}

func encodePlaceholder(p MetadataPlaceholder) []byte {
	data := common.AppendUint([]byte{}, p.ContentID, 8)
	consumed := 0
	if p.Consumed {
		consumed = 1
	}
	data = common.AppendUint(data, consumed, 1)
	return common.AppendFixed(data, []byte(p.URI), wlconst.URICapacity)
}

func decodePlaceholder(data []byte) MetadataPlaceholder {
	return MetadataPlaceholder{
		ContentID: common.ReadUint(data, 0, 8),
		Consumed:  data[8] != 0,
		URI:       string(common.ReadFixed(data, 9, wlconst.URICapacity)),
	}
}
