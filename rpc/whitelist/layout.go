package whitelist

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
	"github.com/nspcc-dev/neo-go/pkg/io"
	"github.com/nspcc-dev/neo-go/pkg/util"
)

// Config is the global configuration of the contract.
type Config struct {
	Admin              util.Uint160
	ParticipantCount   uint32
	TotalMetadataCount uint32
	MintedCount        uint32
	Tier0Limit         uint32
	Tier0Price         uint64
	Tier1Limit         uint32
	Tier1Price         uint64
	CurrentTier        uint8
}

// ParticipantRecord marks an account eligible to mint under some tier.
type ParticipantRecord struct {
	Participant util.Uint160
	Tier        uint8
}

// MetadataPlaceholder reserves a content URI for a single mint.
type MetadataPlaceholder struct {
	ContentID uint64
	Consumed  bool
	URI       string
}

var errWrongSize = errors.New("wrong packed record size")

// EncodeBinary implements [io.Serializable].
func (c *Config) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(c.Admin.BytesBE())
	w.WriteU32LE(c.ParticipantCount)
	w.WriteU32LE(c.TotalMetadataCount)
	w.WriteU32LE(c.MintedCount)
	w.WriteU32LE(c.Tier0Limit)
	w.WriteU64LE(c.Tier0Price)
	w.WriteU32LE(c.Tier1Limit)
	w.WriteU64LE(c.Tier1Price)
	w.WriteB(c.CurrentTier)
}

// DecodeBinary implements [io.Serializable].
func (c *Config) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(c.Admin[:])
	c.ParticipantCount = r.ReadU32LE()
	c.TotalMetadataCount = r.ReadU32LE()
	c.MintedCount = r.ReadU32LE()
	c.Tier0Limit = r.ReadU32LE()
	c.Tier0Price = r.ReadU64LE()
	c.Tier1Limit = r.ReadU32LE()
	c.Tier1Price = r.ReadU64LE()
	c.CurrentTier = r.ReadB()
}

// EncodeBinary implements [io.Serializable].
func (p *ParticipantRecord) EncodeBinary(w *io.BinWriter) {
	w.WriteBytes(p.Participant.BytesBE())
	w.WriteB(p.Tier)
}

// DecodeBinary implements [io.Serializable].
func (p *ParticipantRecord) DecodeBinary(r *io.BinReader) {
	r.ReadBytes(p.Participant[:])
	p.Tier = r.ReadB()
}

// EncodeBinary implements [io.Serializable]. URI longer than
// [wlconst.URICapacity] sets writer error.
func (p *MetadataPlaceholder) EncodeBinary(w *io.BinWriter) {
	if len(p.URI) > wlconst.URICapacity {
		w.Err = fmt.Errorf("uri length %d exceeds %d bytes", len(p.URI), wlconst.URICapacity)
		return
	}
	w.WriteU64LE(p.ContentID)
	w.WriteBool(p.Consumed)

	var uri [wlconst.URICapacity]byte
	copy(uri[:], p.URI)
	w.WriteBytes(uri[:])
}

// DecodeBinary implements [io.Serializable].
func (p *MetadataPlaceholder) DecodeBinary(r *io.BinReader) {
	p.ContentID = r.ReadU64LE()
	p.Consumed = r.ReadB() != 0

	var uri [wlconst.URICapacity]byte
	r.ReadBytes(uri[:])
	p.URI = string(bytes.TrimRight(uri[:], "\x00"))
}

// Bytes returns packed representation of the configuration.
func (c *Config) Bytes() ([]byte, error) {
	return pack(c)
}

// Bytes returns packed representation of the record.
func (p *ParticipantRecord) Bytes() ([]byte, error) {
	return pack(p)
}

// Bytes returns packed representation of the placeholder.
func (p *MetadataPlaceholder) Bytes() ([]byte, error) {
	return pack(p)
}

// DecodeConfig decodes packed configuration as it is stored by the contract.
func DecodeConfig(b []byte) (*Config, error) {
	var c Config
	return &c, unpack(b, wlconst.GlobalConfigSize, &c)
}

// DecodeParticipant decodes packed participant record.
func DecodeParticipant(b []byte) (*ParticipantRecord, error) {
	var p ParticipantRecord
	return &p, unpack(b, wlconst.ParticipantSize, &p)
}

// DecodePlaceholder decodes packed metadata placeholder.
func DecodePlaceholder(b []byte) (*MetadataPlaceholder, error) {
	var p MetadataPlaceholder
	return &p, unpack(b, wlconst.PlaceholderSize, &p)
}

func pack(s io.Serializable) ([]byte, error) {
	w := io.NewBufBinWriter()
	s.EncodeBinary(w.BinWriter)
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Bytes(), nil
}

func unpack(b []byte, size int, s io.Serializable) error {
	if len(b) != size {
		return fmt.Errorf("%w: expected %d, got %d", errWrongSize, size, len(b))
	}
	r := io.NewBinReaderFromBuf(b)
	s.DecodeBinary(r)
	return r.Err
}
