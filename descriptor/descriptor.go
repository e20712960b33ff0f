/*
Package descriptor reads off-chain content descriptors of whitelist mints.

Descriptor is a JSON document stored in the content store next to the
content itself. It follows the widespread collectible metadata layout:

	{
	  "name": "Genesis #1",
	  "symbol": "GEN",
	  "uri": "ipfs://bafy.../1.json",
	  "image": "ipfs://bafy.../1.png",
	  "properties": {
	    "files": [{"uri": "ipfs://bafy.../1.png", "type": "image/png"}]
	  }
	}

Only name, symbol and uri take part in the mint. Image and files are
validated since wallets resolve them.
*/
package descriptor

import (
	"errors"
	"fmt"

	"github.com/block-webdev/wlmint-contract/contracts/whitelist/wlconst"
	"github.com/tidwall/gjson"
)

// Limits of the metadata registry fields.
const (
	MaxNameLen   = 32
	MaxSymbolLen = 10
	MaxURILen    = 200
)

var errInvalidJSON = errors.New("invalid JSON")

// Descriptor groups mint parameters read from the content descriptor.
type Descriptor struct {
	Name   string
	Symbol string
	URI    string
	Image  string
	Files  []string
}

// Parse reads Descriptor from the JSON document and checks it fits the
// metadata registry limits.
func Parse(data []byte) (Descriptor, error) {
	var d Descriptor

	if !gjson.ValidBytes(data) {
		return d, errInvalidJSON
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return d, fmt.Errorf("%w: object expected", errInvalidJSON)
	}

	d.Name = doc.Get("name").String()
	d.Symbol = doc.Get("symbol").String()
	d.URI = doc.Get("uri").String()
	d.Image = doc.Get("image").String()

	doc.Get("properties.files.#.uri").ForEach(func(_, v gjson.Result) bool {
		d.Files = append(d.Files, v.String())
		return true
	})

	return d, d.Validate()
}

// Validate checks d fits the metadata registry limits and all its URIs are
// well-formed.
func (d Descriptor) Validate() error {
	switch {
	case d.Name == "":
		return errors.New("missing name")
	case len(d.Name) > MaxNameLen:
		return fmt.Errorf("name is longer than %d bytes", MaxNameLen)
	case len(d.Symbol) > MaxSymbolLen:
		return fmt.Errorf("symbol is longer than %d bytes", MaxSymbolLen)
	}

	if err := ValidateURI(d.URI, MaxURILen); err != nil {
		return fmt.Errorf("uri: %w", err)
	}

	if d.Image != "" {
		if err := ValidateURI(d.Image, MaxURILen); err != nil {
			return fmt.Errorf("image: %w", err)
		}
	}

	for i := range d.Files {
		if err := ValidateURI(d.Files[i], MaxURILen); err != nil {
			return fmt.Errorf("file #%d: %w", i, err)
		}
	}

	return nil
}

// ValidateContentURI checks uri can be stored in the metadata placeholder.
func ValidateContentURI(uri string) error {
	return ValidateURI(uri, wlconst.URICapacity)
}
