package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/mr-tron/base58"
)

// Token ID encodings accepted on the command line.
const (
	tokenIDText   = "text"
	tokenIDHex    = "hex"
	tokenIDBase58 = "base58"
)

func decodeTokenID(s, encoding string) ([]byte, error) {
	var (
		id  []byte
		err error
	)

	switch encoding {
	case "", tokenIDText:
		id = []byte(s)
	case tokenIDHex:
		id, err = hex.DecodeString(s)
	case tokenIDBase58:
		id, err = base58.Decode(s)
	default:
		return nil, fmt.Errorf("unknown token ID encoding %q", encoding)
	}

	if err != nil {
		return nil, fmt.Errorf("decode %s token ID: %w", encoding, err)
	}

	if len(id) == 0 {
		return nil, errors.New("empty token ID")
	}

	return id, nil
}

// formatTokenID returns printable text IDs quoted and binary ones in base58.
func formatTokenID(id []byte) string {
	if utf8.Valid(id) {
		printable := true
		for _, r := range string(id) {
			if !unicode.IsPrint(r) {
				printable = false
				break
			}
		}
		if printable {
			return strconv.Quote(string(id))
		}
	}

	return base58.Encode(id)
}
