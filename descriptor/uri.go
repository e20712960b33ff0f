package descriptor

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ipfs/go-cid"
)

// Supported URI schemes.
const (
	SchemeIPFS  = "ipfs"
	SchemeHTTPS = "https"
	SchemeAR    = "ar"
)

var (
	// ErrEmptyURI is returned for empty URIs.
	ErrEmptyURI = errors.New("empty URI")
	// ErrURITooLong is returned for URIs exceeding the limit.
	ErrURITooLong = errors.New("URI is too long")
	// ErrMalformedURI is returned for URIs that are not UTF-8 or contain
	// zero bytes.
	ErrMalformedURI = errors.New("malformed URI")
	// ErrUnsupportedScheme is returned for URIs of unknown schemes.
	ErrUnsupportedScheme = errors.New("unsupported URI scheme")
)

// ValidateURI checks uri is non-empty, fits max bytes and refers to the
// content store by one of the supported schemes. IPFS URIs must start with a
// valid CID.
func ValidateURI(uri string, max int) error {
	switch {
	case uri == "":
		return ErrEmptyURI
	case len(uri) > max:
		return fmt.Errorf("%w: %d > %d", ErrURITooLong, len(uri), max)
	case !utf8.ValidString(uri), strings.IndexByte(uri, 0) >= 0:
		return fmt.Errorf("%w: %q", ErrMalformedURI, uri)
	}

	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || rest == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, uri)
	}

	switch scheme {
	case SchemeIPFS:
		_, err := ContentCID(uri)
		return err
	case SchemeHTTPS, SchemeAR:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

// ContentCID returns CID of the content referenced by ipfs:// URI. Path
// after the CID is allowed.
func ContentCID(uri string) (cid.Cid, error) {
	rest, ok := strings.CutPrefix(uri, SchemeIPFS+"://")
	if !ok {
		return cid.Undef, fmt.Errorf("%w: not an IPFS URI", ErrUnsupportedScheme)
	}

	root, _, _ := strings.Cut(rest, "/")

	c, err := cid.Decode(root)
	if err != nil {
		return cid.Undef, fmt.Errorf("invalid CID %q: %w", root, err)
	}

	return c, nil
}
