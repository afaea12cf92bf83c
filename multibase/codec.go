// Package multibase provides the self-describing byte encoding used for
// proof values and other binary material carried inside a JSON-LD document.
// https://datatracker.ietf.org/doc/html/draft-multiformats-multibase-03
package multibase

import (
	"fmt"

	mb "github.com/multiformats/go-multibase"
)

// Scheme identifies one of the multibase encodings this package supports.
type Scheme byte

const (
	// Base58BTC is the normative default scheme for Data Integrity proof
	// values, prefix 'z'.
	Base58BTC Scheme = 'z'
	// Base64URL is the unpadded, URL-safe base64 scheme, prefix 'u'.
	Base64URL Scheme = 'u'
	// Base64 is the unpadded standard base64 scheme, prefix 'm'.
	Base64 Scheme = 'm'
	// Base32 is the lowercase, unpadded base32 scheme, prefix 'b'.
	Base32 Scheme = 'b'
)

func (s Scheme) encoding() mb.Encoding {
	switch s {
	case Base58BTC:
		return mb.Base58BTC
	case Base64URL:
		return mb.Base64url
	case Base64:
		return mb.Base64
	case Base32:
		return mb.Base32
	default:
		return mb.Encoding(0)
	}
}

// DecodeError reports a failure to decode a multibase string, carrying the
// offending prefix byte for diagnostics.
type DecodeError struct {
	// Prefix is the first character of the rejected input, or 0 if the
	// input was empty.
	Prefix byte
	// Reason describes why decoding failed.
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Prefix == 0 {
		return fmt.Sprintf("multibase: %s", e.Reason)
	}
	return fmt.Sprintf("multibase: %s (prefix %q)", e.Reason, e.Prefix)
}

// UnknownScheme reports a decode failure caused by an unrecognized prefix
// character.
func UnknownScheme(prefix byte) *DecodeError {
	return &DecodeError{Prefix: prefix, Reason: "unknown base identifier"}
}

// Encode renders data using the requested scheme, returning the
// self-describing string (prefix included).
func Encode(data []byte, scheme Scheme) (string, error) {
	enc := scheme.encoding()
	if enc == mb.Encoding(0) {
		return "", UnknownScheme(byte(scheme))
	}
	return mb.Encode(enc, data)
}

// Decode dispatches on the first character of src and returns the decoded
// bytes. An empty input, or an input with an unrecognized prefix, fails.
func Decode(src string) ([]byte, error) {
	if src == "" {
		return nil, &DecodeError{Reason: "empty input"}
	}
	_, data, err := mb.Decode(src)
	if err != nil {
		if _, known := mb.EncodingToStr[mb.Encoding(src[0])]; !known {
			return nil, UnknownScheme(src[0])
		}
		return nil, &DecodeError{Prefix: src[0], Reason: err.Error()}
	}
	return data, nil
}
