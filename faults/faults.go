// Package faults provides typed constructors for the exceptional-fault
// track of the library's two-track error-handling design: programmer
// errors, infrastructure failures, and out-of-spec inputs detected at the
// structural layer, as opposed to the data-valued Result returned
// by the verification engine's normal checks.
//
// Every fault is a go.bryk.io/zcap/errors.Error tagged with a "category"
// from the closed set defined here, so a caller can recover the category
// with CategoryOf(err) without type-asserting on a per-category error type.
package faults

import "go.bryk.io/zcap/errors"

// Category identifies the kind of exceptional fault raised.
type Category string

// The five fault categories recognized by the library.
const (
	// Structural faults are malformed documents or missing required
	// fields detected before any cryptographic work is attempted.
	Structural Category = "Structural"
	// Serialization faults originate in JSON marshal/unmarshal.
	Serialization Category = "Serialization"
	// Canonicalization faults originate in the RDF dataset canonicalizer.
	Canonicalization Category = "Canonicalization"
	// Crypto faults originate in the signature primitive or key handling,
	// excluding an ordinary signature mismatch (which is a failed Result,
	// not a fault).
	Crypto Category = "Crypto"
	// KeyStore faults originate in the in-memory key store: duplicate
	// insert, lookup of a destroyed key, etc.
	KeyStore Category = "KeyStore"
)

const tagCategory = "category"

func newFault(category Category, e interface{}) error {
	err := errors.New(e)
	var tagged *errors.Error
	if errors.As(err, &tagged) {
		tagged.SetTag(tagCategory, category)
	}
	return err
}

// New raises a fault of the given category from a message or error value.
func New(category Category, e interface{}) error {
	return newFault(category, e)
}

// Wrap raises a fault of the given category, preserving err as the cause
// chain.
func Wrap(category Category, err error, prefix string) error {
	if err == nil {
		return nil
	}
	wrapped := errors.Wrap(err, prefix)
	var tagged *errors.Error
	if errors.As(wrapped, &tagged) {
		tagged.SetTag(tagCategory, category)
	}
	return wrapped
}

// StructuralFault raises a Structural-category fault.
func StructuralFault(e interface{}) error { return newFault(Structural, e) }

// SerializationFault raises a Serialization-category fault.
func SerializationFault(e interface{}) error { return newFault(Serialization, e) }

// CanonicalizationFault raises a Canonicalization-category fault.
func CanonicalizationFault(e interface{}) error { return newFault(Canonicalization, e) }

// CryptoFault raises a Crypto-category fault.
func CryptoFault(e interface{}) error { return newFault(Crypto, e) }

// KeyStoreFault raises a KeyStore-category fault.
func KeyStoreFault(e interface{}) error { return newFault(KeyStore, e) }

// CategoryOf returns the category tagged on err, and whether one was found.
// Faults raised through this package always carry one; plain errors do not.
func CategoryOf(err error) (Category, bool) {
	var tagged *errors.Error
	if !errors.As(err, &tagged) {
		return "", false
	}
	tags := tagged.Tags()
	if tags == nil {
		return "", false
	}
	c, ok := tags[tagCategory].(Category)
	return c, ok
}
