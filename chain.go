package zcap

import (
	"encoding/json"

	"go.bryk.io/zcap/faults"
)

// ChainElement is one entry of a capability chain: either a bare
// identifier string, or (only as the final element of a delegation
// proof's chain) an embedded capability object — the immediate parent,
// root or delegated.
type ChainElement struct {
	id       string
	embedded Capability
}

// ElementID builds an Id-form chain element.
func ElementID(id string) ChainElement { return ChainElement{id: id} }

// ElementEmbedded builds an Embedded-form chain element wrapping the
// immediate parent capability.
func ElementEmbedded(parent Capability) ChainElement {
	return ChainElement{embedded: parent}
}

// IsEmbedded reports whether this element carries an embedded capability
// rather than a bare identifier.
func (e ChainElement) IsEmbedded() bool { return e.embedded != nil }

// ID returns the bare identifier, or the embedded capability's id if this
// element is embedded.
func (e ChainElement) ID() string {
	if e.embedded != nil {
		return e.embedded.ID()
	}
	return e.id
}

// Embedded returns the embedded capability, or nil if this element is an
// Id-form element.
func (e ChainElement) Embedded() Capability { return e.embedded }

// MarshalJSON emits a bare string for an Id-form element, or the embedded
// capability object for an Embedded-form one.
func (e ChainElement) MarshalJSON() ([]byte, error) {
	if e.embedded != nil {
		return json.Marshal(e.embedded)
	}
	return json.Marshal(e.id)
}

// UnmarshalJSON accepts either a bare string or a capability object.
func (e *ChainElement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.id = s
		e.embedded = nil
		return nil
	}
	cap, err := ParseCapability(data)
	if err != nil {
		return faults.SerializationFault(err)
	}
	e.embedded = cap
	e.id = ""
	return nil
}

// Chain is the ordered capability chain: chain[0] is the root capability's
// identifier, intermediate elements are delegated capability identifiers,
// and (for a delegation proof) the final element is the immediate parent
// capability embedded in full.
type Chain []ChainElement

// HasCycle reports whether any bare identifier appears twice in the chain.
// The embedded final element is not counted: by construction it repeats
// the bare id of the immediate parent listed just before it (chain[0] for
// a root parent). Chains are tree-shaped by construction; a repeated bare
// id is never valid.
func (c Chain) HasCycle() bool {
	seen := make(map[string]bool, len(c))
	for _, e := range c {
		if e.IsEmbedded() {
			continue
		}
		id := e.ID()
		if seen[id] {
			return true
		}
		seen[id] = true
	}
	return false
}
