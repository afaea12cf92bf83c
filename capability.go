// Package zcap implements the W3C Authorization Capabilities for Linked
// Data (ZCAP-LD) data model and verification engine: capabilities,
// Data Integrity proofs, capability chains, caveats, and the delegation,
// invocation, and chain-validation logic that decides whether a presented
// chain authorizes an action on a target at a given moment.
package zcap

import (
	"encoding/json"
	"strings"
	"time"

	"go.bryk.io/zcap/faults"
)

// RootContext is the single, normative JSON-LD context string for a root
// capability.
const RootContext = "https://w3id.org/zcap/v1"

// RootIDPrefix is the required prefix of every root capability identifier.
const RootIDPrefix = "urn:zcap:root:"

// Capability is the sum type over the two concrete capability forms: a
// root capability, derived automatically from a target and controller, or
// a delegated capability, issued against a parent by the delegation
// service.
type Capability interface {
	// ID returns the capability's absolute-URI identifier.
	ID() string
	// Context returns the capability's @context field.
	Context() OneOrMany
	// Controller returns the capability's controller field.
	Controller() OneOrMany
	// InvocationTarget returns the resource URI the capability authorizes.
	InvocationTarget() string
	// IsRoot reports whether this is a root capability.
	IsRoot() bool

	isCapability()
}

// RootCapability is the initial capability derived automatically from a
// target and its controller. No fields beyond context, id, controller, and
// invocationTarget are permitted on a root capability; any additional
// field observed on ingest is a structural fault.
type RootCapability struct {
	context          string
	id               string
	controller       OneOrMany
	invocationTarget string
}

// NewRootCapability derives the root capability for target, controlled by
// controller. The identifier is computed deterministically as
// RootIDPrefix + percent-encode(target), so two callers deriving a root
// capability for the same target always agree on its identity.
func NewRootCapability(target string, controller OneOrMany) (*RootCapability, error) {
	if !isAbsoluteURI(target) {
		return nil, faults.StructuralFault("invocation target must be an absolute URI: " + target)
	}
	if controller.IsZero() {
		return nil, faults.StructuralFault("root capability requires a controller")
	}
	return &RootCapability{
		context:          RootContext,
		id:               RootIDPrefix + percentEncodeUnreserved(target),
		controller:       controller,
		invocationTarget: target,
	}, nil
}

func (r *RootCapability) isCapability() {}

// ID implements Capability.
func (r *RootCapability) ID() string { return r.id }

// Context implements Capability.
func (r *RootCapability) Context() OneOrMany { return One(r.context) }

// Controller implements Capability.
func (r *RootCapability) Controller() OneOrMany { return r.controller }

// InvocationTarget implements Capability.
func (r *RootCapability) InvocationTarget() string { return r.invocationTarget }

// IsRoot implements Capability.
func (r *RootCapability) IsRoot() bool { return true }

type rootCapabilityWire struct {
	Context          string    `json:"@context"`
	ID               string    `json:"id"`
	Controller       OneOrMany `json:"controller"`
	InvocationTarget string    `json:"invocationTarget"`
}

// MarshalJSON implements json.Marshaler.
func (r *RootCapability) MarshalJSON() ([]byte, error) {
	return json.Marshal(rootCapabilityWire{
		Context:          r.context,
		ID:               r.id,
		Controller:       r.controller,
		InvocationTarget: r.invocationTarget,
	})
}

// UnmarshalJSON implements json.Unmarshaler. It rejects any field beyond
// the four permitted on a root capability.
func (r *RootCapability) UnmarshalJSON(data []byte) error {
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(data, &generic); err != nil {
		return faults.SerializationFault(err)
	}
	permitted := map[string]bool{"@context": true, "id": true, "controller": true, "invocationTarget": true}
	for k := range generic {
		if !permitted[k] {
			return faults.StructuralFault("unexpected field on root capability: " + k)
		}
	}
	var w rootCapabilityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return faults.SerializationFault(err)
	}
	if w.Context != RootContext {
		return faults.StructuralFault("root capability @context must be " + RootContext)
	}
	if !strings.HasPrefix(w.ID, RootIDPrefix) {
		return faults.StructuralFault("root capability id must start with " + RootIDPrefix)
	}
	want := RootIDPrefix + percentEncodeUnreserved(w.InvocationTarget)
	if w.ID != want {
		return faults.StructuralFault("root capability id does not match its invocationTarget")
	}
	r.context = w.Context
	r.id = w.ID
	r.controller = w.Controller
	r.invocationTarget = w.InvocationTarget
	return nil
}

// DelegatedCapability is a capability issued by a delegator against a
// parent capability, optionally narrowing (attenuating) its authority.
type DelegatedCapability struct {
	context          OneOrMany
	id               string
	controller       OneOrMany
	invocationTarget string
	parentCapability string
	expires          time.Time
	allowedAction    OneOrMany
	caveats          CaveatList
	invoker          string
	proof            *Proof
}

// ID implements Capability.
func (d *DelegatedCapability) ID() string { return d.id }

// Context implements Capability.
func (d *DelegatedCapability) Context() OneOrMany { return d.context }

// Controller implements Capability.
func (d *DelegatedCapability) Controller() OneOrMany { return d.controller }

// InvocationTarget implements Capability.
func (d *DelegatedCapability) InvocationTarget() string { return d.invocationTarget }

// IsRoot implements Capability.
func (d *DelegatedCapability) IsRoot() bool { return false }

func (d *DelegatedCapability) isCapability() {}

// ParentCapability returns the parent capability's identifier.
func (d *DelegatedCapability) ParentCapability() string { return d.parentCapability }

// Expires returns the capability's expiration instant.
func (d *DelegatedCapability) Expires() time.Time { return d.expires }

// AllowedAction returns the capability's allowed-action set, which may be
// zero-valued if the capability places no action restriction.
func (d *DelegatedCapability) AllowedAction() OneOrMany { return d.allowedAction }

// Caveats returns the capability's caveat sequence.
func (d *DelegatedCapability) Caveats() CaveatList { return d.caveats }

// Invoker returns the capability's invoker identifier, or "" if unset.
func (d *DelegatedCapability) Invoker() string { return d.invoker }

// Proof returns the attached Data Integrity proof, or nil if the
// capability has not yet been signed.
func (d *DelegatedCapability) Proof() *Proof { return d.proof }

// WithoutProof returns a shallow copy of d with its proof field cleared,
// the document form the proof builder canonicalizes and signs.
func (d *DelegatedCapability) WithoutProof() *DelegatedCapability {
	cp := *d
	cp.proof = nil
	return &cp
}

// WithProof returns a shallow copy of d with proof attached. Capabilities
// are immutable once constructed; attaching a proof always produces a new
// value rather than mutating d.
func (d *DelegatedCapability) WithProof(p *Proof) *DelegatedCapability {
	cp := *d
	cp.proof = p
	return &cp
}

type delegatedCapabilityWire struct {
	Context          OneOrMany  `json:"@context"`
	ID               string     `json:"id"`
	Controller       OneOrMany  `json:"controller"`
	InvocationTarget string     `json:"invocationTarget"`
	ParentCapability string     `json:"parentCapability"`
	Expires          *time.Time `json:"expires,omitempty"`
	AllowedAction    *OneOrMany `json:"allowedAction,omitempty"`
	Caveat           CaveatList `json:"caveat,omitempty"`
	Invoker          string     `json:"invoker,omitempty"`
	Proof            *Proof     `json:"proof,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (d *DelegatedCapability) MarshalJSON() ([]byte, error) {
	w := delegatedCapabilityWire{
		Context:          d.context,
		ID:               d.id,
		Controller:       d.controller,
		InvocationTarget: d.invocationTarget,
		ParentCapability: d.parentCapability,
		Caveat:           d.caveats,
		Invoker:          d.invoker,
		Proof:            d.proof,
	}
	if !d.expires.IsZero() {
		e := d.expires.UTC()
		w.Expires = &e
	}
	if !d.allowedAction.IsZero() {
		w.AllowedAction = &d.allowedAction
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *DelegatedCapability) UnmarshalJSON(data []byte) error {
	var w delegatedCapabilityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return faults.SerializationFault(err)
	}
	if len(w.Context.Values()) == 0 || w.Context.Values()[0] != RootContext {
		return faults.StructuralFault("delegated capability @context must start with " + RootContext)
	}
	d.context = w.Context
	d.id = w.ID
	d.controller = w.Controller
	d.invocationTarget = w.InvocationTarget
	d.parentCapability = w.ParentCapability
	if w.Expires != nil {
		d.expires = w.Expires.UTC()
	}
	if w.AllowedAction != nil {
		d.allowedAction = *w.AllowedAction
	}
	d.caveats = w.Caveat
	d.invoker = w.Invoker
	d.proof = w.Proof
	return nil
}

// percentEncodeUnreserved encodes every byte of s outside the RFC 3986
// unreserved set [A-Za-z0-9-._~].
func percentEncodeUnreserved(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z', '0' <= c && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}

// isAbsoluteURI reports whether s has a non-empty scheme, i.e. it matches
// scheme ":" ... with scheme starting with a letter. This is a syntactic
// check, not a full RFC 3986 parse.
func isAbsoluteURI(s string) bool {
	idx := strings.Index(s, ":")
	if idx <= 0 {
		return false
	}
	scheme := s[:idx]
	if !(('A' <= scheme[0] && scheme[0] <= 'Z') || ('a' <= scheme[0] && scheme[0] <= 'z')) {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		ok := ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z') || ('0' <= c && c <= '9') || c == '+' || c == '-' || c == '.'
		if !ok {
			return false
		}
	}
	return true
}
