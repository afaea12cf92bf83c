package zcap

import (
	"encoding/json"
	"time"

	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/faults"
	"go.bryk.io/zcap/multibase"
	"go.bryk.io/zcap/rdf"
	"go.bryk.io/zcap/zclock"
)

// ProofPurpose is the enumerated reason a Data Integrity proof was
// produced.
type ProofPurpose string

// The two proof purposes this library recognizes.
const (
	PurposeCapabilityDelegation ProofPurpose = "capabilityDelegation"
	PurposeCapabilityInvocation ProofPurpose = "capabilityInvocation"
)

// Ed25519Signature2020 is the only normative signature-suite type.
const Ed25519Signature2020 = "Ed25519Signature2020"

// Proof is an attached Data Integrity proof, per the Data Integrity proof
// pipeline: canonicalize, sign, multibase-encode, and its inverse for
// verification.
type Proof struct {
	Type                string       `json:"type"`
	Created             time.Time    `json:"created"`
	Purpose             ProofPurpose `json:"proofPurpose"`
	VerificationMethod  string       `json:"verificationMethod"`
	ProofValue          string       `json:"proofValue"`
	CapabilityChain     Chain        `json:"capabilityChain,omitempty"`
	Capability          string       `json:"capability,omitempty"`
}

type proofWire struct {
	Type               string       `json:"type"`
	Created            string       `json:"created"`
	Purpose            ProofPurpose `json:"proofPurpose"`
	VerificationMethod string       `json:"verificationMethod"`
	ProofValue         string       `json:"proofValue"`
	CapabilityChain    Chain        `json:"capabilityChain,omitempty"`
	Capability         string       `json:"capability,omitempty"`
}

// MarshalJSON renders Created as RFC 3339 with a literal "Z" suffix, per
// the wire format's ISO 8601 UTC timestamp convention.
func (p *Proof) MarshalJSON() ([]byte, error) {
	return json.Marshal(proofWire{
		Type:               p.Type,
		Created:            p.Created.UTC().Format(time.RFC3339),
		Purpose:            p.Purpose,
		VerificationMethod: p.VerificationMethod,
		ProofValue:         p.ProofValue,
		CapabilityChain:    p.CapabilityChain,
		Capability:         p.Capability,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var w proofWire
	if err := json.Unmarshal(data, &w); err != nil {
		return faults.SerializationFault(err)
	}
	created, err := time.Parse(time.RFC3339, w.Created)
	if err != nil {
		return faults.StructuralFault("invalid proof.created timestamp: " + w.Created)
	}
	p.Type = w.Type
	p.Created = created.UTC()
	p.Purpose = w.Purpose
	p.VerificationMethod = w.VerificationMethod
	p.ProofValue = w.ProofValue
	p.CapabilityChain = w.CapabilityChain
	p.Capability = w.Capability
	return nil
}

// canonicalizable is implemented by every document form the proof pipeline
// signs: a capability or invocation with its proof field stripped.
type canonicalizable interface{}

// BuildRequest carries everything the proof builder needs to produce a
// Data Integrity proof over a document.
type BuildRequest struct {
	// Document is the proof-stripped document to canonicalize and sign.
	Document canonicalizable
	// Key is the signing key pair.
	Key *edkey.KeyPair
	// VerificationMethod is the absolute URI identifying Key's public
	// half, recorded on the emitted proof.
	VerificationMethod string
	// Purpose is the reason this proof is being produced.
	Purpose ProofPurpose
	// Chain is required when Purpose is PurposeCapabilityDelegation.
	Chain Chain
	// CapabilityID is required when Purpose is PurposeCapabilityInvocation.
	CapabilityID string
	// Clock supplies "now"; defaults to zclock.System() if nil.
	Clock zclock.Clock
}

// Build runs the Data Integrity proof pipeline: canonicalize the document,
// sign the canonical bytes, multibase-encode the signature, and emit a
// populated Proof. The caller is responsible for attaching the returned
// proof to a new copy of the signed document; Build never mutates its
// input.
func Build(req BuildRequest) (*Proof, error) {
	if req.Key == nil {
		return nil, faults.StructuralFault("proof build requires a signing key")
	}
	clock := req.Clock
	if clock == nil {
		clock = zclock.System()
	}

	bytes, err := rdf.Canonicalize(req.Document)
	if err != nil {
		return nil, faults.CanonicalizationFault(err)
	}
	sig := req.Key.Sign(bytes)
	pv, err := multibase.Encode(sig, multibase.Base58BTC)
	if err != nil {
		return nil, faults.CryptoFault(err)
	}

	p := &Proof{
		Type:               Ed25519Signature2020,
		Created:            clock.Now().UTC(),
		Purpose:            req.Purpose,
		VerificationMethod: req.VerificationMethod,
		ProofValue:         pv,
	}
	switch req.Purpose {
	case PurposeCapabilityDelegation:
		if len(req.Chain) == 0 {
			return nil, faults.StructuralFault("delegation proof requires a non-empty capability chain")
		}
		p.CapabilityChain = req.Chain
	case PurposeCapabilityInvocation:
		if req.CapabilityID == "" {
			return nil, faults.StructuralFault("invocation proof requires a capability id")
		}
		p.Capability = req.CapabilityID
	default:
		return nil, faults.StructuralFault("unknown proof purpose: " + string(req.Purpose))
	}
	return p, nil
}

// VerifyRequest carries everything the proof verifier needs to check a
// Proof attached to a document.
type VerifyRequest struct {
	// Document is the signed document with its proof field already
	// stripped (the same D' the builder canonicalized).
	Document canonicalizable
	// Proof is the attached proof being checked.
	Proof *Proof
	// PublicKey is the 32-byte Ed25519 public key to verify against.
	PublicKey [32]byte
	// Clock supplies "now"; defaults to zclock.System() if nil.
	Clock zclock.Clock
	// MaxClockSkew bounds how far into the future Proof.Created may be.
	MaxClockSkew time.Duration
}

// Verify checks a Proof's structure, algorithm, and signature. A
// canonicalization failure is reported as an error so callers can
// distinguish tampering (a false result) from an infrastructure failure.
// A recognized-but-wrong signature, a mismatched algorithm, or a proof
// value that does not decode to a 64-byte signature returns (false, nil):
// never an error.
func Verify(req VerifyRequest) (bool, error) {
	if req.Proof == nil {
		return false, nil
	}
	clock := req.Clock
	if clock == nil {
		clock = zclock.System()
	}
	skew := req.MaxClockSkew
	if skew <= 0 {
		skew = 5 * time.Minute
	}

	if req.Proof.VerificationMethod == "" || req.Proof.ProofValue == "" {
		return false, nil
	}
	switch req.Proof.Purpose {
	case PurposeCapabilityDelegation:
		if len(req.Proof.CapabilityChain) == 0 {
			return false, nil
		}
	case PurposeCapabilityInvocation:
		if req.Proof.Capability == "" {
			return false, nil
		}
	default:
		return false, nil
	}
	if req.Proof.Created.After(clock.Now().Add(skew)) {
		return false, nil
	}

	// A mismatched algorithm field is a definitive "no", not an exception:
	// the document may be perfectly valid under a suite we don't support.
	if req.Proof.Type != Ed25519Signature2020 {
		return false, nil
	}

	bytes, err := rdf.Canonicalize(req.Document)
	if err != nil {
		return false, faults.CanonicalizationFault(err)
	}
	sig, err := multibase.Decode(req.Proof.ProofValue)
	if err != nil {
		return false, nil
	}
	if len(sig) != 64 {
		return false, nil
	}
	return edkey.Verify(bytes, sig, req.PublicKey[:]), nil
}
