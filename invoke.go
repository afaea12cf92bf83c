package zcap

import (
	"encoding/json"

	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/faults"
	"go.bryk.io/zcap/metadata"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

// Invocation is a signed exercise of a capability: a request to act on the
// capability's invocation target, carrying a Data Integrity proof with
// proofPurpose "capabilityInvocation". It reuses the zcap vocabulary's
// "capability" term for CapabilityID so it canonicalizes under the same
// context a proof's embedded capability reference does.
type Invocation struct {
	CapabilityID     string
	Action           string
	InvocationTarget string
	Invoker          string
	Proof            *Proof
}

type invocationWire struct {
	Context          string `json:"@context"`
	Capability       string `json:"capability"`
	Action           string `json:"action,omitempty"`
	InvocationTarget string `json:"invocationTarget,omitempty"`
	Invoker          string `json:"invoker,omitempty"`
	Proof            *Proof `json:"proof,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (inv *Invocation) MarshalJSON() ([]byte, error) {
	return json.Marshal(invocationWire{
		Context:          RootContext,
		Capability:       inv.CapabilityID,
		Action:           inv.Action,
		InvocationTarget: inv.InvocationTarget,
		Invoker:          inv.Invoker,
		Proof:            inv.Proof,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (inv *Invocation) UnmarshalJSON(data []byte) error {
	var w invocationWire
	if err := json.Unmarshal(data, &w); err != nil {
		return faults.SerializationFault(err)
	}
	if w.Context != RootContext {
		return faults.StructuralFault("invocation @context must be " + RootContext)
	}
	inv.CapabilityID = w.Capability
	inv.Action = w.Action
	inv.InvocationTarget = w.InvocationTarget
	inv.Invoker = w.Invoker
	inv.Proof = w.Proof
	return nil
}

// InvocationRequest carries everything the invocation service needs to
// produce a signed Invocation against a capability.
type InvocationRequest struct {
	// Capability is the capability being invoked.
	Capability Capability
	// Action is the action being requested.
	Action string
	// Invoker identifies the party performing the invocation. It is recorded
	// on the invocation and handed to caveats as InvocationContext.Invoker;
	// a capability's invoker restriction is checked against the proof's
	// verification method, not against this field.
	Invoker string
	// SigningKey signs the invocation proof. It must be controlled by
	// Capability's controller, or by Capability's invoker if one is set.
	SigningKey *edkey.KeyPair
	// VerificationMethod identifies SigningKey's public half on the proof.
	VerificationMethod string
	// Clock supplies "now"; defaults to zclock.System() if nil.
	Clock zclock.Clock
}

// Invoke builds and signs an Invocation against req.Capability. It does not
// itself validate the capability chain; callers combine Invoke with
// ValidateInvocation (or run ValidateChain separately) to get a full
// accept/reject decision.
func Invoke(req InvocationRequest) (*Invocation, error) {
	if req.Capability == nil {
		return nil, faults.StructuralFault("invocation requires a capability")
	}
	if req.SigningKey == nil || req.VerificationMethod == "" {
		return nil, faults.StructuralFault("invocation requires a signing key and verification method")
	}
	clock := req.Clock
	if clock == nil {
		clock = zclock.System()
	}

	inv := &Invocation{
		CapabilityID:     req.Capability.ID(),
		Action:           req.Action,
		InvocationTarget: req.Capability.InvocationTarget(),
		Invoker:          req.Invoker,
	}
	proof, err := Build(BuildRequest{
		Document:           inv,
		Key:                req.SigningKey,
		VerificationMethod: req.VerificationMethod,
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       req.Capability.ID(),
		Clock:              clock,
	})
	if err != nil {
		return nil, err
	}
	inv.Proof = proof
	return inv, nil
}

// withoutProof returns a shallow copy of inv with its proof field cleared,
// the document form the proof builder canonicalizes and signs.
func (inv *Invocation) withoutProof() *Invocation {
	cp := *inv
	cp.Proof = nil
	return &cp
}

// ValidateInvocation checks an Invocation against the capability it claims
// to invoke: the capability chain must validate under ValidateChain, the
// invocation's proof must verify, the requested action must be within the
// capability's allowed set, the invocation's target must be equal to or a
// path-suffix of the capability's target, and every caveat must be
// satisfied. The proof must be signed through a verification method
// controlled by the capability's controller or, if the capability names an
// invoker, by that invoker; the invocation's own Invoker field is not
// compared. Proof checks are skipped when cfg.ValidateProofSignatures is off.
func ValidateInvocation(
	inv *Invocation,
	capability Capability,
	cfg *zconfig.Config,
	clock zclock.Clock,
	resolver PublicKeyResolver,
	revocation RevocationOracle,
) (Result, error) {
	if cfg == nil {
		cfg = zconfig.Default()
	}
	if clock == nil {
		clock = zclock.System()
	}
	if inv == nil || capability == nil {
		return Fail(ErrInvocationCapabilityMismatch, "invocation and capability are both required"), nil
	}
	if inv.CapabilityID != capability.ID() {
		return FailWith(ErrInvocationCapabilityMismatch, "invocation does not name the capability being presented", metadata.Map{
			"invocationCapability": inv.CapabilityID,
			"capabilityID":         capability.ID(),
		}), nil
	}

	if r, err := ValidateChain(capability, cfg, clock, resolver, revocation); err != nil {
		return Result{}, err
	} else if !r.IsValid {
		return r, nil
	}

	if cfg.ValidateProofSignatures {
		if inv.Proof == nil || inv.Proof.Purpose != PurposeCapabilityInvocation {
			return Fail(ErrInvalidProofSignature, "invocation has no invocation proof"), nil
		}
		if resolver == nil {
			return Result{}, faults.StructuralFault("invocation validation requires a public key resolver")
		}
		pub, found := resolver.ResolveByVerificationMethod(inv.Proof.VerificationMethod)
		if !found {
			return FailWith(ErrPublicKeyNotFound, "invocation proof verification method does not resolve to a known key", metadata.Map{
				"verificationMethod": inv.Proof.VerificationMethod,
			}), nil
		}
		authorized := controlledBy(inv.Proof.VerificationMethod, capability.Controller())
		if d, ok := capability.(*DelegatedCapability); ok && d.Invoker() != "" {
			authorized = controlledBy(inv.Proof.VerificationMethod, One(d.Invoker()))
		}
		if !authorized {
			return Fail(ErrUnauthorizedVerifKey, "invocation proof verification method is not controlled by the capability's controller or invoker"), nil
		}
		ok, err := Verify(VerifyRequest{
			Document:     inv.withoutProof(),
			Proof:        inv.Proof,
			PublicKey:    pub,
			Clock:        clock,
			MaxClockSkew: cfg.MaxClockSkew,
		})
		if err != nil {
			return Result{}, faults.CryptoFault(err)
		}
		if !ok {
			return Fail(ErrInvalidProofSignature, "invocation proof does not verify against the resolved key"), nil
		}
	}

	if d, ok := capability.(*DelegatedCapability); ok && !d.AllowedAction().IsZero() {
		if !d.AllowedAction().ContainsFold(inv.Action) {
			return FailWith(ErrActionNotAllowed, "requested action is not within the capability's allowed actions", metadata.Map{
				"action":        inv.Action,
				"allowedAction": d.AllowedAction().Values(),
			}), nil
		}
	}

	if r := validateURLSuffix(capability.InvocationTarget(), inv.InvocationTarget); !r.IsValid {
		return FailWith(ErrTargetMismatch, "invocation target is not equal to, or a path suffix of, the capability's target", metadata.Map{
			"capabilityTarget": capability.InvocationTarget(),
			"invocationTarget": inv.InvocationTarget,
		}), nil
	}

	if d, ok := capability.(*DelegatedCapability); ok {
		now := clock.Now().UTC()
		for _, c := range d.Caveats() {
			if !c.Satisfied(InvocationContext{
				CapabilityID: capability.ID(),
				Invoker:      inv.Invoker,
				Action:       inv.Action,
				Target:       inv.InvocationTarget,
				Time:         now,
			}) {
				return FailWith(ErrActionNotAllowed, "a caveat on the capability was not satisfied", metadata.Map{
					"caveatType": string(c.Type()),
				}), nil
			}
		}
	}

	return OK(), nil
}
