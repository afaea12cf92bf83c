package zcap

import (
	"time"

	"github.com/google/uuid"
	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/faults"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

// DelegationRequest carries everything the delegation service needs to
// issue a new capability against a parent.
type DelegationRequest struct {
	// Parent is the capability being delegated from.
	Parent Capability
	// Delegatee becomes the new capability's controller.
	Delegatee OneOrMany
	// Target optionally narrows the parent's invocation target. Leave
	// empty to inherit the parent's target unchanged.
	Target string
	// AllowedAction optionally narrows the parent's allowed actions. A
	// zero value inherits the parent's restriction unchanged.
	AllowedAction OneOrMany
	// Caveats become the new capability's caveat list exactly as given;
	// nothing is added automatically, so the caller is responsible for
	// including at least one caveat of every type already present on Parent.
	Caveats CaveatList
	// Invoker optionally restricts who may invoke the new capability.
	Invoker string
	// Expires is the new capability's expiration. Zero selects
	// cfg.DefaultExpirationDuration from Clock.Now().
	Expires time.Time
	// SigningKey signs the new capability's delegation proof. It must be
	// controlled by Parent's controller.
	SigningKey *edkey.KeyPair
	// VerificationMethod identifies SigningKey's public half on the proof.
	VerificationMethod string
	// Clock supplies "now"; defaults to zclock.System() if nil.
	Clock zclock.Clock
}

// Delegate constructs, attenuation-checks, and signs a new delegated
// capability against req.Parent. Construction is all-or-nothing: if the
// attenuation check fails, no partially-built capability is ever returned,
// only the Result describing the violation.
func Delegate(req DelegationRequest, cfg *zconfig.Config) (*DelegatedCapability, Result, error) {
	if cfg == nil {
		cfg = zconfig.Default()
	}
	if req.Parent == nil {
		return nil, Result{}, faults.StructuralFault("delegation requires a parent capability")
	}
	if req.SigningKey == nil || req.VerificationMethod == "" {
		return nil, Result{}, faults.StructuralFault("delegation requires a signing key and verification method")
	}
	clock := req.Clock
	if clock == nil {
		clock = zclock.System()
	}
	now := clock.Now().UTC()

	target := req.Target
	if target == "" {
		target = req.Parent.InvocationTarget()
	}
	expires := req.Expires.UTC()
	if expires.IsZero() {
		expires = now.Add(cfg.DefaultExpirationDuration)
	}
	if !cfg.AllowNoExpiration && expires.IsZero() {
		return nil, Result{}, faults.StructuralFault("delegated capability requires an expiration")
	}

	candidate := &DelegatedCapability{
		context:          Many(RootContext),
		id:               "urn:uuid:" + uuid.NewString(),
		controller:       req.Delegatee,
		invocationTarget: target,
		parentCapability: req.Parent.ID(),
		expires:          expires,
		allowedAction:    req.AllowedAction,
		caveats:          req.Caveats,
		invoker:          req.Invoker,
	}

	if r := ValidateAttenuation(req.Parent, candidate, now, cfg); !r.IsValid {
		return nil, r, nil
	}

	chain, err := chainForDelegation(req.Parent)
	if err != nil {
		return nil, Result{}, err
	}

	proof, err := Build(BuildRequest{
		Document:           candidate,
		Key:                req.SigningKey,
		VerificationMethod: req.VerificationMethod,
		Purpose:            PurposeCapabilityDelegation,
		Chain:              chain,
		Clock:              clock,
	})
	if err != nil {
		return nil, Result{}, err
	}
	return candidate.WithProof(proof), OK(), nil
}

// chainForDelegation builds the capability chain a newly delegated
// capability must carry: the parent's own chain with its embedded element
// replaced by the parent's bare id, followed by the parent embedded in
// full as the new final element. A root parent has no chain of its own,
// so the result is simply [root.id, EMBEDDED(root)].
func chainForDelegation(parent Capability) (Chain, error) {
	if parent.IsRoot() {
		return Chain{ElementID(parent.ID()), ElementEmbedded(parent)}, nil
	}
	parentDelegated, ok := parent.(*DelegatedCapability)
	if !ok {
		return nil, faults.StructuralFault("parent capability is neither root nor delegated")
	}
	if parentDelegated.Proof() == nil {
		return nil, faults.StructuralFault("parent capability has not been signed; it cannot anchor a new delegation")
	}
	parentChain := parentDelegated.Proof().CapabilityChain
	if len(parentChain) == 0 {
		return nil, faults.StructuralFault("parent capability's own chain is empty")
	}
	newChain := make(Chain, 0, len(parentChain)+1)
	newChain = append(newChain, parentChain[:len(parentChain)-1]...)
	newChain = append(newChain, ElementID(parent.ID()))
	newChain = append(newChain, ElementEmbedded(parent))
	return newChain, nil
}
