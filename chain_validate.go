package zcap

import (
	"strings"
	"time"

	"go.bryk.io/zcap/faults"
	"go.bryk.io/zcap/metadata"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

// ValidateChain walks a capability's delegation chain back to its root,
// running the Structure, Depth, Continuity, Proof, and Attenuation phases
// at every hop in that fixed order: the first phase that fails determines
// the reported error code. A Result with IsValid false describes an
// attributable rejection (a bad actor, an expired capability, a broken
// chain); a non-nil error reports an infrastructure fault (a canonicalization
// failure, a malformed signature encoding) that the caller should treat as
// a verification that could not be completed rather than a definitive no.
func ValidateChain(leaf Capability, cfg *zconfig.Config, clock zclock.Clock, resolver PublicKeyResolver, revocation RevocationOracle) (Result, error) {
	if cfg == nil {
		cfg = zconfig.Default()
	}
	if clock == nil {
		clock = zclock.System()
	}
	return validateHop(leaf, chainOf(leaf), clock.Now().UTC(), cfg, clock, resolver, revocation)
}

// chainOf returns the capability chain a capability presents for its own
// verification: the single-element root chain for a root capability, or
// the chain recorded on its own delegation proof.
func chainOf(c Capability) Chain {
	if c.IsRoot() {
		return Chain{ElementID(c.ID())}
	}
	d, ok := c.(*DelegatedCapability)
	if !ok || d.Proof() == nil {
		return nil
	}
	return d.Proof().CapabilityChain
}

func validateHop(
	leaf Capability,
	chain Chain,
	now time.Time,
	cfg *zconfig.Config,
	clock zclock.Clock,
	resolver PublicKeyResolver,
	revocation RevocationOracle,
) (Result, error) {
	// Phase 1: Structure.
	if len(chain) == 0 {
		return Fail(ErrEmptyChain, "capability chain is empty"), nil
	}
	if chain[0].IsEmbedded() || !strings.HasPrefix(chain[0].ID(), RootIDPrefix) {
		return Fail(ErrMalformedChain, "chain[0] must be the root capability's identifier"), nil
	}
	if chain.HasCycle() {
		return Fail(ErrCyclicChain, "capability identifier repeats within the chain"), nil
	}

	if leaf.IsRoot() {
		// A root leaf's only valid presented chain is its own id, alone.
		if len(chain) != 1 || chain[0].ID() != leaf.ID() {
			return Fail(ErrDiscontinuousChain, "root capability's chain must contain only its own identifier"), nil
		}
		want := RootIDPrefix + percentEncodeUnreserved(leaf.InvocationTarget())
		if leaf.ID() != want {
			return Fail(ErrMalformedChain, "root capability id does not match its invocation target"), nil
		}
		if cfg.CheckRevocation && revocation != nil && revocation.IsRevoked(leaf.ID()) {
			return Fail(ErrCapabilityRevoked, "root capability has been revoked"), nil
		}
		return OK(), nil
	}

	leafDelegated, ok := leaf.(*DelegatedCapability)
	if !ok {
		return Fail(ErrMalformedChain, "non-root leaf is not a delegated capability"), nil
	}
	last := chain[len(chain)-1]
	if !last.IsEmbedded() {
		return Fail(ErrMalformedChain, "a delegated leaf's chain must end with its embedded parent capability"), nil
	}
	for _, mid := range chain[:len(chain)-1] {
		if mid.IsEmbedded() {
			return Fail(ErrMalformedChain, "only the final chain element may embed a capability"), nil
		}
	}
	parent := last.Embedded()

	// Phase 2: Depth.
	depth := len(chain) - 1
	if depth > cfg.MaxChainDepth {
		return FailWith(ErrChainDepthExceeded, "capability chain exceeds the configured maximum depth", metadata.Map{
			"depth":         depth,
			"maxChainDepth": cfg.MaxChainDepth,
		}), nil
	}

	// Phase 3: Continuity.
	if leafDelegated.ParentCapability() != parent.ID() {
		return FailWith(ErrDiscontinuousChain, "leaf's parentCapability does not match the embedded parent's id", metadata.Map{
			"parentCapability": leafDelegated.ParentCapability(),
			"embeddedParentID": parent.ID(),
		}), nil
	}

	// Phase 4: Proof.
	if cfg.ValidateProofSignatures {
		proof := leafDelegated.Proof()
		if proof == nil || proof.Purpose != PurposeCapabilityDelegation {
			return Fail(ErrInvalidProofSignature, "delegated capability has no delegation proof"), nil
		}
		if resolver == nil {
			return Result{}, faults.StructuralFault("chain validation requires a public key resolver")
		}
		pub, found := resolver.ResolveByVerificationMethod(proof.VerificationMethod)
		if !found {
			return FailWith(ErrPublicKeyNotFound, "proof verification method does not resolve to a known key", metadata.Map{
				"verificationMethod": proof.VerificationMethod,
			}), nil
		}
		if !controlledBy(proof.VerificationMethod, parent.Controller()) {
			return FailWith(ErrUnauthorizedVerifKey, "proof verification method is not controlled by the parent's controller", metadata.Map{
				"verificationMethod": proof.VerificationMethod,
			}), nil
		}
		ok, err := Verify(VerifyRequest{
			Document:     leafDelegated.WithoutProof(),
			Proof:        proof,
			PublicKey:    pub,
			Clock:        clock,
			MaxClockSkew: cfg.MaxClockSkew,
		})
		if err != nil {
			return Result{}, faults.CryptoFault(err)
		}
		if !ok {
			return Fail(ErrInvalidProofSignature, "capability proof does not verify against the resolved key"), nil
		}
	}

	// Phase 5: Attenuation.
	if r := ValidateAttenuation(parent, leafDelegated, now, cfg); !r.IsValid {
		return r, nil
	}

	if cfg.CheckRevocation && revocation != nil && revocation.IsRevoked(leafDelegated.ID()) {
		return Fail(ErrCapabilityRevoked, "capability has been revoked"), nil
	}

	// Phase 6: Recurse. Root is terminal; otherwise continue with the
	// parent's own chain, which it recorded when it was itself delegated.
	if parent.IsRoot() {
		return OK(), nil
	}
	parentDelegated, ok := parent.(*DelegatedCapability)
	if !ok {
		return Fail(ErrMalformedChain, "embedded parent is neither root nor delegated"), nil
	}
	return validateHop(parentDelegated, chainOf(parentDelegated), now, cfg, clock, resolver, revocation)
}

// controlledBy reports whether verificationMethod identifies a key
// controlled by one of controller's values. Without DID resolution this
// library relies on the common convention that a verification method URI
// is the controller's identifier with a "#<fragment>" key reference
// appended.
func controlledBy(verificationMethod string, controller OneOrMany) bool {
	for _, c := range controller.Values() {
		if strings.HasPrefix(verificationMethod, c+"#") || verificationMethod == c {
			return true
		}
	}
	return false
}
