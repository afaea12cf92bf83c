package zcap

import (
	"strings"
	"time"

	"go.bryk.io/zcap/metadata"
	"go.bryk.io/zcap/zconfig"
)

// ValidateAttenuation is a pure function of (parent, child) returning a
// Result. Checks run top-down in the fixed order below so the reported
// error code is deterministic for a given input pair: URL suffix,
// expiration, action, caveat inheritance.
func ValidateAttenuation(parent Capability, child *DelegatedCapability, now time.Time, cfg *zconfig.Config) Result {
	if cfg == nil {
		cfg = zconfig.Default()
	}

	if cfg.EnforceUrlAttenuation {
		if r := validateURLSuffix(parent.InvocationTarget(), child.InvocationTarget()); !r.IsValid {
			return r
		}
	}

	if r := validateExpiration(parent, child, now, cfg.MaxClockSkew); !r.IsValid {
		return r
	}

	if r := validateAction(parent, child); !r.IsValid {
		return r
	}

	if cfg.EnforceCaveatInheritance {
		if r := validateCaveatInheritance(parent, child); !r.IsValid {
			return r
		}
	}

	return OK()
}

// validateURLSuffix implements the normative "path-suffix-or-equal"
// formulation: after stripping exactly one trailing '/' from the parent
// target, the child target must equal it, or extend it with a '/'
// boundary. Comparison is case-insensitive over scheme/host, byte-exact
// over path; a child shorter than the parent always fails.
func validateURLSuffix(parentTarget, childTarget string) Result {
	pFull := foldAuthorityCase(parentTarget)
	p := strings.TrimSuffix(pFull, "/")
	c := foldAuthorityCase(childTarget)

	if c == p || c == pFull {
		return OK()
	}
	if len(c) < len(p) {
		return attenuationViolation(parentTarget, childTarget)
	}
	if !strings.HasPrefix(c, p) {
		return attenuationViolation(parentTarget, childTarget)
	}
	if c[len(p)] != '/' {
		return attenuationViolation(parentTarget, childTarget)
	}
	return OK()
}

// foldAuthorityCase lowercases only target's scheme and host, leaving the
// path (and any query/fragment) byte-exact, per the normative "case-
// insensitive per URI scheme/host conventions but byte-exact on path"
// rule: a parent scoped to "/api" must never attenuate to a child whose
// path differs only by case, e.g. "/API/secret".
func foldAuthorityCase(target string) string {
	idx := strings.Index(target, "://")
	if idx == -1 {
		return target
	}
	authorityStart := idx + len("://")
	end := strings.IndexAny(target[authorityStart:], "/?#")
	if end == -1 {
		return strings.ToLower(target)
	}
	authorityEnd := authorityStart + end
	return strings.ToLower(target[:authorityEnd]) + target[authorityEnd:]
}

func attenuationViolation(parentTarget, childTarget string) Result {
	return FailWith(ErrURLAttenuationViolation, "child invocation target is not equal to, or a path suffix of, the parent target", metadata.Map{
		"parentTarget": parentTarget,
		"childTarget":  childTarget,
	})
}

func validateExpiration(parent Capability, child *DelegatedCapability, now time.Time, skew time.Duration) Result {
	if !child.Expires().After(now.Add(-skew)) {
		return FailWith(ErrCapabilityExpired, "child capability is expired", metadata.Map{
			"expires": child.Expires(),
			"now":     now,
		})
	}

	parentDelegated, ok := parent.(*DelegatedCapability)
	if !ok {
		// Parent is root: no upper bound to enforce.
		return OK()
	}

	if !parentDelegated.Expires().After(now.Add(-skew)) {
		return FailWith(ErrParentCapabilityExpired, "parent capability is expired", metadata.Map{
			"parentExpires": parentDelegated.Expires(),
			"now":           now,
		})
	}
	if child.Expires().After(parentDelegated.Expires().Add(skew)) {
		return FailWith(ErrExpirationAttenuationViol, "child expiration exceeds parent expiration", metadata.Map{
			"childExpires":  child.Expires(),
			"parentExpires": parentDelegated.Expires(),
		})
	}
	return OK()
}

func validateAction(parent Capability, child *DelegatedCapability) Result {
	parentDelegated, ok := parent.(*DelegatedCapability)
	if !ok || parentDelegated.AllowedAction().IsZero() {
		return OK()
	}
	if child.AllowedAction().IsZero() {
		return OK()
	}

	var offending []string
	for _, action := range child.AllowedAction().Values() {
		if !parentDelegated.AllowedAction().ContainsFold(action) {
			offending = append(offending, action)
		}
	}
	if len(offending) > 0 {
		return FailWith(ErrActionAttenuationViolation, "child allowed actions are not a subset of the parent's", metadata.Map{
			"offendingActions": offending,
		})
	}
	return OK()
}

func validateCaveatInheritance(parent Capability, child *DelegatedCapability) Result {
	parentDelegated, ok := parent.(*DelegatedCapability)
	if !ok {
		return OK()
	}
	parentTypes := parentDelegated.Caveats().Types()
	if len(parentTypes) == 0 {
		return OK()
	}
	childTypes := child.Caveats().Types()

	var missing []string
	for t := range parentTypes {
		if !childTypes[t] {
			missing = append(missing, string(t))
		}
	}
	if len(missing) > 0 {
		return FailWith(ErrCaveatInheritanceViolation, "child is missing a caveat type present on the parent", metadata.Map{
			"missingTypes": missing,
		})
	}
	return OK()
}
