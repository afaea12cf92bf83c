package zcap

import (
	"encoding/json"
	"net"
	"sync/atomic"
	"time"

	"go.bryk.io/zcap/faults"
)

// CaveatType tags which concrete caveat variant a JSON object carries.
// Caveats are a closed sum type: an unrecognized tag is a structural
// fault, never silently dropped, because an unknown restriction must not
// be mistaken for "no restriction".
type CaveatType string

// The caveat variants this library supports.
const (
	CaveatExpiration CaveatType = "Expiration"
	CaveatTimeWindow CaveatType = "TimeWindow"
	CaveatAction     CaveatType = "Action"
	CaveatUsageCount CaveatType = "UsageCount"
	CaveatIPAddress  CaveatType = "IpAddress"
)

// Caveat is a runtime-evaluated restriction attached to a delegated
// capability. Satisfied is evaluated against an InvocationContext
// snapshot; it must not mutate ctx itself, though a UsageCount caveat
// mutates its own internal counter as a side effect.
type Caveat interface {
	Type() CaveatType
	Satisfied(ctx InvocationContext) bool
}

// ExpirationCaveat is satisfied while ctx.Time is strictly before Instant.
type ExpirationCaveat struct {
	Instant time.Time `json:"instant"`
}

// Type implements Caveat.
func (c *ExpirationCaveat) Type() CaveatType { return CaveatExpiration }

// Satisfied implements Caveat.
func (c *ExpirationCaveat) Satisfied(ctx InvocationContext) bool {
	return ctx.Time.Before(c.Instant)
}

// TimeWindowCaveat is satisfied while From <= ctx.Time < Until.
type TimeWindowCaveat struct {
	From  time.Time `json:"from"`
	Until time.Time `json:"until"`
}

// Type implements Caveat.
func (c *TimeWindowCaveat) Type() CaveatType { return CaveatTimeWindow }

// Satisfied implements Caveat.
func (c *TimeWindowCaveat) Satisfied(ctx InvocationContext) bool {
	return !ctx.Time.Before(c.From) && ctx.Time.Before(c.Until)
}

// ActionCaveat is satisfied when the requested action is a case-sensitive
// member of Allowed.
type ActionCaveat struct {
	Allowed []string `json:"allowed"`
}

// Type implements Caveat.
func (c *ActionCaveat) Type() CaveatType { return CaveatAction }

// Satisfied implements Caveat.
func (c *ActionCaveat) Satisfied(ctx InvocationContext) bool {
	for _, a := range c.Allowed {
		if a == ctx.Action {
			return true
		}
	}
	return false
}

// UsageCountCaveat is satisfied while the atomic counter is below Max. Every
// Satisfied call increments the counter, whether or not it succeeds; callers that only want
// to peek should not call Satisfied. The core defines this counter
// semantics but leaves persistence to the host: a process restart resets
// Current unless the host restores it first.
type UsageCountCaveat struct {
	Max     int64 `json:"max"`
	Current int64 `json:"current"`
}

// Type implements Caveat.
func (c *UsageCountCaveat) Type() CaveatType { return CaveatUsageCount }

// Satisfied implements Caveat. It atomically increments Current and
// reports whether the pre-increment value was still under Max.
func (c *UsageCountCaveat) Satisfied(_ InvocationContext) bool {
	next := atomic.AddInt64(&c.Current, 1)
	return next <= c.Max
}

// IPAddressCaveat is satisfied when the context's "ipAddress" auxiliary
// property matches one of the configured CIDR blocks.
type IPAddressCaveat struct {
	CIDRs []string `json:"cidrs"`
}

// Type implements Caveat.
func (c *IPAddressCaveat) Type() CaveatType { return CaveatIPAddress }

// Satisfied implements Caveat.
func (c *IPAddressCaveat) Satisfied(ctx InvocationContext) bool {
	raw, ok := ctx.Properties["ipAddress"]
	if !ok {
		return false
	}
	addrStr, ok := raw.(string)
	if !ok {
		return false
	}
	addr := net.ParseIP(addrStr)
	if addr == nil {
		return false
	}
	for _, block := range c.CIDRs {
		_, ipnet, err := net.ParseCIDR(block)
		if err != nil {
			continue
		}
		if ipnet.Contains(addr) {
			return true
		}
	}
	return false
}

// caveatEnvelope is the on-wire shape of a caveat: a "type" tag plus the
// variant's own fields, flattened alongside it.
type caveatEnvelope struct {
	Type CaveatType `json:"type"`
}

// MarshalCaveat serializes a Caveat to its tagged on-wire representation.
func MarshalCaveat(c Caveat) ([]byte, error) {
	body, err := json.Marshal(c)
	if err != nil {
		return nil, faults.SerializationFault(err)
	}
	merged := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &merged); err != nil {
		return nil, faults.SerializationFault(err)
	}
	typeJSON, err := json.Marshal(c.Type())
	if err != nil {
		return nil, faults.SerializationFault(err)
	}
	merged["type"] = typeJSON
	return json.Marshal(merged)
}

// UnmarshalCaveat dispatches on the "type" tag and returns the concrete
// Caveat implementation. An unrecognized tag is a structural fault.
func UnmarshalCaveat(data []byte) (Caveat, error) {
	var env caveatEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, faults.SerializationFault(err)
	}
	switch env.Type {
	case CaveatExpiration:
		var c ExpirationCaveat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, faults.SerializationFault(err)
		}
		return &c, nil
	case CaveatTimeWindow:
		var c TimeWindowCaveat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, faults.SerializationFault(err)
		}
		return &c, nil
	case CaveatAction:
		var c ActionCaveat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, faults.SerializationFault(err)
		}
		return &c, nil
	case CaveatUsageCount:
		var c UsageCountCaveat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, faults.SerializationFault(err)
		}
		return &c, nil
	case CaveatIPAddress:
		var c IPAddressCaveat
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, faults.SerializationFault(err)
		}
		return &c, nil
	default:
		return nil, faults.StructuralFault("unknown caveat type: " + string(env.Type))
	}
}
