package zcap

import "time"

// InvocationContext is an immutable snapshot used to evaluate a
// capability's caveats at invocation time.
type InvocationContext struct {
	// CapabilityID is the capability the invoker is exercising.
	CapabilityID string
	// Invoker is the identifier of the principal making the invocation.
	Invoker string
	// Action is the requested action.
	Action string
	// Target is the target resource URI.
	Target string
	// Time is the invocation timestamp.
	Time time.Time
	// Properties carries auxiliary context properties caveats may
	// consult, e.g. "ipAddress".
	Properties map[string]interface{}
}
