// Package zconfig provides the flat option bag consumed by the chain
// validator, attenuation validator, and delegation/invocation services.
// Options are assembled through the functional-options idiom rather than
// file/env/flag loading: the core is a library with no configuration file
// of its own. A long-running host that wants to source these values from
// YAML, the environment, or flags does so in its own process and passes
// the resulting zconfig.Config into the core, as cmd/zcapctl does with
// github.com/nil-go/konf.
package zconfig

import "time"

// Config is the recognized option set, per the library's configuration
// contract.
type Config struct {
	// MaxChainDepth is the hard upper bound on delegations below root.
	// Must be in (0, 100].
	MaxChainDepth int

	// MaxClockSkew is the symmetric tolerance applied to every temporal
	// comparison. Must be in (0, 24h].
	MaxClockSkew time.Duration

	// EnforceUrlAttenuation runs the URL suffix-or-equal rule during
	// attenuation validation.
	EnforceUrlAttenuation bool

	// EnforceCaveatInheritance runs the caveat type-presence rule during
	// attenuation validation.
	EnforceCaveatInheritance bool

	// CheckRevocation consults the configured revocation oracle during
	// chain validation.
	CheckRevocation bool

	// DefaultExpirationDuration is the fallback expiration applied when a
	// delegation caller omits one explicitly. Must be >= 1 minute.
	DefaultExpirationDuration time.Duration

	// AllowNoExpiration permits delegated capabilities without an
	// expiration field. False by default: a delegated capability normally
	// requires one.
	AllowNoExpiration bool

	// ValidateProofSignatures runs the Data Integrity proof verifier
	// during the chain validator's Proof phase. Disabling this is only
	// appropriate for non-production use (see Lenient).
	ValidateProofSignatures bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithMaxChainDepth overrides MaxChainDepth.
func WithMaxChainDepth(d int) Option {
	return func(c *Config) { c.MaxChainDepth = d }
}

// WithMaxClockSkew overrides MaxClockSkew.
func WithMaxClockSkew(d time.Duration) Option {
	return func(c *Config) { c.MaxClockSkew = d }
}

// WithURLAttenuation toggles EnforceUrlAttenuation.
func WithURLAttenuation(enabled bool) Option {
	return func(c *Config) { c.EnforceUrlAttenuation = enabled }
}

// WithCaveatInheritance toggles EnforceCaveatInheritance.
func WithCaveatInheritance(enabled bool) Option {
	return func(c *Config) { c.EnforceCaveatInheritance = enabled }
}

// WithRevocationCheck toggles CheckRevocation.
func WithRevocationCheck(enabled bool) Option {
	return func(c *Config) { c.CheckRevocation = enabled }
}

// WithDefaultExpiration overrides DefaultExpirationDuration.
func WithDefaultExpiration(d time.Duration) Option {
	return func(c *Config) { c.DefaultExpirationDuration = d }
}

// WithNoExpirationAllowed toggles AllowNoExpiration.
func WithNoExpirationAllowed(enabled bool) Option {
	return func(c *Config) { c.AllowNoExpiration = enabled }
}

// WithProofSignatureValidation toggles ValidateProofSignatures.
func WithProofSignatureValidation(enabled bool) Option {
	return func(c *Config) { c.ValidateProofSignatures = enabled }
}

// New builds a Config starting from Default and applying opts in order.
func New(opts ...Option) *Config {
	c := Default()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Default returns the normative default configuration.
func Default() *Config {
	return &Config{
		MaxChainDepth:             10,
		MaxClockSkew:              5 * time.Minute,
		EnforceUrlAttenuation:     true,
		EnforceCaveatInheritance:  true,
		CheckRevocation:           false,
		DefaultExpirationDuration: 30 * 24 * time.Hour,
		AllowNoExpiration:         false,
		ValidateProofSignatures:   true,
	}
}

// Strict returns a tightened preset: shallower chains, a narrower clock
// skew, and mandatory revocation checks.
func Strict() *Config {
	c := Default()
	c.MaxChainDepth = 5
	c.MaxClockSkew = time.Minute
	c.CheckRevocation = true
	return c
}

// Lenient returns a relaxed preset suitable for local testing only:
// deeper chains are tolerated and proof signature verification is
// skipped. Never use this preset in production.
func Lenient() *Config {
	c := Default()
	c.MaxChainDepth = 20
	c.ValidateProofSignatures = false
	return c
}
