package zcap

// PublicKeyResolver resolves a proof's verificationMethod URI to the
// 32-byte Ed25519 public key that should verify it. The in-memory key
// store (package go.bryk.io/zcap/keystore) satisfies this by scanning its
// own entries; a production host may instead perform DID resolution or an
// HSM lookup.
type PublicKeyResolver interface {
	ResolveByVerificationMethod(method string) (publicKey [32]byte, found bool)
}

// RevocationOracle reports whether a capability id has been revoked. The
// core ships a no-op default (package go.bryk.io/zcap/revocation); hosts
// may plug in a registry.
type RevocationOracle interface {
	IsRevoked(capabilityID string) bool
}
