// Package revocation provides the revocation oracle implementations a host
// plugs into chain validation via go.bryk.io/zcap.RevocationOracle. The
// core ships with a no-op default; a host that needs real revocation
// supplies its own registry-backed implementation, or the in-memory one
// here for tests and small deployments.
package revocation

import "sync"

// NeverRevoked is the no-op default: nothing is ever revoked. Satisfies
// zcap.RevocationOracle.
type NeverRevoked struct{}

// IsRevoked always returns false.
func (NeverRevoked) IsRevoked(capabilityID string) bool { return false }

// InMemorySet is a concurrency-safe revocation registry suitable for tests
// and single-process deployments. Satisfies zcap.RevocationOracle.
type InMemorySet struct {
	mu      sync.RWMutex
	revoked map[string]bool
}

// NewInMemorySet returns an empty revocation registry.
func NewInMemorySet() *InMemorySet {
	return &InMemorySet{revoked: make(map[string]bool)}
}

// Revoke marks capabilityID as revoked.
func (s *InMemorySet) Revoke(capabilityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[capabilityID] = true
}

// Unrevoke clears a prior revocation, e.g. to correct an operator mistake.
func (s *InMemorySet) Unrevoke(capabilityID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.revoked, capabilityID)
}

// IsRevoked reports whether capabilityID has been revoked.
func (s *InMemorySet) IsRevoked(capabilityID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revoked[capabilityID]
}
