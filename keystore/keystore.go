// Package keystore provides the in-memory key store used by a single
// process to hold the Ed25519 key pairs it signs and verifies capabilities
// with. It satisfies go.bryk.io/zcap.PublicKeyResolver by structural
// typing, so the chain validator can resolve a proof's verificationMethod
// without importing this package.
package keystore

import (
	"sync"

	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/faults"
	"go.bryk.io/zcap/metrics"
)

// entry pairs a stored key with the verification method URI it is
// addressed by.
type entry struct {
	verificationMethod string
	key                *edkey.KeyPair
}

// Store is a concurrency-safe, in-memory key store keyed by an arbitrary
// caller-chosen id (typically a DID or verification method URI). Every key
// lives in locked memory for as long as it is held; Remove and ClearAll zero
// it on the way out.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	recorder *metrics.Recorder
}

// Option configures a Store at construction.
type Option func(*Store)

// WithRecorder attaches a metrics recorder: every mutation (insert, remove,
// clear) is reported via recorder.ObserveKeyStoreOp. Omitting this option
// leaves the store uninstrumented, since a nil *metrics.Recorder is itself
// a no-op.
func WithRecorder(r *metrics.Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

// New returns an empty key store.
func New(opts ...Option) *Store {
	s := &Store{entries: make(map[string]entry)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Insert adds key under id, addressable at verificationMethod. It fails if
// id is already present: a store never silently overwrites a held key.
func (s *Store) Insert(id, verificationMethod string, key *edkey.KeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[id]; exists {
		return faults.KeyStoreFault("key already present for id: " + id)
	}
	s.entries[id] = entry{verificationMethod: verificationMethod, key: key}
	s.recorder.ObserveKeyStoreOp("insert")
	return nil
}

// Lookup returns the key pair stored under id.
func (s *Store) Lookup(id string) (*edkey.KeyPair, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	return e.key, true
}

// Remove destroys and removes the key stored under id.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		e.key.Destroy()
		delete(s.entries, id)
		s.recorder.ObserveKeyStoreOp("remove")
	}
}

// ClearAll destroys and removes every key in the store.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		e.key.Destroy()
		delete(s.entries, id)
	}
	s.recorder.ObserveKeyStoreOp("clear")
}

// ResolveByVerificationMethod scans the store for the entry addressed by
// method, returning its public key. Satisfies zcap.PublicKeyResolver.
func (s *Store) ResolveByVerificationMethod(method string) (publicKey [32]byte, found bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.verificationMethod == method {
			return e.key.PublicKey(), true
		}
	}
	return [32]byte{}, false
}
