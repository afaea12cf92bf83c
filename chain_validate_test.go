package zcap

import (
	"fmt"
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/keystore"
	"go.bryk.io/zcap/revocation"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

// fixture bundles a verification-method-addressed signing key alongside the
// resolver it registers into, so every test actor (root controller, Alice,
// Bob, Carol) is built the same way.
type fixture struct {
	controller string
	vm         string
	key        *edkey.KeyPair
}

func newActor(t *testing.T, store *keystore.Store, name string) fixture {
	t.Helper()
	kp, err := edkey.New()
	tdd.New(t).Nil(err)
	vm := "https://example.test/actors/" + name + "#key-1"
	tdd.New(t).Nil(store.Insert(name, vm, kp))
	return fixture{controller: "https://example.test/actors/" + name, vm: vm, key: kp}
}

func TestChainValidate_RootCapability(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	r, err := ValidateChain(root, zconfig.Default(), zclock.System(), store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.True(r.IsValid)
}

func TestChainValidate_SingleDelegationGood(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()
	delegated, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		AllowedAction:      Many("read"),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	r, err := ValidateChain(delegated, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.True(r.IsValid, r.Message)
}

func TestChainValidate_SingleDelegationURLViolation(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()
	_, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		Target:             "https://example.test/docs/other.pdf",
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.False(result.IsValid)
	assert.Equal(ErrURLAttenuationViolation, result.ErrorCode)
}

func TestChainValidate_TwoHopGood(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")
	bob := newActor(t, store, "bob")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()

	toAlice, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		AllowedAction:      Many("read", "print"),
		Expires:            clock.Now().Add(48 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	toBob, result, err := Delegate(DelegationRequest{
		Parent:             toAlice,
		Delegatee:          One(bob.controller),
		AllowedAction:      Many("read"),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         alice.key,
		VerificationMethod: alice.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	r, err := ValidateChain(toBob, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.True(r.IsValid, r.Message)
}

func TestChainValidate_TwoHopActionViolation(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")
	bob := newActor(t, store, "bob")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()

	toAlice, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		AllowedAction:      Many("read"),
		Expires:            clock.Now().Add(48 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	_, result, err = Delegate(DelegationRequest{
		Parent:             toAlice,
		Delegatee:          One(bob.controller),
		AllowedAction:      Many("read", "delete"),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         alice.key,
		VerificationMethod: alice.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.False(result.IsValid)
	assert.Equal(ErrActionAttenuationViolation, result.ErrorCode)
}

func TestChainValidate_TamperedLeafFailsProof(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()
	delegated, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		AllowedAction:      Many("read"),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	tampered := delegated.WithoutProof()
	tampered.allowedAction = Many("read", "delete")
	tampered = tampered.WithProof(delegated.Proof())

	r, err := ValidateChain(tampered, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrInvalidProofSignature, r.ErrorCode)
}

func TestChainValidate_DepthBound(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.New(zconfig.WithMaxChainDepth(2))

	current := Capability(root)
	signer := owner
	var last *DelegatedCapability
	for i := 0; i < 3; i++ {
		actor := newActor(t, store, fmt.Sprintf("holder%d", i))
		delegated, result, err := Delegate(DelegationRequest{
			Parent:             current,
			Delegatee:          One(actor.controller),
			Expires:            clock.Now().Add(time.Duration(24-i) * time.Hour),
			SigningKey:         signer.key,
			VerificationMethod: signer.vm,
			Clock:              clock,
		}, cfg)
		assert.Nil(err)
		assert.True(result.IsValid)
		current = delegated
		last = delegated
		signer = actor
	}

	r, err := ValidateChain(last, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrChainDepthExceeded, r.ErrorCode)
}

func TestChainValidate_RevokedCapability(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.New(zconfig.WithRevocationCheck(true))
	delegated, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	revoked := revocation.NewInMemorySet()
	revoked.Revoke(delegated.ID())

	r, err := ValidateChain(delegated, cfg, clock, store, revoked)
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrCapabilityRevoked, r.ErrorCode)
}

func TestChainValidate_CyclicChainRejected(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	alice := newActor(t, store, "alice")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cfg := zconfig.Default()
	delegated, result, err := Delegate(DelegationRequest{
		Parent:             root,
		Delegatee:          One(alice.controller),
		Expires:            clock.Now().Add(24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	// Splice a duplicate id into the presented chain. The chain itself is
	// not covered by the leaf's own signature (only the capability
	// document is), so this tampering surfaces as a structural rejection
	// rather than a signature failure.
	cyclicProof := *delegated.Proof()
	cyclicProof.CapabilityChain = Chain{
		ElementID(root.ID()),
		ElementID(root.ID()),
		ElementEmbedded(root),
	}
	cyclic := delegated.WithProof(&cyclicProof)

	r, err := ValidateChain(cyclic, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrCyclicChain, r.ErrorCode)
}
