package zcap

import (
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/keystore"
	"go.bryk.io/zcap/revocation"
	"go.bryk.io/zcap/zclock"
	"go.bryk.io/zcap/zconfig"
)

func TestInvoke_ValidateInvocation_RootCapabilityGood(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	inv, err := Invoke(InvocationRequest{
		Capability:         root,
		Action:             "read",
		Invoker:            owner.controller,
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	})
	assert.Nil(err)

	r, err := ValidateInvocation(inv, root, zconfig.Default(), clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.True(r.IsValid)
}

func TestInvoke_CapabilityMismatchRejected(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)
	otherRoot, err := NewRootCapability("https://example.test/docs/other.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	inv, err := Invoke(InvocationRequest{
		Capability:         root,
		Action:             "read",
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	})
	assert.Nil(err)

	r, err := ValidateInvocation(inv, otherRoot, zconfig.Default(), clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrInvocationCapabilityMismatch, r.ErrorCode)
}

func TestInvoke_ActionNotAllowedRejected(t *testing.T) {
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
		Expires:            clock.Now().Add(30 * 24 * time.Hour),
		SigningKey:         owner.key,
		VerificationMethod: owner.vm,
		Clock:              clock,
	}, cfg)
	assert.Nil(err)
	assert.True(result.IsValid)

	inv, err := Invoke(InvocationRequest{
		Capability:         delegated,
		Action:             "delete",
		SigningKey:         alice.key,
		VerificationMethod: alice.vm,
		Clock:              clock,
	})
	assert.Nil(err)

	r, err := ValidateInvocation(inv, delegated, cfg, clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrActionNotAllowed, r.ErrorCode)
}

func TestInvoke_UnauthorizedKeyRejected(t *testing.T) {
	assert := tdd.New(t)
	store := keystore.New()
	owner := newActor(t, store, "owner")
	mallory := newActor(t, store, "mallory")

	root, err := NewRootCapability("https://example.test/docs/report.pdf", One(owner.controller))
	assert.Nil(err)

	clock := zclock.Fixed(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	inv, err := Invoke(InvocationRequest{
		Capability:         root,
		Action:             "read",
		SigningKey:         mallory.key,
		VerificationMethod: mallory.vm,
		Clock:              clock,
	})
	assert.Nil(err)

	r, err := ValidateInvocation(inv, root, zconfig.Default(), clock, store, revocation.NeverRevoked{})
	assert.Nil(err)
	assert.False(r.IsValid)
	assert.Equal(ErrUnauthorizedVerifKey, r.ErrorCode)
}
