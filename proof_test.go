package zcap

import (
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/edkey"
	"go.bryk.io/zcap/zclock"
)

type signedDoc struct {
	ID     string `json:"@id"`
	Action string `json:"https://example.test/vocab#action"`
}

func TestProof_BuildVerifyRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()

	clock := zclock.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := &signedDoc{ID: "urn:zcap:root:example", Action: "read"}

	p, err := Build(BuildRequest{
		Document:           doc,
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       doc.ID,
		Clock:              clock,
	})
	assert.Nil(err)
	assert.Equal(Ed25519Signature2020, p.Type)
	assert.Equal(doc.ID, p.Capability)

	ok, err := Verify(VerifyRequest{
		Document:  doc,
		Proof:     p,
		PublicKey: kp.PublicKey(),
		Clock:     clock,
	})
	assert.Nil(err)
	assert.True(ok)
}

func TestProof_TamperedDocumentFailsVerify(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()

	clock := zclock.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := &signedDoc{ID: "urn:zcap:root:example", Action: "read"}
	p, err := Build(BuildRequest{
		Document:           doc,
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       doc.ID,
		Clock:              clock,
	})
	assert.Nil(err)

	tampered := &signedDoc{ID: doc.ID, Action: "write"}
	ok, err := Verify(VerifyRequest{
		Document:  tampered,
		Proof:     p,
		PublicKey: kp.PublicKey(),
		Clock:     clock,
	})
	assert.Nil(err)
	assert.False(ok)
}

func TestProof_WrongKeyFailsVerify(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()
	other, err := edkey.New()
	assert.Nil(err)
	defer other.Destroy()

	clock := zclock.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := &signedDoc{ID: "urn:zcap:root:example", Action: "read"}
	p, err := Build(BuildRequest{
		Document:           doc,
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       doc.ID,
		Clock:              clock,
	})
	assert.Nil(err)

	ok, err := Verify(VerifyRequest{
		Document:  doc,
		Proof:     p,
		PublicKey: other.PublicKey(),
		Clock:     clock,
	})
	assert.Nil(err)
	assert.False(ok)
}

func TestProof_MismatchedAlgorithmReturnsFalseNotError(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()

	clock := zclock.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := &signedDoc{ID: "urn:zcap:root:example", Action: "read"}
	p, err := Build(BuildRequest{
		Document:           doc,
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       doc.ID,
		Clock:              clock,
	})
	assert.Nil(err)
	p.Type = "SomeOtherSuite2099"

	ok, err := Verify(VerifyRequest{
		Document:  doc,
		Proof:     p,
		PublicKey: kp.PublicKey(),
		Clock:     clock,
	})
	assert.Nil(err)
	assert.False(ok)
}

func TestProof_DelegationRequiresChain(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()

	_, err = Build(BuildRequest{
		Document:           &signedDoc{ID: "urn:zcap:root:example"},
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityDelegation,
	})
	assert.NotNil(err, "a delegation proof with an empty chain must be rejected")
}

func TestProof_ExpiredClockSkewRejected(t *testing.T) {
	assert := tdd.New(t)
	kp, err := edkey.New()
	assert.Nil(err)
	defer kp.Destroy()

	buildClock := zclock.Fixed(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	doc := &signedDoc{ID: "urn:zcap:root:example"}
	p, err := Build(BuildRequest{
		Document:           doc,
		Key:                kp,
		VerificationMethod: "urn:zcap:root:example#key-1",
		Purpose:            PurposeCapabilityInvocation,
		CapabilityID:       doc.ID,
		Clock:              buildClock,
	})
	assert.Nil(err)

	verifyClock := zclock.Fixed(buildClock.Now().Add(-time.Hour))
	ok, err := Verify(VerifyRequest{
		Document:     doc,
		Proof:        p,
		PublicKey:    kp.PublicKey(),
		Clock:        verifyClock,
		MaxClockSkew: time.Minute,
	})
	assert.Nil(err)
	assert.False(ok, "a proof created further in the future than the skew tolerance must be rejected")
}
