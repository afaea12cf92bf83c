package zcap

import (
	"encoding/json"
	"testing"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/faults"
)

func TestNewRootCapability_DeterministicID(t *testing.T) {
	assert := tdd.New(t)
	a, err := NewRootCapability("https://api.example.com", One("https://controller.example.com/alice"))
	assert.Nil(err)
	b, err := NewRootCapability("https://api.example.com", One("https://controller.example.com/bob"))
	assert.Nil(err)
	assert.Equal(a.ID(), b.ID(), "the id is a pure function of the target, independent of the controller")
	assert.Equal("urn:zcap:root:https%3A%2F%2Fapi.example.com", a.ID())
}

func TestNewRootCapability_RejectsRelativeTarget(t *testing.T) {
	assert := tdd.New(t)
	_, err := NewRootCapability("not-a-uri", One("https://controller.example.com/alice"))
	assert.NotNil(err)
}

func TestNewRootCapability_RejectsMissingController(t *testing.T) {
	assert := tdd.New(t)
	_, err := NewRootCapability("https://api.example.com", OneOrMany{})
	assert.NotNil(err)
}

func TestRootCapability_MarshalRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	root, err := NewRootCapability("https://api.example.com", One("https://controller.example.com/alice"))
	assert.Nil(err)

	raw, err := json.Marshal(root)
	assert.Nil(err)

	cap, err := ParseCapability(raw)
	assert.Nil(err)
	assert.True(cap.IsRoot())
	assert.Equal(root.ID(), cap.ID())
	assert.Equal(root.InvocationTarget(), cap.InvocationTarget())
}

func TestRootCapability_UnexpectedFieldRejected(t *testing.T) {
	assert := tdd.New(t)
	raw := []byte(`{
		"@context": "https://w3id.org/zcap/v1",
		"id": "urn:zcap:root:https%3A%2F%2Fapi.example.com",
		"controller": "https://controller.example.com/alice",
		"invocationTarget": "https://api.example.com",
		"unexpectedField": "should not be here"
	}`)
	_, err := ParseCapability(raw)
	assert.NotNil(err)
	cat, ok := faults.CategoryOf(err)
	assert.True(ok)
	assert.Equal(faults.Structural, cat)
}

func TestRootCapability_IDMismatchRejected(t *testing.T) {
	assert := tdd.New(t)
	raw := []byte(`{
		"@context": "https://w3id.org/zcap/v1",
		"id": "urn:zcap:root:https%3A%2F%2Fwrong.example.com",
		"controller": "https://controller.example.com/alice",
		"invocationTarget": "https://api.example.com"
	}`)
	_, err := ParseCapability(raw)
	assert.NotNil(err)
}

func TestParseCapability_DispatchesOnParentCapability(t *testing.T) {
	assert := tdd.New(t)
	root, err := NewRootCapability("https://api.example.com", One("https://controller.example.com/alice"))
	assert.Nil(err)
	raw, err := json.Marshal(root)
	assert.Nil(err)
	cap, err := ParseCapability(raw)
	assert.Nil(err)
	_, isRoot := cap.(*RootCapability)
	assert.True(isRoot)
}

func TestDelegatedCapability_WithProofIsImmutable(t *testing.T) {
	assert := tdd.New(t)
	d := &DelegatedCapability{
		context:          One(RootContext),
		id:               "urn:zcap:delegated:fixture",
		controller:       One("https://controller.example.com/bob"),
		invocationTarget: "https://api.example.com",
		parentCapability: "urn:zcap:root:fixture",
	}
	withoutProof := d.WithoutProof()
	assert.Nil(withoutProof.Proof())

	p := &Proof{Type: Ed25519Signature2020}
	withProof := d.WithProof(p)
	assert.Nil(d.Proof(), "WithProof must not mutate the receiver")
	assert.Equal(p, withProof.Proof())
}
