package zcap

import (
	"encoding/json"
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

func TestChainElement_IDFormRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	el := ElementID("urn:zcap:root:https%3A%2F%2Fexample.test")
	assert.False(el.IsEmbedded())
	assert.Nil(el.Embedded())
	assert.Equal("urn:zcap:root:https%3A%2F%2Fexample.test", el.ID())

	raw, err := json.Marshal(el)
	assert.Nil(err)
	assert.Equal(`"urn:zcap:root:https%3A%2F%2Fexample.test"`, string(raw))

	var decoded ChainElement
	assert.Nil(json.Unmarshal(raw, &decoded))
	assert.False(decoded.IsEmbedded())
	assert.Equal(el.ID(), decoded.ID())
}

func TestChainElement_EmbeddedFormRoundTrip(t *testing.T) {
	assert := tdd.New(t)
	root, err := NewRootCapability("https://example.test/docs/report.pdf", One("https://example.test/actors/owner"))
	assert.Nil(err)

	el := ElementEmbedded(root)
	assert.True(el.IsEmbedded())
	assert.Equal(root.ID(), el.ID())
	assert.Same(Capability(root), el.Embedded())

	raw, err := json.Marshal(el)
	assert.Nil(err)

	var decoded ChainElement
	assert.Nil(json.Unmarshal(raw, &decoded))
	assert.True(decoded.IsEmbedded())
	assert.Equal(root.ID(), decoded.ID())
}

func TestChain_HasCycle(t *testing.T) {
	assert := tdd.New(t)
	acyclic := Chain{ElementID("urn:zcap:root:a"), ElementID("urn:uuid:1"), ElementID("urn:uuid:2")}
	assert.False(acyclic.HasCycle())

	cyclic := Chain{ElementID("urn:zcap:root:a"), ElementID("urn:uuid:1"), ElementID("urn:zcap:root:a")}
	assert.True(cyclic.HasCycle())
}

func TestChain_HasCycleEmpty(t *testing.T) {
	assert := tdd.New(t)
	var c Chain
	assert.False(c.HasCycle())
}
