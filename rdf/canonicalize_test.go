package rdf

import (
	"encoding/json"
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

func TestCanonicalize_IndependentOfKeyOrder(t *testing.T) {
	assert := tdd.New(t)

	a := map[string]interface{}{
		"@context":         "https://w3id.org/zcap/v1",
		"id":               "urn:zcap:root:https%3A%2F%2Fapi.example.com",
		"controller":       "https://controller.example.com/alice",
		"invocationTarget": "https://api.example.com",
	}
	// Same RDF graph, different JSON key order and a raw-string pass to
	// perturb whitespace; the canonical N-Quads output must not move.
	raw := `{
		"invocationTarget": "https://api.example.com",
		"@context": "https://w3id.org/zcap/v1",
		"controller": "https://controller.example.com/alice",
		"id": "urn:zcap:root:https%3A%2F%2Fapi.example.com"
	}`
	var b map[string]interface{}
	assert.Nil(json.Unmarshal([]byte(raw), &b))

	na, err := Canonicalize(a)
	assert.Nil(err)
	nb, err := Canonicalize(b)
	assert.Nil(err)
	assert.Equal(string(na), string(nb))
	assert.NotEmpty(na)
}

func TestCanonicalize_DifferentGraphsDiffer(t *testing.T) {
	assert := tdd.New(t)
	a := map[string]interface{}{
		"@context":         "https://w3id.org/zcap/v1",
		"id":               "urn:zcap:root:example-a",
		"controller":       "https://controller.example.com/alice",
		"invocationTarget": "https://api.example.com/a",
	}
	b := map[string]interface{}{
		"@context":         "https://w3id.org/zcap/v1",
		"id":               "urn:zcap:root:example-b",
		"controller":       "https://controller.example.com/alice",
		"invocationTarget": "https://api.example.com/b",
	}
	na, err := Canonicalize(a)
	assert.Nil(err)
	nb, err := Canonicalize(b)
	assert.Nil(err)
	assert.NotEqual(string(na), string(nb))
}

func TestCanonicalize_UnresolvableContextFails(t *testing.T) {
	assert := tdd.New(t)
	doc := map[string]interface{}{
		"@context": "https://example.com/not-an-embedded-context/v1",
		"id":       "urn:zcap:root:example",
	}
	_, err := Canonicalize(doc)
	assert.NotNil(err)
}
