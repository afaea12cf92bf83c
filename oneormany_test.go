package zcap

import (
	"encoding/json"
	"testing"

	tdd "github.com/stretchr/testify/assert"
)

func TestOneOrMany_SingleStringShapePreserved(t *testing.T) {
	assert := tdd.New(t)
	var o OneOrMany
	assert.Nil(json.Unmarshal([]byte(`"https://controller.example.com/alice"`), &o))
	assert.Equal([]string{"https://controller.example.com/alice"}, o.Values())

	out, err := json.Marshal(o)
	assert.Nil(err)
	assert.Equal(`"https://controller.example.com/alice"`, string(out))
}

func TestOneOrMany_ArrayShapePreservedEvenWithOneElement(t *testing.T) {
	assert := tdd.New(t)
	var o OneOrMany
	assert.Nil(json.Unmarshal([]byte(`["https://controller.example.com/alice"]`), &o))

	out, err := json.Marshal(o)
	assert.Nil(err)
	assert.Equal(`["https://controller.example.com/alice"]`, string(out))
}

func TestOneOrMany_MultiElementArray(t *testing.T) {
	assert := tdd.New(t)
	var o OneOrMany
	assert.Nil(json.Unmarshal([]byte(`["read","write"]`), &o))
	assert.True(o.Contains("read"))
	assert.True(o.ContainsFold("WRITE"))
	assert.False(o.Contains("delete"))
	assert.Equal("read", o.First())
}

func TestOneOrMany_ZeroValue(t *testing.T) {
	assert := tdd.New(t)
	var o OneOrMany
	assert.True(o.IsZero())
	assert.Equal("", o.First())
}

func TestOneOrMany_ConstructorsMatchShape(t *testing.T) {
	assert := tdd.New(t)
	one := One("a")
	out, err := json.Marshal(one)
	assert.Nil(err)
	assert.Equal(`"a"`, string(out))

	many := Many("a")
	out, err = json.Marshal(many)
	assert.Nil(err)
	assert.Equal(`["a"]`, string(out))
}
