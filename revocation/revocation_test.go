package revocation_test

import (
	"testing"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/revocation"
)

func TestNeverRevoked_AlwaysFalse(t *testing.T) {
	assert := tdd.New(t)
	var o revocation.NeverRevoked
	assert.False(o.IsRevoked("urn:uuid:anything"))
	assert.False(o.IsRevoked(""))
}

func TestInMemorySet_RevokeUnrevoke(t *testing.T) {
	assert := tdd.New(t)
	set := revocation.NewInMemorySet()

	assert.False(set.IsRevoked("urn:uuid:1"))

	set.Revoke("urn:uuid:1")
	assert.True(set.IsRevoked("urn:uuid:1"))
	assert.False(set.IsRevoked("urn:uuid:2"))

	set.Unrevoke("urn:uuid:1")
	assert.False(set.IsRevoked("urn:uuid:1"))
}
