package zconfig_test

import (
	"testing"
	"time"

	tdd "github.com/stretchr/testify/assert"
	"go.bryk.io/zcap/zconfig"
)

func TestDefault(t *testing.T) {
	assert := tdd.New(t)
	c := zconfig.Default()
	assert.Equal(10, c.MaxChainDepth)
	assert.Equal(5*time.Minute, c.MaxClockSkew)
	assert.True(c.EnforceUrlAttenuation)
	assert.True(c.EnforceCaveatInheritance)
	assert.False(c.CheckRevocation)
	assert.Equal(30*24*time.Hour, c.DefaultExpirationDuration)
	assert.False(c.AllowNoExpiration)
	assert.True(c.ValidateProofSignatures)
}

func TestStrict(t *testing.T) {
	assert := tdd.New(t)
	c := zconfig.Strict()
	assert.Equal(5, c.MaxChainDepth)
	assert.Equal(time.Minute, c.MaxClockSkew)
	assert.True(c.CheckRevocation)
}

func TestLenient(t *testing.T) {
	assert := tdd.New(t)
	c := zconfig.Lenient()
	assert.Equal(20, c.MaxChainDepth)
	assert.False(c.ValidateProofSignatures)
}

func TestNew_AppliesOptionsOverDefault(t *testing.T) {
	assert := tdd.New(t)
	c := zconfig.New(
		zconfig.WithMaxChainDepth(3),
		zconfig.WithMaxClockSkew(2*time.Minute),
		zconfig.WithURLAttenuation(false),
		zconfig.WithCaveatInheritance(false),
		zconfig.WithRevocationCheck(true),
		zconfig.WithDefaultExpiration(time.Hour),
		zconfig.WithNoExpirationAllowed(true),
		zconfig.WithProofSignatureValidation(false),
	)
	assert.Equal(3, c.MaxChainDepth)
	assert.Equal(2*time.Minute, c.MaxClockSkew)
	assert.False(c.EnforceUrlAttenuation)
	assert.False(c.EnforceCaveatInheritance)
	assert.True(c.CheckRevocation)
	assert.Equal(time.Hour, c.DefaultExpirationDuration)
	assert.True(c.AllowNoExpiration)
	assert.False(c.ValidateProofSignatures)
}

func TestNew_NoOptionsEqualsDefault(t *testing.T) {
	assert := tdd.New(t)
	assert.Equal(zconfig.Default(), zconfig.New())
}
