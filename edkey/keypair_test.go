package edkey

import (
	"fmt"
	"testing"

	tdd "github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	// The method "github.com/awnumar/memguard/core.NewCoffer" currently
	// leaks a routine used to re-key the global enclave handler.
	// https://github.com/awnumar/memguard/blob/master/core/coffer.go#L36
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/awnumar/memguard/core.NewCoffer.func1"))
}

func TestNew(t *testing.T) {
	assert := tdd.New(t)
	kp, err := New()
	assert.Nil(err, "failed to create new key")

	b, err := kp.MarshalBinary()
	assert.Nil(err, "marshal error")
	assert.NotNil(b, "marshal error")
	kp.Destroy()
}

func TestSignatureVerification(t *testing.T) {
	assert := tdd.New(t)
	kp, err := New()
	assert.Nil(err, "failed to create new key")
	defer kp.Destroy()

	msg := []byte("message content")
	s := kp.Sign(msg)
	assert.True(kp.Verify(msg, s), "verify error")
	assert.False(kp.Verify([]byte("invalid message"), s), "verify error")
	assert.False(kp.Verify(msg, append(s, s...)), "verify error")
}

func TestEncodeDecode(t *testing.T) {
	assert := tdd.New(t)
	k, _ := New()
	b1, _ := k.MarshalBinary()
	b2, _ := k.MarshalBinary()
	assert.Equal(b1, b2, "non deterministic marshal result")

	pub := k.PublicKey()
	var p1 [32]byte
	copy(p1[:], pub[:])
	k.Destroy()

	k2, err := Unmarshal(b2)
	assert.Nil(err, "unmarshal error")
	assert.NotNil(k2, "unmarshal error")
	assert.Equal(p1, k2.PublicKey(), "invalid key restore")
	k2.Destroy()
}

func TestDestroy(t *testing.T) {
	assert := tdd.New(t)
	kp, _ := New()
	kp.Destroy()
	assert.Empty(kp.PrivateKey(), "failed to destroy locked memory buffer")

	// This time the buffer is no longer initialized but runs ok
	kp.Destroy()
}

func TestFromPrivateKey(t *testing.T) {
	assert := tdd.New(t)
	kp, err := New()
	assert.Nil(err, "failed to create new key")

	msg := []byte("message to sign")
	s := kp.Sign(msg)

	priv := make([]byte, 64)
	copy(priv, kp.PrivateKey())
	kp.Destroy()

	restored, err := FromPrivateKey(priv)
	assert.Nil(err, "from private key error")
	assert.True(restored.Verify(msg, s), "verify error")
	restored.Destroy()
}

func TestPackageLevelVerify(t *testing.T) {
	assert := tdd.New(t)
	kp, _ := New()
	defer kp.Destroy()

	msg := []byte("message to sign")
	s := kp.Sign(msg)
	pub := kp.PublicKey()
	assert.True(Verify(msg, s, pub[:]), "verify error")

	other, _ := New()
	defer other.Destroy()
	otherPub := other.PublicKey()
	assert.False(Verify(msg, s, otherPub[:]), "verification with another key should fail")
}

func ExampleUnmarshal() {
	// Restore key from a previously PEM-encoded private key
	kp, err := Unmarshal([]byte("pem-encoded-private-key"))
	if err != nil {
		panic(err)
	}
	defer kp.Destroy()

	// Use the key to produce a signature
	signature := kp.Sign([]byte("message-to-sign"))
	fmt.Printf("signature produced: %x", signature)
}

func ExampleKeyPair_Verify() {
	msg := []byte("message-to-sign")
	kp, _ := New()
	signature := kp.Sign(msg)
	fmt.Printf("verification result: %v", kp.Verify(msg, signature))
}
