package dh

import (
	"crypto/sha1"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAuthKeyPadsShortInput(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	key := DeriveAuthKey(raw)

	for i := 0; i < AuthKeySize-len(raw); i++ {
		require.Zero(t, key[i], "high-order byte %d must be zero padding", i)
	}
	assert.Equal(t, raw, key[AuthKeySize-len(raw):])
}

func TestDeriveAuthKeyFullSizeInput(t *testing.T) {
	raw := make([]byte, AuthKeySize)
	for i := range raw {
		raw[i] = byte(i)
	}
	key := DeriveAuthKey(raw)
	assert.Equal(t, raw, key[:])
}

func TestDeriveAuthKeyOversizeInputPanics(t *testing.T) {
	assert.Panics(t, func() {
		DeriveAuthKey(make([]byte, AuthKeySize+1))
	})
}

func TestComputeFingerprintDeterministic(t *testing.T) {
	var key [AuthKeySize]byte
	for i := range key {
		key[i] = byte(i * 3)
	}

	first := ComputeFingerprint(&key)
	second := ComputeFingerprint(&key)
	assert.Equal(t, first, second)

	// Flipping any key byte must change the fingerprint.
	flipped := key
	flipped[100] ^= 0x80
	assert.NotEqual(t, first, ComputeFingerprint(&flipped))
}

func TestComputeFingerprintOffsets(t *testing.T) {
	var key [AuthKeySize]byte
	key[0] = 0xA7

	hash := sha1.Sum(key[:])
	want := uint64(hash[19])<<56 |
		uint64(hash[18])<<48 |
		uint64(hash[17])<<40 |
		uint64(hash[16])<<32 |
		uint64(hash[15])<<24 |
		uint64(hash[14])<<16 |
		uint64(hash[13])<<8 |
		uint64(hash[12])
	assert.Equal(t, want, ComputeFingerprint(&key))
}

func TestVerifyCommitment(t *testing.T) {
	value := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	commitment := CommitmentHash(value)

	assert.True(t, VerifyCommitment(commitment, value))

	tampered := []byte{0xDE, 0xAD, 0xBE, 0xEE}
	assert.False(t, VerifyCommitment(commitment, tampered))
	assert.False(t, VerifyCommitment(commitment, nil))
}
