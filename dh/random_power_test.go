package dh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomPower(t *testing.T) {
	var first, second [RandomPowerSize]byte
	require.NoError(t, GenerateRandomPower(&first, testEntropy()))
	require.NoError(t, GenerateRandomPower(&second, testEntropy()))

	// Two draws colliding would mean the CSPRNG is broken.
	assert.NotEqual(t, first, second)
}

func TestGenerateRandomPowerEntropySizeMismatch(t *testing.T) {
	var power [RandomPowerSize]byte

	err := GenerateRandomPower(&power, make([]byte, RandomPowerSize-1))
	assert.ErrorIs(t, err, ErrEntropySize)

	err = GenerateRandomPower(&power, nil)
	assert.ErrorIs(t, err, ErrEntropySize)
}

func TestSecureWipe(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	require.NoError(t, SecureWipe(data))
	assert.Equal(t, []byte{0, 0, 0, 0}, data)

	assert.Error(t, SecureWipe(nil))
}
