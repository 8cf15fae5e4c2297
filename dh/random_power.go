package dh

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrEntropySize indicates the caller-supplied entropy does not match the
// fixed secret-exponent size.
var ErrEntropySize = errors.New("external entropy size mismatch")

// GenerateRandomPower fills dst with a cryptographically secure random
// exponent and mixes in caller-supplied entropy via byte-wise XOR. The
// mixing means the exponent stays unpredictable even if one of the two
// sources is weaker than expected.
//
// It must be called exactly once per call, before any exponentiation.
func GenerateRandomPower(dst *[RandomPowerSize]byte, externalEntropy []byte) error {
	if len(externalEntropy) != RandomPowerSize {
		logrus.WithFields(logrus.Fields{
			"function":     "GenerateRandomPower",
			"entropy_size": len(externalEntropy),
			"want_size":    RandomPowerSize,
		}).Error("External entropy size mismatch")
		return fmt.Errorf("%w: got %d, want %d", ErrEntropySize, len(externalEntropy), RandomPowerSize)
	}

	if _, err := rand.Read(dst[:]); err != nil {
		return fmt.Errorf("reading system entropy: %w", err)
	}
	for i := range dst {
		dst[i] ^= externalEntropy[i]
	}

	logrus.WithFields(logrus.Fields{
		"function": "GenerateRandomPower",
	}).Debug("Secret exponent generated")

	return nil
}
