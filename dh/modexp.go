package dh

import (
	"math/big"

	"github.com/sirupsen/logrus"
)

const (
	// RandomPowerSize is the fixed size of the secret exponent in bytes.
	RandomPowerSize = 256

	// AuthKeySize is the fixed size of the derived shared key in bytes.
	AuthKeySize = 256

	// maxModExpSize bounds any public value or raw shared secret. The prime
	// itself never exceeds this, so a longer result means corrupt parameters.
	maxModExpSize = 256
)

// computeModExp computes base^randomPower mod p. It returns nil whenever the
// computation would be degenerate: non-positive prime or base, a zero
// result, or a result exceeding maxModExpSize.
func computeModExp(config Config, base *big.Int, randomPower *[RandomPowerSize]byte) []byte {
	p := new(big.Int).SetBytes(config.P)
	if p.Sign() <= 0 || base.Sign() <= 0 {
		logrus.WithFields(logrus.Fields{
			"function":  "computeModExp",
			"prime_len": len(config.P),
		}).Error("Degenerate mod-exp parameters")
		return nil
	}

	exponent := new(big.Int).SetBytes(randomPower[:])
	result := new(big.Int).Exp(base, exponent, p)

	out := result.Bytes()
	if len(out) == 0 || len(out) > maxModExpSize {
		logrus.WithFields(logrus.Fields{
			"function":    "computeModExp",
			"result_size": len(out),
			"max_size":    maxModExpSize,
		}).Error("Mod-exp result out of bounds")
		return nil
	}
	return out
}

// ComputeModExpFirst computes g^secret mod p, the local public value sent to
// the peer. It returns nil on failure; callers must treat nil as a hard
// failure and never proceed with the exchange.
func ComputeModExpFirst(config Config, randomPower *[RandomPowerSize]byte) []byte {
	return computeModExp(config, big.NewInt(int64(config.G)), randomPower)
}

// ComputeModExpFinal computes peerValue^secret mod p, the raw shared secret.
// It returns nil on failure under the same contract as ComputeModExpFirst.
func ComputeModExpFinal(config Config, peerValue []byte, randomPower *[RandomPowerSize]byte) []byte {
	if len(peerValue) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "ComputeModExpFinal",
		}).Error("Empty peer public value")
		return nil
	}
	return computeModExp(config, new(big.Int).SetBytes(peerValue), randomPower)
}

// IsGoodGaAndGb reports whether a DH public value is non-degenerate:
// strictly greater than 1 and strictly less than p-1. Values outside that
// range would collapse the shared secret to a trivially predictable value.
func IsGoodGaAndGb(value, prime []byte) bool {
	if len(value) == 0 || len(prime) == 0 {
		return false
	}
	v := new(big.Int).SetBytes(value)
	p := new(big.Int).SetBytes(prime)
	one := big.NewInt(1)
	pMinusOne := new(big.Int).Sub(p, one)
	return v.Cmp(one) > 0 && v.Cmp(pMinusOne) < 0
}
