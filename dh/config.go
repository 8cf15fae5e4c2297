package dh

import "errors"

// Config holds the Diffie-Hellman domain parameters supplied by the
// signaling server. A call snapshots its config once at start and holds
// that snapshot fixed for the call's duration; a later update to the
// server-supplied parameters must never change a call mid-flight.
type Config struct {
	// G is the group generator.
	G int32

	// P is the group prime as a big-endian byte sequence.
	P []byte
}

// Structural validation errors for the DH config.
var (
	// ErrZeroGenerator indicates the config carries no generator.
	ErrZeroGenerator = errors.New("dh config has zero generator")

	// ErrEmptyPrime indicates the config carries no prime.
	ErrEmptyPrime = errors.New("dh config has empty prime")
)

// Validate checks that the config is structurally usable for key exchange.
// It does not verify primality or generator order; the parameters come from
// a trusted configuration source and only gross corruption is caught here.
func (c Config) Validate() error {
	if c.G == 0 {
		return ErrZeroGenerator
	}
	if len(c.P) == 0 {
		return ErrEmptyPrime
	}
	return nil
}
