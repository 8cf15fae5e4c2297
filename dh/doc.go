// Package dh implements the Diffie-Hellman key-exchange computations used
// during encrypted voice-call setup.
//
// The exchange is a classic finite-field Diffie-Hellman over domain
// parameters (prime p, generator g) supplied by the signaling server,
// combined with a hash-commitment scheme: the caller publishes SHA-256(g_a)
// before either side has seen the other's public value, and the callee
// verifies the revealed g_a against that commitment before deriving the key.
// This prevents either party from choosing its exponent adaptively based on
// the peer's value.
//
// The package is pure computation. It holds no call state; the call state
// machine in package call drives it and owns all failure handling. Every
// operation follows an empty-on-failure or error-return contract so that a
// degenerate computation can never silently produce a weak key:
//
//   - GenerateRandomPower fills the fixed-size secret exponent from the
//     system CSPRNG mixed with caller-supplied entropy.
//   - ComputeModExpFirst and ComputeModExpFinal return nil on any
//     degenerate input; callers must treat nil as a hard failure.
//   - DeriveAuthKey left-zero-pads the raw shared secret into the fixed
//     256-byte key.
//   - ComputeFingerprint derives the 8-byte key fingerprint both parties
//     compare to confirm agreement.
//   - CommitmentHash and VerifyCommitment implement the SHA-256 binding.
//
// Secret material (the random power, the raw shared secret) should be wiped
// with ZeroBytes as soon as it is no longer needed.
package dh
