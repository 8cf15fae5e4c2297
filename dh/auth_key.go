package dh

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
)

// CommitmentSize is the size of the SHA-256 commitment over a public value.
const CommitmentSize = sha256.Size

// DeriveAuthKey expands the raw shared secret into the fixed-size auth key,
// left-zero-padding when the raw value is shorter than AuthKeySize. A raw
// value longer than AuthKeySize violates the mod-exp bound invariant and
// panics; it cannot occur for results produced by this package.
func DeriveAuthKey(raw []byte) [AuthKeySize]byte {
	if len(raw) > AuthKeySize {
		panic(fmt.Sprintf("dh: raw shared secret size %d exceeds auth key size %d", len(raw), AuthKeySize))
	}
	var key [AuthKeySize]byte
	copy(key[AuthKeySize-len(raw):], raw)
	return key
}

// ComputeFingerprint derives the 8-byte key fingerprint both parties compare
// to confirm key agreement: SHA-1 over the full auth key, with the digest
// bytes at offsets 12 through 19 assembled into an unsigned 64-bit integer,
// byte 19 most significant.
func ComputeFingerprint(authKey *[AuthKeySize]byte) uint64 {
	hash := sha1.Sum(authKey[:])
	return uint64(hash[19])<<56 |
		uint64(hash[18])<<48 |
		uint64(hash[17])<<40 |
		uint64(hash[16])<<32 |
		uint64(hash[15])<<24 |
		uint64(hash[14])<<16 |
		uint64(hash[13])<<8 |
		uint64(hash[12])
}

// CommitmentHash returns the SHA-256 commitment over a public value. The
// commitment is fixed at the moment the value is computed and never
// recomputed for the call's duration.
func CommitmentHash(value []byte) [CommitmentSize]byte {
	return sha256.Sum256(value)
}

// VerifyCommitment reports whether the revealed public value hashes to the
// previously stored commitment. The comparison is constant-time; any
// mismatch is a hard security failure for the call.
func VerifyCommitment(commitment [CommitmentSize]byte, revealed []byte) bool {
	actual := sha256.Sum256(revealed)
	return subtle.ConstantTimeCompare(commitment[:], actual[:]) == 1
}
