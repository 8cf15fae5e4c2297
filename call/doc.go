// Package call implements the state machine for one encrypted voice-call
// attempt, from creation through key exchange to termination.
//
// A Call is driven by two event sources: direct local actions (Start,
// Answer, Hangup, Decline, SetMute) and inbound signaling updates delivered
// through HandleUpdate. It composes the key-exchange engine from package dh,
// a strict lifecycle state machine with entry actions per state, and a
// single rearmable timeout guard that force-terminates a call stuck in a
// terminating state. Once key agreement completes, the Call builds the
// external media transport (Controller), injects the derived key, and
// forwards the transport's connection states back into its own lifecycle.
//
// # Concurrency
//
// A Call is confined to a single owner context. Every method, and every
// callback from the signaling Client, must execute on the Dispatcher the
// Call was constructed with; the Call takes no internal locks. The one
// foreign-thread entry point is the media controller's state callback,
// which may fire from the transport's own goroutines at any time, including
// during Destroy. That callback never mutates state directly: it enqueues
// the transition through the Dispatcher, and the enqueued task re-checks
// that the Call is still live before applying it.
//
// # Failure model
//
// There are no retries anywhere in this package. Cryptographic failures
// (empty exponentiation results, commitment or fingerprint mismatches,
// identity mismatches) and signaling RPC failures are one-way transitions
// to StateFailed or StateEnded; the only observation channel is the state
// callback plus the Delegate's CallFinished/CallFailed notifications. A
// signaling update variant that is impossible in the call's current phase
// indicates a protocol-compliance bug in the caller and panics.
package call
