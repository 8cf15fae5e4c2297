package signaling

// RequestCallArgs starts an outgoing call: the callee's user id, a fresh
// random request id for idempotency, the commitment hash over the caller's
// DH public value, and the caller's protocol capabilities.
type RequestCallArgs struct {
	Peer     int64
	RandomID int32
	GAHash   []byte
	Protocol Protocol
}

// AcceptCallArgs answers an incoming call, revealing the callee's DH public
// value g_b.
type AcceptCallArgs struct {
	Ref      CallRef
	GB       []byte
	Protocol Protocol
}

// ConfirmCallArgs completes the exchange from the caller's side, revealing
// g_a (which must hash to the earlier commitment) together with the key
// fingerprint the caller derived.
type ConfirmCallArgs struct {
	Ref            CallRef
	GA             []byte
	KeyFingerprint uint64
	Protocol       Protocol
}

// DiscardCallArgs terminates a call server-side. Duration is the connected
// time in whole seconds, zero if the call never connected. ConnectionID is
// the media transport's preferred relay, zero if none was selected.
type DiscardCallArgs struct {
	Ref          CallRef
	Duration     int32
	Reason       DiscardReason
	ConnectionID int64
}

// Client issues call-setup requests to the signaling server.
//
// Every request is asynchronous and single-shot: exactly one of the done or
// fail callbacks fires, once, and there is no automatic retry at this layer.
// Implementations must deliver the callbacks on the owning call's dispatch
// context (see the call package's concurrency contract), never concurrently
// with it.
type Client interface {
	// RequestCall creates the call record for an outgoing call.
	RequestCall(args RequestCallArgs, done func(Envelope), fail func(error))

	// AcceptCall answers an incoming call.
	AcceptCall(args AcceptCallArgs, done func(Envelope), fail func(error))

	// ConfirmCall finishes the key exchange for an outgoing call.
	ConfirmCall(args ConfirmCallArgs, done func(Envelope), fail func(error))

	// DiscardCall terminates the call. The server may deliver further
	// updates alongside the acknowledgment; done fires after the client
	// has applied them.
	DiscardCall(args DiscardCallArgs, done func(), fail func(error))

	// SaveCallDebug uploads the media transport's debug log. Fire and
	// forget: no completion is reported and failures are not surfaced.
	SaveCallDebug(ref CallRef, debugLogJSON string)
}
