package call

import "errors"

// Sentinel errors for call package operations.
// These errors enable reliable error classification using errors.Is().

// Construction errors.
var (
	// ErrNilDelegate indicates no owning session delegate was supplied.
	ErrNilDelegate = errors.New("delegate cannot be nil")

	// ErrNilClient indicates no signaling client was supplied.
	ErrNilClient = errors.New("signaling client cannot be nil")

	// ErrNilSession indicates no identity session was supplied.
	ErrNilSession = errors.New("session cannot be nil")

	// ErrNilDispatcher indicates no owner-context dispatcher was supplied.
	ErrNilDispatcher = errors.New("dispatcher cannot be nil")

	// ErrNilControllerFactory indicates no media transport factory was
	// supplied.
	ErrNilControllerFactory = errors.New("controller factory cannot be nil")
)

// Local-action errors.
var (
	// ErrInvalidDHConfig indicates the snapshotted DH config is
	// structurally unusable; the call cannot start.
	ErrInvalidDHConfig = errors.New("invalid DH config")

	// ErrAlreadyStarted indicates Start was invoked twice; the secret
	// exponent is generated exactly once per call.
	ErrAlreadyStarted = errors.New("call already started")

	// ErrNotIncoming indicates Answer was invoked on an outgoing call.
	ErrNotIncoming = errors.New("answer is only valid for incoming calls")
)
