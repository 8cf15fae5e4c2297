package call

// State is the lifecycle state of a call. States advance monotonically
// through setup toward one of the terminal states; re-entering the current
// state is a no-op that triggers no notifications or entry actions.
type State uint32

const (
	// StateStarting is the construction state of an incoming call before
	// Start is invoked. Outgoing calls begin in StateRequesting.
	StateStarting State = iota

	// StateRequesting means the outgoing call request is in flight.
	StateRequesting

	// StateWaiting means the server created the call record and is
	// notifying the callee.
	StateWaiting

	// StateRinging means an incoming call is being offered locally.
	StateRinging

	// StateExchangingKeys means key-exchange material is in flight.
	StateExchangingKeys

	// StateWaitingInit means the media transport is negotiating.
	StateWaitingInit

	// StateWaitingInitAck means the media transport awaits the peer's
	// negotiation acknowledgment.
	StateWaitingInitAck

	// StateEstablished means the key is agreed and media is (or is about
	// to be) flowing. The auth key is only valid from this state on.
	StateEstablished

	// StateHangingUp means a discard request is in flight.
	StateHangingUp

	// StateEnded is terminal: the call completed. No transition leaves it.
	StateEnded

	// StateBusy means the peer declined; the timeout guard will advance
	// the call to StateEnded.
	StateBusy

	// StateFailed is terminal: the call failed. No transition leaves it.
	StateFailed
)

// Terminal reports whether no transition leaves the state.
func (s State) Terminal() bool {
	return s == StateEnded || s == StateFailed
}

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateStarting:
		return "Starting"
	case StateRequesting:
		return "Requesting"
	case StateWaiting:
		return "Waiting"
	case StateRinging:
		return "Ringing"
	case StateExchangingKeys:
		return "ExchangingKeys"
	case StateWaitingInit:
		return "WaitingInit"
	case StateWaitingInitAck:
		return "WaitingInitAck"
	case StateEstablished:
		return "Established"
	case StateHangingUp:
		return "HangingUp"
	case StateEnded:
		return "Ended"
	case StateBusy:
		return "Busy"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Type distinguishes the direction of a call. It is immutable after
// construction.
type Type uint32

const (
	// TypeOutgoing is a locally dialed call.
	TypeOutgoing Type = iota

	// TypeIncoming is a call offered by a remote peer.
	TypeIncoming
)

// String returns the type name for logging.
func (t Type) String() string {
	if t == TypeIncoming {
		return "Incoming"
	}
	return "Outgoing"
}
