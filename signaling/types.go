package signaling

// CallRef identifies an established call record to the signaling server.
// Both values are opaque identifiers issued by the server; they are set at
// most once per call and never merged across calls.
type CallRef struct {
	ID         int64
	AccessHash int64
}

// Protocol is the voice-protocol capability record negotiated with the peer.
// The layer range bounds the media-protocol versions both ends support.
type Protocol struct {
	UDPP2P       bool
	UDPReflector bool
	MinLayer     int32
	MaxLayer     int32
}

// DiscardReason classifies why a call was terminated.
type DiscardReason int32

const (
	// DiscardReasonHangup is a normal hangup of an answered call.
	DiscardReasonHangup DiscardReason = iota

	// DiscardReasonMissed means the callee never answered, or the caller
	// gave up while the call was still being offered.
	DiscardReasonMissed

	// DiscardReasonBusy means the callee declined the call.
	DiscardReasonBusy

	// DiscardReasonDisconnect means the media transport lost the peer.
	DiscardReasonDisconnect
)

// String returns a human-readable reason name for logging.
func (r DiscardReason) String() string {
	switch r {
	case DiscardReasonHangup:
		return "hangup"
	case DiscardReasonMissed:
		return "missed"
	case DiscardReasonBusy:
		return "busy"
	case DiscardReasonDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Connection is a server-provided media connection descriptor: one relay or
// peer endpoint candidate. PeerTag authenticates the endpoint to the relay
// and must be exactly 16 bytes; descriptors with a malformed tag are skipped
// during endpoint conversion.
type Connection struct {
	ID      int64
	IP      string
	IPv6    string
	Port    uint16
	PeerTag []byte
}

// User is a user-directory entry delivered alongside call payloads so the
// application cache stays current without separate lookups.
type User struct {
	ID        int64
	FirstName string
	LastName  string
	Username  string
}

// Envelope is the result payload of the call-setup RPCs: the directory
// entries the server piggybacks on the response, plus the inner call
// variant describing the call's new server-side state.
type Envelope struct {
	Users []User
	Call  Update
}
