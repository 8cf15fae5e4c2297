package call

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicecall/signaling"
)

// Controller is the handle to the external media transport. It consumes
// the derived encryption key and the converted endpoint list, and runs its
// own internal threads; the state callback may fire from any of them at any
// time, including while Close is executing.
type Controller interface {
	// SetMicMute toggles the outgoing microphone.
	SetMicMute(mute bool)

	// SetRemoteEndpoints supplies the converted endpoint candidates.
	// allowP2P permits direct connections alongside relays.
	SetRemoteEndpoints(endpoints []Endpoint, allowP2P bool)

	// SetConfig applies the fixed transport configuration.
	SetConfig(config ControllerConfig)

	// SetEncryptionKey injects the derived key. isOutgoing distinguishes
	// the key-exchange initiator from the responder so both ends derive
	// matching cipher directions.
	SetEncryptionKey(key []byte, isOutgoing bool)

	// SetStateCallback registers the connection-state callback.
	SetStateCallback(fn func(state ControllerState))

	// Start spins up the transport's internal threads.
	Start()

	// Connect begins connecting to the supplied endpoints.
	Connect()

	// DebugLog returns the transport's diagnostic log as JSON, empty if
	// none was collected.
	DebugLog() string

	// PreferredRelayID returns the relay the transport settled on, zero
	// if none.
	PreferredRelayID() int64

	// Close shuts the transport down and releases its resources.
	Close() error
}

// ControllerFactory builds a media transport handle. It is invoked exactly
// once per call, only after key agreement completes.
type ControllerFactory func() Controller

// ControllerState mirrors the media transport's connection states.
type ControllerState int

const (
	// ControllerStateWaitInit means the transport is negotiating.
	ControllerStateWaitInit ControllerState = iota + 1

	// ControllerStateWaitInitAck means the transport awaits the peer's
	// negotiation acknowledgment.
	ControllerStateWaitInitAck

	// ControllerStateEstablished means media is flowing.
	ControllerStateEstablished

	// ControllerStateFailed means the transport gave up.
	ControllerStateFailed
)

// DataSavingMode controls the transport's adaptive data saving.
type DataSavingMode int

const (
	// DataSavingNever disables adaptive data saving.
	DataSavingNever DataSavingMode = iota

	// DataSavingMobile enables data saving on metered networks.
	DataSavingMobile

	// DataSavingAlways always enables data saving.
	DataSavingAlways
)

// ControllerConfig is the fixed configuration handed to the media transport
// at creation time.
type ControllerConfig struct {
	DataSaving  DataSavingMode
	EnableAEC   bool
	EnableNS    bool
	EnableAGC   bool
	InitTimeout time.Duration
	RecvTimeout time.Duration
}

// peerTagSize is the required size of an endpoint's peer tag.
const peerTagSize = 16

// Endpoint is a validated media endpoint record converted from a
// server-provided connection descriptor.
type Endpoint struct {
	ID      int64
	IP      string
	IPv6    string
	Port    uint16
	PeerTag [peerTagSize]byte
}

// appendEndpoint converts a connection descriptor into an endpoint record,
// skipping descriptors with a malformed peer tag. A skipped descriptor does
// not abort transport construction.
func appendEndpoint(endpoints []Endpoint, conn signaling.Connection) []Endpoint {
	if len(conn.PeerTag) != peerTagSize {
		logrus.WithFields(logrus.Fields{
			"function":      "appendEndpoint",
			"connection_id": conn.ID,
			"peer_tag_size": len(conn.PeerTag),
		}).Warn("Skipping connection descriptor with malformed peer tag")
		return endpoints
	}

	endpoint := Endpoint{
		ID:   conn.ID,
		IP:   conn.IP,
		IPv6: conn.IPv6,
		Port: conn.Port,
	}
	copy(endpoint.PeerTag[:], conn.PeerTag)
	return append(endpoints, endpoint)
}
