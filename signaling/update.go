package signaling

// Update is the closed set of call-state variants delivered by the
// signaling server, either as standalone updates or nested inside an RPC
// response Envelope. Each variant carries the id of the call it concerns;
// dispatch ignores variants whose id belongs to another call.
type Update interface {
	// CallID returns the server-issued call id the update refers to.
	// CallRequested is the one variant that may arrive before the local
	// call has an id assigned.
	CallID() int64
}

// CallRequested announces an inbound call to the callee. It carries the
// caller's commitment hash over its DH public value; the value itself is
// revealed only after the callee has published its own.
type CallRequested struct {
	ID            int64
	AccessHash    int64
	AdminID       int64
	ParticipantID int64
	GAHash        []byte
	Protocol      Protocol
}

// CallEmpty reports that the referenced call no longer exists server-side.
type CallEmpty struct {
	ID int64
}

// CallWaiting acknowledges that the call record was created and the peer is
// being notified. No key material is exchanged yet.
type CallWaiting struct {
	ID            int64
	AccessHash    int64
	AdminID       int64
	ParticipantID int64
	Protocol      Protocol
}

// CallAccepted reports to the caller that the callee answered, revealing the
// callee's DH public value g_b.
type CallAccepted struct {
	ID            int64
	AccessHash    int64
	AdminID       int64
	ParticipantID int64
	GB            []byte
	Protocol      Protocol
}

// CallConfirmed is the full call record: key exchange complete server-side,
// media endpoints assigned. GAOrB is the caller's revealed public value from
// the callee's perspective, and the callee's from the caller's.
type CallConfirmed struct {
	ID                     int64
	AccessHash             int64
	AdminID                int64
	ParticipantID          int64
	GAOrB                  []byte
	KeyFingerprint         uint64
	Protocol               Protocol
	Connection             Connection
	AlternativeConnections []Connection
}

// CallDiscarded reports that the call was terminated. NeedDebug asks the
// client to upload the media transport's debug log for quality diagnostics.
type CallDiscarded struct {
	ID        int64
	Reason    DiscardReason
	HasReason bool
	NeedDebug bool
	Duration  int32
}

// CallID implementations for the Update sum type.

func (u CallRequested) CallID() int64 { return u.ID }
func (u CallEmpty) CallID() int64     { return u.ID }
func (u CallWaiting) CallID() int64   { return u.ID }
func (u CallAccepted) CallID() int64  { return u.ID }
func (u CallConfirmed) CallID() int64 { return u.ID }
func (u CallDiscarded) CallID() int64 { return u.ID }
