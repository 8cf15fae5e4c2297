package call

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicecall/config"
	"github.com/opd-ai/voicecall/dh"
	"github.com/opd-ai/voicecall/signaling"
)

// Delegate is the owning session for a call. It supplies the DH domain
// parameters and receives the terminal notifications, on distinct channels
// so completion and failure UX stay distinguishable.
type Delegate interface {
	// DHConfig returns the current DH domain parameters. The call
	// snapshots the result once at Start.
	DHConfig() dh.Config

	// CallFinished fires when the call reaches StateEnded. The delegate
	// should perform final cleanup and drop the call.
	CallFinished(call *Call)

	// CallFailed fires when the call reaches StateFailed.
	CallFailed(call *Call)
}

// Session supplies the local user identity used for participant checks.
type Session interface {
	// SelfID returns the current user's id.
	SelfID() int64
}

// UserDirectory caches user records delivered alongside signaling
// responses.
type UserDirectory interface {
	Feed(users []signaling.User)
}

// Options carries the collaborators and tunables for a new call.
type Options struct {
	Delegate    Delegate
	Client      signaling.Client
	Session     Session
	Controllers ControllerFactory
	Dispatcher  Dispatcher

	// Directory is optional; when nil, piggybacked user records are
	// dropped.
	Directory UserDirectory

	// Timer overrides the timeout guard, for deterministic tests. When
	// nil a dispatcher-funneled timer is used.
	Timer Timer

	// TimeProvider overrides time observation, for deterministic tests.
	TimeProvider TimeProvider

	// PeerID is the remote party's user id.
	PeerID int64

	// Type is the call direction.
	Type Type

	// Config holds the deployment tunables; zero values are replaced by
	// config.Default().
	Config config.Config
}

// Call is a single call attempt, from creation through key exchange to
// termination. All fields are confined to the owner dispatch context; see
// the package documentation for the concurrency contract.
type Call struct {
	delegate    Delegate
	client      signaling.Client
	session     Session
	directory   UserDirectory
	dispatcher  Dispatcher
	controllers ControllerFactory
	timer       Timer
	clock       TimeProvider
	cfg         config.Config

	peerID int64
	typ    Type
	state  State

	id         int64
	accessHash int64

	randomPower    [dh.RandomPowerSize]byte
	ga             []byte
	gb             []byte
	gaHash         [dh.CommitmentSize]byte
	authKey        [dh.AuthKeySize]byte
	keyFingerprint uint64
	dhConfig       dh.Config
	protocol       signaling.Protocol

	controller Controller

	startTime                 time.Time
	mute                      bool
	started                   bool
	finishAfterRequestingCall bool
	destroyed                 bool

	stateCallback func(state State)
}

// NewCall creates a call attempt toward (or from) the peer identified in
// the options. Outgoing calls begin in StateRequesting; incoming calls stay
// in StateStarting until Start is invoked.
func NewCall(opts Options) (*Call, error) {
	logrus.WithFields(logrus.Fields{
		"function":  "NewCall",
		"peer_id":   opts.PeerID,
		"call_type": opts.Type.String(),
	}).Info("Creating new call instance")

	if opts.Delegate == nil {
		return nil, ErrNilDelegate
	}
	if opts.Client == nil {
		return nil, ErrNilClient
	}
	if opts.Session == nil {
		return nil, ErrNilSession
	}
	if opts.Dispatcher == nil {
		return nil, ErrNilDispatcher
	}
	if opts.Controllers == nil {
		return nil, ErrNilControllerFactory
	}

	cfg := opts.Config
	if cfg == (config.Config{}) {
		cfg = config.Default()
	}

	c := &Call{
		delegate:    opts.Delegate,
		client:      opts.Client,
		session:     opts.Session,
		directory:   opts.Directory,
		dispatcher:  opts.Dispatcher,
		controllers: opts.Controllers,
		timer:       opts.Timer,
		clock:       opts.TimeProvider,
		cfg:         cfg,
		peerID:      opts.PeerID,
		typ:         opts.Type,
	}
	if c.timer == nil {
		c.timer = newDispatchTimer(c.dispatcher)
	}
	if c.clock == nil {
		c.clock = DefaultTimeProvider{}
	}

	if c.typ == TypeOutgoing {
		c.setState(StateRequesting)
	}
	return c, nil
}

// Start begins the call attempt. It snapshots the DH config, generates the
// secret exponent mixed with the supplied entropy, and branches on the call
// direction. An entropy size mismatch fails the call, not the process.
func (c *Call) Start(externalEntropy []byte) error {
	if c.started {
		return ErrAlreadyStarted
	}

	// Snapshot here: the global config may change between usages during
	// the same call, and a mid-flight change must never affect it.
	c.dhConfig = c.delegate.DHConfig()
	if err := c.dhConfig.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDHConfig, err)
	}
	c.started = true

	if err := dh.GenerateRandomPower(&c.randomPower, externalEntropy); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Start",
			"error":    err.Error(),
		}).Error("Could not generate secret exponent")
		c.setState(StateFailed)
		return err
	}

	if c.typ == TypeOutgoing {
		c.startOutgoing()
	} else {
		c.startIncoming()
	}
	return nil
}

// startOutgoing computes the local public value, commits to it, and issues
// the request-call RPC.
func (c *Call) startOutgoing() {
	c.ga = dh.ComputeModExpFirst(c.dhConfig, &c.randomPower)
	if len(c.ga) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "startOutgoing",
		}).Error("Could not compute first mod-exp")
		c.setState(StateFailed)
		return
	}
	c.gaHash = dh.CommitmentHash(c.ga)

	c.setState(StateRequesting)
	args := signaling.RequestCallArgs{
		Peer:     c.peerID,
		RandomID: randomID(),
		GAHash:   c.gaHash[:],
		Protocol: c.localProtocol(),
	}
	c.client.RequestCall(args, func(env signaling.Envelope) {
		c.feedUsers(env.Users)
		waiting, ok := env.Call.(signaling.CallWaiting)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"function": "startOutgoing",
				"variant":  fmt.Sprintf("%T", env.Call),
			}).Error("Expected a waiting call in response to RequestCall")
			c.setState(StateFailed)
			return
		}

		c.setState(StateWaiting)
		if c.finishAfterRequestingCall {
			c.Hangup()
			return
		}

		c.id = waiting.ID
		c.accessHash = waiting.AccessHash
		c.HandleUpdate(waiting)
	}, func(err error) {
		logrus.WithFields(logrus.Fields{
			"function": "startOutgoing",
			"error":    err.Error(),
		}).Error("RequestCall failed")
		c.setState(StateFailed)
	})
}

// startIncoming offers the call locally.
func (c *Call) startIncoming() {
	c.setState(StateRinging)
}

// Answer accepts an incoming call: it computes the local public value and
// issues the accept-call RPC carrying it.
func (c *Call) Answer() error {
	if c.typ != TypeIncoming {
		return ErrNotIncoming
	}

	c.gb = dh.ComputeModExpFirst(c.dhConfig, &c.randomPower)
	if len(c.gb) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "Answer",
			"call_id":  c.id,
		}).Error("Could not compute first mod-exp")
		c.setState(StateFailed)
		return nil
	}

	c.setState(StateExchangingKeys)
	args := signaling.AcceptCallArgs{
		Ref:      c.ref(),
		GB:       c.gb,
		Protocol: c.protocol,
	}
	c.client.AcceptCall(args, func(env signaling.Envelope) {
		c.feedUsers(env.Users)
		waiting, ok := env.Call.(signaling.CallWaiting)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"function": "Answer",
				"call_id":  c.id,
				"variant":  fmt.Sprintf("%T", env.Call),
			}).Error("Expected a waiting call in response to AcceptCall")
			c.setState(StateFailed)
			return
		}
		c.HandleUpdate(waiting)
	}, func(err error) {
		logrus.WithFields(logrus.Fields{
			"function": "Answer",
			"call_id":  c.id,
			"error":    err.Error(),
		}).Error("AcceptCall failed")
		c.setState(StateFailed)
	})
	return nil
}

// SetMute toggles the outgoing microphone. The flag is forwarded
// immediately when the media transport exists and applied lazily at
// transport creation otherwise.
func (c *Call) SetMute(mute bool) {
	c.mute = mute
	if c.controller != nil {
		c.controller.SetMicMute(mute)
	}
}

// Hangup terminates the call from the local side, classifying it as missed
// when it never got answered.
func (c *Call) Hangup() {
	missed := c.state == StateRinging || (c.state == StateWaiting && c.typ == TypeOutgoing)
	reason := signaling.DiscardReasonHangup
	if missed {
		reason = signaling.DiscardReasonMissed
	}
	c.finish(reason)
}

// Decline rejects an incoming call as busy.
func (c *Call) Decline() {
	c.finish(signaling.DiscardReasonBusy)
}

// finish drives the call toward StateEnded with the given discard reason.
//
// A finish while the request-call RPC is still outstanding cannot be acted
// on yet: the server-side call record may or may not exist. The intent is
// recorded and replayed once the pending response resolves, with the
// timeout guard bounding the wait.
func (c *Call) finish(reason signaling.DiscardReason) {
	if c.state == StateRequesting {
		c.timer.Arm(c.cfg.HangupTimeout, func() { c.setState(StateEnded) })
		c.finishAfterRequestingCall = true
		return
	}
	if c.state == StateHangingUp || c.state == StateEnded {
		return
	}
	if c.id == 0 {
		c.setState(StateEnded)
		return
	}

	c.setState(StateHangingUp)
	var duration int32
	if !c.startTime.IsZero() {
		duration = int32(c.clock.Since(c.startTime) / time.Second)
	}
	var connectionID int64
	if c.controller != nil {
		connectionID = c.controller.PreferredRelayID()
	}
	c.timer.Arm(c.cfg.HangupTimeout, func() { c.setState(StateEnded) })

	args := signaling.DiscardCallArgs{
		Ref:          c.ref(),
		Duration:     duration,
		Reason:       reason,
		ConnectionID: connectionID,
	}
	logrus.WithFields(logrus.Fields{
		"function": "finish",
		"call_id":  c.id,
		"reason":   reason.String(),
		"duration": duration,
	}).Info("Discarding call")

	c.client.DiscardCall(args, func() {
		// Updates delivered with the response may tear this call down
		// through the owning session; settle into Ended only after they
		// have been applied, and only if the call is still live.
		c.dispatcher.Invoke(func() {
			if c.destroyed {
				return
			}
			c.setState(StateEnded)
		})
	}, func(err error) {
		logrus.WithFields(logrus.Fields{
			"function": "finish",
			"call_id":  c.id,
			"error":    err.Error(),
		}).Error("DiscardCall failed")
		c.setState(StateEnded)
	})
}

// setState transitions the call, firing the state callback and the entry
// action for the new state. Re-entering the current state is a no-op, and
// terminal states absorb every later transition.
func (c *Call) setState(state State) {
	if c.state == state || c.state.Terminal() {
		return
	}

	logrus.WithFields(logrus.Fields{
		"function":  "setState",
		"call_id":   c.id,
		"old_state": c.state.String(),
		"new_state": state.String(),
	}).Info("Call state changed")

	c.state = state
	if c.stateCallback != nil {
		c.stateCallback(state)
	}

	switch state {
	case StateWaitingInit, StateWaitingInitAck, StateEstablished:
		c.startTime = c.clock.Now()
	case StateEnded:
		c.delegate.CallFinished(c)
	case StateFailed:
		c.delegate.CallFailed(c)
	case StateBusy:
		c.timer.Arm(c.cfg.HangupTimeout, func() { c.setState(StateEnded) })
	}
}

// setStateQueued funnels a transition originating on a foreign goroutine
// onto the owner context, discarding it if the call was destroyed in the
// meantime.
func (c *Call) setStateQueued(state State) {
	c.dispatcher.Invoke(func() {
		if c.destroyed {
			return
		}
		c.setState(state)
	})
}

// SetStateCallback registers an observer for state transitions. It fires
// once per transition, never for re-entrant no-ops.
func (c *Call) SetStateCallback(fn func(state State)) {
	c.stateCallback = fn
}

// State returns the current lifecycle state.
func (c *Call) State() State { return c.state }

// Type returns the call direction.
func (c *Call) Type() Type { return c.typ }

// PeerID returns the remote party's user id.
func (c *Call) PeerID() int64 { return c.peerID }

// KeyFingerprint returns the derived key fingerprint, zero before key
// agreement.
func (c *Call) KeyFingerprint() uint64 { return c.keyFingerprint }

// Destroy releases the media transport and wipes key material. It must run
// on the owner context. A controller state callback that is concurrently in
// flight is discarded by the liveness check in setStateQueued, so releasing
// the transport here is safe even while its own teardown callbacks fire.
func (c *Call) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.timer.Stop()

	if c.controller != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Destroy",
			"call_id":  c.id,
		}).Debug("Destroying call controller")
		if err := c.controller.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "Destroy",
				"call_id":  c.id,
				"error":    err.Error(),
			}).Warn("Controller close reported an error")
		}
		c.controller = nil
	}

	dh.ZeroBytes(c.randomPower[:])
	dh.ZeroBytes(c.authKey[:])
}

func (c *Call) ref() signaling.CallRef {
	return signaling.CallRef{ID: c.id, AccessHash: c.accessHash}
}

func (c *Call) localProtocol() signaling.Protocol {
	return signaling.Protocol{
		UDPP2P:       true,
		UDPReflector: true,
		MinLayer:     c.cfg.MinLayer,
		MaxLayer:     c.cfg.MaxLayer,
	}
}

func (c *Call) feedUsers(users []signaling.User) {
	if c.directory != nil && len(users) > 0 {
		c.directory.Feed(users)
	}
}

// randomID draws a fresh 32-bit request id from the system CSPRNG.
func randomID() int32 {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// The CSPRNG failing is unrecoverable for a security component.
		panic(fmt.Sprintf("call: reading system entropy: %v", err))
	}
	return int32(binary.BigEndian.Uint32(buf[:]))
}
