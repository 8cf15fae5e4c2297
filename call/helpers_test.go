package call

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opd-ai/voicecall/dh"
	"github.com/opd-ai/voicecall/signaling"
)

const (
	testSelfID int64 = 1001
	testPeerID int64 = 2002
)

// testDHConfig returns DH parameters over the Mersenne prime 2^127 - 1.
func testDHConfig() dh.Config {
	p := make([]byte, 16)
	for i := range p {
		p[i] = 0xFF
	}
	p[0] = 0x7F
	return dh.Config{G: 7, P: p}
}

func testEntropy() []byte {
	return make([]byte, dh.RandomPowerSize)
}

func validPeerTag() []byte {
	tag := make([]byte, 16)
	for i := range tag {
		tag[i] = 0xAA
	}
	return tag
}

// syncDispatcher runs tasks immediately on the caller's goroutine, keeping
// scenario tests single-threaded and deterministic.
type syncDispatcher struct{}

func (syncDispatcher) Invoke(fn func()) { fn() }

// manualTimer captures the scheduled action so tests fire it explicitly.
type manualTimer struct {
	fn       func()
	duration time.Duration
	armCount int
	stopped  bool
}

func (t *manualTimer) Arm(d time.Duration, fn func()) {
	t.fn = fn
	t.duration = d
	t.armCount++
	t.stopped = false
}

func (t *manualTimer) Stop() {
	t.fn = nil
	t.stopped = true
}

func (t *manualTimer) fire() {
	if t.fn != nil {
		fn := t.fn
		t.fn = nil
		fn()
	}
}

type mockDelegate struct {
	config   dh.Config
	finished int
	failed   int
}

func (d *mockDelegate) DHConfig() dh.Config  { return d.config }
func (d *mockDelegate) CallFinished(c *Call) { d.finished++ }
func (d *mockDelegate) CallFailed(c *Call)   { d.failed++ }

type mockSession struct {
	id int64
}

func (s mockSession) SelfID() int64 { return s.id }

type mockDirectory struct {
	fed []signaling.User
}

func (m *mockDirectory) Feed(users []signaling.User) {
	m.fed = append(m.fed, users...)
}

// pendingEnvelope is one captured envelope-returning RPC with its
// completion callbacks, resolved explicitly by the test.
type pendingEnvelope struct {
	done func(signaling.Envelope)
	fail func(error)
}

type pendingDiscard struct {
	args signaling.DiscardCallArgs
	done func()
	fail func(error)
}

type savedDebug struct {
	ref signaling.CallRef
	log string
}

// mockClient records every issued signaling request so tests can inspect
// the arguments and resolve the round trips in any order.
type mockClient struct {
	requestArgs []signaling.RequestCallArgs
	requests    []pendingEnvelope

	acceptArgs []signaling.AcceptCallArgs
	accepts    []pendingEnvelope

	confirmArgs []signaling.ConfirmCallArgs
	confirms    []pendingEnvelope

	discards []pendingDiscard
	debug    []savedDebug
}

func (m *mockClient) RequestCall(args signaling.RequestCallArgs, done func(signaling.Envelope), fail func(error)) {
	m.requestArgs = append(m.requestArgs, args)
	m.requests = append(m.requests, pendingEnvelope{done: done, fail: fail})
}

func (m *mockClient) AcceptCall(args signaling.AcceptCallArgs, done func(signaling.Envelope), fail func(error)) {
	m.acceptArgs = append(m.acceptArgs, args)
	m.accepts = append(m.accepts, pendingEnvelope{done: done, fail: fail})
}

func (m *mockClient) ConfirmCall(args signaling.ConfirmCallArgs, done func(signaling.Envelope), fail func(error)) {
	m.confirmArgs = append(m.confirmArgs, args)
	m.confirms = append(m.confirms, pendingEnvelope{done: done, fail: fail})
}

func (m *mockClient) DiscardCall(args signaling.DiscardCallArgs, done func(), fail func(error)) {
	m.discards = append(m.discards, pendingDiscard{args: args, done: done, fail: fail})
}

func (m *mockClient) SaveCallDebug(ref signaling.CallRef, debugLogJSON string) {
	m.debug = append(m.debug, savedDebug{ref: ref, log: debugLogJSON})
}

// mockController records the configuration handed to the media transport.
type mockController struct {
	micMute    []bool
	endpoints  []Endpoint
	allowP2P   bool
	config     ControllerConfig
	key        []byte
	isOutgoing bool
	stateFn    func(ControllerState)
	started    bool
	connected  bool
	closed     bool

	debugLog       string
	preferredRelay int64
}

func (m *mockController) SetMicMute(mute bool) { m.micMute = append(m.micMute, mute) }

func (m *mockController) SetRemoteEndpoints(endpoints []Endpoint, allowP2P bool) {
	m.endpoints = endpoints
	m.allowP2P = allowP2P
}

func (m *mockController) SetConfig(config ControllerConfig) { m.config = config }

func (m *mockController) SetEncryptionKey(key []byte, isOutgoing bool) {
	m.key = append([]byte(nil), key...)
	m.isOutgoing = isOutgoing
}

func (m *mockController) SetStateCallback(fn func(ControllerState)) { m.stateFn = fn }

func (m *mockController) Start()   { m.started = true }
func (m *mockController) Connect() { m.connected = true }

func (m *mockController) DebugLog() string        { return m.debugLog }
func (m *mockController) PreferredRelayID() int64 { return m.preferredRelay }

func (m *mockController) Close() error {
	m.closed = true
	return nil
}

// testEnv bundles the mock collaborators behind a call under test.
type testEnv struct {
	dhConfig   dh.Config
	delegate   *mockDelegate
	client     *mockClient
	directory  *mockDirectory
	timer      *manualTimer
	controller *mockController

	controllersBuilt int
}

func newTestEnv() *testEnv {
	cfg := testDHConfig()
	return &testEnv{
		dhConfig:   cfg,
		delegate:   &mockDelegate{config: cfg},
		client:     &mockClient{},
		directory:  &mockDirectory{},
		timer:      &manualTimer{},
		controller: &mockController{},
	}
}

func (e *testEnv) newCall(t *testing.T, typ Type) *Call {
	t.Helper()
	c, err := NewCall(Options{
		Delegate:  e.delegate,
		Client:    e.client,
		Session:   mockSession{id: testSelfID},
		Directory: e.directory,
		Controllers: func() Controller {
			e.controllersBuilt++
			return e.controller
		},
		Dispatcher: syncDispatcher{},
		Timer:      e.timer,
		PeerID:     testPeerID,
		Type:       typ,
	})
	require.NoError(t, err)
	return c
}

// peer simulates the remote party's side of the key exchange.
type peer struct {
	config dh.Config
	power  [dh.RandomPowerSize]byte
}

func newPeer(t *testing.T, config dh.Config) *peer {
	t.Helper()
	p := &peer{config: config}
	require.NoError(t, dh.GenerateRandomPower(&p.power, testEntropy()))
	return p
}

// publicValue returns the peer's DH public value.
func (p *peer) publicValue(t *testing.T) []byte {
	t.Helper()
	value := dh.ComputeModExpFirst(p.config, &p.power)
	require.NotEmpty(t, value)
	return value
}

// fingerprint derives the peer-side key fingerprint from the public value
// our side revealed on the wire.
func (p *peer) fingerprint(t *testing.T, revealed []byte) uint64 {
	t.Helper()
	raw := dh.ComputeModExpFinal(p.config, revealed, &p.power)
	require.NotEmpty(t, raw)
	key := dh.DeriveAuthKey(raw)
	return dh.ComputeFingerprint(&key)
}

// authKey derives the peer-side auth key from the revealed public value.
func (p *peer) authKey(t *testing.T, revealed []byte) [dh.AuthKeySize]byte {
	t.Helper()
	raw := dh.ComputeModExpFinal(p.config, revealed, &p.power)
	require.NotEmpty(t, raw)
	return dh.DeriveAuthKey(raw)
}
