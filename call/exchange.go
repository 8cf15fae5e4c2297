package call

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicecall/dh"
	"github.com/opd-ai/voicecall/signaling"
)

// confirmAcceptedCall completes key agreement on the caller's side: the
// callee revealed g_b, so the caller can derive the key and reveal its own
// g_a (bound by the earlier commitment) through the confirm-call RPC.
func (c *Call) confirmAcceptedCall(accepted signaling.CallAccepted) {
	if !c.deriveKey(accepted.GB) {
		return
	}

	c.setState(StateExchangingKeys)
	args := signaling.ConfirmCallArgs{
		Ref:            c.ref(),
		GA:             c.ga,
		KeyFingerprint: c.keyFingerprint,
		Protocol:       c.localProtocol(),
	}
	c.client.ConfirmCall(args, func(env signaling.Envelope) {
		c.feedUsers(env.Users)
		confirmed, ok := env.Call.(signaling.CallConfirmed)
		if !ok {
			logrus.WithFields(logrus.Fields{
				"function": "confirmAcceptedCall",
				"call_id":  c.id,
				"variant":  fmt.Sprintf("%T", env.Call),
			}).Error("Expected a confirmed call in response to ConfirmCall")
			c.setState(StateFailed)
			return
		}
		c.createAndStartController(confirmed)
	}, func(err error) {
		logrus.WithFields(logrus.Fields{
			"function": "confirmAcceptedCall",
			"call_id":  c.id,
			"error":    err.Error(),
		}).Error("ConfirmCall failed")
		c.setState(StateFailed)
	})
}

// startConfirmedCall completes key agreement on the callee's side: the
// caller revealed g_a, which must hash to the commitment received with the
// original offer before any key material is derived. No further round trip
// is needed after that.
func (c *Call) startConfirmedCall(confirmed signaling.CallConfirmed) {
	if !dh.VerifyCommitment(c.gaHash, confirmed.GAOrB) {
		logrus.WithFields(logrus.Fields{
			"function": "startConfirmedCall",
			"call_id":  c.id,
		}).Error("Revealed public value does not match commitment")
		c.setState(StateFailed)
		return
	}

	if !c.deriveKey(confirmed.GAOrB) {
		return
	}

	c.createAndStartController(confirmed)
}

// createAndStartController validates the full call record one final time,
// converts the connection descriptors, and builds and starts the media
// transport with the derived key.
func (c *Call) createAndStartController(confirmed signaling.CallConfirmed) {
	if !c.checkConfirmedFields(confirmed) {
		return
	}

	c.setState(StateEstablished)

	cfg := ControllerConfig{
		DataSaving:  DataSavingNever,
		EnableAEC:   true,
		EnableNS:    true,
		EnableAGC:   true,
		InitTimeout: c.cfg.ControllerInitTimeout,
		RecvTimeout: c.cfg.ControllerRecvTimeout,
	}

	endpoints := appendEndpoint(nil, confirmed.Connection)
	for _, alt := range confirmed.AlternativeConnections {
		endpoints = appendEndpoint(endpoints, alt)
	}

	logrus.WithFields(logrus.Fields{
		"function":       "createAndStartController",
		"call_id":        c.id,
		"endpoint_count": len(endpoints),
		"is_outgoing":    c.typ == TypeOutgoing,
	}).Info("Starting media controller")

	c.controller = c.controllers()
	if c.mute {
		c.controller.SetMicMute(true)
	}
	c.controller.SetRemoteEndpoints(endpoints, true)
	c.controller.SetConfig(cfg)
	c.controller.SetEncryptionKey(c.authKey[:], c.typ == TypeOutgoing)
	c.controller.SetStateCallback(c.handleControllerStateChange)
	c.controller.Start()
	c.controller.Connect()
}

// handleControllerStateChange forwards the media transport's connection
// state into the call lifecycle.
//
// NB: invoked from the transport's own goroutines at arbitrary times,
// including during Destroy. It must never touch call state directly; every
// transition goes through the queued dispatch.
func (c *Call) handleControllerStateChange(state ControllerState) {
	switch state {
	case ControllerStateWaitInit:
		c.setStateQueued(StateWaitingInit)
	case ControllerStateWaitInitAck:
		c.setStateQueued(StateWaitingInitAck)
	case ControllerStateEstablished:
		c.setStateQueued(StateEstablished)
	case ControllerStateFailed:
		c.setStateQueued(StateFailed)
	default:
		logrus.WithFields(logrus.Fields{
			"function": "handleControllerStateChange",
			"state":    int(state),
		}).Error("Unexpected controller state")
	}
}
