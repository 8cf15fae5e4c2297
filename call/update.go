package call

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/voicecall/dh"
	"github.com/opd-ai/voicecall/signaling"
)

// HandleUpdate dispatches an inbound signaling update into the state
// machine. It reports whether the update was consumed by this call; false
// means the embedded call id belongs to another call and the update should
// be offered elsewhere.
//
// Two conditions are programming-contract violations and panic: a
// CallRequested delivered to a call that is not a fresh incoming call from
// that peer, and an update variant outside the closed signaling set. Given
// a protocol-compliant server and correct routing neither can occur.
func (c *Call) HandleUpdate(update signaling.Update) bool {
	switch u := update.(type) {
	case signaling.CallRequested:
		return c.handleRequested(u)

	case signaling.CallEmpty:
		if u.ID != c.id {
			return false
		}
		logrus.WithFields(logrus.Fields{
			"function": "HandleUpdate",
			"call_id":  c.id,
		}).Error("Empty call received")
		c.setState(StateFailed)
		return true

	case signaling.CallWaiting:
		if u.ID != c.id {
			return false
		}
		return true

	case signaling.CallConfirmed:
		if u.ID != c.id {
			return false
		}
		if c.typ == TypeIncoming && c.state == StateExchangingKeys {
			c.startConfirmedCall(u)
		}
		return true

	case signaling.CallDiscarded:
		return c.handleDiscarded(u)

	case signaling.CallAccepted:
		if u.ID != c.id {
			return false
		}
		if c.typ != TypeOutgoing {
			logrus.WithFields(logrus.Fields{
				"function": "HandleUpdate",
				"call_id":  c.id,
			}).Error("Unexpected accepted call for an incoming call")
			c.setState(StateFailed)
		} else if c.checkAcceptedFields(u) {
			c.confirmAcceptedCall(u)
		}
		return true

	default:
		panic(fmt.Sprintf("call: unexpected signaling update %T inside an existing call", update))
	}
}

// handleRequested processes the initial offer of an incoming call: it binds
// the server-issued identifiers and stores the caller's commitment hash for
// later verification.
func (c *Call) handleRequested(u signaling.CallRequested) bool {
	if c.typ != TypeIncoming || c.id != 0 || c.peerID != u.AdminID {
		panic("call: requested-call update delivered to an existing call")
	}
	if c.session.SelfID() != u.ParticipantID {
		logrus.WithFields(logrus.Fields{
			"function":       "handleRequested",
			"participant_id": u.ParticipantID,
			"self_id":        c.session.SelfID(),
		}).Error("Wrong call participant id")
		c.setState(StateFailed)
		return true
	}

	c.id = u.ID
	c.accessHash = u.AccessHash
	c.protocol = u.Protocol

	if len(u.GAHash) != len(c.gaHash) {
		logrus.WithFields(logrus.Fields{
			"function":  "handleRequested",
			"call_id":   c.id,
			"hash_size": len(u.GAHash),
			"want_size": len(c.gaHash),
		}).Error("Wrong commitment hash size")
		c.setState(StateFailed)
		return true
	}
	copy(c.gaHash[:], u.GAHash)

	logrus.WithFields(logrus.Fields{
		"function": "handleRequested",
		"call_id":  c.id,
		"admin_id": u.AdminID,
	}).Info("Incoming call bound to server record")
	return true
}

// handleDiscarded processes a server-side termination, uploading the media
// transport's debug log first when the server asked for it.
func (c *Call) handleDiscarded(u signaling.CallDiscarded) bool {
	if u.ID != c.id {
		return false
	}

	if u.NeedDebug && c.controller != nil {
		if debugLog := c.controller.DebugLog(); debugLog != "" {
			c.client.SaveCallDebug(c.ref(), debugLog)
		}
	}

	if u.HasReason && u.Reason == signaling.DiscardReasonBusy {
		c.setState(StateBusy)
	} else {
		c.setState(StateEnded)
	}
	return true
}

// checkCommonFields validates the identity binding of a call record:
// the access hash must match, and the admin/participant pair must map onto
// the local and peer identities according to the call direction.
func (c *Call) checkCommonFields(accessHash, adminID, participantID int64) bool {
	if accessHash != c.accessHash {
		logrus.WithFields(logrus.Fields{
			"function": "checkCommonFields",
			"call_id":  c.id,
		}).Error("Wrong call access hash")
		c.setState(StateFailed)
		return false
	}

	wantAdmin, wantParticipant := c.session.SelfID(), c.peerID
	if c.typ == TypeIncoming {
		wantAdmin, wantParticipant = c.peerID, c.session.SelfID()
	}
	if adminID != wantAdmin {
		logrus.WithFields(logrus.Fields{
			"function":   "checkCommonFields",
			"call_id":    c.id,
			"admin_id":   adminID,
			"want_admin": wantAdmin,
		}).Error("Wrong call admin id")
		c.setState(StateFailed)
		return false
	}
	if participantID != wantParticipant {
		logrus.WithFields(logrus.Fields{
			"function":         "checkCommonFields",
			"call_id":          c.id,
			"participant_id":   participantID,
			"want_participant": wantParticipant,
		}).Error("Wrong call participant id")
		c.setState(StateFailed)
		return false
	}
	return true
}

// checkAcceptedFields validates an accepted-call record.
func (c *Call) checkAcceptedFields(u signaling.CallAccepted) bool {
	return c.checkCommonFields(u.AccessHash, u.AdminID, u.ParticipantID)
}

// checkConfirmedFields validates a full call record, which additionally
// must carry the locally computed key fingerprint.
func (c *Call) checkConfirmedFields(u signaling.CallConfirmed) bool {
	if !c.checkCommonFields(u.AccessHash, u.AdminID, u.ParticipantID) {
		return false
	}
	if u.KeyFingerprint != c.keyFingerprint {
		logrus.WithFields(logrus.Fields{
			"function": "checkConfirmedFields",
			"call_id":  c.id,
		}).Error("Wrong call key fingerprint")
		c.setState(StateFailed)
		return false
	}
	return true
}

// deriveKey computes the raw shared secret from the peer's public value,
// expands it into the fixed-size auth key, and derives the fingerprint. It
// reports false after failing the call on any degenerate input.
func (c *Call) deriveKey(peerValue []byte) bool {
	if !dh.IsGoodGaAndGb(peerValue, c.dhConfig.P) {
		logrus.WithFields(logrus.Fields{
			"function": "deriveKey",
			"call_id":  c.id,
		}).Error("Degenerate peer public value")
		c.setState(StateFailed)
		return false
	}

	raw := dh.ComputeModExpFinal(c.dhConfig, peerValue, &c.randomPower)
	if len(raw) == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "deriveKey",
			"call_id":  c.id,
		}).Error("Could not compute final mod-exp")
		c.setState(StateFailed)
		return false
	}

	c.authKey = dh.DeriveAuthKey(raw)
	dh.ZeroBytes(raw)
	c.keyFingerprint = dh.ComputeFingerprint(&c.authKey)
	return true
}
