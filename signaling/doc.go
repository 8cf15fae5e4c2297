// Package signaling defines the types exchanged with the call signaling
// server and the asynchronous RPC client interface used to reach it.
//
// The signaling server mediates call setup between two peers: it relays the
// key-exchange material, assigns the call id and access hash, and hands out
// the media relay endpoints. This package carries no transport logic of its
// own; the concrete client implementation (network stack, serialization,
// retry policy) lives with the application. The call state machine in
// package call consumes these types.
//
// Inbound server events are modeled as a closed sum type, Update, with one
// struct per variant. The call state machine dispatches over the full set
// exhaustively; an unknown variant reaching it indicates a protocol
// compliance bug, not a recoverable condition.
package signaling
