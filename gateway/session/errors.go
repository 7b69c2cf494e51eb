package session

import "errors"

var (
	// ErrOversizedFrame is logged (never returned across a package boundary
	// that would tear down the connection) when an inbound frame exceeds
	// Config.MaxMessageSize.
	ErrOversizedFrame = errors.New("session: inbound frame too large")
	// ErrBacklogFull is logged when an inbound frame arrives with the
	// backlog already at Config.MaxBacklog.
	ErrBacklogFull = errors.New("session: backlog full")
	// ErrMalformedFrame is logged when an inbound frame fails to parse as
	// the expected wire envelope shape.
	ErrMalformedFrame = errors.New("session: malformed frame")
	// ErrProtocolViolation is logged when an inbound envelope carries an
	// inner message type that is not valid on ingress.
	ErrProtocolViolation = errors.New("session: protocol violation")
)
