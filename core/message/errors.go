package message

import "errors"

var (
	// ErrUnknownValueKind is returned when a Value cannot be encoded or a
	// decoded JSON token has no corresponding Kind.
	ErrUnknownValueKind = errors.New("message: unknown value kind")
	// ErrUnknownMessageType is returned when a Message carries a Type this
	// build does not recognize.
	ErrUnknownMessageType = errors.New("message: unknown message type")
)
