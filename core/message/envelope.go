package message

import (
	"encoding/json"

	"github.com/evergreen-ils/osrf-go/core/busaddr"
)

// Envelope is the transport-level container pushed onto and popped off the
// bus. Body carries one or more Messages that all share the same Thread.
type Envelope struct {
	To      busaddr.Address
	From    busaddr.Address
	Thread  string
	TraceID string
	Body    []Message
}

// NewEnvelope builds an Envelope addressed to/from, on thread, carrying body.
func NewEnvelope(to, from busaddr.Address, thread string, body ...Message) *Envelope {
	return &Envelope{To: to, From: from, Thread: thread, Body: body}
}

// wireEnvelope is the JSON shape of an Envelope as it travels over the bus.
// Field names deliberately differ from the public Envelope struct: "osrf_xid"
// is the trace-id propagation key used throughout the bus wire protocol.
type wireEnvelope struct {
	To      string    `json:"to"`
	From    string    `json:"from"`
	Thread  string    `json:"thread"`
	TraceID string    `json:"osrf_xid,omitempty"`
	Body    []Message `json:"body"`
}

// Encode serializes e to its bus wire form.
func Encode(e *Envelope) ([]byte, error) {
	w := wireEnvelope{
		To:      e.To.String(),
		From:    e.From.String(),
		Thread:  e.Thread,
		TraceID: e.TraceID,
		Body:    e.Body,
	}
	return json.Marshal(w)
}

// Decode parses data produced by Encode back into an Envelope.
func Decode(data []byte) (*Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	to, err := busaddr.Parse(w.To)
	if err != nil {
		return nil, err
	}
	from, err := busaddr.Parse(w.From)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		To:      to,
		From:    from,
		Thread:  w.Thread,
		TraceID: w.TraceID,
		Body:    w.Body,
	}, nil
}
