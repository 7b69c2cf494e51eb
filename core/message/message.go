package message

import "encoding/json"

// Type discriminates the Message variants carried inside an Envelope body.
type Type string

const (
	TypeConnect    Type = "CONNECT"
	TypeRequest    Type = "REQUEST"
	TypeResult     Type = "RESULT"
	TypeStatus     Type = "STATUS"
	TypeDisconnect Type = "DISCONNECT"
)

// Message is the tagged union exchanged between a client and a worker over
// the lifetime of a thread. Only the fields relevant to Type are populated;
// the rest stay at their zero value.
type Message struct {
	Type        Type   `json:"type"`
	ThreadTrace int64  `json:"thread_trace"`
	Ingress     string `json:"ingress,omitempty"`

	// Request
	Method string  `json:"method,omitempty"`
	Params []Value `json:"params,omitempty"`

	// Result
	Payload Value `json:"payload,omitempty"`

	// Status
	Code StatusCode `json:"status_code,omitempty"`
	Text string     `json:"status_text,omitempty"`
	Kind string     `json:"status_kind,omitempty"`
}

// NewConnect builds a CONNECT message.
func NewConnect(trace int64) Message {
	return Message{Type: TypeConnect, ThreadTrace: trace}
}

// NewDisconnect builds a DISCONNECT message.
func NewDisconnect(trace int64) Message {
	return Message{Type: TypeDisconnect, ThreadTrace: trace}
}

// NewRequest builds a REQUEST message invoking method with params.
func NewRequest(trace int64, method string, params []Value) Message {
	return Message{Type: TypeRequest, ThreadTrace: trace, Method: method, Params: params}
}

// NewResult builds a RESULT message carrying payload.
func NewResult(trace int64, payload Value) Message {
	return Message{Type: TypeResult, ThreadTrace: trace, Payload: payload}
}

// NewStatus builds a STATUS message reporting code/text, tagged with kind
// (e.g. "osrfConnectStatus", "osrfMethodException") for client display.
func NewStatus(trace int64, code StatusCode, text, kind string) Message {
	if text == "" {
		text = code.String()
	}
	return Message{Type: TypeStatus, ThreadTrace: trace, Code: code, Text: text, Kind: kind}
}

// Marshal encodes a single Message.
func Marshal(m Message) ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal decodes a single Message.
func Unmarshal(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}
