package session

import (
	"encoding/json"

	"github.com/evergreen-ils/osrf-go/core/message"
)

// WebsocketIngress tags every Message this gateway relays onto the bus, so a
// service can tell a request arrived through the WebSocket translator
// rather than some other bus client.
const WebsocketIngress = "ws-translator-v3"

// inboundFrame is the JSON shape of a text frame arriving from the browser.
// osrfMsg is read via json.RawMessage since it may be a single object or an
// array; decodeInnerMessages normalizes either shape to a slice.
type inboundFrame struct {
	Thread  string          `json:"thread"`
	Service string          `json:"service"`
	LogXid  string          `json:"log_xid"`
	OsrfMsg json.RawMessage `json:"osrf_msg"`
}

// outboundFrame is the JSON shape of a text frame sent to the browser. The
// "oxrf_xid" key is not a typo here: it is the wire protocol's own
// (misspelled) spelling of "osrf_xid", preserved for compatibility with
// existing peers rather than silently corrected.
type outboundFrame struct {
	OxrfXid        string            `json:"oxrf_xid"`
	Thread         string            `json:"thread"`
	OsrfMsg        []message.Message `json:"osrf_msg"`
	TransportError bool              `json:"transport_error,omitempty"`
}
